package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/React-ChatBotify/rag-api-sub000/internal/chunker"
)

// fakeSource implements port.SyncSource from an in-memory file map.
type fakeSource struct {
	commit string
	files  map[string]string
}

func (f *fakeSource) Refresh(context.Context) (string, error) {
	return f.commit, nil
}

func (f *fakeSource) ListMarkdownFiles(context.Context) ([]string, error) {
	paths := make([]string, 0, len(f.files))
	for p := range f.files {
		paths = append(paths, p)
	}
	return paths, nil
}

func (f *fakeSource) ReadFile(_ context.Context, relPath string) ([]byte, error) {
	content, ok := f.files[relPath]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", relPath)
	}
	return []byte(content), nil
}

func TestSyncCreatesUpdatesAndDeletes(t *testing.T) {
	docs := newFakeDocs()
	documents := NewDocumentService(&fakeAI{}, newFakeVector(), docs, chunker.New())

	// Already-synced state: one stale file, one up to date, one removed
	// upstream, plus an API-created document the sync must not touch.
	docs.contents["intro.md"] = "old intro"
	docs.contents["faq.md"] = "Frequently asked."
	docs.contents["gone.md"] = "obsolete"
	docs.contents["api-doc"] = "created through the API"

	source := &fakeSource{
		commit: "abc123",
		files: map[string]string{
			"intro.md": "new intro",
			"faq.md":   "Frequently asked.",
			"fresh.md": "Brand new page.",
		},
	}

	svc := NewSyncService(source, documents)
	report, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "abc123", report.Commit)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 1, report.Unchanged)

	assert.Equal(t, "new intro", docs.contents["intro.md"])
	assert.Equal(t, "Brand new page.", docs.contents["fresh.md"])
	assert.NotContains(t, docs.contents, "gone.md")
	assert.Contains(t, docs.contents, "api-doc")
}

func TestSyncReportsProgress(t *testing.T) {
	documents := NewDocumentService(&fakeAI{}, newFakeVector(), newFakeDocs(), chunker.New())
	source := &fakeSource{
		commit: "def456",
		files: map[string]string{
			"a.md": "A",
			"b.md": "B",
		},
	}

	var calls []int
	svc := NewSyncService(source, documents)
	_, err := svc.Run(context.Background(), func(done, total int) {
		assert.Equal(t, 2, total)
		calls = append(calls, done)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, calls)
}
