package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
	"github.com/React-ChatBotify/rag-api-sub000/internal/port"
)

// SyncService mirrors the markdown files of a remote Git repository into the
// document corpus: changed files are re-uploaded through the document
// lifecycle, removed files are deleted. Document ids are the slash-separated
// relative paths of the files, which is also how synced documents are told
// apart from API-created ones.
type SyncService struct {
	source    port.SyncSource
	documents *DocumentService
}

// NewSyncService creates a new Git corpus sync service.
func NewSyncService(source port.SyncSource, documents *DocumentService) *SyncService {
	return &SyncService{source: source, documents: documents}
}

// Run performs one sync pass. progress, if non-nil, is called after each file
// is considered with the number of files done and the total.
func (s *SyncService) Run(ctx context.Context, progress func(done, total int)) (domain.SyncReport, error) {
	var report domain.SyncReport

	commit, err := s.source.Refresh(ctx)
	if err != nil {
		return report, fmt.Errorf("refresh source: %w", err)
	}
	report.Commit = commit

	files, err := s.source.ListMarkdownFiles(ctx)
	if err != nil {
		return report, fmt.Errorf("list files: %w", err)
	}

	slog.Info("sync pass started", "commit", commit, "files", len(files))

	inRepo := make(map[string]struct{}, len(files))
	for i, relPath := range files {
		inRepo[relPath] = struct{}{}

		data, err := s.source.ReadFile(ctx, relPath)
		if err != nil {
			return report, fmt.Errorf("read %s: %w", relPath, err)
		}
		content := string(data)

		stored, err := s.documents.GetContent(ctx, relPath)
		switch {
		case errors.Is(err, port.ErrNotFound):
			if err := s.documents.Create(ctx, relPath, content); err != nil {
				return report, fmt.Errorf("create %s: %w", relPath, err)
			}
			report.Created++
		case err != nil:
			return report, fmt.Errorf("get %s: %w", relPath, err)
		case stored == content:
			report.Unchanged++
		default:
			if err := s.documents.Update(ctx, relPath, content); err != nil {
				return report, fmt.Errorf("update %s: %w", relPath, err)
			}
			report.Updated++
		}

		if progress != nil {
			progress(i+1, len(files))
		}
	}

	// Remove synced documents whose source file disappeared. Documents
	// created through the API never carry a markdown-path id, so they are
	// left alone.
	ids, err := s.documents.ListIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("list documents: %w", err)
	}
	for _, id := range ids {
		if !strings.HasSuffix(id, ".md") {
			continue
		}
		if _, ok := inRepo[id]; ok {
			continue
		}
		if err := s.documents.Delete(ctx, id); err != nil {
			return report, fmt.Errorf("delete %s: %w", id, err)
		}
		report.Deleted++
	}

	slog.Info("sync pass finished",
		"commit", commit,
		"created", report.Created, "updated", report.Updated,
		"deleted", report.Deleted, "unchanged", report.Unchanged)
	return report, nil
}
