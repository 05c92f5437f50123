package service

import (
	"context"
	"fmt"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
	"github.com/React-ChatBotify/rag-api-sub000/internal/port"
)

// fakeAI implements port.AIProvider with programmable behavior and call
// recording.
type fakeAI struct {
	embedFn func(text string) ([]float32, error)
	chatFn  func(messages []domain.ChatMessage) (string, error)

	embedCalls []string
	chatCalls  [][]domain.ChatMessage
}

func (f *fakeAI) ModelName() string { return "fake" }

func (f *fakeAI) Embed(_ context.Context, text string) ([]float32, error) {
	f.embedCalls = append(f.embedCalls, text)
	if f.embedFn != nil {
		return f.embedFn(text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeAI) Chat(_ context.Context, messages []domain.ChatMessage) (string, error) {
	f.chatCalls = append(f.chatCalls, messages)
	if f.chatFn != nil {
		return f.chatFn(messages)
	}
	return "answer", nil
}

func (f *fakeAI) ChatStream(ctx context.Context, messages []domain.ChatMessage) (<-chan domain.StreamChunk, error) {
	answer, err := f.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}
	ch := make(chan domain.StreamChunk, 1)
	ch <- domain.StreamChunk{Content: answer}
	close(ch)
	return ch, nil
}

// fakeVector implements port.VectorIndex in memory with call recording.
type fakeVector struct {
	queryResult []domain.RetrievedChunk
	queryErr    error

	records     map[string]domain.VectorRecord
	upsertCalls [][]domain.VectorRecord
	deleteCalls [][]string
	queryCalls  []int // k per call
}

func newFakeVector() *fakeVector {
	return &fakeVector{records: make(map[string]domain.VectorRecord)}
}

func (f *fakeVector) Upsert(_ context.Context, records []domain.VectorRecord) error {
	f.upsertCalls = append(f.upsertCalls, records)
	for _, r := range records {
		f.records[r.ID] = r
	}
	return nil
}

func (f *fakeVector) IDsByParent(_ context.Context, parentDocumentID string) ([]string, error) {
	var ids []string
	for id, r := range f.records {
		if r.ParentDocumentID == parentDocumentID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeVector) DeleteByIDs(_ context.Context, ids []string) error {
	f.deleteCalls = append(f.deleteCalls, ids)
	for _, id := range ids {
		delete(f.records, id)
	}
	return nil
}

func (f *fakeVector) Query(_ context.Context, _ []float32, k int) ([]domain.RetrievedChunk, error) {
	f.queryCalls = append(f.queryCalls, k)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryResult, nil
}

// fakeDocs implements port.DocumentStore in memory.
type fakeDocs struct {
	contents map[string]string
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{contents: make(map[string]string)}
}

func (f *fakeDocs) Save(_ context.Context, documentID, content string) error {
	f.contents[documentID] = content
	return nil
}

func (f *fakeDocs) Get(_ context.Context, documentID string) (string, error) {
	content, ok := f.contents[documentID]
	if !ok {
		return "", fmt.Errorf("%w: %s", port.ErrNotFound, documentID)
	}
	return content, nil
}

func (f *fakeDocs) Delete(_ context.Context, documentID string) error {
	delete(f.contents, documentID)
	return nil
}

func (f *fakeDocs) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.contents))
	for id := range f.contents {
		ids = append(ids, id)
	}
	return ids, nil
}
