package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
	"github.com/React-ChatBotify/rag-api-sub000/internal/port"
)

// Chunker splits a markdown document into retrievable chunks.
type Chunker interface {
	Chunk(markdown, parentDocumentID string) []domain.Chunk
}

// DocumentService orchestrates the document lifecycle across the chunker,
// the embedding provider, the vector index, and the parent document store.
//
// The two stores are updated sequentially with no spanning transaction; a
// crash between the steps can leave orphaned chunks or a chunkless document.
// This is an accepted best-effort consistency model, converged by re-running
// the operation.
type DocumentService struct {
	ai      port.AIProvider
	vector  port.VectorIndex
	docs    port.DocumentStore
	chunker Chunker
}

// NewDocumentService creates a new document lifecycle service.
func NewDocumentService(ai port.AIProvider, vector port.VectorIndex, docs port.DocumentStore, chunker Chunker) *DocumentService {
	return &DocumentService{ai: ai, vector: vector, docs: docs, chunker: chunker}
}

// Create saves a document and indexes its chunks. A chunk whose embedding
// fails is skipped while the rest proceed; the operation as a whole still
// succeeds. An empty document saves the parent record only.
func (s *DocumentService) Create(ctx context.Context, documentID, content string) error {
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("%w: missing document id", port.ErrValidation)
	}

	if err := s.docs.Save(ctx, documentID, content); err != nil {
		return fmt.Errorf("save document %q: %w", documentID, err)
	}

	chunks := s.chunker.Chunk(content, documentID)
	if len(chunks) == 0 {
		slog.Info("document has no chunks, skipping index", "document_id", documentID)
		return nil
	}

	// Embeddings are generated one chunk at a time, in order, so that one
	// failure never affects the others' outcome.
	records := make([]domain.VectorRecord, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := s.ai.Embed(ctx, chunk.Text)
		if err != nil {
			slog.Warn("embedding failed, skipping chunk",
				"document_id", documentID, "chunk_id", chunk.ID, "error", err)
			continue
		}
		records = append(records, domain.VectorRecord{Chunk: chunk, Embedding: vector})
	}

	if len(records) == 0 {
		slog.Warn("no chunks survived embedding", "document_id", documentID, "chunks", len(chunks))
		return nil
	}

	if err := s.vector.Upsert(ctx, records); err != nil {
		return fmt.Errorf("index chunks for %q: %w", documentID, err)
	}

	slog.Info("document indexed", "document_id", documentID, "chunks", len(records), "skipped", len(chunks)-len(records))
	return nil
}

// Update replaces a document's content and all of its chunks.
func (s *DocumentService) Update(ctx context.Context, documentID, content string) error {
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("%w: missing document id", port.ErrValidation)
	}

	if err := s.deleteChunks(ctx, documentID); err != nil {
		return err
	}
	return s.Create(ctx, documentID, content)
}

// Delete removes a document and its chunks. Deleting a document that never
// existed succeeds.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if err := s.deleteChunks(ctx, documentID); err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %q: %w", documentID, err)
	}
	return nil
}

// GetContent reads a document's full content, or port.ErrNotFound.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	return s.docs.Get(ctx, documentID)
}

// ListIDs returns all known document identifiers.
func (s *DocumentService) ListIDs(ctx context.Context) ([]string, error) {
	return s.docs.ListIDs(ctx)
}

func (s *DocumentService) deleteChunks(ctx context.Context, documentID string) error {
	ids, err := s.vector.IDsByParent(ctx, documentID)
	if err != nil {
		return fmt.Errorf("locate chunks for %q: %w", documentID, err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.vector.DeleteByIDs(ctx, ids); err != nil {
		return fmt.Errorf("delete chunks for %q: %w", documentID, err)
	}
	return nil
}
