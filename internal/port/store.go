package port

import (
	"context"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
)

// VectorIndex is the set of operations the core issues against the vector
// store. All operations fail with ErrStoreNotReady before initialization.
type VectorIndex interface {
	// Upsert adds chunk records with their embeddings. Ids are freshly
	// generated per chunk, so collisions are not expected.
	Upsert(ctx context.Context, records []domain.VectorRecord) error

	// IDsByParent returns the ids of all chunks belonging to a document.
	IDsByParent(ctx context.Context, parentDocumentID string) ([]string, error)

	// DeleteByIDs removes records. Absent ids are not an error.
	DeleteByIDs(ctx context.Context, ids []string) error

	// Query returns the top-k records by similarity to the given embedding,
	// ordered similarity-descending. Tie order is the store's and must not
	// be assumed stable across calls.
	Query(ctx context.Context, embedding []float32, k int) ([]domain.RetrievedChunk, error)
}

// DocumentStore persists full parent-document text by document id.
type DocumentStore interface {
	// Save upserts a document: creates if absent, overwrites if present.
	Save(ctx context.Context, documentID, content string) error

	// Get returns a document's content, or ErrNotFound.
	Get(ctx context.Context, documentID string) (string, error)

	// Delete removes a document. Absence is not an error.
	Delete(ctx context.Context, documentID string) error

	// ListIDs returns all known document identifiers.
	ListIDs(ctx context.Context) ([]string, error)
}
