package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
)

// VectorStore handles pgvector-specific operations on the chunks table.
// It implements port.VectorIndex and shares the lifecycle state of the
// underlying Postgres store.
type VectorStore struct {
	store     *PostgresStore
	dimension int
}

// NewVectorStore creates a vector store backed by the given Postgres store.
func NewVectorStore(store *PostgresStore, dimension int) *VectorStore {
	return &VectorStore{store: store, dimension: dimension}
}

// Upsert persists chunk records with their embeddings in one transaction.
func (v *VectorStore) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if err := v.store.guard(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, parent_document_id, text_chunk, embedding)
		 VALUES ($1, $2, $3, $4::vector)
		 ON CONFLICT (id) DO UPDATE SET
		     parent_document_id = EXCLUDED.parent_document_id,
		     text_chunk = EXCLUDED.text_chunk,
		     embedding = EXCLUDED.embedding`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		vectorStr := vectorToString(r.Embedding)
		if _, err := stmt.ExecContext(ctx, r.ID, r.ParentDocumentID, r.Text, vectorStr); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}

	return tx.Commit()
}

// IDsByParent returns the ids of all chunks belonging to a document.
func (v *VectorStore) IDsByParent(ctx context.Context, parentDocumentID string) ([]string, error) {
	if err := v.store.guard(); err != nil {
		return nil, err
	}

	rows, err := v.store.db.QueryContext(ctx,
		`SELECT id FROM chunks WHERE parent_document_id = $1`, parentDocumentID)
	if err != nil {
		return nil, fmt.Errorf("chunk ids by parent: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan chunk id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByIDs removes chunk records. Absent ids are not an error.
func (v *VectorStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if err := v.store.guard(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	_, err := v.store.db.ExecContext(ctx,
		`DELETE FROM chunks WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// Query performs a cosine similarity search over all chunks, returning the
// top-k results with the parent document's full content denormalized in.
func (v *VectorStore) Query(ctx context.Context, embedding []float32, k int) ([]domain.RetrievedChunk, error) {
	if err := v.store.guard(); err != nil {
		return nil, err
	}

	vectorStr := vectorToString(embedding)
	query := `SELECT c.id, c.text_chunk, c.parent_document_id, COALESCE(d.content, ''),
	                 1 - (c.embedding <=> $1::vector) AS similarity
	          FROM chunks c
	          LEFT JOIN documents d ON d.id = c.parent_document_id
	          ORDER BY c.embedding <=> $1::vector
	          LIMIT $2`

	rows, err := v.store.db.QueryContext(ctx, query, vectorStr, k)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		var rc domain.RetrievedChunk
		if err := rows.Scan(&rc.ID, &rc.Text, &rc.ParentDocumentID, &rc.ParentContent, &rc.Similarity); err != nil {
			return nil, fmt.Errorf("scan retrieved chunk: %w", err)
		}
		results = append(results, rc)
	}
	return results, rows.Err()
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
