package domain

import "time"

// Document is a unit of knowledge content. The full markdown text is the
// canonical source of truth; chunks are derived from it.
type Document struct {
	ID        string    `json:"document_id" db:"id"`
	Content   string    `json:"content"     db:"content"`
	CreatedAt time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt time.Time `json:"updated_at"  db:"updated_at"`
}

// Chunk is a retrievable fragment derived from a document. Many chunks
// reference one parent document; a chunk never outlives an update or delete
// of its parent.
type Chunk struct {
	ID               string `json:"id"                 db:"id"`
	ParentDocumentID string `json:"parent_document_id" db:"parent_document_id"`
	Text             string `json:"text_chunk"         db:"text_chunk"`
}

// VectorRecord is the persisted unit in the vector index: a chunk plus its
// embedding.
type VectorRecord struct {
	Chunk
	Embedding []float32 `json:"-" db:"embedding"`
}

// RetrievedChunk is a vector index record returned from a similarity query.
// It exists only for the duration of one retrieval call. ParentContent is the
// denormalized full text of the parent document; either it or Text may be
// empty if the record was stored without the corresponding field.
type RetrievedChunk struct {
	ID               string  `json:"id"`
	Text             string  `json:"text_chunk"`
	ParentDocumentID string  `json:"parent_document_id"`
	ParentContent    string  `json:"-"`
	Similarity       float64 `json:"similarity"`
}
