package port

import "errors"

// Sentinel errors used across ports. Every collaborator failure is
// re-classified into one of these at the service boundary so that no
// store- or provider-specific error shape leaks into handlers.
var (
	// ErrValidation marks malformed or missing required input.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidRAGType marks an unknown RAG strategy name.
	ErrInvalidRAGType = errors.New("invalid rag type")

	// ErrStoreNotReady means the backing store has not been initialized yet.
	// Callers should treat it as retriable (service unavailable).
	ErrStoreNotReady = errors.New("store not initialized")

	// ErrEmbedding means the embedding provider returned no usable vector.
	ErrEmbedding = errors.New("embedding failed")

	// ErrNotFound means the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUpstream means the LLM call itself failed.
	ErrUpstream = errors.New("upstream provider failed")
)
