package port

import (
	"context"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
)

// AIProvider abstracts the AI/LLM backend for embeddings and chat completions.
// Implementations can target Ollama, OpenAI, or any compatible API.
type AIProvider interface {
	// ModelName returns the identifier of the chat model being used.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call,
	// preserving order and length.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Chat sends a full conversation and returns the LLM response.
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)

	// ChatStream sends a full conversation and streams the response
	// token-by-token via channel. An upstream failure after the stream has
	// begun is delivered as a final chunk with Err set. The channel is
	// closed when the stream ends or the context is cancelled.
	ChatStream(ctx context.Context, messages []domain.ChatMessage) (<-chan domain.StreamChunk, error)
}
