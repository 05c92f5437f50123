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

// Prompt labels for the two augmentation strategies.
const (
	basicContextLabel    = "Relevant Text Chunks"
	advancedContextLabel = "Relevant Information from Parent Documents"
	contextSeparator     = "\n---\n"
)

// QueryRequest is a resolved query against the RAG engine. Either Query or
// History must be non-empty; when History is set, the retrieval query is
// derived from its trailing window and the augmented prompt replaces the
// last message before the conversation is forwarded to the LLM.
type QueryRequest struct {
	Query      string
	History    []domain.ChatMessage
	RAGType    string
	TopK       int
	WindowSize int
}

// QueryResult is the batched answer for a query plus the augmented prompt
// that produced it.
type QueryResult struct {
	Answer string `json:"answer"`
	Prompt string `json:"prompt"`
}

// RAGService is the retrieval-augmentation engine: it embeds the retrieval
// query, fetches similar chunks from the vector index, and assembles the
// augmented prompt sent to the LLM.
type RAGService struct {
	ai          port.AIProvider
	vector      port.VectorIndex
	defaultTopK int
}

// NewRAGService creates a new RAG service. defaultTopK is used when a query
// does not supply a positive k.
func NewRAGService(ai port.AIProvider, vector port.VectorIndex, defaultTopK int) *RAGService {
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	return &RAGService{ai: ai, vector: vector, defaultTopK: defaultTopK}
}

// Augment builds the augmented prompt for a retrieval query. When the index
// returns no chunks, or no usable context can be extracted from them, the
// original query is returned unmodified; neither case is an error.
func (s *RAGService) Augment(ctx context.Context, query, ragType string, k int) (string, error) {
	ragType, err := normalizeRAGType(ragType)
	if err != nil {
		return "", err
	}
	if k <= 0 {
		k = s.defaultTopK
	}

	queryVector, err := s.ai.Embed(ctx, query)
	if err != nil {
		// There is no meaningful retrieval without a query vector.
		return "", fmt.Errorf("embed query: %w", classifyEmbedErr(err))
	}

	chunks, err := s.vector.Query(ctx, queryVector, k)
	if err != nil {
		return "", fmt.Errorf("similarity query: %w", err)
	}

	if len(chunks) == 0 {
		slog.Info("no chunks retrieved, passing query through", "rag_type", ragType, "k", k)
		return query, nil
	}

	contextParts := extractContext(chunks, ragType)
	if len(contextParts) == 0 {
		slog.Debug("retrieved chunks carried no usable context, passing query through",
			"rag_type", ragType, "chunks", len(chunks))
		return query, nil
	}

	label := basicContextLabel
	if ragType == domain.RAGTypeAdvanced {
		label = advancedContextLabel
	}

	return fmt.Sprintf(
		"User Query: %s\n\n%s:%s%s%sBased on the relevant information above, answer the user query.",
		query, label, contextSeparator, strings.Join(contextParts, contextSeparator), contextSeparator,
	), nil
}

// Query performs a full RAG round trip and returns the batched answer.
func (s *RAGService) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	messages, prompt, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	answer, err := s.ai.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrUpstream, err)
	}
	return &QueryResult{Answer: answer, Prompt: prompt}, nil
}

// QueryStream performs a full RAG round trip with a streaming answer. Tokens
// are relayed as they arrive from the upstream provider; closing the context
// stops the relay.
func (s *RAGService) QueryStream(ctx context.Context, req QueryRequest) (<-chan domain.StreamChunk, string, error) {
	messages, prompt, err := s.prepare(ctx, req)
	if err != nil {
		return nil, "", err
	}

	stream, err := s.ai.ChatStream(ctx, messages)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", port.ErrUpstream, err)
	}
	return stream, prompt, nil
}

// prepare validates the request, derives the retrieval query, augments it,
// and assembles the conversation to forward to the LLM.
func (s *RAGService) prepare(ctx context.Context, req QueryRequest) ([]domain.ChatMessage, string, error) {
	// Validate the strategy before any retrieval work happens.
	if _, err := normalizeRAGType(req.RAGType); err != nil {
		return nil, "", err
	}
	if req.WindowSize < 0 {
		return nil, "", fmt.Errorf("%w: window size must be non-negative", port.ErrValidation)
	}

	retrieval := req.Query
	if len(req.History) > 0 {
		retrieval = retrievalQuery(req.History, req.WindowSize)
	}
	if strings.TrimSpace(retrieval) == "" {
		return nil, "", fmt.Errorf("%w: empty query", port.ErrValidation)
	}

	slog.Info("RAG query", "rag_type", req.RAGType, "k", req.TopK, "turns", len(req.History))

	prompt, err := s.Augment(ctx, retrieval, req.RAGType, req.TopK)
	if err != nil {
		return nil, "", err
	}

	var messages []domain.ChatMessage
	if len(req.History) > 0 {
		messages = injectPrompt(req.History, prompt)
	} else {
		messages = []domain.ChatMessage{{Role: "user", Content: prompt}}
	}
	return messages, prompt, nil
}

// extractContext collects context strings from retrieved chunks according to
// the strategy. Basic takes each chunk's stored text in rank order, falling
// back to the raw parent content when the text field is absent. Advanced
// takes parent-document content deduplicated by value in first-seen order.
func extractContext(chunks []domain.RetrievedChunk, ragType string) []string {
	var parts []string

	if ragType == domain.RAGTypeAdvanced {
		seen := make(map[string]struct{}, len(chunks))
		for _, c := range chunks {
			content := c.ParentContent
			if content == "" {
				continue
			}
			if _, dup := seen[content]; dup {
				continue
			}
			seen[content] = struct{}{}
			parts = append(parts, content)
		}
		return parts
	}

	for _, c := range chunks {
		text := c.Text
		if text == "" {
			text = c.ParentContent
		}
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return parts
}

// retrievalQuery derives the retrieval query from a conversation: the
// trailing windowSize messages' content joined by newline. A windowSize of 0,
// or one covering the whole conversation, uses all messages.
func retrievalQuery(messages []domain.ChatMessage, windowSize int) string {
	if windowSize > 0 && windowSize < len(messages) {
		messages = messages[len(messages)-windowSize:]
	}
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = m.Content
	}
	return strings.Join(parts, "\n")
}

// injectPrompt returns a copy of the conversation with the augmented prompt
// replacing the content of the last message. Earlier turns pass through
// unmodified so the model keeps the full conversational context.
func injectPrompt(history []domain.ChatMessage, prompt string) []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(history))
	copy(out, history)
	out[len(out)-1].Content = prompt
	return out
}

// normalizeRAGType resolves the strategy name, defaulting to basic.
func normalizeRAGType(ragType string) (string, error) {
	switch ragType {
	case "", domain.RAGTypeBasic:
		return domain.RAGTypeBasic, nil
	case domain.RAGTypeAdvanced:
		return domain.RAGTypeAdvanced, nil
	default:
		return "", fmt.Errorf("%w: %q", port.ErrInvalidRAGType, ragType)
	}
}

// classifyEmbedErr folds provider-specific embedding failures into the
// ErrEmbedding taxonomy without double-wrapping.
func classifyEmbedErr(err error) error {
	if errors.Is(err, port.ErrEmbedding) {
		return err
	}
	return fmt.Errorf("%w: %v", port.ErrEmbedding, err)
}
