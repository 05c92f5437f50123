package domain

// ChatMessage is a single role-tagged turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamChunk is one event on a streaming LLM response: a token, or a
// terminal error if the upstream failed after the stream had already begun.
type StreamChunk struct {
	Content string
	Err     error
}

// RAG strategy constants. Basic assembles context from chunk text; advanced
// assembles it from deduplicated parent-document content.
const (
	RAGTypeBasic    = "basic"
	RAGTypeAdvanced = "advanced"
)
