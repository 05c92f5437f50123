// Package chunker splits markdown documents into ordered, non-empty text
// chunks suitable for embedding and retrieval.
package chunker

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
)

// MarkdownChunker splits a markdown document on top-level block boundaries.
// Each heading, paragraph, list, or code block becomes one candidate chunk;
// markup is stripped and empty candidates are discarded. The text sequence is
// deterministic for the same input; chunk ids are freshly generated per call.
type MarkdownChunker struct {
	parser parser.Parser
}

// New creates a markdown chunker.
func New() *MarkdownChunker {
	return &MarkdownChunker{parser: goldmark.New().Parser()}
}

// Chunk splits markdown into chunks tagged with parentDocumentID.
// Empty or whitespace-only input yields zero chunks, which is not an error.
func (c *MarkdownChunker) Chunk(markdown, parentDocumentID string) []domain.Chunk {
	src := []byte(markdown)
	doc := c.parser.Parse(text.NewReader(src))

	var chunks []domain.Chunk
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		plain := strings.TrimSpace(blockText(src, node))
		if plain == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:               uuid.NewString(),
			ParentDocumentID: parentDocumentID,
			Text:             plain,
		})
	}
	return chunks
}

// blockText extracts the plain text of a block node, stripping all markup.
// Nested block children (list items, blockquote paragraphs) are joined with
// newlines; inline children are concatenated.
func blockText(src []byte, n ast.Node) string {
	switch t := n.(type) {
	case *ast.Text:
		val := string(t.Segment.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			val += "\n"
		}
		return val
	case *ast.String:
		return string(t.Value)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return rawLines(src, n)
	case *ast.HTMLBlock, *ast.RawHTML:
		return ""
	}

	var parts []string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if part := blockText(src, child); part != "" {
			parts = append(parts, part)
		}
	}

	sep := ""
	if first := n.FirstChild(); first != nil && first.Type() == ast.TypeBlock {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}

// rawLines concatenates the source lines covered by a code block.
func rawLines(src []byte, n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}
