package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSplitsOnTopLevelBlocks(t *testing.T) {
	c := New()

	chunks := c.Chunk("# Title\n\nParagraph 1.\n\nParagraph 2.", "doc-1")

	require.Len(t, chunks, 3)
	assert.Equal(t, "Title", chunks[0].Text)
	assert.Equal(t, "Paragraph 1.", chunks[1].Text)
	assert.Equal(t, "Paragraph 2.", chunks[2].Text)
	for _, chunk := range chunks {
		assert.Equal(t, "doc-1", chunk.ParentDocumentID)
		assert.NotEmpty(t, chunk.ID)
	}
}

func TestChunkStripsInlineMarkup(t *testing.T) {
	c := New()

	chunks := c.Chunk("Some **bold** and *italic* and a [link](https://example.com).", "doc")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Some bold and italic and a link.", chunks[0].Text)
}

func TestChunkEmptyInputYieldsNoChunks(t *testing.T) {
	c := New()

	assert.Empty(t, c.Chunk("", "doc"))
	assert.Empty(t, c.Chunk("   \n\n\t  ", "doc"))
}

func TestChunkTextsAreNonEmptyAndTrimmed(t *testing.T) {
	c := New()

	inputs := []string{
		"# H\n\n\n\nbody\n\n",
		"- item one\n- item two\n",
		"```\ncode line\n```\n\ntext",
		"> quoted\n\nplain",
	}
	for _, input := range inputs {
		for _, chunk := range c.Chunk(input, "doc") {
			assert.NotEmpty(t, chunk.Text)
			assert.Equal(t, chunk.Text, strings.TrimSpace(chunk.Text))
		}
	}
}

func TestChunkTextSequenceIsDeterministic(t *testing.T) {
	c := New()
	markdown := "# Heading\n\nFirst paragraph.\n\n- a\n- b\n\nLast one."

	first := c.Chunk(markdown, "doc")
	second := c.Chunk(markdown, "doc")

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Text, second[i].Text)
		// Ids are freshly generated per call.
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}
}
