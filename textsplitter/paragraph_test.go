package textsplitter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docpipe/textsplitter"
)

func TestNewParagraph_Validation(t *testing.T) {
	_, err := textsplitter.NewParagraph(textsplitter.WithMaxParagraphs(0))
	assert.ErrorIs(t, err, textsplitter.ErrInvalidChunkSize)

	_, err = textsplitter.NewParagraph(textsplitter.WithMaxParagraphs(-3))
	assert.ErrorIs(t, err, textsplitter.ErrInvalidChunkSize)
}

func TestParagraph_SplitText(t *testing.T) {
	ctx := context.Background()

	t.Run("OnePerChunk", func(t *testing.T) {
		splitter, err := textsplitter.NewParagraph(textsplitter.WithMaxParagraphs(1))
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "Para one.\n\nPara two.\n\nPara three.")
		require.NoError(t, err)
		assert.Equal(t, []string{"Para one.", "Para two.", "Para three."}, chunks)
	})

	t.Run("Grouping", func(t *testing.T) {
		splitter, err := textsplitter.NewParagraph(textsplitter.WithMaxParagraphs(2))
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "A\n\nB\n\nC")
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "A\n\nB", chunks[0])
		assert.Equal(t, "C", chunks[1])
	})

	t.Run("BlankParagraphsDropped", func(t *testing.T) {
		splitter, err := textsplitter.NewParagraph(textsplitter.WithMaxParagraphs(1))
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "A\n\n   \n\n\n\nB")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, chunks)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		splitter, err := textsplitter.NewParagraph()
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "\n\n\n")
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})
}
