package textsplitter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docpipe/textsplitter"
)

func TestNewSentence_Validation(t *testing.T) {
	_, err := textsplitter.NewSentence(textsplitter.WithMaxSentences(0))
	assert.ErrorIs(t, err, textsplitter.ErrInvalidChunkSize)

	_, err = textsplitter.NewSentence(
		textsplitter.WithMaxSentences(2),
		textsplitter.WithSentenceOverlap(2),
	)
	assert.ErrorIs(t, err, textsplitter.ErrInvalidOverlap)

	_, err = textsplitter.NewSentence(
		textsplitter.WithMaxSentences(3),
		textsplitter.WithSentenceOverlap(5),
	)
	assert.ErrorIs(t, err, textsplitter.ErrInvalidOverlap)
}

func TestSentence_SplitText(t *testing.T) {
	ctx := context.Background()

	t.Run("GroupsWithOverlap", func(t *testing.T) {
		splitter, err := textsplitter.NewSentence(
			textsplitter.WithMaxSentences(2),
			textsplitter.WithSentenceOverlap(1),
		)
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "First. Second. Third. Fourth.")
		require.NoError(t, err)
		require.Equal(t, []string{
			"First. Second.",
			"Second. Third.",
			"Third. Fourth.",
		}, chunks)
	})

	t.Run("QuestionAndExclamation", func(t *testing.T) {
		splitter, err := textsplitter.NewSentence(
			textsplitter.WithMaxSentences(1),
			textsplitter.WithSentenceOverlap(0),
		)
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "Really? Yes! Good.")
		require.NoError(t, err)
		assert.Equal(t, []string{"Really?", "Yes!", "Good."}, chunks)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		splitter, err := textsplitter.NewSentence()
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "  \n ")
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("NoTerminatorIsOneSentence", func(t *testing.T) {
		splitter, err := textsplitter.NewSentence(textsplitter.WithMaxSentences(2))
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "no punctuation at all")
		require.NoError(t, err)
		assert.Equal(t, []string{"no punctuation at all"}, chunks)
	})

	// Abbreviations are not special-cased: "e.g." ends a sentence. This is
	// a known accuracy limitation, asserted here so a behavior change is
	// noticed rather than silent.
	t.Run("AbbreviationLimitation", func(t *testing.T) {
		splitter, err := textsplitter.NewSentence(
			textsplitter.WithMaxSentences(1),
			textsplitter.WithSentenceOverlap(0),
		)
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "See e.g. the manual.")
		require.NoError(t, err)
		assert.Equal(t, []string{"See e.g.", "the manual."}, chunks)
	})
}
