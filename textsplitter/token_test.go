package textsplitter_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docpipe/internal/testutil"
	"github.com/sevigo/docpipe/textsplitter"
)

// runeTokenizer treats every rune as one token.
type runeTokenizer struct{}

func (runeTokenizer) Encode(_ context.Context, text string) ([]int, error) {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens, nil
}

func (runeTokenizer) Decode(_ context.Context, tokens []int) (string, error) {
	runes := make([]rune, len(tokens))
	for i, tok := range tokens {
		runes[i] = rune(tok)
	}
	return string(runes), nil
}

// failingTokenizer simulates a tokenizer backend that is down.
type failingTokenizer struct{}

func (failingTokenizer) Encode(context.Context, string) ([]int, error) {
	return nil, errors.New("tokenizer service unreachable")
}

func (failingTokenizer) Decode(context.Context, []int) (string, error) {
	return "", errors.New("tokenizer service unreachable")
}

func TestNewToken_Validation(t *testing.T) {
	_, err := textsplitter.NewToken(textsplitter.WithMaxTokens(0))
	assert.ErrorIs(t, err, textsplitter.ErrInvalidChunkSize)

	_, err = textsplitter.NewToken(
		textsplitter.WithMaxTokens(10),
		textsplitter.WithTokenOverlap(10),
	)
	assert.ErrorIs(t, err, textsplitter.ErrInvalidOverlap)
}

func TestToken_SplitText(t *testing.T) {
	ctx := context.Background()

	t.Run("WordFallbackWithoutTokenizer", func(t *testing.T) {
		splitter, err := textsplitter.NewToken(
			textsplitter.WithMaxTokens(100),
			textsplitter.WithTokenOverlap(10),
		)
		require.NoError(t, err)

		text := strings.TrimSpace(strings.Repeat("word ", 1000))
		chunks, err := splitter.SplitText(ctx, text)
		require.NoError(t, err)
		assert.Greater(t, len(chunks), 5)

		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(strings.Fields(chunk)), 100)
		}
	})

	t.Run("ExactTokenizer", func(t *testing.T) {
		splitter, err := textsplitter.NewToken(
			textsplitter.WithMaxTokens(4),
			textsplitter.WithTokenOverlap(1),
			textsplitter.WithTokenizer(runeTokenizer{}),
		)
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "abcdefgh")
		require.NoError(t, err)
		assert.Equal(t, []string{"abcd", "defg", "gh"}, chunks)
	})

	t.Run("FailingTokenizerFallsBack", func(t *testing.T) {
		logger, buf := testutil.NewTestLogger(t)
		splitter, err := textsplitter.NewToken(
			textsplitter.WithMaxTokens(2),
			textsplitter.WithTokenOverlap(0),
			textsplitter.WithTokenizer(failingTokenizer{}),
			textsplitter.WithLogger(logger),
		)
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, "one two three four")
		require.NoError(t, err)
		assert.Equal(t, []string{"one two", "three four"}, chunks)
		assert.Contains(t, buf.String(), "falling back")
	})

	t.Run("EmptyInput", func(t *testing.T) {
		splitter, err := textsplitter.NewToken()
		require.NoError(t, err)

		chunks, err := splitter.SplitText(ctx, " ")
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})
}
