package textsplitter

import (
	"context"
	"fmt"
	"strings"
)

// Tokenizer is an interface for components that can encode text into model
// tokens and decode them back. It keeps the token splitter decoupled from any
// specific tokenization implementation.
type Tokenizer interface {
	Encode(ctx context.Context, text string) ([]int, error)
	Decode(ctx context.Context, tokens []int) (string, error)
}

// Token partitions text into chunks of at most maxTokens tokens with
// overlapTokens tokens repeated between consecutive chunks. When no tokenizer
// is configured, or the configured one fails at call time, whitespace-split
// words are counted as tokens instead; degraded tokenization is logged but
// never surfaced as an error.
type Token struct {
	opts options
}

var _ TextSplitter = (*Token)(nil)

// NewToken creates a token-budget splitter. The token overlap must be
// non-negative and strictly smaller than the budget.
func NewToken(opts ...Option) (*Token, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidChunkSize, o.maxTokens)
	}
	if o.overlapTokens < 0 || o.overlapTokens >= o.maxTokens {
		return nil, fmt.Errorf("%w: token overlap %d, max tokens %d",
			ErrInvalidOverlap, o.overlapTokens, o.maxTokens)
	}

	return &Token{opts: o}, nil
}

// SplitText splits the text by token count, using the configured tokenizer
// for exact counting when available.
func (s *Token) SplitText(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if s.opts.tokenizer != nil {
		chunks, err := s.splitWithTokenizer(ctx, text)
		if err == nil {
			return chunks, nil
		}
		s.opts.logger.Warn("tokenizer unavailable, falling back to word splitting", "error", err)
	}

	return s.splitByWords(text), nil
}

func (s *Token) splitWithTokenizer(ctx context.Context, text string) ([]string, error) {
	tokens, err := s.opts.tokenizer.Encode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("encode failed: %w", err)
	}

	step := s.opts.maxTokens - s.opts.overlapTokens

	var chunks []string
	for i := 0; i < len(tokens); i += step {
		end := i + s.opts.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}

		chunk, err := s.opts.tokenizer.Decode(ctx, tokens[i:end])
		if err != nil {
			return nil, fmt.Errorf("decode failed: %w", err)
		}
		if trimmed := strings.TrimSpace(chunk); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		if end == len(tokens) {
			break
		}
	}

	return chunks, nil
}

// splitByWords approximates tokens with whitespace-delimited words.
func (s *Token) splitByWords(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := s.opts.maxTokens - s.opts.overlapTokens

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + s.opts.maxTokens
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}

	return chunks
}
