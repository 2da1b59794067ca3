package textsplitter

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Sentence groups a fixed number of sentences into each chunk, repeating the
// trailing sentences of a chunk at the start of the next one.
//
// A sentence ends at '.', '!' or '?' followed by whitespace or the end of the
// text. Abbreviations such as "e.g." or "Mr." are not special-cased, so they
// terminate a sentence too; this is a known accuracy limitation.
type Sentence struct {
	opts options
}

var _ TextSplitter = (*Sentence)(nil)

// NewSentence creates a sentence-grouping splitter. The sentence overlap must
// be non-negative and strictly smaller than the group size.
func NewSentence(opts ...Option) (*Sentence, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxSentences <= 0 {
		return nil, fmt.Errorf("%w: max sentences must be positive, got %d", ErrInvalidChunkSize, o.maxSentences)
	}
	if o.overlapSentences < 0 || o.overlapSentences >= o.maxSentences {
		return nil, fmt.Errorf("%w: sentence overlap %d, max sentences %d",
			ErrInvalidOverlap, o.overlapSentences, o.maxSentences)
	}

	return &Sentence{opts: o}, nil
}

// SplitText splits the text into sentences and groups them. Chunks are joined
// with single spaces; empty input yields no chunks.
func (s *Sentence) SplitText(_ context.Context, text string) ([]string, error) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	step := s.opts.maxSentences - s.opts.overlapSentences

	var chunks []string
	for i := 0; i < len(sentences); i += step {
		end := i + s.opts.maxSentences
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, strings.Join(sentences[i:end], " "))
		if end == len(sentences) {
			break
		}
	}

	return chunks, nil
}

// splitSentences cuts text after sentence-ending punctuation followed by
// whitespace, trimming each piece and dropping empty ones.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}

		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	if start < len(runes) {
		if sentence := strings.TrimSpace(string(runes[start:])); sentence != "" {
			sentences = append(sentences, sentence)
		}
	}

	return sentences
}
