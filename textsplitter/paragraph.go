package textsplitter

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Paragraph groups consecutive paragraphs into chunks. A paragraph break is
// two or more consecutive newlines; whitespace-only paragraphs are dropped
// before grouping. There is no overlap between chunks.
type Paragraph struct {
	opts options
}

var _ TextSplitter = (*Paragraph)(nil)

// NewParagraph creates a paragraph-grouping splitter.
func NewParagraph(opts ...Option) (*Paragraph, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxParagraphs <= 0 {
		return nil, fmt.Errorf("%w: max paragraphs must be positive, got %d", ErrInvalidChunkSize, o.maxParagraphs)
	}

	return &Paragraph{opts: o}, nil
}

// SplitText splits on blank lines, groups every maxParagraphs paragraphs and
// rejoins them with a blank line.
func (s *Paragraph) SplitText(_ context.Context, text string) ([]string, error) {
	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	if len(paragraphs) == 0 {
		return nil, nil
	}

	var chunks []string
	for i := 0; i < len(paragraphs); i += s.opts.maxParagraphs {
		end := i + s.opts.maxParagraphs
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		chunks = append(chunks, strings.Join(paragraphs[i:end], "\n\n"))
	}

	return chunks, nil
}
