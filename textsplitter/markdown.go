package textsplitter

import (
	"context"
	"fmt"
	"maps"
	"strings"
)

// HeaderSplitter is the contract both markdown backends satisfy: detect the
// configured header lines and cut the document into per-section chunks with
// hierarchical header metadata.
type HeaderSplitter interface {
	Split(text string, specs []HeaderSpec, stripHeaders bool) ([]Chunk, error)
}

// MarkdownHeader splits a markdown document at configured header levels,
// producing one chunk per section. Each chunk carries metadata mapping the
// configured labels to the nearest preceding header text at that level, so a
// section nested under "## B" inside "# A" is tagged with both titles.
//
// Splitting is delegated to a HeaderSplitter backend. The default backend
// parses the document with goldmark; when it cannot handle the configured
// markers or fails at call time, the built-in line scanner takes over and the
// degradation is logged, never returned as an error.
type MarkdownHeader struct {
	opts     options
	fallback HeaderSplitter
}

// NewMarkdownHeader creates a markdown-header splitter. With no explicit
// header specs it splits on "#", "##" and "###".
func NewMarkdownHeader(opts ...Option) (*MarkdownHeader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.headersToSplitOn == nil {
		o.headersToSplitOn = DefaultHeadersToSplitOn
	}
	if len(o.headersToSplitOn) == 0 {
		return nil, ErrNoHeaders
	}
	for _, spec := range o.headersToSplitOn {
		if spec.Marker == "" || spec.Label == "" {
			return nil, fmt.Errorf("%w: marker and label must be set", ErrNoHeaders)
		}
	}

	if o.headerSplitter == nil {
		o.headerSplitter = NewGoldmarkHeaderSplitter()
	}

	return &MarkdownHeader{
		opts:     o,
		fallback: NewLineScanHeaderSplitter(),
	}, nil
}

// Split cuts the document into sections with header metadata. Content before
// the first configured header forms an initial chunk with empty metadata; a
// document without headers yields a single such chunk.
func (s *MarkdownHeader) Split(_ context.Context, text string) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	chunks, err := s.opts.headerSplitter.Split(text, s.opts.headersToSplitOn, s.opts.stripHeaders)
	if err != nil {
		s.opts.logger.Warn("markdown backend unavailable, using line scanner", "error", err)
		return s.fallback.Split(text, s.opts.headersToSplitOn, s.opts.stripHeaders)
	}
	return chunks, nil
}

// SplitText returns the section contents without metadata, satisfying the
// TextSplitter contract.
func (s *MarkdownHeader) SplitText(ctx context.Context, text string) ([]string, error) {
	chunks, err := s.Split(ctx, text)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(chunks))
	for i, chunk := range chunks {
		out[i] = chunk.Content
	}
	return out, nil
}

var _ TextSplitter = (*MarkdownHeader)(nil)

// SplitMarkdownByLevel3Headers is a convenience wrapper that splits only on
// "###" headers and returns plain section strings.
func SplitMarkdownByLevel3Headers(ctx context.Context, text string, stripHeaders bool) ([]string, error) {
	splitter, err := NewMarkdownHeader(
		WithHeadersToSplitOn([]HeaderSpec{{Marker: "###", Label: "h3"}}),
		WithStripHeaders(stripHeaders),
	)
	if err != nil {
		return nil, err
	}
	return splitter.SplitText(ctx, text)
}

// headerMark is a detected split point: which spec matched, the header title
// and the line the header sits on.
type headerMark struct {
	specIndex int
	title     string
	line      int
}

// assembleSections turns detected header marks into chunks, maintaining the
// header hierarchy: a mark at some level resets all deeper configured levels.
func assembleSections(lines []string, marks []headerMark, specs []HeaderSpec, stripHeaders bool) []Chunk {
	var chunks []Chunk
	meta := make(map[string]string)

	emit := func(sectionLines []string) {
		content := strings.TrimSpace(strings.Join(sectionLines, "\n"))
		if content == "" {
			return
		}
		metadata := make(map[string]string, len(meta))
		maps.Copy(metadata, meta)
		chunks = append(chunks, Chunk{Content: content, Metadata: metadata})
	}

	if len(marks) == 0 {
		emit(lines)
		return chunks
	}

	if marks[0].line > 0 {
		emit(lines[:marks[0].line])
	}

	for i, mark := range marks {
		for j := mark.specIndex + 1; j < len(specs); j++ {
			delete(meta, specs[j].Label)
		}
		meta[specs[mark.specIndex].Label] = mark.title

		start := mark.line
		if stripHeaders {
			start++
		}
		end := len(lines)
		if i+1 < len(marks) {
			end = marks[i+1].line
		}
		if start < end {
			emit(lines[start:end])
		}
	}

	return chunks
}
