package textsplitter

import (
	"context"
	"fmt"
	"strings"
)

// sentence and paragraph boundaries, in preference order
var boundaryDelimiters = []string{". ", "! ", "? ", "\n\n"}

// Character splits text into chunks of at most chunkSize characters with
// chunkOverlap characters repeated between consecutive chunks. Cut points
// prefer to land just after a sentence or paragraph boundary found within a
// lookback window near the size limit; a hard cut is used otherwise.
type Character struct {
	opts options
}

var _ TextSplitter = (*Character)(nil)

// NewCharacter creates a character-based splitter. Configuration is validated
// eagerly: a non-positive chunk size or an overlap that is negative or not
// strictly smaller than the chunk size is an error.
func NewCharacter(opts ...Option) (*Character, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidChunkSize, o.chunkSize)
	}
	if o.chunkOverlap < 0 || o.chunkOverlap >= o.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d, chunk size %d", ErrInvalidOverlap, o.chunkOverlap, o.chunkSize)
	}

	return &Character{opts: o}, nil
}

// SplitText splits the text into ordered, trimmed, non-empty chunks. Empty or
// whitespace-only input yields no chunks. Text shorter than the chunk size
// yields exactly one chunk.
func (s *Character) SplitText(_ context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	textLen := len(runes)
	chunkSize := s.opts.chunkSize
	overlap := s.opts.chunkOverlap

	var chunks []string
	start := 0

	for start < textLen {
		end := start + chunkSize
		if end > textLen {
			end = textLen
		}

		// Prefer a sentence or paragraph boundary near the cut point, but
		// only when there is more text to come.
		if end < textLen {
			if snapped := snapToBoundary(runes, start, end); snapped > start {
				end = snapped
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Advance the cursor, always making forward progress so the loop
		// terminates even for degenerate overlap configurations.
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

// snapToBoundary scans the trailing window of the tentative chunk for the
// last occurrence of a boundary delimiter and returns the position just after
// it, or 0 when no boundary is found.
func snapToBoundary(runes []rune, start, end int) int {
	window := (end - start) / boundaryLookbackRatio
	if window < 1 {
		window = 1
	}
	searchStart := end - window
	if searchStart < start {
		searchStart = start
	}

	searchText := string(runes[searchStart:end])

	best := -1
	bestDelimLen := 0
	for _, delim := range boundaryDelimiters {
		if idx := strings.LastIndex(searchText, delim); idx > best {
			best = idx
			bestDelimLen = len([]rune(delim))
		}
	}
	if best == -1 {
		return 0
	}

	// best is a byte offset into searchText; convert to a rune offset.
	boundaryRunes := len([]rune(searchText[:best]))
	return searchStart + boundaryRunes + bestDelimLen
}
