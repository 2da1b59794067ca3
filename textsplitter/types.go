package textsplitter

import "errors"

// Chunk is the output unit of the markdown-header strategy: a section of the
// document plus the header hierarchy it lives under. Metadata maps configured
// header labels (e.g. "h1", "h2") to the nearest preceding header text at
// that level; labels with no preceding header are absent.
type Chunk struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// HeaderSpec defines one splittable header level: the literal line marker and
// the metadata label it maps to.
type HeaderSpec struct {
	Marker string
	Label  string
}

// DefaultHeadersToSplitOn covers the three common ATX heading depths.
var DefaultHeadersToSplitOn = []HeaderSpec{
	{Marker: "#", Label: "h1"},
	{Marker: "##", Label: "h2"},
	{Marker: "###", Label: "h3"},
}

var (
	ErrInvalidChunkSize = errors.New("invalid chunk size")
	ErrInvalidOverlap   = errors.New("overlap must be non-negative and smaller than the chunk size")
	ErrNoHeaders        = errors.New("headers to split on must not be empty")
)

// Defaults shared by the strategies.
const (
	defaultChunkSize        = 500
	defaultChunkOverlap     = 50
	defaultMaxSentences     = 3
	defaultOverlapSentences = 1
	defaultMaxParagraphs    = 2
	defaultMaxTokens        = 512
	defaultOverlapTokens    = 50

	// The character splitter scans this fraction of the chunk, counted back
	// from the tentative cut point, for a sentence or paragraph boundary.
	boundaryLookbackRatio = 5
)
