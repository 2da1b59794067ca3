package textsplitter

import "log/slog"

// options holds configuration settings shared by the splitter strategies.
// Each constructor validates only the fields its strategy consumes.
type options struct {
	chunkSize        int
	chunkOverlap     int
	maxSentences     int
	overlapSentences int
	maxParagraphs    int
	maxTokens        int
	overlapTokens    int
	tokenizer        Tokenizer
	headersToSplitOn []HeaderSpec
	stripHeaders     bool
	headerSplitter   HeaderSplitter
	logger           *slog.Logger
}

// Option is a function type for configuring a splitter.
type Option func(*options)

func defaultOptions() options {
	return options{
		chunkSize:        defaultChunkSize,
		chunkOverlap:     defaultChunkOverlap,
		maxSentences:     defaultMaxSentences,
		overlapSentences: defaultOverlapSentences,
		maxParagraphs:    defaultMaxParagraphs,
		maxTokens:        defaultMaxTokens,
		overlapTokens:    defaultOverlapTokens,
		logger:           slog.Default(),
	}
}

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(o *options) {
		o.chunkSize = size
	}
}

// WithChunkOverlap sets the number of characters repeated between
// consecutive chunks.
func WithChunkOverlap(overlap int) Option {
	return func(o *options) {
		o.chunkOverlap = overlap
	}
}

// WithMaxSentences sets the number of sentences grouped into one chunk.
func WithMaxSentences(n int) Option {
	return func(o *options) {
		o.maxSentences = n
	}
}

// WithSentenceOverlap sets how many trailing sentences of a chunk are
// repeated at the start of the next one.
func WithSentenceOverlap(n int) Option {
	return func(o *options) {
		o.overlapSentences = n
	}
}

// WithMaxParagraphs sets the number of paragraphs grouped into one chunk.
func WithMaxParagraphs(n int) Option {
	return func(o *options) {
		o.maxParagraphs = n
	}
}

// WithMaxTokens sets the token budget per chunk.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		o.maxTokens = n
	}
}

// WithTokenOverlap sets the number of tokens repeated between chunks.
func WithTokenOverlap(n int) Option {
	return func(o *options) {
		o.overlapTokens = n
	}
}

// WithTokenizer supplies an exact tokenizer. When absent the token splitter
// approximates tokens with whitespace-delimited words.
func WithTokenizer(t Tokenizer) Option {
	return func(o *options) {
		o.tokenizer = t
	}
}

// WithHeadersToSplitOn sets the ordered header levels the markdown splitter
// cuts on, shallowest first.
func WithHeadersToSplitOn(specs []HeaderSpec) Option {
	return func(o *options) {
		o.headersToSplitOn = specs
	}
}

// WithStripHeaders removes the header line itself from chunk content.
func WithStripHeaders(strip bool) Option {
	return func(o *options) {
		o.stripHeaders = strip
	}
}

// WithHeaderSplitter overrides the markdown backend. Useful for forcing the
// line-scanner fallback in environments where the native parser misbehaves.
func WithHeaderSplitter(hs HeaderSplitter) Option {
	return func(o *options) {
		o.headerSplitter = hs
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
