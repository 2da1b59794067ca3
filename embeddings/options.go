package embeddings

const (
	defaultBatchSize      = 32
	defaultMaxConcurrency = 8
)

type options struct {
	batchSize      int
	maxConcurrency int
	stripNewLines  bool
}

func defaultOptions() options {
	return options{
		batchSize:      defaultBatchSize,
		maxConcurrency: defaultMaxConcurrency,
		stripNewLines:  true,
	}
}

// Option configures a Batcher.
type Option func(*options)

// WithBatchSize sets how many texts are sent to the backend per call.
func WithBatchSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

// WithMaxConcurrency caps the number of in-flight backend calls.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithStripNewLines controls whether newlines are replaced with spaces
// before embedding. Enabled by default.
func WithStripNewLines(strip bool) Option {
	return func(o *options) {
		o.stripNewLines = strip
	}
}
