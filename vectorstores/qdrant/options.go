package qdrant

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/docpipe/embeddings"
)

const (
	defaultHost           = "localhost"
	defaultPort           = 6334
	defaultContentKey     = "page_content"
	defaultBatchSize      = 100
	defaultMaxConcurrency = 8
	defaultRetryAttempts  = 3
	defaultRetryDelay     = time.Second
)

type options struct {
	host           string
	port           int
	useTLS         bool
	apiKey         string
	collection     string
	contentKey     string
	embedder       embeddings.Embedder
	logger         *slog.Logger
	batchSize      int
	maxConcurrency int
	retryAttempts  int
	retryDelay     time.Duration
}

// Option configures the Qdrant store.
type Option func(*options)

// WithHost sets the Qdrant server hostname.
func WithHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.host = host
		}
	}
}

// WithPort sets the Qdrant gRPC port.
func WithPort(port int) Option {
	return func(o *options) {
		if port > 0 {
			o.port = port
		}
	}
}

// WithTLS enables TLS for the gRPC connection.
func WithTLS(useTLS bool) Option {
	return func(o *options) {
		o.useTLS = useTLS
	}
}

// WithAPIKey sets the API key for authenticated Qdrant deployments.
func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		o.apiKey = strings.TrimSpace(apiKey)
	}
}

// WithCollectionName sets the default collection for the store.
func WithCollectionName(name string) Option {
	return func(o *options) {
		o.collection = strings.TrimSpace(name)
	}
}

// WithContentKey overrides the payload key used for document content.
func WithContentKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.contentKey = key
		}
	}
}

// WithEmbedder sets the embedder used for documents and queries.
func WithEmbedder(embedder embeddings.Embedder) Option {
	return func(o *options) {
		o.embedder = embedder
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBatchSize sets how many points are upserted per request.
func WithBatchSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

// WithMaxConcurrency caps concurrent upsert requests.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithRetryAttempts sets how many times a failed upsert batch is retried.
func WithRetryAttempts(attempts int) Option {
	return func(o *options) {
		if attempts >= 0 {
			o.retryAttempts = attempts
		}
	}
}

func parseOptions(opts ...Option) (options, error) {
	o := options{
		host:           defaultHost,
		port:           defaultPort,
		contentKey:     defaultContentKey,
		logger:         slog.Default(),
		batchSize:      defaultBatchSize,
		maxConcurrency: defaultMaxConcurrency,
		retryAttempts:  defaultRetryAttempts,
		retryDelay:     defaultRetryDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.collection == "" {
		return o, errors.New("collection name is required")
	}
	if o.embedder == nil {
		return o, errors.New("embedder is required")
	}
	return o, nil
}
