package ollama

import (
	"log/slog"
	"net/http"
)

type options struct {
	serverURL  string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		model:  DefaultModel,
		logger: slog.Default(),
	}
}

// Option configures the Ollama embedder.
type Option func(*options)

// WithServerURL overrides the Ollama server address.
func WithServerURL(serverURL string) Option {
	return func(o *options) {
		o.serverURL = serverURL
	}
}

// WithModel sets the embedding model name.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets the logger used by the embedder.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
