package context7

import "log/slog"

type options struct {
	logger *slog.Logger
}

// Option is a function type for configuring the client.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger: slog.Default(),
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
