package gemini

type options struct {
	apiKey string
	model  string
}

func defaultOptions() options {
	return options{model: DefaultModel}
}

// Option configures the Gemini embedder.
type Option func(*options)

// WithAPIKey sets the API key explicitly instead of reading GEMINI_API_KEY.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
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
