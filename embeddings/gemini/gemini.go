// Package gemini implements the embeddings.Embedder interface on top of
// the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"google.golang.org/genai"

	"github.com/sevigo/docpipe/embeddings"
)

const DefaultModel = "text-embedding-004"

var (
	ErrNoAPIKey   = errors.New("gemini API key is missing, set GEMINI_API_KEY or use WithAPIKey")
	ErrEmbeddings = errors.New("gemini embedding request failed")
)

// Embedder wraps a genai client for embedding generation.
type Embedder struct {
	client *genai.Client
	opts   options

	dimOnce   sync.Once
	dimension int
}

var _ embeddings.Embedder = (*Embedder)(nil)

// New creates a Gemini embedder. The API key is taken from options, then
// the GEMINI_API_KEY environment variable.
func New(ctx context.Context, opts ...Option) (*Embedder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.apiKey == "" {
		o.apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if o.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: o.apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Embedder{client: client, opts: o}, nil
}

// EmbedDocuments embeds a slice of texts in a single API call.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	res, err := e.client.Models.EmbedContent(ctx, e.opts.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddings, err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			embeddings.ErrCountMismatch, len(texts), len(res.Embeddings))
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embeddings.ErrEmptyText
	}

	content := genai.NewContentFromText(text, genai.RoleUser)
	res, err := e.client.Models.EmbedContent(ctx, e.opts.model, []*genai.Content{content}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddings, err)
	}
	if len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, fmt.Errorf("%w: empty response", ErrEmbeddings)
	}
	return res.Embeddings[0].Values, nil
}

// GetDimension embeds a sample text once and caches the vector length.
func (e *Embedder) GetDimension(ctx context.Context) (int, error) {
	var err error
	e.dimOnce.Do(func() {
		vec, probeErr := e.EmbedQuery(ctx, "dimension probe")
		if probeErr != nil {
			err = fmt.Errorf("failed to determine embedding dimension: %w", probeErr)
			return
		}
		e.dimension = len(vec)
	})
	if err != nil {
		e.dimOnce = sync.Once{}
		return 0, err
	}
	return e.dimension, nil
}
