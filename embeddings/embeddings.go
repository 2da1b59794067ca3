// Package embeddings defines the embedding contract used by the ingestion
// pipeline and vector stores, plus a batching wrapper that spreads large
// document sets across concurrent backend calls.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Embedder converts text into dense vectors. Backends (ollama, gemini)
// implement it directly; callers usually wrap a backend with NewBatcher.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	GetDimension(ctx context.Context) (int, error)
}

var (
	ErrEmptyText     = errors.New("text cannot be empty")
	ErrDoubleWrap    = errors.New("backend is already a batching embedder")
	ErrCountMismatch = errors.New("embedding count does not match input count")
)

// Batcher splits document batches into fixed-size chunks and embeds them
// concurrently against the wrapped backend. It also normalizes whitespace
// before embedding when configured to do so.
type Batcher struct {
	backend Embedder
	opts    options
}

var _ Embedder = (*Batcher)(nil)

// NewBatcher wraps a backend embedder with batching and preprocessing.
func NewBatcher(backend Embedder, opts ...Option) (*Batcher, error) {
	if backend == nil {
		return nil, errors.New("backend embedder cannot be nil")
	}
	if _, ok := backend.(*Batcher); ok {
		return nil, ErrDoubleWrap
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Batcher{backend: backend, opts: o}, nil
}

func (b *Batcher) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return b.backend.EmbedQuery(ctx, b.preprocess(text))
}

func (b *Batcher) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared := make([]string, len(texts))
	for i, text := range texts {
		prepared[i] = b.preprocess(text)
	}

	batches := splitBatches(prepared, b.opts.batchSize)
	results := make([][][]float32, len(batches))
	errs := make([]error, len(batches))

	sem := make(chan struct{}, b.opts.maxConcurrency)
	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			vectors, err := b.backend.EmbedDocuments(ctx, batch)
			if err != nil {
				errs[i] = fmt.Errorf("embedding batch %d: %w", i, err)
				return
			}
			results[i] = vectors
		}(i, batch)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vectors := make([][]float32, 0, len(texts))
	for _, batch := range results {
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrCountMismatch, len(texts), len(vectors))
	}

	return vectors, nil
}

func (b *Batcher) GetDimension(ctx context.Context) (int, error) {
	return b.backend.GetDimension(ctx)
}

func (b *Batcher) preprocess(text string) string {
	if b.opts.stripNewLines {
		return strings.ReplaceAll(text, "\n", " ")
	}
	return text
}

func splitBatches(texts []string, size int) [][]string {
	if size <= 0 || size >= len(texts) {
		return [][]string{texts}
	}

	batches := make([][]string, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batches = append(batches, texts[start:end])
	}
	return batches
}
