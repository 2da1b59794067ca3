package ingestion

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docpipe/embeddings"
)

type countingEmbedder struct {
	model string
}

func (e countingEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}
func (e countingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) { return nil, nil }
func (e countingEmbedder) GetDimension(context.Context) (int, error)             { return 1, nil }

func TestEmbedderCache_Get(t *testing.T) {
	var built atomic.Int32
	cache := NewEmbedderCache(func(_ context.Context, model string) (embeddings.Embedder, error) {
		built.Add(1)
		return countingEmbedder{model: model}, nil
	})

	first, err := cache.Get(context.Background(), "nomic-embed-text")
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), "nomic-embed-text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), built.Load())

	_, err = cache.Get(context.Background(), "all-minilm")
	require.NoError(t, err)
	assert.Equal(t, int32(2), built.Load())
	assert.Equal(t, 2, cache.Len())
}

func TestEmbedderCache_FactoryError(t *testing.T) {
	factoryErr := errors.New("backend unreachable")
	cache := NewEmbedderCache(func(context.Context, string) (embeddings.Embedder, error) {
		return nil, factoryErr
	})

	_, err := cache.Get(context.Background(), "broken")
	require.ErrorIs(t, err, factoryErr)
	assert.Equal(t, 0, cache.Len(), "failed builds must not be cached")
}

func TestEmbedderCache_Forget(t *testing.T) {
	var built atomic.Int32
	cache := NewEmbedderCache(func(_ context.Context, model string) (embeddings.Embedder, error) {
		built.Add(1)
		return countingEmbedder{model: model}, nil
	})

	_, err := cache.Get(context.Background(), "m")
	require.NoError(t, err)
	cache.Forget("m")
	_, err = cache.Get(context.Background(), "m")
	require.NoError(t, err)

	assert.Equal(t, int32(2), built.Load())
}

func TestEmbedderCache_ConcurrentAccess(t *testing.T) {
	var built atomic.Int32
	cache := NewEmbedderCache(func(_ context.Context, model string) (embeddings.Embedder, error) {
		built.Add(1)
		return countingEmbedder{model: model}, nil
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get(context.Background(), "shared")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), built.Load())
}
