package ingestion

import (
	"context"
	"fmt"
	"sync"

	"github.com/sevigo/docpipe/embeddings"
)

// EmbedderFactory builds an embedder for a model name.
type EmbedderFactory func(ctx context.Context, model string) (embeddings.Embedder, error)

// EmbedderCache hands out one embedder per model name, constructing each
// lazily through the factory. The cache is owned by its caller; separate
// pipelines can hold separate caches without sharing process state.
type EmbedderCache struct {
	mu      sync.RWMutex
	factory EmbedderFactory
	cache   map[string]embeddings.Embedder
}

// NewEmbedderCache creates a cache around the given factory.
func NewEmbedderCache(factory EmbedderFactory) *EmbedderCache {
	return &EmbedderCache{
		factory: factory,
		cache:   make(map[string]embeddings.Embedder),
	}
}

// Get returns the embedder for the model, building it on first use.
// Concurrent callers for the same model get the same instance.
func (c *EmbedderCache) Get(ctx context.Context, model string) (embeddings.Embedder, error) {
	c.mu.RLock()
	embedder, ok := c.cache[model]
	c.mu.RUnlock()
	if ok {
		return embedder, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have won the race while we waited for the lock.
	if embedder, ok := c.cache[model]; ok {
		return embedder, nil
	}

	embedder, err := c.factory(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to build embedder for model %q: %w", model, err)
	}
	c.cache[model] = embedder
	return embedder, nil
}

// Forget drops the cached embedder for a model, forcing a rebuild on the
// next Get.
func (c *EmbedderCache) Forget(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, model)
}

// Len reports how many embedders are currently cached.
func (c *EmbedderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
