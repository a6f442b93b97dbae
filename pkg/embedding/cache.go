package embedding

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedProvider wraps another provider with a fixed-capacity LRU cache
// keyed by exact input text. Identical text returns the identical
// vector without recomputation; eviction keeps memory bounded no matter
// how many distinct queries arrive. golang-lru is safe for concurrent
// use, so one CachedProvider is shared across all request workers.
type CachedProvider struct {
	inner EmbeddingProvider
	cache *lru.Cache[string, []float32]
}

// DefaultCacheSize matches the original deployment's query cache.
const DefaultCacheSize = 128

func NewCachedProvider(inner EmbeddingProvider, size int) (*CachedProvider, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &CachedProvider{inner: inner, cache: cache}, nil
}

func (c *CachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	key := taskType + "\x00" + text
	if values, ok := c.cache.Get(key); ok {
		return &EmbeddingResponse{
			Embedding: EmbeddingResponseEmbedding{Values: values},
		}, nil
	}

	res, err := c.inner.Generate(text, taskType)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, res.Embedding.Values)
	return res, nil
}

// Len reports the number of cached entries.
func (c *CachedProvider) Len() int {
	return c.cache.Len()
}
