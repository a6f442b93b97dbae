package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCachedProvider shares the embedding cache across service
// instances via Redis. Values are JSON-encoded float32 slices; the
// float32 -> JSON -> float32 round trip is exact, so a cache hit is
// bit-identical to a fresh computation. Redis failures degrade to a
// plain provider call rather than failing the request.
type RedisCachedProvider struct {
	inner EmbeddingProvider
	rdb   *redis.Client
	ttl   time.Duration
}

func NewRedisCachedProvider(inner EmbeddingProvider, rdb *redis.Client, ttl time.Duration) *RedisCachedProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCachedProvider{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *RedisCachedProvider) key(text, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return fmt.Sprintf("embed:%x", sum)
}

func (c *RedisCachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	ctx := context.Background()
	key := c.key(text, taskType)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var values []float32
		if err := json.Unmarshal(raw, &values); err == nil && len(values) > 0 {
			return &EmbeddingResponse{
				Embedding: EmbeddingResponseEmbedding{Values: values},
			}, nil
		}
	}

	res, err := c.inner.Generate(text, taskType)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(res.Embedding.Values); err == nil {
		// Best effort: a failed SET only costs the next caller a recompute
		c.rdb.Set(ctx, key, raw, c.ttl)
	}
	return res, nil
}
