package contract

import (
	"context"

	"kdrama-recommender-be/internal/model"
)

type DramaEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*model.DramaEmbedding) error
	Truncate(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	// SearchSimilar returns corpus positions with cosine similarity,
	// most similar first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]ScoredPosition, error)
}

// ScoredPosition pairs a corpus position with its similarity score.
type ScoredPosition struct {
	Position   int
	Similarity float64
}
