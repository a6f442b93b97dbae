package implementation

import (
	"context"

	"kdrama-recommender-be/internal/model"
	"kdrama-recommender-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DramaEmbeddingRepositoryImpl struct {
	db *gorm.DB
}

func NewDramaEmbeddingRepository(db *gorm.DB) contract.DramaEmbeddingRepository {
	return &DramaEmbeddingRepositoryImpl{db: db}
}

func (r *DramaEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*model.DramaEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(embeddings, 100).Error
}

func (r *DramaEmbeddingRepositoryImpl) Truncate(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("TRUNCATE TABLE drama_embeddings").Error
}

func (r *DramaEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DramaEmbedding{}).Count(&count).Error
	return count, err
}

func (r *DramaEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]contract.ScoredPosition, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity.
	type row struct {
		Position   int
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)
	err := r.db.WithContext(ctx).
		Table("drama_embeddings").
		Select("position, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]contract.ScoredPosition, len(rows))
	for i, rw := range rows {
		scored[i] = contract.ScoredPosition{Position: rw.Position, Similarity: rw.Similarity}
	}
	return scored, nil
}
