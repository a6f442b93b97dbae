package vector

import (
	"context"

	"kdrama-recommender-be/internal/repository/contract"
)

// PgvectorSearcher serves nearest-neighbor queries from the
// drama_embeddings table instead of the in-process index. Rows carry
// the corpus position so hits line up with the in-memory corpus.
type PgvectorSearcher struct {
	repo contract.DramaEmbeddingRepository
}

func NewPgvectorSearcher(repo contract.DramaEmbeddingRepository) *PgvectorSearcher {
	return &PgvectorSearcher{repo: repo}
}

func (s *PgvectorSearcher) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	scored, err := s.repo.SearchSimilar(ctx, query, k)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, len(scored))
	for i, sp := range scored {
		hits[i] = Hit{Index: sp.Position, Score: sp.Similarity}
	}
	return hits, nil
}
