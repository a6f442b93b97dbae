// FILE: pkg/rerank/reranker.go
// PURPOSE: Optional pairwise relevance reranking of top candidates

package rerank

import "context"

// Reranker scores (query, document) pairs with a cross-encoder style
// model. Scores come back in input order, one per document. Callers
// must treat any error as non-fatal: reranking is strictly best-effort
// and never aborts a request.
type Reranker interface {
	ScorePairs(ctx context.Context, query string, documents []string) ([]float64, error)
}
