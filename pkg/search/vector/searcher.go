// FILE: pkg/search/vector/searcher.go
// PURPOSE: Vector retriever contract shared by the in-memory and
// pgvector backends

package vector

import "context"

// Hit is one nearest neighbor: the item's original corpus position and
// its cosine similarity to the query.
type Hit struct {
	Index int
	Score float64
}

// Searcher is the k-nearest-neighbor oracle over the full, unfiltered
// index. Results are ordered by similarity descending, length <= k.
type Searcher interface {
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)
}
