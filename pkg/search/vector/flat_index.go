package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// FlatIndex is an exact brute-force cosine index held in memory,
// positionally aligned with the corpus it was built from. At a few
// thousand dramas, exact search is faster than maintaining an ANN
// structure would be worth.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex builds the index from per-item embeddings. Vectors are
// L2-normalized on ingest so Search can use plain dot products.
func NewFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("cannot build an empty index")
	}
	dim := len(vectors[0])
	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
		normalized[i] = Normalize(v)
	}
	return &FlatIndex{dim: dim, vectors: normalized}, nil
}

// Len returns the number of indexed vectors.
func (f *FlatIndex) Len() int {
	return len(f.vectors)
}

// Search returns the k most similar items, similarity descending.
// Ties break on the lower original position, which keeps results
// deterministic.
func (f *FlatIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has dimension %d, index expects %d", len(query), f.dim)
	}
	if k <= 0 {
		return nil, nil
	}
	if k > len(f.vectors) {
		k = len(f.vectors)
	}

	q := Normalize(query)
	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Index: i, Score: dot(q, v)}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Index < hits[b].Index
	})
	return hits[:k], nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize scales a vector to unit length. Required for cosine
// similarity via dot product; zero vectors are returned unchanged.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return vec
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / magnitude)
	}
	return out
}
