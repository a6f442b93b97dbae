// FILE: pkg/recommend/overrides.go
// PURPOSE: Post-ranking similarity intersection and explicit sorting

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"kdrama-recommender-be/internal/constant"
	"kdrama-recommender-be/pkg/embedding"
)

// SimilarTo narrows ranked results to the neighbors of a reference
// title. The reference must resolve exactly (case-insensitive) within
// the filtered set; otherwise the results pass through untouched. This
// stage only filters: the relative order from hybrid ranking survives.
func (r *Ranker) SimilarTo(ctx context.Context, title string, fs *FilteredSet, results []ScoredDrama) ([]ScoredDrama, error) {
	refIdx, ok := fs.IndexOf(title)
	if !ok {
		return results, nil
	}

	emb, err := r.embedder.Generate(r.corpus.Item(refIdx).Document(), embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("similar_to embedding failed: %w", err)
	}

	searchK := fs.Len() + constant.CandidateMargin
	if searchK > r.corpus.Len() {
		searchK = r.corpus.Len()
	}
	hits, err := r.searcher.Search(ctx, emb.Embedding.Values, searchK)
	if err != nil {
		return nil, fmt.Errorf("similar_to search failed: %w", err)
	}

	neighbors := make(map[int]bool, len(hits))
	for _, h := range hits {
		if fs.Contains(h.Index) {
			neighbors[h.Index] = true
		}
	}

	kept := make([]ScoredDrama, 0, len(results))
	for _, res := range results {
		if neighbors[res.Index] {
			kept = append(kept, res)
		}
	}
	return kept, nil
}

// ApplySort re-sorts ranked results by an explicit field, or by rating
// when only top_rated is set. Applied after hybrid ranking and before
// truncation. No sort request leaves the list untouched.
func ApplySort(results []ScoredDrama, sortBy, sortOrder string, topRated bool) []ScoredDrama {
	if sortBy != "" {
		desc := sortOrder != "asc" // default descending
		sortByField(results, sortBy, desc)
		return results
	}
	if topRated {
		sort.SliceStable(results, func(a, b int) bool {
			return results[a].Drama.Rating() > results[b].Drama.Rating()
		})
	}
	return results
}

// sortByField sorts numerically when every value parses as a number,
// lexicographically otherwise. Mixed fields fall back to string
// comparison, which keeps the order deterministic on messy data.
func sortByField(results []ScoredDrama, field string, desc bool) {
	allNumeric := true
	for _, res := range results {
		if _, err := strconv.ParseFloat(strings.TrimSpace(res.Drama.SortValue(field)), 64); err != nil {
			allNumeric = false
			break
		}
	}

	ascending := func(a, b ScoredDrama) bool {
		if allNumeric {
			av, _ := strconv.ParseFloat(strings.TrimSpace(a.Drama.SortValue(field)), 64)
			bv, _ := strconv.ParseFloat(strings.TrimSpace(b.Drama.SortValue(field)), 64)
			return av < bv
		}
		return a.Drama.SortValue(field) < b.Drama.SortValue(field)
	}

	sort.SliceStable(results, func(a, b int) bool {
		if desc {
			return ascending(results[b], results[a])
		}
		return ascending(results[a], results[b])
	})
}

// Truncate cuts the ranked list to the requested size.
func Truncate(results []ScoredDrama, topN int) []ScoredDrama {
	if topN <= 0 || topN >= len(results) {
		return results
	}
	return results[:topN]
}
