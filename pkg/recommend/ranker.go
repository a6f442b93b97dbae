// FILE: pkg/recommend/ranker.go
// PURPOSE: Hybrid combination of vector similarity and BM25 scoring

package recommend

import (
	"context"
	"fmt"
	"sort"

	"kdrama-recommender-be/internal/constant"
	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/internal/repository/corpus"
	"kdrama-recommender-be/pkg/embedding"
	"kdrama-recommender-be/pkg/search/bm25"
	"kdrama-recommender-be/pkg/search/vector"
)

// ScoredDrama is one ranked candidate: the drama, its original corpus
// position, and the combined hybrid score. Created per query, never
// persisted; the underlying Drama stays immutable.
type ScoredDrama struct {
	Index int
	Drama *entity.Drama
	Score float64
}

// Ranker blends the two retrieval signals over the filtered subset.
// Both backends are mandatory: a failure on either side fails the
// request, since no fallback ranking signal exists without them.
type Ranker struct {
	corpus   *corpus.Corpus
	embedder embedding.EmbeddingProvider
	searcher vector.Searcher
	lexical  *bm25.Scorer
}

func NewRanker(c *corpus.Corpus, embedder embedding.EmbeddingProvider, searcher vector.Searcher, lexical *bm25.Scorer) *Ranker {
	return &Ranker{
		corpus:   c,
		embedder: embedder,
		searcher: searcher,
		lexical:  lexical,
	}
}

// Rank produces the combined ranking restricted to the filtered set.
//
// The vector index cannot be queried on a subset, so it is searched
// broadly (|filtered|+50 neighbors, capped at the corpus size) and the
// hits are narrowed afterwards. The lexical side scores the whole
// corpus and is narrowed the same way. Each side keeps at most
// topN+20 candidates before combination.
func (r *Ranker) Rank(ctx context.Context, queryText string, fs *FilteredSet, alpha float64, topN int) ([]ScoredDrama, error) {
	if fs.Len() == 0 {
		return nil, nil
	}
	keep := topN + constant.CandidateMargin

	// --- Vector side ---
	emb, err := r.embedder.Generate(queryText, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	searchK := fs.Len() + constant.SearchKMargin
	if searchK > r.corpus.Len() {
		searchK = r.corpus.Len()
	}
	hits, err := r.searcher.Search(ctx, emb.Embedding.Values, searchK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	vecKept := make([]vector.Hit, 0, keep)
	for _, h := range hits {
		if !fs.Contains(h.Index) {
			continue
		}
		vecKept = append(vecKept, h)
		if len(vecKept) >= keep {
			break
		}
	}

	// --- Lexical side ---
	allScores := r.lexical.ScoreAll(bm25.Tokenize(queryText))
	type lexHit struct {
		index int
		score float64
	}
	lexKept := make([]lexHit, 0, fs.Len())
	for _, idx := range fs.Indices() {
		lexKept = append(lexKept, lexHit{index: idx, score: allScores[idx]})
	}
	sort.SliceStable(lexKept, func(a, b int) bool {
		return lexKept[a].score > lexKept[b].score
	})
	if len(lexKept) > keep {
		lexKept = lexKept[:keep]
	}

	// --- Normalization & combination ---
	maxBM25 := 0.0
	for _, lh := range lexKept {
		if lh.score > maxBM25 {
			maxBM25 = lh.score
		}
	}
	if maxBM25 == 0 {
		maxBM25 = 1 // avoid division by zero, lexical side contributes 0 anyway
	}

	// First-seen order makes exact-score ties deterministic.
	combined := make(map[int]float64)
	order := make([]int, 0, len(vecKept)+len(lexKept))
	for _, h := range vecKept {
		if _, seen := combined[h.Index]; !seen {
			order = append(order, h.Index)
		}
		combined[h.Index] += alpha * h.Score
	}
	for _, lh := range lexKept {
		if _, seen := combined[lh.index]; !seen {
			order = append(order, lh.index)
		}
		combined[lh.index] += (1 - alpha) * (lh.score / maxBM25)
	}

	results := make([]ScoredDrama, 0, len(order))
	for _, idx := range order {
		results = append(results, ScoredDrama{
			Index: idx,
			Drama: r.corpus.Item(idx),
			Score: combined[idx],
		})
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	return results, nil
}
