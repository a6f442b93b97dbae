package recommend

import (
	"context"
	"fmt"
	"math"
	"testing"

	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/pkg/embedding"
	"kdrama-recommender-be/pkg/search/bm25"
	"kdrama-recommender-be/pkg/search/vector"
)

type fixedEmbedder struct {
	values []float32
	err    error
}

func (f fixedEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.values},
	}, nil
}

type fixedSearcher struct {
	hits []vector.Hit
	err  error
	k    int // records the last requested k
}

func (f *fixedSearcher) Search(ctx context.Context, query []float32, k int) ([]vector.Hit, error) {
	f.k = k
	if f.err != nil {
		return nil, f.err
	}
	if k < len(f.hits) {
		return f.hits[:k], nil
	}
	return f.hits, nil
}

func rankerFixture(t *testing.T, hits []vector.Hit) (*Ranker, *FilteredSet, *fixedSearcher) {
	t.Helper()
	c := testCorpus(t, []entity.Drama{
		{Title: "Signal", Genre: "Thriller", Description: "detective radio past", Cast: "Lee Je-hoon"},
		{Title: "Misaeng", Genre: "Drama", Description: "office worker baduk", Cast: "Im Si-wan"},
		{Title: "Stranger", Genre: "Thriller", Description: "prosecutor detective", Cast: "Cho Seung-woo"},
	})
	searcher := &fixedSearcher{hits: hits}
	lexical := bm25.NewFromTexts(c.Documents())
	r := NewRanker(c, fixedEmbedder{values: []float32{1, 0}}, searcher, lexical)
	return r, ApplyFilters(c, Filters{}), searcher
}

func TestRankVectorOnlyBoundedByAlpha(t *testing.T) {
	// No lexical overlap: every combined score is alpha * similarity.
	r, fs, _ := rankerFixture(t, []vector.Hit{{Index: 1, Score: 0.9}})

	results, err := r.Rank(context.Background(), "unrelated query terms", fs, 0.7, 5)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	for _, res := range results {
		if res.Score > 0.7+1e-9 {
			t.Errorf("%s: vector-only score %v exceeds alpha", res.Drama.Title, res.Score)
		}
	}
	if results[0].Index != 1 {
		t.Errorf("top result should be the vector hit, got index %d", results[0].Index)
	}
	if math.Abs(results[0].Score-0.7*0.9) > 1e-9 {
		t.Errorf("Score = %v, want %v", results[0].Score, 0.7*0.9)
	}
}

func TestRankLexicalOnlyBound(t *testing.T) {
	// No vector hits: the top lexical match normalizes to exactly 1-alpha.
	r, fs, _ := rankerFixture(t, nil)

	alpha := 0.4
	results, err := r.Rank(context.Background(), "detective radio past", fs, alpha, 5)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if math.Abs(results[0].Score-(1-alpha)) > 1e-9 {
		t.Errorf("top lexical score = %v, want exactly %v", results[0].Score, 1-alpha)
	}
	for _, res := range results {
		if res.Score > (1-alpha)+1e-9 {
			t.Errorf("%s: lexical-only score %v exceeds 1-alpha", res.Drama.Title, res.Score)
		}
	}
}

func TestRankAccumulatesBothSides(t *testing.T) {
	r, fs, _ := rankerFixture(t, []vector.Hit{{Index: 0, Score: 0.8}})

	alpha := 0.5
	results, err := r.Rank(context.Background(), "detective radio past", fs, alpha, 5)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	// Signal gets both the vector contribution and the top lexical one.
	want := alpha*0.8 + (1 - alpha)
	if results[0].Index != 0 {
		t.Fatalf("top result index = %d, want 0", results[0].Index)
	}
	if math.Abs(results[0].Score-want) > 1e-9 {
		t.Errorf("accumulated score = %v, want %v", results[0].Score, want)
	}
}

func TestRankAlphaMonotonicity(t *testing.T) {
	// Misaeng: strong vector signal, no lexical overlap with the query.
	// Signal: strong lexical signal, no vector hit.
	hits := []vector.Hit{{Index: 1, Score: 0.95}}

	rankOf := func(alpha float64) int {
		r, fs, _ := rankerFixture(t, hits)
		results, err := r.Rank(context.Background(), "detective radio past", fs, alpha, 5)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		for pos, res := range results {
			if res.Index == 1 {
				return pos
			}
		}
		return len(results)
	}

	if low, high := rankOf(0.2), rankOf(0.9); high >= low {
		t.Errorf("raising alpha should promote the vector-signal item: rank %d -> %d", low, high)
	}
}

func TestRankRespectsFilteredSet(t *testing.T) {
	r, _, _ := rankerFixture(t, []vector.Hit{{Index: 1, Score: 0.99}, {Index: 0, Score: 0.5}})
	c := r.corpus
	fs := ApplyFilters(c, Filters{Genre: "Thriller"}) // drops Misaeng (index 1)

	results, err := r.Rank(context.Background(), "detective", fs, 0.7, 5)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for _, res := range results {
		if res.Index == 1 {
			t.Error("filtered-out item leaked into the ranking")
		}
	}
}

func TestRankSearchKDerivation(t *testing.T) {
	r, fs, searcher := rankerFixture(t, nil)

	if _, err := r.Rank(context.Background(), "detective", fs, 0.7, 5); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	// |filtered|+50 capped at the corpus size (3).
	if searcher.k != 3 {
		t.Errorf("requested k = %d, want corpus size 3", searcher.k)
	}
}

func TestRankEmptyFilteredSet(t *testing.T) {
	r, _, _ := rankerFixture(t, nil)
	fs := ApplyFilters(r.corpus, Filters{Genre: "Nonexistent"})

	results, err := r.Rank(context.Background(), "detective", fs, 0.7, 5)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if results != nil {
		t.Errorf("empty filtered set should produce no results, got %v", results)
	}
}

func TestRankEmbeddingFailureIsFatal(t *testing.T) {
	c := testCorpus(t, []entity.Drama{{Title: "Signal"}})
	r := NewRanker(c, fixedEmbedder{err: fmt.Errorf("provider down")}, &fixedSearcher{}, bm25.NewFromTexts(c.Documents()))
	fs := ApplyFilters(c, Filters{})

	if _, err := r.Rank(context.Background(), "anything", fs, 0.7, 5); err == nil {
		t.Fatal("embedding failure must fail the request")
	}
}
