package recommend

import (
	"context"
	"testing"

	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/pkg/search/vector"
)

func scored(c interface{ Item(int) *entity.Drama }, indices ...int) []ScoredDrama {
	out := make([]ScoredDrama, 0, len(indices))
	for i, idx := range indices {
		out = append(out, ScoredDrama{Index: idx, Drama: c.Item(idx), Score: float64(len(indices) - i)})
	}
	return out
}

func TestSimilarToIntersection(t *testing.T) {
	r, fs, searcher := rankerFixture(t, nil)
	c := r.corpus

	// Neighbors of the reference: Signal (0) and Stranger (2).
	searcher.hits = []vector.Hit{{Index: 0, Score: 1.0}, {Index: 2, Score: 0.8}}

	results := scored(c, 1, 2, 0) // ranked: Misaeng, Stranger, Signal
	kept, err := r.SimilarTo(context.Background(), "Signal", fs, results)
	if err != nil {
		t.Fatalf("SimilarTo: %v", err)
	}

	// Misaeng is dropped; prior relative order of survivors is kept.
	if len(kept) != 2 || kept[0].Index != 2 || kept[1].Index != 0 {
		t.Errorf("unexpected survivors: %+v", kept)
	}
}

func TestSimilarToUnresolvableReferencePassesThrough(t *testing.T) {
	r, fs, _ := rankerFixture(t, nil)
	results := scored(r.corpus, 0, 1)

	kept, err := r.SimilarTo(context.Background(), "Not In Corpus", fs, results)
	if err != nil {
		t.Fatalf("SimilarTo: %v", err)
	}
	if len(kept) != len(results) {
		t.Errorf("unresolvable reference should leave results untouched, got %d of %d", len(kept), len(results))
	}
}

func TestApplySortNumericField(t *testing.T) {
	c := testCorpus(t, []entity.Drama{
		{Title: "A", Episodes: "16"},
		{Title: "B", Episodes: "100"},
		{Title: "C", Episodes: "8"},
	})
	results := scored(c, 0, 1, 2)

	out := ApplySort(results, "episodes", "", false)
	if out[0].Drama.Title != "B" || out[2].Drama.Title != "C" {
		t.Errorf("numeric sort desc: got %s, %s, %s", out[0].Drama.Title, out[1].Drama.Title, out[2].Drama.Title)
	}

	out = ApplySort(results, "episodes", "asc", false)
	if out[0].Drama.Title != "C" || out[2].Drama.Title != "B" {
		t.Errorf("numeric sort asc: got %s, %s, %s", out[0].Drama.Title, out[1].Drama.Title, out[2].Drama.Title)
	}
}

func TestApplySortLexicographicFallback(t *testing.T) {
	// "10 episodes" does not parse, so the whole field sorts as strings.
	c := testCorpus(t, []entity.Drama{
		{Title: "A", Episodes: "9"},
		{Title: "B", Episodes: "10 episodes"},
	})
	results := scored(c, 0, 1)

	out := ApplySort(results, "episodes", "asc", false)
	if out[0].Drama.Title != "B" {
		t.Errorf("mixed values should sort lexicographically: got %s first", out[0].Drama.Title)
	}
}

func TestApplySortTopRated(t *testing.T) {
	c := testCorpus(t, []entity.Drama{
		{Title: "A", RatingValue: "7.5"},
		{Title: "B", RatingValue: "9.1"},
	})
	results := scored(c, 0, 1)

	out := ApplySort(results, "", "", true)
	if out[0].Drama.Title != "B" {
		t.Errorf("top_rated should sort by rating desc, got %s first", out[0].Drama.Title)
	}
}

func TestApplySortNoOverrides(t *testing.T) {
	c := testCorpus(t, []entity.Drama{
		{Title: "A"},
		{Title: "B"},
	})
	results := scored(c, 1, 0)

	out := ApplySort(results, "", "", false)
	if out[0].Index != 1 || out[1].Index != 0 {
		t.Error("no overrides should leave the ranked order untouched")
	}
}

func TestTruncate(t *testing.T) {
	c := testCorpus(t, []entity.Drama{
		{Title: "A"}, {Title: "B"}, {Title: "C"},
	})
	results := scored(c, 0, 1, 2)

	if got := Truncate(results, 2); len(got) != 2 {
		t.Errorf("Truncate(2) kept %d", len(got))
	}
	if got := Truncate(results, 10); len(got) != 3 {
		t.Errorf("Truncate beyond length kept %d", len(got))
	}
	if got := Truncate(results, 0); len(got) != 3 {
		t.Errorf("Truncate(0) should keep everything, got %d", len(got))
	}
}
