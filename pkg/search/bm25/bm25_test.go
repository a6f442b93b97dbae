package bm25

import (
	"testing"
)

func TestScoreAllAlignment(t *testing.T) {
	texts := []string{
		"Signal Thriller Mystery detective radio",
		"Crash Landing on You Romance paragliding",
		"Hospital Playlist Medical friendship doctors",
	}
	s := NewFromTexts(texts)

	if s.Len() != len(texts) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(texts))
	}

	scores := s.ScoreAll(Tokenize("detective radio"))
	if len(scores) != len(texts) {
		t.Fatalf("ScoreAll returned %d scores, want %d", len(scores), len(texts))
	}

	if scores[0] <= scores[1] || scores[0] <= scores[2] {
		t.Errorf("document containing both query terms should score highest: got %v", scores)
	}
}

func TestScoreAllUnknownTerms(t *testing.T) {
	s := NewFromTexts([]string{"alpha beta", "gamma delta"})
	scores := s.ScoreAll(Tokenize("zeta omega"))
	for i, score := range scores {
		if score != 0 {
			t.Errorf("scores[%d] = %v, want 0 for query with no indexed terms", i, score)
		}
	}
}

func TestScoreAllTermFrequency(t *testing.T) {
	s := NewFromTexts([]string{
		"love love love story",
		"love story",
	})
	scores := s.ScoreAll([]string{"love"})
	if scores[0] <= scores[1] {
		t.Errorf("higher term frequency should score higher: got %v", scores)
	}
}

func TestScoreAllCaseSensitive(t *testing.T) {
	// Tokenization is symmetric with no lowercasing, so case must match.
	s := NewFromTexts([]string{"Signal drama"})
	if scores := s.ScoreAll([]string{"signal"}); scores[0] != 0 {
		t.Errorf("lowercased query term should not match: got %v", scores[0])
	}
	if scores := s.ScoreAll([]string{"Signal"}); scores[0] == 0 {
		t.Error("exact-case query term should match")
	}
}

func TestScoreAllEmptyCorpus(t *testing.T) {
	s := NewFromTexts(nil)
	scores := s.ScoreAll([]string{"anything"})
	if len(scores) != 0 {
		t.Errorf("empty corpus should yield no scores, got %d", len(scores))
	}
}
