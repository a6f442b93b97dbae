// FILE: pkg/search/fuzzy/matcher.go
// PURPOSE: Weighted-ratio fuzzy title matching for query resolution

package fuzzy

import (
	gofuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Matcher finds the best fuzzy match for a query among candidate
// titles. Confidence is on a 0-100 scale.
type Matcher interface {
	BestMatch(query string, candidates []string) (match string, confidence int)
}

// WRatioMatcher scores candidates with the weighted-ratio metric,
// which blends full, partial and token-sorted ratios. Ties keep the
// first candidate, so results are deterministic for a fixed corpus
// ordering.
type WRatioMatcher struct{}

func NewWRatioMatcher() WRatioMatcher {
	return WRatioMatcher{}
}

func (WRatioMatcher) BestMatch(query string, candidates []string) (string, int) {
	best := ""
	bestScore := -1
	for _, candidate := range candidates {
		score := gofuzzy.WRatio(query, candidate)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}
