// FILE: pkg/recommend/resolver.go
// PURPOSE: Turn a raw user string into a canonical query text

package recommend

import (
	"kdrama-recommender-be/internal/constant"
	"kdrama-recommender-be/internal/repository/corpus"
	"kdrama-recommender-be/pkg/search/fuzzy"
)

// MatchKind describes how the raw input resolved.
type MatchKind string

const (
	MatchExact    MatchKind = "exact"
	MatchFuzzy    MatchKind = "fuzzy"
	MatchFreeText MatchKind = "free_text"
)

// Resolution is the canonical query: either a matched drama whose
// synthetic document drives retrieval, or the raw string as free text.
type Resolution struct {
	Kind         MatchKind
	QueryText    string
	MatchedTitle string
	MatchedIndex int // original corpus position; -1 for free text
	Confidence   int // 0-100, only meaningful for fuzzy matches
}

// Resolver resolves raw title strings against the filtered corpus.
type Resolver struct {
	matcher fuzzy.Matcher
}

func NewResolver(matcher fuzzy.Matcher) *Resolver {
	return &Resolver{matcher: matcher}
}

// Resolve tries, in order: exact case-insensitive title match within
// the filtered set, fuzzy match accepted at confidence >= 70, then
// free text. An empty filtered set short-circuits straight to free
// text. Free-text queries keep the raw string unmodified.
func (r *Resolver) Resolve(c *corpus.Corpus, fs *FilteredSet, raw string) Resolution {
	if fs.Len() == 0 {
		return freeText(raw)
	}

	if idx, ok := fs.IndexOf(raw); ok {
		return Resolution{
			Kind:         MatchExact,
			QueryText:    c.Item(idx).Document(),
			MatchedTitle: c.Item(idx).Title,
			MatchedIndex: idx,
			Confidence:   100,
		}
	}

	match, confidence := r.matcher.BestMatch(raw, fs.Titles(c))
	if match != "" && confidence >= constant.FuzzyMatchThreshold {
		if idx, ok := fs.IndexOf(match); ok {
			return Resolution{
				Kind:         MatchFuzzy,
				QueryText:    c.Item(idx).Document(),
				MatchedTitle: c.Item(idx).Title,
				MatchedIndex: idx,
				Confidence:   confidence,
			}
		}
	}

	return freeText(raw)
}

func freeText(raw string) Resolution {
	return Resolution{
		Kind:         MatchFreeText,
		QueryText:    raw,
		MatchedIndex: -1,
	}
}
