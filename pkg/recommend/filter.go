// FILE: pkg/recommend/filter.go
// PURPOSE: Pre-ranking metadata filtering over the drama corpus

package recommend

import (
	"strconv"
	"strings"

	"kdrama-recommender-be/internal/entity"
	"kdrama-recommender-be/internal/repository/corpus"
)

// Filters is the structured constraint set. Every field is optional;
// supplied filters are ANDed. Numeric thresholds arrive as raw strings
// from the query surface and are parsed leniently: an unparseable
// threshold disables that one filter rather than failing the request.
type Filters struct {
	Genre         string
	Director      string
	Publisher     string
	Description   string
	Keywords      string
	Screenwriters string
	RatingValue   string // minimum rating
	RatingCount   string // minimum rating count
}

// Empty reports whether no filter is supplied.
func (f Filters) Empty() bool {
	return f == Filters{}
}

// FilteredSet is the surviving subset of the corpus, in corpus order,
// with the title -> original-position mapping the ranking stages need
// for index lookups against the full, unfiltered vector index.
type FilteredSet struct {
	indices []int
	members map[int]bool
	byTitle map[string]int // lowercase title -> original position
}

// ApplyFilters narrows the corpus to items satisfying all supplied
// filters. String filters are case-insensitive substring tests; genre
// and director check their scraped alias fields too.
func ApplyFilters(c *corpus.Corpus, f Filters) *FilteredSet {
	fs := &FilteredSet{
		members: make(map[int]bool),
		byTitle: make(map[string]int),
	}

	minRating, hasMinRating := parseThreshold(f.RatingValue)
	minCount, hasMinCount := parseThreshold(f.RatingCount)

	for i := 0; i < c.Len(); i++ {
		d := c.Item(i)
		if !matchesSubstring(f.Genre, d.Genre, d.Genres) {
			continue
		}
		if !matchesSubstring(f.Director, d.Director, d.Directors) {
			continue
		}
		if !matchesSubstring(f.Publisher, d.Publisher) {
			continue
		}
		if !matchesSubstring(f.Description, d.Description) {
			continue
		}
		if !matchesSubstring(f.Keywords, d.Keywords) {
			continue
		}
		if !matchesSubstring(f.Screenwriters, d.Screenwriters) {
			continue
		}
		if hasMinRating && d.Rating() < minRating {
			continue
		}
		if hasMinCount {
			count, _ := d.RatingCount.Float() // absent counts as 0
			if count < minCount {
				continue
			}
		}

		fs.indices = append(fs.indices, i)
		fs.members[i] = true
		fs.byTitle[strings.ToLower(strings.TrimSpace(d.Title))] = i
	}
	return fs
}

// matchesSubstring returns true when the filter is unset or any of the
// fields contains it, case-insensitively.
func matchesSubstring(filter string, fields ...string) bool {
	if strings.TrimSpace(filter) == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func parseThreshold(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Malformed threshold: skip this filter, never abort the request
		return 0, false
	}
	return v, true
}

// Len returns the number of surviving items.
func (s *FilteredSet) Len() int {
	return len(s.indices)
}

// Indices returns the surviving original positions in corpus order.
func (s *FilteredSet) Indices() []int {
	return s.indices
}

// Contains reports whether an original position survived filtering.
func (s *FilteredSet) Contains(idx int) bool {
	return s.members[idx]
}

// IndexOf resolves a surviving title (case-insensitive) back to its
// original corpus position.
func (s *FilteredSet) IndexOf(title string) (int, bool) {
	i, ok := s.byTitle[strings.ToLower(strings.TrimSpace(title))]
	return i, ok
}

// Titles lists the surviving titles in corpus order.
func (s *FilteredSet) Titles(c *corpus.Corpus) []string {
	titles := make([]string, 0, len(s.indices))
	for _, i := range s.indices {
		titles = append(titles, c.Item(i).Title)
	}
	return titles
}

// Items lists the surviving dramas in corpus order.
func (s *FilteredSet) Items(c *corpus.Corpus) []*entity.Drama {
	items := make([]*entity.Drama, 0, len(s.indices))
	for _, i := range s.indices {
		items = append(items, c.Item(i))
	}
	return items
}
