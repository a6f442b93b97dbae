// FILE: internal/repository/corpus/corpus.go
// PURPOSE: Immutable in-memory drama corpus with positional indexing

package corpus

import (
	"fmt"
	"strings"

	"kdrama-recommender-be/internal/entity"
)

// Corpus is the immutable ordered drama collection. The vector index
// and the lexical index are built over Documents() and share this
// positional ordering; every downstream component maps titles back to
// these positions for index lookups.
type Corpus struct {
	items      []entity.Drama
	docs       []string
	titleToIdx map[string]int // lowercase title -> original position
}

// New builds a corpus from an ordered item slice. Duplicate titles are
// rejected: Title is the unique key for the whole pipeline.
func New(items []entity.Drama) (*Corpus, error) {
	c := &Corpus{
		items:      items,
		docs:       make([]string, len(items)),
		titleToIdx: make(map[string]int, len(items)),
	}
	for i := range items {
		key := strings.ToLower(strings.TrimSpace(items[i].Title))
		if key == "" {
			return nil, fmt.Errorf("corpus item %d has an empty title", i)
		}
		if prev, exists := c.titleToIdx[key]; exists {
			return nil, fmt.Errorf("duplicate title %q at positions %d and %d", items[i].Title, prev, i)
		}
		c.titleToIdx[key] = i
		c.docs[i] = items[i].Document()
	}
	return c, nil
}

// Len returns the corpus size.
func (c *Corpus) Len() int {
	return len(c.items)
}

// Item returns the drama at the given original position.
func (c *Corpus) Item(i int) *entity.Drama {
	return &c.items[i]
}

// Items returns the full ordered item slice. Callers must not mutate it.
func (c *Corpus) Items() []entity.Drama {
	return c.items
}

// Documents returns the synthetic per-item documents, positionally
// aligned with Items().
func (c *Corpus) Documents() []string {
	return c.docs
}

// IndexOf resolves a title (case-insensitive) to its original position.
func (c *Corpus) IndexOf(title string) (int, bool) {
	i, ok := c.titleToIdx[strings.ToLower(strings.TrimSpace(title))]
	return i, ok
}
