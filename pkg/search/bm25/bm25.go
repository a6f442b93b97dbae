// FILE: pkg/search/bm25/bm25.go
// PURPOSE: BM25+ lexical scoring over the drama corpus

package bm25

import (
	"math"
	"strings"
)

// Default parameters follow the BM25+ literature values.
const (
	DefaultK1    = 1.5
	DefaultB     = 0.75
	DefaultDelta = 1.0
)

// Scorer computes BM25+ relevance scores. The index is built once over
// the whole corpus; ScoreAll returns one score per document,
// positionally aligned with the build-time document order.
type Scorer struct {
	k1    float64
	b     float64
	delta float64

	docFreqs []map[string]int // term -> frequency, per document
	docLens  []float64
	avgLen   float64
	idf      map[string]float64
}

// Tokenize splits text on whitespace. Intentionally no lowercasing or
// stemming: the synthetic documents and queries are scored symmetrically,
// so normalization on one side only would skew the results.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// New builds a BM25+ index over tokenized documents.
func New(docs [][]string) *Scorer {
	s := &Scorer{
		k1:       DefaultK1,
		b:        DefaultB,
		delta:    DefaultDelta,
		docFreqs: make([]map[string]int, len(docs)),
		docLens:  make([]float64, len(docs)),
		idf:      make(map[string]float64),
	}

	df := make(map[string]int)
	var totalLen float64
	for i, doc := range docs {
		freqs := make(map[string]int, len(doc))
		for _, term := range doc {
			freqs[term]++
		}
		for term := range freqs {
			df[term]++
		}
		s.docFreqs[i] = freqs
		s.docLens[i] = float64(len(doc))
		totalLen += float64(len(doc))
	}
	if len(docs) > 0 {
		s.avgLen = totalLen / float64(len(docs))
	}

	// BM25+ IDF: log((N+1)/df). Always positive, which is the point of
	// the "+" variant for long-tail terms.
	n := float64(len(docs))
	for term, freq := range df {
		s.idf[term] = math.Log((n + 1) / float64(freq))
	}
	return s
}

// NewFromTexts tokenizes and indexes raw document strings.
func NewFromTexts(texts []string) *Scorer {
	docs := make([][]string, len(texts))
	for i, t := range texts {
		docs[i] = Tokenize(t)
	}
	return New(docs)
}

// ScoreAll scores the tokenized query against every indexed document.
// The returned slice is positionally aligned with the corpus.
func (s *Scorer) ScoreAll(query []string) []float64 {
	scores := make([]float64, len(s.docFreqs))
	if s.avgLen == 0 {
		return scores
	}
	for _, term := range query {
		idf, ok := s.idf[term]
		if !ok {
			continue
		}
		for i, freqs := range s.docFreqs {
			tf := float64(freqs[term])
			norm := s.k1*(1-s.b+s.b*s.docLens[i]/s.avgLen) + tf
			scores[i] += idf * (s.delta + (tf*(s.k1+1))/norm)
		}
	}
	return scores
}

// Len returns the number of indexed documents.
func (s *Scorer) Len() int {
	return len(s.docFreqs)
}
