// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package bm25

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// BM25 parameters (Okapi variant, standard values). Epsilon replaces
// negative IDF for terms that appear in most documents, so common
// terms still contribute a little instead of penalizing a match.
const (
	paramK1      = 1.2
	paramB       = 0.75
	paramEpsilon = 0.25
)

// tokenPattern splits text into alphanumeric runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Field is one weighted text field of a document. Boost multiplies
// the field's term frequencies: a token in a Boost-4 field counts as
// four occurrences. Fields with Boost <= 0 are skipped.
type Field struct {
	Text  string
	Boost int
}

// Document is an indexable unit: an identifier plus its weighted text
// fields. The ID is returned in results and is not itself scored
// unless it also appears as a Field.
type Document struct {
	ID     string
	Fields []Field
}

// Result is a single search hit with its relevance score.
type Result struct {
	// ID is the document identifier given at construction.
	ID string

	// Score is the BM25 relevance score. Higher is more relevant;
	// the scale depends on the corpus and is not bounded.
	Score float64
}

// posting records one document's boosted term frequency for a term.
type posting struct {
	document  int
	frequency float64
}

// Index is an immutable inverted index scored with Okapi BM25. Safe
// for concurrent read access once constructed.
type Index struct {
	// ids holds document identifiers in construction order.
	ids []string

	// postings maps each term to the documents containing it, in
	// document order, with boost-scaled frequencies.
	postings map[string][]posting

	// lengths holds each document's boost-weighted token count;
	// averageLength is their mean.
	lengths       []float64
	averageLength float64
}

// New builds an index over the given documents. Construction is
// O(total tokens) and sub-millisecond for a command tree's worth of
// text; build once and reuse.
func New(documents []Document) *Index {
	index := &Index{
		ids:      make([]string, len(documents)),
		postings: make(map[string][]posting),
		lengths:  make([]float64, len(documents)),
	}

	var totalLength float64
	for i, document := range documents {
		index.ids[i] = document.ID

		frequencies := make(map[string]float64)
		var length float64
		for _, field := range document.Fields {
			if field.Boost <= 0 {
				continue
			}
			boost := float64(field.Boost)
			for _, token := range Tokenize(field.Text) {
				frequencies[token] += boost
				length += boost
			}
		}

		index.lengths[i] = length
		totalLength += length

		for term, frequency := range frequencies {
			index.postings[term] = append(index.postings[term], posting{
				document:  i,
				frequency: frequency,
			})
		}
	}

	if len(documents) > 0 {
		index.averageLength = totalLength / float64(len(documents))
	}

	return index
}

// Search returns up to limit documents ranked by BM25 relevance to
// the query, best first. Ties break on document ID so output is
// deterministic. Returns nil when the query has no usable tokens or
// nothing matches.
func (index *Index) Search(query string, limit int) []Result {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || index.averageLength == 0 {
		return nil
	}

	documentCount := float64(len(index.ids))
	scores := make(map[int]float64)

	for _, token := range queryTokens {
		list := index.postings[token]
		if len(list) == 0 {
			continue
		}

		// Classic Okapi IDF. Goes negative for terms in more than
		// half the corpus; clamp to epsilon so matches never score
		// below a miss.
		documentFrequency := float64(len(list))
		idf := math.Log((documentCount - documentFrequency + 0.5) / (documentFrequency + 0.5))
		if idf <= 0 {
			idf = paramEpsilon
		}

		for _, entry := range list {
			frequency := entry.frequency
			normalized := frequency + paramK1*(1-paramB+paramB*index.lengths[entry.document]/index.averageLength)
			scores[entry.document] += idf * frequency * (paramK1 + 1) / normalized
		}
	}

	results := make([]Result, 0, len(scores))
	for document, score := range scores {
		results = append(results, Result{ID: index.ids[document], Score: score})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].ID < results[b].ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Tokenize splits text into lowercase alphanumeric tokens, discarding
// tokens shorter than 2 characters ("a", "I", and similar noise).
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	matches := tokenPattern.FindAllString(lower, -1)

	tokens := matches[:0]
	for _, match := range matches {
		if len(match) >= 2 {
			tokens = append(tokens, match)
		}
	}
	return tokens
}
