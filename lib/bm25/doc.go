// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package bm25 provides relevance-ranked text search using the Okapi
// BM25 algorithm over an inverted index. Documents carry weighted
// text fields; a field's boost multiplies its term frequencies, so a
// match in a boost-4 name field outranks the same match in a boost-1
// description.
//
// The index is built at construction time and is immutable
// thereafter. It is safe for concurrent read access. Intended corpus
// size is small (a command tree, not a document store): construction
// is eager and everything stays in memory.
package bm25
