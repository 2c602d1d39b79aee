// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/altus-cloud/altus/lib/bm25"
)

// SemanticSuggestion is a command found by BM25 relevance ranking.
type SemanticSuggestion struct {
	// Path is the full command path (e.g., "altus deployment create").
	Path string

	// Summary is the command's one-line summary.
	Summary string

	// Score is the BM25 relevance score. Higher is more relevant.
	Score float64
}

// SuggestSemantic searches the command tree rooted at root using BM25
// relevance ranking, returning up to limit results ordered by
// descending score. Unlike suggestCommand (Levenshtein edit distance
// on command names among immediate siblings), SuggestSemantic matches
// natural language queries against command paths, summaries,
// descriptions, examples, and flag metadata across the entire tree.
//
// Field weights: the command path counts 3x, the summary 2x, and the
// long-form text (description, examples, flag usage) 1x, so a query
// that names a command outranks one that merely brushes its docs.
//
// The index is rebuilt on every call; for a command tree's worth of
// text, construction is sub-millisecond.
func SuggestSemantic(query string, root *Command, limit int) []SemanticSuggestion {
	var documents []bm25.Document
	summaries := make(map[string]string)

	walkLeafCommands(root, "", func(path string, command *Command) {
		var long strings.Builder
		long.WriteString(command.Description)
		for _, example := range command.Examples {
			long.WriteString(" ")
			long.WriteString(example.Description)
			long.WriteString(" ")
			long.WriteString(example.Command)
		}
		if flagSet := command.FlagSet(); flagSet != nil {
			flagSet.VisitAll(func(flag *pflag.Flag) {
				long.WriteString(" ")
				long.WriteString(flag.Name)
				long.WriteString(" ")
				long.WriteString(flag.Usage)
			})
		}

		documents = append(documents, bm25.Document{
			ID: path,
			Fields: []bm25.Field{
				{Text: path, Boost: 3},
				{Text: command.Summary, Boost: 2},
				{Text: long.String(), Boost: 1},
			},
		})
		summaries[path] = command.Summary
	})

	results := bm25.New(documents).Search(query, limit)

	suggestions := make([]SemanticSuggestion, len(results))
	for i, result := range results {
		suggestions[i] = SemanticSuggestion{
			Path:    result.ID,
			Summary: summaries[result.ID],
			Score:   result.Score,
		}
	}
	return suggestions
}

// walkLeafCommands recursively visits every command in the tree that
// has a Run function. Commands with both Run and Subcommands (the
// fall-through pattern) are included. The path is the space-joined
// command path from the root (e.g., "altus deployment create").
func walkLeafCommands(command *Command, prefix string, callback func(path string, command *Command)) {
	path := command.Name
	if prefix != "" {
		path = prefix + " " + command.Name
	}

	if command.Run != nil {
		callback(path, command)
	}

	for _, sub := range command.Subcommands {
		walkLeafCommands(sub, path, callback)
	}
}
