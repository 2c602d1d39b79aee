// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package suggest implements the "altus suggest" command, which
// searches the CLI command tree by natural language description using
// BM25 relevance ranking.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/console"
)

type suggestParams struct {
	Limit int `flag:"limit,n" default:"10" desc:"maximum number of matches to show"`
}

// Command returns the "suggest" command. The root parameter is the
// top-level CLI command tree, used to build the search index over all
// leaf commands; it must be fully constructed before the first Run.
func Command(ui *console.Console, root *cli.Command) *cli.Command {
	var params suggestParams

	return &cli.Command{
		Name:    "suggest",
		Summary: "Search for commands by natural language description",
		Description: `Search all altus commands using natural language queries.

Uses BM25 relevance ranking to match your query against command paths,
summaries, descriptions, and flag metadata across the entire command
tree. Unlike abbreviation or typo correction, this finds commands by
what they do, not by name similarity.`,
		Usage: "altus suggest <query...>",
		Examples: []cli.Example{
			{
				Description: "Describe the task in plain words",
				Command:     `altus suggest "store a database password"`,
			},
			{
				Description: "Find the live deployment view",
				Command:     "altus suggest watch deployment state",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) > 0, "query required\n\nUsage: altus suggest <query...>"); err != nil {
				return err
			}
			if err := cli.Check(params.Limit > 0, "--limit must be positive"); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			suggestions := cli.SuggestSemantic(query, root, params.Limit)

			if len(suggestions) == 0 {
				ui.Printf("no commands match %q", query)
				return nil
			}

			rows := make([][]string, 0, len(suggestions))
			for _, suggestion := range suggestions {
				rows = append(rows, []string{
					fmt.Sprintf("%5.2f", suggestion.Score),
					suggestion.Path,
					suggestion.Summary,
				})
			}
			ui.Table(nil, rows)
			return nil
		},
	}
}
