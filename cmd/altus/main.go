// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/cmd/altus/commands"
)

// main is the only place that prints terminal failures and calls
// os.Exit. Everything below it returns tagged errors.
func main() {
	if err := run(); err != nil {
		// An ambiguous abbreviation is reported as exactly one line
		// naming the token and every candidate.
		var ambiguous *cli.AmbiguousError
		if errors.As(err, &ambiguous) {
			fmt.Fprintln(os.Stderr, ambiguous.Error())
			os.Exit(1)
		}

		// Commands that print their own output (like doctor) return an
		// ExitError with the desired code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}

		fmt.Fprintf(os.Stderr, "altus: error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := cli.NewCommandLogger()
	ui := cli.NewConsole()
	return commands.Root(ui).Execute(context.Background(), os.Args[1:], logger)
}
