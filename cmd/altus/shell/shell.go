// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package shell implements the "altus shell" command: an interactive
// REPL that dispatches each line through the regular command tree.
// Abbreviation resolution applies exactly as in one-shot mode, and a
// fresh tree is built per line so parsed flag values never leak
// between invocations.
package shell

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/config"
	"github.com/altus-cloud/altus/lib/console"
)

// Command returns the "shell" command. newRoot builds a fresh command
// tree for each dispatched line; the tree it returns must not contain
// the shell command itself, so a session cannot nest.
func Command(ui *console.Console, newRoot func() *cli.Command) *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Summary: "Start an interactive altus session",
		Description: `Run altus commands in a persistent interactive session.

Each line is dispatched exactly like a one-shot invocation: unique
abbreviations resolve to their commands, flag parsing and help work
unchanged. Command failures print and the session continues; "exit",
"quit", or end-of-input leave the shell.`,
		Usage: "altus shell",
		Examples: []cli.Example{
			{
				Description: "Inspect deployments without retyping the binary name",
				Command:     "altus shell",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runSession(ctx, ui, logger, newRoot)
		},
	}
}

// runSession owns the readline loop: read a line, split it, dispatch
// it, repeat until the user leaves.
func runSession(ctx context.Context, ui *console.Console, logger *slog.Logger, newRoot func() *cli.Command) error {
	instance, err := readline.NewEx(&readline.Config{
		Prompt:          "altus> ",
		HistoryFile:     filepath.Join(config.Dir(), "shell_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completerFor(newRoot()),
	})
	if err != nil {
		return err
	}
	defer instance.Close()

	for {
		line, err := instance.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl-C clears the line; an empty interrupted line is the
			// conventional "I want out" signal.
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if done := dispatchLine(ctx, line, ui, logger, newRoot); done {
			return nil
		}
	}
}

// dispatchLine executes one shell line against a fresh command tree.
// Returns true when the session should end. Command errors are
// reported to the console and the session continues: the shell's rim
// prints where the process rim would exit.
func dispatchLine(ctx context.Context, line string, ui *console.Console, logger *slog.Logger, newRoot func() *cli.Command) bool {
	args := splitLine(line)
	if len(args) == 0 {
		return false
	}
	if args[0] == "exit" || args[0] == "quit" {
		return true
	}

	if err := newRoot().Execute(ctx, args, logger); err != nil {
		var ambiguous *cli.AmbiguousError
		if errors.As(err, &ambiguous) {
			ui.Errorf("%s", ambiguous.Error())
			return false
		}
		if _, ok := err.(interface{ ExitCode() int }); ok {
			// The command already printed its story; the code itself
			// is meaningless mid-session.
			return false
		}
		ui.Errorf("%v", err)
	}
	return false
}

// splitLine splits a shell line into fields, honoring double quotes so
// arguments can contain spaces. Quotes group, they are not kept.
func splitLine(line string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, character := range line {
		switch {
		case character == '"':
			inQuotes = !inQuotes
		case character == ' ' && !inQuotes:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(character)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// completerFor builds tab completion over the tree's top-level command
// names plus the shell's own exit words.
func completerFor(root *cli.Command) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(root.Subcommands)+2)
	for _, sub := range root.Subcommands {
		subItems := make([]readline.PrefixCompleterInterface, 0, len(sub.Subcommands))
		for _, nested := range sub.Subcommands {
			subItems = append(subItems, readline.PcItem(nested.Name))
		}
		items = append(items, readline.PcItem(sub.Name, subItems...))
	}
	items = append(items, readline.PcItem("exit"), readline.PcItem("quit"))
	return readline.NewPrefixCompleter(items...)
}
