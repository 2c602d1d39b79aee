// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/console"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testTree builds a small command tree that records which leaf ran
// and with which arguments.
func testTree(ran *string, gotArgs *[]string) func() *cli.Command {
	return func() *cli.Command {
		record := func(name string) func(context.Context, []string, *slog.Logger) error {
			return func(_ context.Context, args []string, _ *slog.Logger) error {
				*ran = name
				*gotArgs = args
				return nil
			}
		}
		return &cli.Command{
			Name: "altus",
			Subcommands: []*cli.Command{
				{
					Name: "deployment",
					Subcommands: []*cli.Command{
						{Name: "list", Run: record("deployment list")},
						{Name: "get", Run: record("deployment get")},
					},
				},
				{
					Name: "workspace",
					Subcommands: []*cli.Command{
						{Name: "list", Run: record("workspace list")},
					},
				},
				{
					Name: "fail",
					Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
						return cli.Validation("deliberate failure")
					},
				},
			},
		}
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain fields", "deployment list", []string{"deployment", "list"}},
		{"collapsed spaces", "  deployment   list  ", []string{"deployment", "list"}},
		{"quoted argument", `suggest "store a password"`, []string{"suggest", "store a password"}},
		{"empty", "   ", nil},
		{"quotes mid-word", `get api"-"server`, []string{"get", "api-server"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := splitLine(test.line)
			if len(got) != len(test.want) {
				t.Fatalf("splitLine(%q) = %v, want %v", test.line, got, test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("field %d = %q, want %q", i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestDispatchLine_AbbreviationResolves(t *testing.T) {
	var ran string
	var args []string
	var out bytes.Buffer
	ui := console.NewPlain(&out)

	done := dispatchLine(context.Background(), "dep li", ui, discardLogger(), testTree(&ran, &args))
	if done {
		t.Fatal("dispatch should not end the session")
	}
	if ran != "deployment list" {
		t.Errorf("ran %q, want abbreviation to reach \"deployment list\"", ran)
	}
}

func TestDispatchLine_AmbiguousPrintsAndContinues(t *testing.T) {
	var out bytes.Buffer
	ui := console.NewPlain(&out)

	done := dispatchLine(context.Background(), "d x", ui, discardLogger(), func() *cli.Command {
		return &cli.Command{
			Name: "altus",
			Subcommands: []*cli.Command{
				{Name: "deployment", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
				{Name: "doctor", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			},
		}
	})
	if done {
		t.Fatal("ambiguity should not end the session")
	}
	if !strings.Contains(out.String(), "'d' is ambiguous: deployment, doctor") {
		t.Errorf("output %q should carry the ambiguity line", out.String())
	}
}

func TestDispatchLine_CommandErrorPrintsAndContinues(t *testing.T) {
	var ran string
	var args []string
	var out bytes.Buffer
	ui := console.NewPlain(&out)

	done := dispatchLine(context.Background(), "fail", ui, discardLogger(), testTree(&ran, &args))
	if done {
		t.Fatal("a failing command should not end the session")
	}
	if !strings.Contains(out.String(), "deliberate failure") {
		t.Errorf("output %q should carry the command error", out.String())
	}
}

func TestDispatchLine_ExitWords(t *testing.T) {
	var ran string
	var args []string
	ui := console.NewPlain(&bytes.Buffer{})

	for _, word := range []string{"exit", "quit"} {
		if done := dispatchLine(context.Background(), word, ui, discardLogger(), testTree(&ran, &args)); !done {
			t.Errorf("%q should end the session", word)
		}
	}
	if ran != "" {
		t.Errorf("exit words must not dispatch, ran %q", ran)
	}
}

func TestDispatchLine_BlankLineIsNoop(t *testing.T) {
	var ran string
	var args []string
	ui := console.NewPlain(&bytes.Buffer{})

	if done := dispatchLine(context.Background(), "   ", ui, discardLogger(), testTree(&ran, &args)); done {
		t.Fatal("blank line should not end the session")
	}
	if ran != "" {
		t.Errorf("blank line must not dispatch, ran %q", ran)
	}
}

func TestDispatchLine_FreshTreePerLine(t *testing.T) {
	builds := 0
	newRoot := func() *cli.Command {
		builds++
		return &cli.Command{
			Name: "altus",
			Subcommands: []*cli.Command{
				{Name: "noop", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			},
		}
	}
	ui := console.NewPlain(&bytes.Buffer{})

	dispatchLine(context.Background(), "noop", ui, discardLogger(), newRoot)
	dispatchLine(context.Background(), "noop", ui, discardLogger(), newRoot)
	if builds != 2 {
		t.Errorf("tree built %d times for two lines, want a fresh tree per line", builds)
	}
}
