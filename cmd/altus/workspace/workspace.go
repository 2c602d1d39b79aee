// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace implements the "altus workspace" command group:
// logging in to a workspace, listing and switching between stored
// credentials, and logging out. The credentials themselves live in
// lib/workspace's store file.
package workspace

import (
	"context"
	"log/slog"
	"time"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/console"
	"github.com/altus-cloud/altus/lib/workspace"
)

// Commands returns the "workspace" command group.
func Commands(ui *console.Console) *cli.Command {
	return &cli.Command{
		Name:    "workspace",
		Summary: "Manage workspace credentials",
		Description: `Log in to Altus workspaces and switch between them.

Credentials are stored per workspace; one workspace is "current" and
all other commands operate on it. The store file contains access
tokens and is written with owner-only permissions.`,
		Subcommands: []*cli.Command{
			loginCommand(ui),
			listCommand(ui),
			currentCommand(ui),
			useCommand(ui),
			logoutCommand(ui),
		},
	}
}

// workspaceEntry is one row of "workspace list" output.
type workspaceEntry struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Current    bool      `json:"current"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

type listParams struct {
	cli.JSONOutput
}

func listCommand(ui *console.Console) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List logged-in workspaces",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 0, "unexpected argument: %s", firstOrEmpty(args)); err != nil {
				return err
			}

			store, err := workspace.Load()
			if err != nil {
				return err
			}

			entries := make([]workspaceEntry, 0, len(store.Workspaces))
			for _, name := range store.Names() {
				ws := store.Workspaces[name]
				entries = append(entries, workspaceEntry{
					Name:       name,
					URL:        ws.URL,
					Current:    name == store.Current,
					LoggedInAt: ws.LoggedInAt,
				})
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			if len(entries) == 0 {
				ui.Printf("no workspaces logged in; run \"altus workspace login\" first")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				marker := ""
				if entry.Current {
					marker = "*"
				}
				rows = append(rows, []string{marker, entry.Name, entry.URL})
			}
			ui.Table([]string{"CURRENT", "NAME", "URL"}, rows)
			return nil
		},
	}
}

func currentCommand(ui *console.Console) *cli.Command {
	return &cli.Command{
		Name:    "current",
		Summary: "Show the current workspace",
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 0, "unexpected argument: %s", firstOrEmpty(args)); err != nil {
				return err
			}

			store, err := workspace.Load()
			if err != nil {
				return err
			}
			name, ws, err := store.CurrentWorkspace()
			if err != nil {
				return cli.NotFound("%w", err)
			}
			ui.Printf("%s (%s)", name, ws.URL)
			return nil
		},
	}
}

func useCommand(ui *console.Console) *cli.Command {
	return &cli.Command{
		Name:    "use",
		Summary: "Switch the current workspace",
		Usage:   "altus workspace use <name>",
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 1, "expected exactly one workspace name"); err != nil {
				return err
			}

			store, err := workspace.Load()
			if err != nil {
				return err
			}
			if err := store.Use(args[0]); err != nil {
				return cli.NotFound("%w", err)
			}
			if err := workspace.Save(store); err != nil {
				return err
			}
			ui.Successf("current workspace is now %q", args[0])
			return nil
		},
	}
}

func logoutCommand(ui *console.Console) *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Summary: "Drop a workspace's stored credentials",
		Usage:   "altus workspace logout [name]",
		Description: `Remove a workspace's entry from the credential store. With no
argument, logs out of the current workspace.`,
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) <= 1, "expected at most one workspace name"); err != nil {
				return err
			}

			store, err := workspace.Load()
			if err != nil {
				return err
			}

			name := store.Current
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				return cli.NotFound("no workspace selected; name one: altus workspace logout <name>")
			}

			if err := store.Remove(name); err != nil {
				return cli.NotFound("%w", err)
			}
			if err := workspace.Save(store); err != nil {
				return err
			}

			ui.Successf("logged out of %q", name)
			if store.Current == "" && len(store.Workspaces) > 0 {
				ui.Printf("run \"altus workspace use <name>\" to select another workspace")
			}
			return nil
		},
	}
}

func firstOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
