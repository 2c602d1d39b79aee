// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/altus-cloud/altus/lib/api"
	"github.com/altus-cloud/altus/lib/config"
	"github.com/altus-cloud/altus/lib/console"
	"github.com/altus-cloud/altus/lib/workspace"
)

// Connect resolves the current workspace credentials into a ready
// platform API client. This is the single path from "command needs the
// API" to an authenticated client: it loads the client configuration,
// reads the workspace store, and builds the client from the current
// workspace's URL and token. Resolution itself is local file reads;
// every call made with the returned client takes its own context.
//
// Any form of credential absence — no store file, no current
// workspace, a stored entry without URL or token — surfaces as a
// not-found command error whose message tells the user to run
// "altus workspace login"; the rim prints it and exits 1.
func Connect(ctx context.Context) (*api.Client, *workspace.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	store, err := workspace.Load()
	if err != nil {
		return nil, nil, err
	}

	_, current, err := store.CurrentWorkspace()
	if err != nil {
		// The store's message already carries the login guidance; the
		// category makes the failure classifiable.
		return nil, nil, &CommandError{Category: CategoryNotFound, Err: err}
	}

	client, err := api.New(api.Config{
		BaseURL: current.URL,
		Token:   current.Token,
		Timeout: cfg.Timeout(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("workspace %q: %w", store.Current, err)
	}
	return client, current, nil
}

// NewConsole builds the styled stdout console commands print through.
// The color mode comes from the client configuration (output.color);
// configuration load failures degrade to auto detection rather than
// blocking output entirely — the command proper will surface the
// config error through a path that can explain it.
func NewConsole() *console.Console {
	mode := console.ModeAuto
	if cfg, err := config.Load(); err == nil {
		mode = console.Mode(cfg.Output.Color)
	}
	return console.New(os.Stdout, mode)
}
