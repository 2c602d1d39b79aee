// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete altus CLI command tree. The
// altus binary and the interactive shell both dispatch through trees
// built here, so there is a single source of truth for what the
// client can do.
package commands

import (
	"context"
	"log/slog"
	"runtime"

	artifactcmd "github.com/altus-cloud/altus/cmd/altus/artifact"
	"github.com/altus-cloud/altus/cmd/altus/cli"
	deploymentcmd "github.com/altus-cloud/altus/cmd/altus/deployment"
	doctorcmd "github.com/altus-cloud/altus/cmd/altus/doctor"
	secretcmd "github.com/altus-cloud/altus/cmd/altus/secret"
	shellcmd "github.com/altus-cloud/altus/cmd/altus/shell"
	suggestcmd "github.com/altus-cloud/altus/cmd/altus/suggest"
	workspacecmd "github.com/altus-cloud/altus/cmd/altus/workspace"
	"github.com/altus-cloud/altus/lib/config"
	"github.com/altus-cloud/altus/lib/console"
	"github.com/altus-cloud/altus/lib/version"
)

// Root builds and returns the complete altus CLI command tree. All
// user-facing output flows through the given console.
func Root(ui *console.Console) *cli.Command {
	root := build(ui, true)

	// When the configuration prefers JSON output, pre-seed every
	// JSON-capable command; --json=false on the command line still
	// overrides the seeded default.
	if cfg, err := config.Load(); err == nil && cfg.Output.Format == "json" {
		seedJSONOutput(root)
	}

	return root
}

// build constructs a command tree. withShell controls whether the
// interactive shell is included: trees built for dispatch inside a
// shell session omit it so sessions cannot nest. The shell rebuilds
// its tree per line through the closure passed here, which keeps flag
// state from leaking between lines.
func build(ui *console.Console, withShell bool) *cli.Command {
	root := &cli.Command{
		Name: "altus",
		Description: `Altus: cloud application platform client.

Manage workspace credentials, deployments, secrets, and artifacts in
the current Altus workspace. Any unique abbreviation of a command name
works in place of the full name: "altus dep li" runs "altus deployment
list".`,
		Subcommands: []*cli.Command{
			workspacecmd.Commands(ui),
			cli.WhoAmICommand(ui),
			deploymentcmd.Commands(ui),
			secretcmd.Commands(ui),
			artifactcmd.Commands(ui),
			doctorcmd.Command(),
			versionCommand(ui),
		},
		Examples: []cli.Example{
			{
				Description: "Diagnose the client environment (start here when lost)",
				Command:     "altus doctor",
			},
			{
				Description: "Log in to a workspace",
				Command:     "altus workspace login --url https://acme.altus.dev",
			},
			{
				Description: "See what's deployed",
				Command:     "altus deployment list",
			},
			{
				Description: "Deploy from a spec file",
				Command:     "altus deployment create --file api-server.jsonc",
			},
			{
				Description: "Watch deployments converge, live",
				Command:     "altus deployment watch",
			},
			{
				Description: "Store a secret, sealed to the workspace key",
				Command:     "altus secret create db-password",
			},
			{
				Description: "Find a command by describing the task",
				Command:     `altus suggest "upload a build output"`,
			},
		},
	}

	// Commands that need the full tree: suggest walks root.Subcommands
	// to build its search index, and the shell rebuilds a tree per
	// dispatched line.
	root.Subcommands = append(root.Subcommands, suggestcmd.Command(ui, root))
	if withShell {
		root.Subcommands = append(root.Subcommands,
			shellcmd.Command(ui, func() *cli.Command { return build(ui, false) }))
	}

	return root
}

type versionParams struct {
	cli.JSONOutput
}

// versionOutput is the JSON output for the version command.
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func versionCommand(ui *console.Console) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			output := versionOutput{
				Version:   version.Version,
				Commit:    version.GitCommit,
				BuildTime: version.BuildTime,
				GoVersion: runtime.Version(),
			}
			if done, err := params.EmitJSON(output); done {
				return err
			}
			ui.Printf("altus %s", version.Full())
			return nil
		},
	}
}

// seedJSONOutput flips every JSON-capable command in the tree to JSON
// output mode.
func seedJSONOutput(command *cli.Command) {
	if command.Params != nil {
		if outputter, ok := command.Params().(cli.JSONOutputter); ok {
			outputter.SetJSONOutput(true)
		}
	}
	for _, sub := range command.Subcommands {
		seedJSONOutput(sub)
	}
}
