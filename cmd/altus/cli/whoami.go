// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"

	"github.com/altus-cloud/altus/lib/console"
	"github.com/altus-cloud/altus/lib/workspace"
)

// whoamiParams holds the parameters for the whoami command.
type whoamiParams struct {
	JSONOutput
}

// whoamiOutput is the JSON output for the whoami command.
type whoamiOutput struct {
	Workspace string `json:"workspace"`
	User      string `json:"user"`
	Plan      string `json:"plan"`
	URL       string `json:"url"`
	StoreFile string `json:"store_file"`
}

// WhoAmICommand returns the "whoami" command for displaying the
// authenticated identity. It resolves the current workspace from the
// credential store, asks the platform who the token belongs to, and
// shows both — so a pass doubles as proof that the stored token is
// still accepted.
func WhoAmICommand(ui *console.Console) *Command {
	var params whoamiParams

	return &Command{
		Name:    "whoami",
		Summary: "Show the authenticated workspace identity",
		Description: `Display the identity behind the current workspace's access token.

Resolves the current workspace from the local credential store, then
asks the platform who the stored token belongs to. The workspace name,
operator account, and billing plan come from the platform's answer,
so a successful whoami also confirms the token is still valid.`,
		Usage: "altus whoami [flags]",
		Examples: []Example{
			{
				Description: "Show the current identity",
				Command:     "altus whoami",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			client, current, err := Connect(ctx)
			if err != nil {
				return err
			}

			identity, err := client.Whoami(ctx)
			identity, err = Guard(identity, err, false,
				"the platform rejected the stored token; run \"altus workspace login\" again")
			if err != nil {
				return err
			}
			logger.Debug("identity resolved", "workspace", identity.Workspace, "user", identity.User)

			output := whoamiOutput{
				Workspace: identity.Workspace,
				User:      identity.User,
				Plan:      identity.Plan,
				URL:       current.URL,
				StoreFile: workspace.FilePath(),
			}
			if done, err := params.EmitJSON(output); done {
				return err
			}

			ui.Printf("workspace: %s", output.Workspace)
			ui.Printf("user:      %s", output.User)
			ui.Printf("plan:      %s", output.Plan)
			ui.Printf("url:       %s", output.URL)
			ui.Printf("store:     %s", output.StoreFile)
			return nil
		},
	}
}
