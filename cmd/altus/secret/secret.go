// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret implements the "altus secret" command group. Secret
// values move through locked buffers (lib/secret) and, when the
// workspace publishes a sealing key, are encrypted client-side
// (lib/sealed) so the platform only ever stores ciphertext.
package secret

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/api"
	"github.com/altus-cloud/altus/lib/console"
	"github.com/altus-cloud/altus/lib/sealed"
	"github.com/altus-cloud/altus/lib/secret"
)

// Commands returns the "secret" command group.
func Commands(ui *console.Console) *cli.Command {
	return &cli.Command{
		Name:    "secret",
		Summary: "Manage workspace secrets",
		Description: `Store and manage secret values for deployments to consume.

Values never appear in command output or logs. When the workspace
publishes a sealing key, values are encrypted on this machine before
upload and the platform stores only ciphertext.`,
		Subcommands: []*cli.Command{
			createCommand(ui),
			listCommand(ui),
			removeCommand(ui),
		},
	}
}

type createParams struct {
	ValueFile string `flag:"value-file" desc:"path to a file containing the value, or - for stdin (default: prompt)"`
	NoSeal    bool   `flag:"no-seal"    desc:"skip client-side sealing even when the workspace supports it"`
}

func createCommand(ui *console.Console) *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create or update a secret",
		Usage:   "altus secret create <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Create a secret interactively (prompts for the value)",
				Command:     "altus secret create database-url",
			},
			{
				Description: "Pipe the value from another tool",
				Command:     "openssl rand -hex 32 | altus secret create session-key --value-file -",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.Check(len(args) == 1, "expected exactly one secret name"); err != nil {
				return err
			}
			name := args[0]

			client, ws, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			valueBuffer, err := readValue(params.ValueFile)
			if err != nil {
				return err
			}
			defer valueBuffer.Close()

			value := api.SecretValue{}
			sealedClientSide := false
			if ws.SealingKey != "" && !params.NoSeal {
				if err := sealed.ValidateRecipient(ws.SealingKey); err != nil {
					return cli.Internal("%w (log in again to refresh the key)", err)
				}
				envelope, err := sealed.Seal(valueBuffer.Bytes(), ws.SealingKey)
				if err != nil {
					return cli.Internal("sealing secret: %w", err)
				}
				value.SealedValue = envelope
				sealedClientSide = true
			} else {
				value.Value = valueBuffer.String()
			}

			if err := client.PutSecret(ctx, name, value); err != nil {
				return err
			}
			logger.Info("secret written", "name", name, "sealed", sealedClientSide)

			if sealedClientSide {
				ui.Successf("secret %q saved (sealed client-side)", name)
			} else {
				ui.Successf("secret %q saved", name)
				if ws.SealingKey == "" {
					ui.Warnf("this workspace publishes no sealing key; the value was sent over TLS and is encrypted at rest by the platform")
				}
			}
			return nil
		},
	}
}

type listParams struct {
	cli.JSONOutput
}

func listCommand(ui *console.Console) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List secrets (names and metadata only)",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 0, "unexpected argument: %s", firstOrEmpty(args)); err != nil {
				return err
			}

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}
			secrets, err := client.ListSecrets(ctx)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(secrets); done {
				return err
			}

			if len(secrets) == 0 {
				ui.Printf("no secrets in this workspace")
				return nil
			}

			rows := make([][]string, 0, len(secrets))
			for _, info := range secrets {
				sealedCell := "no"
				if info.Sealed {
					sealedCell = "yes"
				}
				rows = append(rows, []string{
					info.Name,
					sealedCell,
					"v" + strconv.Itoa(info.Version),
					info.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			ui.Table([]string{"NAME", "SEALED", "VERSION", "UPDATED"}, rows)
			return nil
		},
	}
}

type removeParams struct {
	IgnoreMissing bool `flag:"ignore-missing" desc:"succeed even when the secret does not exist"`
}

func removeCommand(ui *console.Console) *cli.Command {
	var params removeParams

	return &cli.Command{
		Name:    "remove",
		Summary: "Delete a secret",
		Usage:   "altus secret remove <name> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 1, "expected exactly one secret name"); err != nil {
				return err
			}
			name := args[0]

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			err = client.RemoveSecret(ctx, name)
			return cli.Explain(ui, err, cli.Outcome{
				OK:             fmt.Sprintf("secret %q removed", name),
				NotFound:       fmt.Sprintf("secret %q does not exist", name),
				Other:          fmt.Sprintf("removing secret %q", name),
				FailOnNotFound: !params.IgnoreMissing,
			})
		},
	}
}

// readValue reads the secret value into a protected buffer. An empty
// valueFile means an interactive no-echo prompt; "-" reads one line
// from stdin; anything else is a file path.
func readValue(valueFile string) (*secret.Buffer, error) {
	if valueFile != "" {
		return secret.ReadFromPath(valueFile)
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return nil, cli.Validation("no terminal available for the value prompt (use --value-file)")
	}

	fmt.Fprint(os.Stderr, "Value: ")
	valueBytes, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, cli.Internal("reading value: %w", err)
	}
	if len(valueBytes) == 0 {
		return nil, cli.Validation("value is empty")
	}

	buffer, err := secret.NewFromBytes(valueBytes)
	if err != nil {
		secret.Zero(valueBytes)
		return nil, err
	}
	return buffer, nil
}

func firstOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
