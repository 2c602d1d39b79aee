// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/api"
	"github.com/altus-cloud/altus/lib/console"
	"github.com/altus-cloud/altus/lib/secret"
	"github.com/altus-cloud/altus/lib/workspace"
)

type loginParams struct {
	URL       string `flag:"url"        desc:"workspace API base URL (e.g. https://acme.altus.dev)"`
	TokenFile string `flag:"token-file" desc:"path to a file containing the access token, or - for stdin (default: prompt)"`
}

func loginCommand(ui *console.Console) *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate against a workspace",
		Description: `Log in to an Altus workspace and save its credentials locally.

The token is verified against the platform before anything is saved;
on success the workspace becomes current, and subsequent commands use
it without flags. The store file is written with mode 0600 since it
contains access tokens.

The token can come from --token-file (a path, or - to read one line
from stdin) or from an interactive no-echo prompt.`,
		Usage: "altus workspace login --url <url> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for the token)",
				Command:     "altus workspace login --url https://acme.altus.dev",
			},
			{
				Description: "Log in with the token piped from a secret manager",
				Command:     "pass show altus/acme | altus workspace login --url acme.altus.dev --token-file -",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.Check(len(args) == 0, "unexpected argument: %s", firstOrEmpty(args)); err != nil {
				return err
			}
			if err := cli.Check(params.URL != "", "--url is required"); err != nil {
				return err
			}

			baseURL, err := normalizeURL(params.URL)
			if err != nil {
				return cli.Validation("%w", err)
			}

			tokenBuffer, err := readToken(params.TokenFile)
			if err != nil {
				return err
			}
			defer tokenBuffer.Close()

			client, err := api.New(api.Config{BaseURL: baseURL, Token: tokenBuffer.String()})
			if err != nil {
				return cli.Validation("%w", err)
			}

			identity, err := client.Whoami(ctx)
			if err != nil {
				if api.IsUnauthorized(err) {
					return cli.Forbidden("login failed: the platform rejected the token")
				}
				return fmt.Errorf("verifying token against %s: %w", baseURL, err)
			}
			logger.Info("token verified", "workspace", identity.Workspace, "user", identity.User)

			entry := &workspace.Workspace{
				URL:        baseURL,
				Token:      tokenBuffer.String(),
				LoggedInAt: time.Now().UTC(),
			}

			// The sealing key enables client-side secret encryption.
			// Not every workspace publishes one, and a metadata failure
			// should not undo an otherwise verified login.
			if info, err := client.GetWorkspace(ctx); err != nil {
				ui.Warnf("could not fetch workspace metadata: %v", err)
			} else {
				entry.SealingKey = info.SealingKey
			}

			store, err := workspace.Load()
			if err != nil {
				return err
			}
			store.Add(identity.Workspace, entry)
			if err := workspace.Save(store); err != nil {
				return err
			}

			ui.Successf("logged in to workspace %q as %s", identity.Workspace, identity.User)
			ui.Printf("credentials saved to %s", workspace.FilePath())
			if entry.SealingKey != "" {
				ui.Printf("secret sealing is enabled for this workspace")
			}
			return nil
		},
	}
}

// normalizeURL canonicalizes an operator-typed workspace URL: trims
// whitespace and trailing slashes and defaults the scheme to https, so
// "acme.altus.dev" and "https://acme.altus.dev/" both store the same
// base URL.
func normalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("workspace URL is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	// Parse before touching trailing slashes: trimming first would eat
	// the "//" of a scheme-only input like "https://" and turn it into
	// a parseable but nonsense URL.
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid workspace URL %q: %w", raw, err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", fmt.Errorf("workspace URL %q must use http or https", raw)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("workspace URL %q has no host", raw)
	}
	return strings.TrimRight(trimmed, "/"), nil
}

// readToken reads the access token into a protected buffer. An empty
// tokenFile means an interactive no-echo prompt; "-" reads one line
// from stdin; anything else is a file path.
func readToken(tokenFile string) (*secret.Buffer, error) {
	if tokenFile != "" {
		return secret.ReadFromPath(tokenFile)
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return nil, cli.Validation("no terminal available for the token prompt (use --token-file)")
	}

	fmt.Fprint(os.Stderr, "Access token: ")
	tokenBytes, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, cli.Internal("reading token: %w", err)
	}
	if len(tokenBytes) == 0 {
		return nil, cli.Validation("token is empty")
	}

	buffer, err := secret.NewFromBytes(tokenBytes)
	if err != nil {
		secret.Zero(tokenBytes)
		return nil, err
	}
	return buffer, nil
}
