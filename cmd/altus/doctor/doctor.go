// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor implements the "altus doctor" command: client-side
// environment health checks. It verifies the configuration file, the
// credential store and its permissions, the current workspace
// selection, and finally that the platform accepts the stored token.
// Permission problems on the store are repairable with --fix.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/cmd/altus/cli/doctor"
	"github.com/altus-cloud/altus/lib/api"
	"github.com/altus-cloud/altus/lib/config"
	"github.com/altus-cloud/altus/lib/workspace"
)

type doctorParams struct {
	cli.JSONOutput
	Fix    bool `flag:"fix"     desc:"repair fixable problems (file permissions)"`
	DryRun bool `flag:"dry-run" desc:"show what --fix would repair without changing anything"`
}

// Command returns the "doctor" command.
func Command() *cli.Command {
	var params doctorParams

	return &cli.Command{
		Name:    "doctor",
		Summary: "Check the client environment and workspace credentials",
		Description: `Diagnose the altus client environment end to end: configuration file,
credential store permissions, current workspace selection, and whether
the platform still accepts the stored token.

Permission problems on the credential store are repairable: run with
--fix to chmod the store file and its directory to owner-only access.
This is the "I'm lost" command — run it first when altus misbehaves.`,
		Usage: "altus doctor [flags]",
		Examples: []cli.Example{
			{
				Description: "Check client health",
				Command:     "altus doctor",
			},
			{
				Description: "Repair loose credential-store permissions",
				Command:     "altus doctor --fix",
			},
			{
				Description: "Machine-readable report",
				Command:     "altus doctor --json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.DryRun && !params.Fix {
				return cli.Validation("--dry-run requires --fix")
			}

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			results := runChecks(ctx, logger)

			var outcome doctor.Outcome
			if params.Fix {
				outcome = doctor.ExecuteFixes(ctx, results, params.DryRun)
			}

			if params.OutputJSON {
				report := doctor.BuildReport(results, params.DryRun, outcome)
				if err := cli.WriteJSON(report); err != nil {
					return err
				}
				if !report.OK {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}

			return doctor.PrintChecklist(os.Stdout, results, params.Fix, params.DryRun, outcome)
		},
	}
}

// runChecks executes every client health check in dependency order.
// Later checks skip when their prerequisite failed: there is no point
// probing the API without a selected workspace.
func runChecks(ctx context.Context, logger *slog.Logger) []doctor.Result {
	var results []doctor.Result

	results = append(results, checkConfig())
	results = append(results, checkStorePermissions()...)

	store, current := checkWorkspaceSelection(&results)
	if current == nil {
		results = append(results,
			doctor.Skip("workspace URL", "no workspace selected"),
			doctor.Skip("platform API", "no workspace selected"),
		)
		return results
	}

	if !checkWorkspaceURL(&results, store.Current, current.URL) {
		results = append(results, doctor.Skip("platform API", "workspace URL is invalid"))
		return results
	}

	results = append(results, checkPlatform(ctx, store.Current, current, logger))
	return results
}

// checkConfig verifies the client configuration parses and validates.
func checkConfig() doctor.Result {
	cfg, err := config.Load()
	if err != nil {
		return doctor.Fail("configuration", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return doctor.Fail("configuration", err.Error())
	}
	return doctor.Pass("configuration", "configuration is valid")
}

// checkStorePermissions verifies the credential store file and its
// directory are owner-only. Loose permissions fail with a chmod fix.
func checkStorePermissions() []doctor.Result {
	path := workspace.FilePath()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return []doctor.Result{doctor.Skip("store permissions", "no credential store yet (nothing to check)")}
	}
	if err != nil {
		return []doctor.Result{doctor.Fail("store permissions", fmt.Sprintf("cannot stat %s: %v", path, err))}
	}

	var results []doctor.Result

	if mode := info.Mode().Perm(); mode&0077 != 0 {
		results = append(results, doctor.FailWithFix(
			"store permissions",
			fmt.Sprintf("%s is mode %04o; tokens are readable by others", path, mode),
			fmt.Sprintf("chmod 0600 %s", path),
			func(_ context.Context) error { return os.Chmod(path, 0600) },
		))
	} else {
		results = append(results, doctor.Pass("store permissions", fmt.Sprintf("%s is owner-only", path)))
	}

	directory := filepath.Dir(path)
	if dirInfo, err := os.Stat(directory); err == nil {
		if mode := dirInfo.Mode().Perm(); mode&0077 != 0 {
			results = append(results, doctor.FailWithFix(
				"store directory",
				fmt.Sprintf("%s is mode %04o; should be owner-only", directory, mode),
				fmt.Sprintf("chmod 0700 %s", directory),
				func(_ context.Context) error { return os.Chmod(directory, 0700) },
			))
		} else {
			results = append(results, doctor.Pass("store directory", fmt.Sprintf("%s is owner-only", directory)))
		}
	}

	return results
}

// checkWorkspaceSelection loads the store and resolves the current
// workspace, appending the verdict. Returns the store and the current
// workspace (nil when resolution failed).
func checkWorkspaceSelection(results *[]doctor.Result) (*workspace.Store, *workspace.Workspace) {
	store, err := workspace.Load()
	if err != nil {
		*results = append(*results, doctor.Fail("workspace selected", err.Error()))
		return nil, nil
	}

	name, current, err := store.CurrentWorkspace()
	if err != nil {
		*results = append(*results, doctor.Fail("workspace selected", err.Error()))
		return store, nil
	}

	*results = append(*results, doctor.Pass("workspace selected", fmt.Sprintf("current workspace is %q", name)))
	return store, current
}

// checkWorkspaceURL verifies the stored URL is a well-formed HTTP(S)
// URL, appending the verdict. Returns false when the URL is unusable.
func checkWorkspaceURL(results *[]doctor.Result, name, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		*results = append(*results, doctor.Fail("workspace URL",
			fmt.Sprintf("workspace %q URL %q does not parse: %v", name, rawURL, err)))
		return false
	}
	if (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
		*results = append(*results, doctor.Fail("workspace URL",
			fmt.Sprintf("workspace %q URL %q is not an HTTP(S) URL", name, rawURL)))
		return false
	}

	*results = append(*results, doctor.Pass("workspace URL", rawURL))
	return true
}

// checkPlatform builds an API client from the stored credentials and
// verifies the platform accepts the token. A platform error response
// means the API is reachable but the token is bad; a transport error
// means the API itself is unreachable.
func checkPlatform(ctx context.Context, name string, current *workspace.Workspace, logger *slog.Logger) doctor.Result {
	cfg, err := config.Load()
	if err != nil {
		// checkConfig already reported the config problem in detail.
		return doctor.Skip("platform API", "configuration failed to load")
	}

	client, err := api.New(api.Config{
		BaseURL: current.URL,
		Token:   current.Token,
		Timeout: cfg.Timeout(),
	})
	if err != nil {
		return doctor.Fail("platform API", err.Error())
	}

	identity, err := client.Whoami(ctx)
	if err == nil {
		logger.Debug("token verified", "workspace", identity.Workspace, "user", identity.User)
		return doctor.Pass("platform API", fmt.Sprintf("authenticated as %s in %q", identity.User, identity.Workspace))
	}

	if api.IsUnauthorized(err) {
		return doctor.Fail("platform API",
			fmt.Sprintf("the platform rejected workspace %q's token; run \"altus workspace login\" again", name))
	}

	var apiError *api.Error
	if errors.As(err, &apiError) {
		return doctor.Fail("platform API", fmt.Sprintf("platform answered %d: %s", apiError.StatusCode, apiError.Message))
	}
	return doctor.Fail("platform API", fmt.Sprintf("%s is unreachable: %v", current.URL, err))
}
