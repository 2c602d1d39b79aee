// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package deployment implements the "altus deployment" command group:
// creating deployments from JSONC spec files, inspecting and listing
// them, restarting, removing, and a live watch view.
package deployment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/api"
	"github.com/altus-cloud/altus/lib/console"
	"github.com/altus-cloud/altus/lib/deployspec"
)

// Commands returns the "deployment" command group.
func Commands(ui *console.Console) *cli.Command {
	return &cli.Command{
		Name:    "deployment",
		Summary: "Manage workspace deployments",
		Description: `Create, inspect, and operate deployments in the current workspace.

Deployments are declared in JSONC spec files (JSON with comments and
trailing commas) and validated locally before anything reaches the
platform.`,
		Subcommands: []*cli.Command{
			createCommand(ui),
			listCommand(ui),
			getCommand(ui),
			restartCommand(ui),
			removeCommand(ui),
			watchCommand(ui),
		},
	}
}

type createParams struct {
	cli.JSONOutput
	File   string `flag:"file,f" desc:"path to the deployment spec (JSONC)"`
	Name   string `flag:"name"   desc:"override the spec's deployment name"`
	Detail bool   `flag:"detail" desc:"show the full platform response on errors"`
}

func createCommand(ui *console.Console) *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a deployment from a spec file",
		Usage:   "altus deployment create --file <spec.jsonc> [flags]",
		Examples: []cli.Example{
			{
				Description: "Create from a spec file",
				Command:     "altus deployment create --file api-server.jsonc",
			},
			{
				Description: "Create under a different name",
				Command:     "altus deployment create --file api-server.jsonc --name api-canary",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.Check(len(args) == 0, "unexpected argument: %s", firstOrEmpty(args)); err != nil {
				return err
			}
			if err := cli.Check(params.File != "", "--file is required"); err != nil {
				return err
			}

			spec, err := deployspec.ReadFile(params.File)
			if err != nil {
				return cli.Validation("%w", err)
			}
			if params.Name != "" {
				spec.Name = params.Name
			}
			if err := spec.Validate(); err != nil {
				return cli.Validation("%s: %w", params.File, err)
			}

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			created, err := client.CreateDeployment(ctx, spec)
			created, err = cli.Guard(created, err, params.Detail,
				fmt.Sprintf("deployment %q was not created (re-run with --detail for the platform response)", spec.Name))
			if err != nil {
				return err
			}
			logger.Info("deployment created", "name", created.Name, "image", created.Image)

			if done, err := params.EmitJSON(created); done {
				return err
			}
			ui.Successf("deployment %q created", created.Name)
			ui.Printf("state: %s (%d/%d replicas ready)", created.State, created.Replicas.Ready, created.Replicas.Desired)
			if created.Endpoint != "" {
				ui.Printf("endpoint: %s", created.Endpoint)
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
		Summary: "List deployments",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 0, "unexpected argument: %s", firstOrEmpty(args)); err != nil {
				return err
			}

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}
			deployments, err := client.ListDeployments(ctx)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(deployments); done {
				return err
			}

			if len(deployments) == 0 {
				ui.Printf("no deployments in this workspace")
				return nil
			}

			rows := make([][]string, 0, len(deployments))
			for _, deployment := range deployments {
				rows = append(rows, []string{
					deployment.Name,
					deployment.State,
					formatReplicas(deployment.Replicas),
					formatAge(deployment.CreatedAt),
					deployment.Endpoint,
				})
			}
			ui.Table([]string{"NAME", "STATE", "REPLICAS", "AGE", "ENDPOINT"}, rows)
			return nil
		},
	}
}

type getParams struct {
	cli.JSONOutput
}

func getCommand(ui *console.Console) *cli.Command {
	var params getParams

	return &cli.Command{
		Name:    "get",
		Summary: "Show one deployment",
		Usage:   "altus deployment get <name> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 1, "expected exactly one deployment name"); err != nil {
				return err
			}
			name := args[0]

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			deployment, err := client.GetDeployment(ctx, name)
			if err != nil {
				return cli.Explain(ui, err, cli.Outcome{
					NotFound:       fmt.Sprintf("deployment %q does not exist", name),
					Other:          fmt.Sprintf("getting deployment %q", name),
					FailOnNotFound: true,
				})
			}

			if done, err := params.EmitJSON(deployment); done {
				return err
			}

			rows := [][]string{
				{"name", deployment.Name},
				{"image", deployment.Image},
				{"state", deployment.State},
				{"replicas", formatReplicas(deployment.Replicas)},
				{"created", fmt.Sprintf("%s (%s ago)", deployment.CreatedAt.Format(time.RFC3339), formatAge(deployment.CreatedAt))},
			}
			if deployment.Endpoint != "" {
				rows = append(rows, []string{"endpoint", deployment.Endpoint})
			}
			ui.Table(nil, rows)
			return nil
		},
	}
}

func restartCommand(ui *console.Console) *cli.Command {
	return &cli.Command{
		Name:    "restart",
		Summary: "Roll all replicas of a deployment",
		Usage:   "altus deployment restart <name>",
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 1, "expected exactly one deployment name"); err != nil {
				return err
			}
			name := args[0]

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			_, err = client.RestartDeployment(ctx, name)
			return cli.Explain(ui, err, cli.Outcome{
				OK:             fmt.Sprintf("deployment %q restarted", name),
				NotFound:       fmt.Sprintf("deployment %q does not exist", name),
				Other:          fmt.Sprintf("restarting deployment %q", name),
				FailOnNotFound: true,
			})
		},
	}
}

type removeParams struct {
	IgnoreMissing bool `flag:"ignore-missing" desc:"succeed even when the deployment does not exist"`
}

func removeCommand(ui *console.Console) *cli.Command {
	var params removeParams

	return &cli.Command{
		Name:    "remove",
		Summary: "Delete a deployment",
		Usage:   "altus deployment remove <name> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 1, "expected exactly one deployment name"); err != nil {
				return err
			}
			name := args[0]

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			err = client.RemoveDeployment(ctx, name)
			return cli.Explain(ui, err, cli.Outcome{
				OK:             fmt.Sprintf("deployment %q removed", name),
				NotFound:       fmt.Sprintf("deployment %q does not exist", name),
				Other:          fmt.Sprintf("removing deployment %q", name),
				FailOnNotFound: !params.IgnoreMissing,
			})
		},
	}
}

func formatReplicas(replicas api.Replicas) string {
	return strconv.Itoa(replicas.Ready) + "/" + strconv.Itoa(replicas.Desired)
}

// formatAge renders the time since t in the largest single unit, the
// way deployment dashboards abbreviate ages: "45s", "12m", "3h", "5d".
func formatAge(t time.Time) string {
	age := time.Since(t)
	switch {
	case age < 0:
		return "0s"
	case age < time.Minute:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd", int(age.Hours()/24))
	}
}

func firstOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
