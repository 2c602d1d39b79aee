// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact implements the "altus artifact" command group:
// pushing files into content-addressed workspace storage, pulling
// them back with full verification, and listing what is stored.
package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/blob"
	"github.com/altus-cloud/altus/lib/config"
	"github.com/altus-cloud/altus/lib/console"
)

// Commands returns the "artifact" command group.
func Commands(ui *console.Console) *cli.Command {
	return &cli.Command{
		Name:    "artifact",
		Summary: "Store and retrieve workspace artifacts",
		Description: `Store and retrieve artifacts in the current workspace.

Artifacts are chunked, compressed, and content-addressed on the
client. A push uploads only the chunks the platform does not already
hold, and a pull verifies every chunk hash plus the manifest ID
before writing the output file.`,
		Subcommands: []*cli.Command{
			pushCommand(ui),
			pullCommand(ui),
			listCommand(ui),
		},
	}
}

type pushParams struct {
	cli.JSONOutput
	Name string `flag:"name" desc:"store under this name instead of the file's base name"`
}

func pushCommand(ui *console.Console) *cli.Command {
	var params pushParams

	return &cli.Command{
		Name:    "push",
		Summary: "Upload a file as an artifact",
		Usage:   "altus artifact push <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Push a build output",
				Command:     "altus artifact push dist/app.tar",
			},
			{
				Description: "Push under an explicit name",
				Command:     "altus artifact push model.bin --name models/resnet-50",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.Check(len(args) == 1, "expected exactly one file to push"); err != nil {
				return err
			}
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return cli.Validation("%v", err)
			}
			name := params.Name
			if name == "" {
				name = filepath.Base(path)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if cfg.ChunkSize() <= 0 {
				return cli.Validation("artifacts.chunk_size_kib must be positive, got %d", cfg.Artifacts.ChunkSizeKiB)
			}

			manifest, chunks, err := blob.Build(name, data, cfg.ChunkSize())
			if err != nil {
				return fmt.Errorf("building artifact %q: %w", name, err)
			}
			manifestID, err := manifest.ID()
			if err != nil {
				return err
			}

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			missing, err := client.BeginUpload(ctx, name, manifestID, manifest.ChunkHashes())
			if err != nil {
				return err
			}

			// Index by hash: identical chunks collapse to one upload,
			// and the platform's missing list resolves without
			// rescanning the payload.
			index := make(map[string]blob.Chunk, len(chunks))
			for _, chunk := range chunks {
				index[blob.FormatHash(chunk.Hash)] = chunk
			}
			for _, hash := range missing {
				chunk, ok := index[hash]
				if !ok {
					return fmt.Errorf("platform requested chunk %s, which is not part of %q", hash, name)
				}
				if err := client.PutChunk(ctx, hash, chunk.Data); err != nil {
					return err
				}
			}

			encoded, err := manifest.Encode()
			if err != nil {
				return err
			}
			info, err := client.CommitArtifact(ctx, name, encoded)
			if err != nil {
				return err
			}
			logger.Info("artifact pushed",
				"name", info.Name,
				"manifest_id", info.ManifestID,
				"size", len(data),
				"chunks", len(index),
				"uploaded", len(missing))

			if done, err := params.EmitJSON(info); done {
				return err
			}
			ui.Successf("artifact %q pushed (%s)", info.Name, formatSize(info.Size))
			ui.Printf("manifest ID: %s", info.ManifestID)
			ui.Printf("uploaded %d of %d chunks (%d already on the platform)",
				len(missing), len(index), len(index)-len(missing))
			return nil
		},
	}
}

type pullParams struct {
	Output string `flag:"output,o" desc:"write the artifact to this path (default: the artifact's base name)"`
	Force  bool   `flag:"force"    desc:"overwrite the output path if it exists"`
}

func pullCommand(ui *console.Console) *cli.Command {
	var params pullParams

	return &cli.Command{
		Name:    "pull",
		Summary: "Download an artifact",
		Usage:   "altus artifact pull <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Pull to the current directory",
				Command:     "altus artifact pull app.tar",
			},
			{
				Description: "Pull to an explicit path, replacing what is there",
				Command:     "altus artifact pull models/resnet-50 --output ./resnet.bin --force",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.Check(len(args) == 1, "expected exactly one artifact name"); err != nil {
				return err
			}
			name := args[0]

			outputPath := params.Output
			if outputPath == "" {
				outputPath = filepath.Base(name)
			}
			if _, err := os.Stat(outputPath); err == nil && !params.Force {
				return cli.Conflict("refusing to overwrite %s (pass --force to replace it)", outputPath)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			artifacts, err := client.ListArtifacts(ctx)
			if err != nil {
				return err
			}
			publishedID := ""
			for _, info := range artifacts {
				if info.Name == name {
					publishedID = info.ManifestID
					break
				}
			}
			if publishedID == "" {
				return cli.NotFound("artifact %q does not exist", name)
			}

			encoded, err := client.GetManifest(ctx, name)
			if err != nil {
				return err
			}
			manifest, err := blob.DecodeManifest(encoded)
			if err != nil {
				return fmt.Errorf("manifest for %q: %w", name, err)
			}
			computedID, err := manifest.ID()
			if err != nil {
				return err
			}
			if computedID != publishedID {
				return fmt.Errorf("manifest for %q does not match its published ID (expected %s, computed %s)",
					name, publishedID, computedID)
			}

			cache := openChunkCache(cfg.Artifacts.CacheDir, logger)

			refs := make(map[blob.Hash]blob.ChunkRef, len(manifest.Chunks))
			for _, ref := range manifest.Chunks {
				refs[ref.Hash] = ref
			}
			fetch := func(hash blob.Hash) ([]byte, error) {
				key := blob.FormatHash(hash)
				ref := refs[hash]
				if cache != nil {
					if data, ok := cache.get(key, ref.Compression); ok {
						if chunkIntact(data, ref) {
							return data, nil
						}
						cache.drop(key, ref.Compression)
						logger.Warn("dropped corrupt cached chunk", "hash", key)
					}
				}
				data, err := client.GetChunk(ctx, key)
				if err != nil {
					return nil, err
				}
				if cache != nil {
					cache.put(key, ref.Compression, data)
				}
				return data, nil
			}

			payload, err := blob.Reassemble(manifest, fetch)
			if err != nil {
				return fmt.Errorf("pulling %q: %w", name, err)
			}
			if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}
			logger.Info("artifact pulled",
				"name", name,
				"output", outputPath,
				"size", len(payload),
				"chunks", len(manifest.Chunks))

			ui.Successf("pulled %q to %s (%s)", name, outputPath, formatSize(int64(len(payload))))
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
		Summary: "List artifacts",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) == 0, "unexpected argument: %s", firstOrEmpty(args)); err != nil {
				return err
			}

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}
			artifacts, err := client.ListArtifacts(ctx)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(artifacts); done {
				return err
			}

			if len(artifacts) == 0 {
				ui.Printf("no artifacts in this workspace")
				return nil
			}

			rows := make([][]string, 0, len(artifacts))
			for _, info := range artifacts {
				rows = append(rows, []string{
					info.Name,
					shortID(info.ManifestID),
					formatSize(info.Size),
					strconv.Itoa(info.ChunkCount),
					info.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			ui.Table([]string{"NAME", "ID", "SIZE", "CHUNKS", "CREATED"}, rows)
			return nil
		},
	}
}

// shortID abbreviates a manifest ID for table display. The full ID is
// available via --json.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func firstOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
