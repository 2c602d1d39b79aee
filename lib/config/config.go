// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the altus client configuration.
type Config struct {
	// API configures how the client talks to the control plane.
	API APIConfig `yaml:"api"`

	// Output configures console rendering.
	Output OutputConfig `yaml:"output"`

	// Artifacts configures the artifact content pipeline.
	Artifacts ArtifactsConfig `yaml:"artifacts"`
}

// APIConfig configures the platform API client.
type APIConfig struct {
	// TimeoutSeconds bounds each API call. Every call is a single
	// attempt; there is no retry.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// OutputConfig configures console rendering.
type OutputConfig struct {
	// Color is "auto", "always", or "never".
	Color string `yaml:"color"`

	// Format is the default output format: "text" or "json".
	// Individual commands override it with --json.
	Format string `yaml:"format"`
}

// ArtifactsConfig configures artifact pushes.
type ArtifactsConfig struct {
	// ChunkSizeKiB is the artifact chunk size in KiB.
	ChunkSizeKiB int `yaml:"chunk_size_kib"`

	// CacheDir holds downloaded chunks between pulls. Defaults to
	// ${XDG_CACHE_HOME:-~/.cache}/altus.
	CacheDir string `yaml:"cache_dir"`
}

// Dir returns the altus configuration directory: $ALTUS_CONFIG_DIR,
// $XDG_CONFIG_HOME/altus, or ~/.config/altus.
func Dir() string {
	if dir := os.Getenv("ALTUS_CONFIG_DIR"); dir != "" {
		return dir
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// Fallback for environments without a home directory.
			return filepath.Join(os.TempDir(), "altus")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "altus")
}

// Default returns the built-in defaults. A fresh install with no
// config file runs entirely on these.
func Default() *Config {
	return &Config{
		API: APIConfig{
			TimeoutSeconds: 30,
		},
		Output: OutputConfig{
			Color:  "auto",
			Format: "text",
		},
		Artifacts: ArtifactsConfig{
			ChunkSizeKiB: 1024,
			CacheDir:     "${XDG_CACHE_HOME:-${HOME}/.cache}/altus",
		},
	}
}

// Load loads configuration from $ALTUS_CONFIG, or from the default
// path when unset. A missing default file yields [Default]; a missing
// $ALTUS_CONFIG file is an error since the user named it explicitly.
func Load() (*Config, error) {
	if path := os.Getenv("ALTUS_CONFIG"); path != "" {
		return LoadFile(path)
	}

	path := filepath.Join(Dir(), "config.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnvironment()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. The file
// must exist. Unknown keys are rejected so typos surface immediately.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvironment()
	cfg.expandVariables()
	return cfg, nil
}

// applyEnvironment applies the small set of environment overrides.
func (c *Config) applyEnvironment() {
	if raw := os.Getenv("ALTUS_API_TIMEOUT"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			c.API.TimeoutSeconds = seconds
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = "never"
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Artifacts.CacheDir = expandVars(c.Artifacts.CacheDir, vars)
}

func expandVars(s string, vars map[string]string) string {
	var out strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '{' {
			if end := matchingBrace(s, i+1); end >= 0 {
				out.WriteString(expandReference(s[i+2:end], vars))
				i = end + 1
				continue
			}
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}

// matchingBrace returns the index of the close brace matching the open
// brace at position open, or -1 when the braces are unbalanced. Brace
// depth is counted so a default value may itself contain a ${VAR}
// reference (e.g. ${XDG_CACHE_HOME:-${HOME}/.cache}).
func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// expandReference resolves one NAME or NAME:-default reference body.
// The explicit vars take priority over the process environment; the
// default is expanded recursively so nested references resolve.
func expandReference(body string, vars map[string]string) string {
	name, defaultValue, hasDefault := strings.Cut(body, ":-")
	if value, ok := vars[name]; ok && value != "" {
		return value
	}
	if value := os.Getenv(name); value != "" {
		return value
	}
	if hasDefault {
		return expandVars(defaultValue, vars)
	}
	return ""
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.API.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds))
	}

	colorValues := []string{"auto", "always", "never"}
	if !contains(colorValues, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color must be one of: %v", colorValues))
	}

	formatValues := []string{"text", "json"}
	if !contains(formatValues, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of: %v", formatValues))
	}

	if c.Artifacts.ChunkSizeKiB <= 0 {
		errs = append(errs, fmt.Errorf("artifacts.chunk_size_kib must be positive, got %d", c.Artifacts.ChunkSizeKiB))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Timeout returns the per-call API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// ChunkSize returns the artifact chunk size in bytes.
func (c *Config) ChunkSize() int {
	return c.Artifacts.ChunkSizeKiB * 1024
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
