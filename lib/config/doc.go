// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the altus client configuration.
//
// Configuration is a single YAML file at $ALTUS_CONFIG, or
// <config dir>/config.yaml where the config dir resolves through
// $ALTUS_CONFIG_DIR and $XDG_CONFIG_HOME before ~/.config/altus. The
// file is optional: a fresh install runs entirely on [Default] values.
// An explicitly configured path ($ALTUS_CONFIG or --config) must
// exist; silently ignoring a named file would hide typos.
//
// After loading, ${VAR} and ${VAR:-default} patterns in path fields
// are expanded, and a small set of environment overrides is applied
// (ALTUS_API_TIMEOUT, NO_COLOR).
//
// Key exports:
//
//   - [Config] -- api, output, and artifact settings
//   - [Default] -- the built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Dir] -- the altus config directory
//
// This package depends on no other altus packages.
package config
