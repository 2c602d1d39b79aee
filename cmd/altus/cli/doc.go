// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the altus CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], flag binding via [Command.Flags]
// or a tagged [Command.Params] struct, and a Run function. Commands are
// assembled into a tree in cmd/altus/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing, and
// structured help output with examples.
//
// Subcommand routing accepts abbreviated names: a token that is not an
// exact subcommand name resolves through [ResolveName], which accepts any
// unique ordered subsequence sharing the name's first character ("dep"
// or "dpl" for "deployment"). An abbreviation matching several names is
// an [AmbiguousError] listing the candidates; a token matching nothing
// falls through to the unknown-command error, which suggests the closest
// registered name by Levenshtein edit distance (threshold: distance
// <= 3). Dispatch always carries the canonical resolved name, so help
// text, error guidance, and the per-command logger never echo the
// abbreviation the user typed.
//
// Failures are categorized [CommandError] values created with the
// constructors in clierror.go; nothing below main prints an error or
// exits. [Check], [Guard], and [Explain] wrap the recurring validation
// and API-outcome patterns, and [Connect] resolves the current workspace
// credentials into a ready platform API client.
package cli
