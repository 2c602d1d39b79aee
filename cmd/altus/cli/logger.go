// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// NewCommandLogger creates the root structured logger for CLI command
// operations. When stderr is a terminal, uses slog.TextHandler for
// human-readable output. When stderr is piped or redirected (CI,
// scripts, integration tests), uses slog.JSONHandler for
// machine-parseable output.
//
// The level comes from $ALTUS_LOG_LEVEL (debug, info, warn, error),
// defaulting to info. [Command.Execute] scopes the logger with the
// canonical command path before handing it to Run, so log lines always
// name the resolved command, never a typed abbreviation.
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: levelFromEnvironment()}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// levelFromEnvironment maps $ALTUS_LOG_LEVEL to a slog level. Unknown
// or empty values mean info.
func levelFromEnvironment() slog.Level {
	switch strings.ToLower(os.Getenv("ALTUS_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
