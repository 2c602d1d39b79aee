// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Altus is the command-line client for the Altus cloud application
// platform. It provides subcommands for workspace credentials
// (workspace, whoami), deployments (deployment), secrets (secret),
// artifact storage (artifact), and client diagnostics (doctor). Any
// unique abbreviation of a subcommand name works in place of the full
// name.
package main
