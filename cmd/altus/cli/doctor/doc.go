// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor provides the health-check workflow behind
// "altus doctor".
//
// A doctor run executes a series of checks and reports results in a
// consistent checklist format. Fixable failures carry fix closures
// that run in --fix mode; --dry-run previews them without touching
// anything. The package provides:
//
//   - [Result] with status, message, and optional fix action
//   - Constructors: [Pass], [Fail], [FailWithFix], [Warn], [Skip]
//   - [ExecuteFixes] for running fix closures
//   - [PrintChecklist] for human-readable output
//   - [BuildReport] for --json output
//
// The checks themselves (what to verify, how to repair) live in the
// doctor command's package; this package is only the workflow.
package doctor
