// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"errors"
	"fmt"
	"syscall"
)

// ExecuteFixes runs the fix action for each fixable failure, updating
// results in place: repaired checks flip to [StatusFixed], failed
// repairs keep [StatusFail] with the fix error appended to the
// message. In dry-run mode no fixes execute and an empty Outcome is
// returned.
func ExecuteFixes(ctx context.Context, results []Result, dryRun bool) Outcome {
	if dryRun {
		return Outcome{}
	}

	var outcome Outcome
	for i := range results {
		if results[i].Status != StatusFail || results[i].fix == nil {
			continue
		}
		if err := results[i].fix(ctx); err != nil {
			if isPermissionDenied(err) {
				outcome.PermissionDenied = true
				results[i].Message = fmt.Sprintf("%s (insufficient permissions)", results[i].Message)
			} else {
				results[i].Message = fmt.Sprintf("%s (fix failed: %v)", results[i].Message, err)
			}
		} else {
			results[i].Status = StatusFixed
			outcome.FixedCount++
		}
	}
	return outcome
}

// isPermissionDenied returns true if err wraps EPERM or EACCES.
func isPermissionDenied(err error) bool {
	return errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

// BuildReport builds the --json output from results and fix outcome.
func BuildReport(results []Result, dryRun bool, outcome Outcome) Report {
	anyFailed := false
	for _, result := range results {
		if result.Status == StatusFail {
			anyFailed = true
			break
		}
	}
	return Report{
		Checks:           results,
		OK:               !anyFailed,
		DryRun:           dryRun,
		PermissionDenied: outcome.PermissionDenied,
	}
}
