// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/altus-cloud/altus/lib/api"
	"github.com/altus-cloud/altus/lib/console"
)

// Check returns nil when condition holds, else a Validation error with
// the given message. It exists for the common "verify then proceed"
// shape at the top of command Run functions:
//
//	if err := cli.Check(len(args) == 1, "expected exactly one deployment name"); err != nil {
//	    return err
//	}
func Check(condition bool, format string, args ...any) error {
	if condition {
		return nil
	}
	return Validation(format, args...)
}

// Guard passes value through untouched when err is nil. When err is a
// platform [api.Error], it is converted to a categorized command error:
// the full API error text when detail is true (or when no message is
// given), otherwise the caller's short message, which is what the user
// sees by default. Errors that are not API responses pass through
// unchanged — they already carry their own context.
func Guard[T any](value T, err error, detail bool, message string) (T, error) {
	if err == nil {
		return value, nil
	}

	var apiError *api.Error
	if !errors.As(err, &apiError) {
		return value, err
	}

	category := categorizeStatus(apiError.StatusCode)
	if detail || message == "" {
		return value, &CommandError{Category: category, Err: err}
	}
	return value, &CommandError{Category: category, Err: errors.New(message)}
}

// Outcome describes how [Explain] renders the three possible results
// of a platform API call.
type Outcome struct {
	// OK is printed as a success line when the call succeeded. Empty
	// means print nothing.
	OK string

	// NotFound is printed when the platform answered 404.
	NotFound string

	// Other prefixes the underlying error for any other failure. Empty
	// means the error is returned bare.
	Other string

	// FailOnNotFound makes the 404 outcome terminate with exit code 1
	// instead of being reported as a warning and swallowed.
	FailOnNotFound bool
}

// Explain is the uniform three-way dispatch on a platform API outcome:
// success, not-found, and everything else.
//
//   - err == nil: print the OK line, return nil.
//   - 404: print the NotFound line. Normally that ends the command
//     successfully — removing something already gone is idempotent —
//     but with FailOnNotFound the line prints as an error and the
//     command exits 1 (silently, the message having just been printed).
//   - anything else: return a categorized error carrying Other as
//     context; the rim prints it and exits 1.
func Explain(ui *console.Console, err error, outcome Outcome) error {
	if err == nil {
		if outcome.OK != "" {
			ui.Successf("%s", outcome.OK)
		}
		return nil
	}

	if api.IsNotFound(err) {
		if outcome.FailOnNotFound {
			ui.Errorf("%s", outcome.NotFound)
			return &ExitError{Code: 1}
		}
		if outcome.NotFound != "" {
			ui.Warnf("%s", outcome.NotFound)
		}
		return nil
	}

	if outcome.Other != "" {
		return &CommandError{
			Category: categorize(err),
			Err:      fmt.Errorf("%s: %w", outcome.Other, err),
		}
	}
	return &CommandError{Category: categorize(err), Err: err}
}

// categorize maps an error to a command error category, using the HTTP
// status when the error is a platform API response.
func categorize(err error) ErrorCategory {
	var apiError *api.Error
	if errors.As(err, &apiError) {
		return categorizeStatus(apiError.StatusCode)
	}
	return CategoryInternal
}

// categorizeStatus maps a platform API status code to an error
// category.
func categorizeStatus(statusCode int) ErrorCategory {
	switch {
	case statusCode == http.StatusNotFound:
		return CategoryNotFound
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return CategoryForbidden
	case statusCode == http.StatusConflict:
		return CategoryConflict
	case statusCode == http.StatusTooManyRequests || statusCode >= 500:
		return CategoryTransient
	case statusCode >= 400 && statusCode < 500:
		return CategoryValidation
	}
	return CategoryInternal
}
