// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so that tests and callers can
// make programmatic decisions (fix input, log in, report a bug) without
// parsing error message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing required arguments, wrong argument count, unparseable
	// values. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not exist:
	// unknown deployment, missing secret, no logged-in workspace.
	// Retrying with the same parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the caller lacks permission for the
	// requested operation, including rejected or expired tokens.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates the operation conflicts with existing
	// state: duplicate resource, concurrent modification, already-exists.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, rate limit. A later identical invocation may succeed;
	// the client itself never retries.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, malformed data the platform produced.
	CategoryInternal ErrorCategory = "internal"
)

// CommandError is a categorized error returned by CLI commands. The
// category travels separately from the message so the rim and tests
// can classify failures without string matching.
//
// CommandError wraps an inner error, preserving the full error chain
// for errors.Is/As. Use the category-specific constructors (Validation,
// NotFound, etc.) when building a new message; wrap an existing error
// either with a constructor's %w verb or a struct literal.
type CommandError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional recovery suggestion appended to the message
	// after a blank line, e.g. a command the user should run next.
	Hint string
}

// Error returns the underlying error message, with the hint appended
// when one is set. The category is not included in the string.
func (e *CommandError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the CommandError wrapper.
func (e *CommandError) Unwrap() error { return e.Err }

// WithHint attaches a recovery suggestion and returns the receiver, so
// constructors chain: Validation("bad spec").WithHint("see examples").
func (e *CommandError) WithHint(hint string) *CommandError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure outside the client's control.
func Transient(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
