// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/altus-cloud/altus/lib/api"
	"github.com/altus-cloud/altus/lib/console"
)

func TestCheck(t *testing.T) {
	if err := Check(true, "never shown"); err != nil {
		t.Errorf("Check(true) = %v, want nil", err)
	}

	err := Check(false, "expected %d arguments", 2)
	if err == nil {
		t.Fatal("Check(false) = nil, want error")
	}
	var commandError *CommandError
	if !errors.As(err, &commandError) {
		t.Fatalf("Check error = %T, want *CommandError", err)
	}
	if commandError.Category != CategoryValidation {
		t.Errorf("Category = %q, want %q", commandError.Category, CategoryValidation)
	}
	if err.Error() != "expected 2 arguments" {
		t.Errorf("Error() = %q, want %q", err.Error(), "expected 2 arguments")
	}
}

func TestGuard_NilErrorPassesValueThrough(t *testing.T) {
	value, err := Guard(42, nil, false, "unused")
	if err != nil {
		t.Fatalf("Guard() error: %v", err)
	}
	if value != 42 {
		t.Errorf("value = %d, want 42", value)
	}
}

func TestGuard_APIErrorShortMessage(t *testing.T) {
	apiError := &api.Error{StatusCode: 409, Code: "name_taken", Message: "deployment name already in use"}

	_, err := Guard("", fmt.Errorf("create deployment: %w", apiError), false, "a deployment with that name already exists")
	if err == nil {
		t.Fatal("Guard() = nil, want error")
	}
	if err.Error() != "a deployment with that name already exists" {
		t.Errorf("Error() = %q, want the short message", err.Error())
	}

	var commandError *CommandError
	if !errors.As(err, &commandError) {
		t.Fatalf("error = %T, want *CommandError", err)
	}
	if commandError.Category != CategoryConflict {
		t.Errorf("Category = %q, want %q", commandError.Category, CategoryConflict)
	}
}

func TestGuard_APIErrorDetailShowsFullError(t *testing.T) {
	apiError := &api.Error{StatusCode: 409, Code: "name_taken", Message: "deployment name already in use"}
	wrapped := fmt.Errorf("create deployment: %w", apiError)

	_, err := Guard("", wrapped, true, "short message")
	if err == nil {
		t.Fatal("Guard() = nil, want error")
	}
	if !strings.Contains(err.Error(), "name_taken") {
		t.Errorf("Error() = %q, want the full API error in detail mode", err.Error())
	}
}

func TestGuard_EmptyMessageFallsBackToAPIError(t *testing.T) {
	apiError := &api.Error{StatusCode: 500, Message: "internal error"}

	_, err := Guard("", apiError, false, "")
	if err == nil {
		t.Fatal("Guard() = nil, want error")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("Error() = %q, want the API error text when no message is given", err.Error())
	}
}

func TestGuard_NonAPIErrorPassesThrough(t *testing.T) {
	plain := errors.New("connection refused")

	_, err := Guard("", plain, false, "short message")
	if !errors.Is(err, plain) {
		t.Errorf("Guard() = %v, want the original error unchanged", err)
	}
	if err.Error() != "connection refused" {
		t.Errorf("Error() = %q, want %q", err.Error(), "connection refused")
	}
}

func TestExplain_Success(t *testing.T) {
	var output bytes.Buffer
	ui := console.NewPlain(&output)

	err := Explain(ui, nil, Outcome{OK: "deployment restarted"})
	if err != nil {
		t.Fatalf("Explain() error: %v", err)
	}
	if !strings.Contains(output.String(), "deployment restarted") {
		t.Errorf("output = %q, want the success line", output.String())
	}
}

func TestExplain_NotFoundIgnored(t *testing.T) {
	var output bytes.Buffer
	ui := console.NewPlain(&output)

	apiError := &api.Error{StatusCode: 404, Message: "no such deployment"}
	err := Explain(ui, apiError, Outcome{
		OK:       "deployment removed",
		NotFound: "deployment does not exist",
	})
	if err != nil {
		t.Fatalf("Explain() error: %v", err)
	}
	if !strings.Contains(output.String(), "deployment does not exist") {
		t.Errorf("output = %q, want the not-found line", output.String())
	}
	if strings.Contains(output.String(), "deployment removed") {
		t.Errorf("output = %q, should not contain the success line", output.String())
	}
}

func TestExplain_NotFoundFails(t *testing.T) {
	var output bytes.Buffer
	ui := console.NewPlain(&output)

	apiError := &api.Error{StatusCode: 404, Message: "no such deployment"}
	err := Explain(ui, apiError, Outcome{
		NotFound:       "deployment does not exist",
		FailOnNotFound: true,
	})
	if err == nil {
		t.Fatal("Explain() = nil, want exit error")
	}

	// The message was already printed; the error is a silent exit 1.
	coder, ok := err.(interface{ ExitCode() int })
	if !ok {
		t.Fatalf("error = %T, want an ExitCode carrier", err)
	}
	if coder.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", coder.ExitCode())
	}
	if !strings.Contains(output.String(), "deployment does not exist") {
		t.Errorf("output = %q, want the not-found line", output.String())
	}
}

func TestExplain_OtherErrorWrapped(t *testing.T) {
	var output bytes.Buffer
	ui := console.NewPlain(&output)

	apiError := &api.Error{StatusCode: 502, Message: "upstream unavailable"}
	err := Explain(ui, apiError, Outcome{
		OK:    "never shown",
		Other: "could not restart deployment",
	})
	if err == nil {
		t.Fatal("Explain() = nil, want error")
	}
	if !strings.Contains(err.Error(), "could not restart deployment") {
		t.Errorf("Error() = %q, want the Other context", err.Error())
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Errorf("Error() = %q, want the underlying API error", err.Error())
	}

	var commandError *CommandError
	if !errors.As(err, &commandError) {
		t.Fatalf("error = %T, want *CommandError", err)
	}
	if commandError.Category != CategoryTransient {
		t.Errorf("Category = %q, want %q", commandError.Category, CategoryTransient)
	}
	// Nothing printed: the rim owns error output.
	if output.Len() != 0 {
		t.Errorf("output = %q, want nothing printed for the other-error path", output.String())
	}
}

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCategory
	}{
		{400, CategoryValidation},
		{401, CategoryForbidden},
		{403, CategoryForbidden},
		{404, CategoryNotFound},
		{409, CategoryConflict},
		{422, CategoryValidation},
		{429, CategoryTransient},
		{500, CategoryTransient},
		{502, CategoryTransient},
	}

	for _, test := range tests {
		if got := categorizeStatus(test.status); got != test.want {
			t.Errorf("categorizeStatus(%d) = %q, want %q", test.status, got, test.want)
		}
	}
}
