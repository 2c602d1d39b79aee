// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package deployspec provides parsing and validation for deployment
// specifications. Deployments are authored on disk as JSONC files
// (JSON extended with comments and trailing commas) and travel to the
// platform as plain JSON.
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC bytes → Spec
//  2. Spec.Validate: field and cross-field checks with paths into the
//     document ("resources.memory_mib: must be >= 64")
//  3. The validated Spec is the request body for deployment create
package deployspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Spec. Unknown fields are rejected so a
// misspelled key fails loudly instead of being silently dropped.
func Parse(data []byte) (*Spec, error) {
	stripped := jsonc.ToJSON(data)

	// Fields absent from the document keep these values.
	spec := &Spec{Replicas: 1}

	decoder := json.NewDecoder(bytes.NewReader(stripped))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(spec); err != nil {
		return nil, fmt.Errorf("parsing deployment spec: %w", err)
	}

	if spec.HealthCheck != nil && spec.HealthCheck.IntervalSeconds == 0 {
		spec.HealthCheck.IntervalSeconds = 10
	}

	return spec, nil
}

// ReadFile reads a JSONC deployment spec from disk and parses it.
func ReadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return spec, nil
}
