// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// SecretInfo describes one stored secret's metadata. Values are never
// returned by the list endpoint.
type SecretInfo struct {
	// Name is the secret's name within the workspace.
	Name string `json:"name"`

	// Sealed reports whether the value was sealed client-side before
	// upload, meaning the platform stores only ciphertext.
	Sealed bool `json:"sealed"`

	// Version counts the writes to this secret, starting at 1.
	Version int `json:"version"`

	// UpdatedAt is when the current version was written.
	UpdatedAt time.Time `json:"updated_at"`
}

// SecretValue is the wire format for writing a secret. Exactly one of
// Value or SealedValue is set: plaintext values travel only over TLS
// and are encrypted at rest by the platform, sealed values are
// encrypted client-side to the workspace's sealing key.
type SecretValue struct {
	Value       string `json:"value,omitempty"`
	SealedValue string `json:"sealed_value,omitempty"`
}

// ListSecrets returns the metadata of all secrets in the workspace.
func (client *Client) ListSecrets(ctx context.Context) ([]SecretInfo, error) {
	var result []SecretInfo
	if err := client.get(ctx, "/v1/secrets", &result); err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	return result, nil
}

// PutSecret writes a secret value, creating the secret or bumping its
// version.
func (client *Client) PutSecret(ctx context.Context, name string, value SecretValue) error {
	if err := client.put(ctx, "/v1/secrets/"+url.PathEscape(name), value); err != nil {
		return fmt.Errorf("put secret %q: %w", name, err)
	}
	return nil
}

// RemoveSecret deletes a secret and all its versions.
func (client *Client) RemoveSecret(ctx context.Context, name string) error {
	if err := client.delete(ctx, "/v1/secrets/"+url.PathEscape(name)); err != nil {
		return fmt.Errorf("remove secret %q: %w", name, err)
	}
	return nil
}
