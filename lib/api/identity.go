// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"time"
)

// Identity describes the authenticated caller, as reported by
// GET /v1/whoami.
type Identity struct {
	// Workspace is the workspace name the token is scoped to.
	Workspace string `json:"workspace"`

	// User is the operator's account identifier, typically an email.
	User string `json:"user"`

	// Plan is the workspace's billing plan name.
	Plan string `json:"plan"`
}

// Whoami returns the identity behind the client's token. This is the
// cheapest authenticated call and doubles as token verification
// during login.
func (client *Client) Whoami(ctx context.Context) (*Identity, error) {
	var result Identity
	if err := client.get(ctx, "/v1/whoami", &result); err != nil {
		return nil, fmt.Errorf("whoami: %w", err)
	}
	if result.Workspace == "" {
		return nil, fmt.Errorf("whoami: empty workspace in response")
	}
	return &result, nil
}

// WorkspaceInfo describes the workspace itself, as reported by
// GET /v1/workspace.
type WorkspaceInfo struct {
	// Name is the workspace's canonical name.
	Name string `json:"name"`

	// DisplayName is the human-facing workspace title.
	DisplayName string `json:"display_name"`

	// Tier is the workspace's service tier, e.g. "free" or "pro".
	Tier string `json:"tier"`

	// Region is the region the workspace's deployments run in.
	Region string `json:"region"`

	// SealingKey is the workspace's public key for client-side secret
	// sealing. Empty when the workspace has sealing disabled.
	SealingKey string `json:"sealing_key,omitempty"`

	// CreatedAt is when the workspace was created.
	CreatedAt time.Time `json:"created_at"`
}

// GetWorkspace returns the metadata of the workspace the client's
// token is scoped to.
func (client *Client) GetWorkspace(ctx context.Context) (*WorkspaceInfo, error) {
	var result WorkspaceInfo
	if err := client.get(ctx, "/v1/workspace", &result); err != nil {
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return &result, nil
}
