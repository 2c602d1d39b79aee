// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/altus-cloud/altus/lib/deployspec"
)

// Deployment states reported by the platform. A deployment settles in
// either Running or Failed; the others are transitional.
const (
	DeploymentPending  = "pending"
	DeploymentRunning  = "running"
	DeploymentDegraded = "degraded"
	DeploymentStopped  = "stopped"
	DeploymentFailed   = "failed"
)

// Replicas reports how many instances of a deployment are serving
// versus requested.
type Replicas struct {
	Ready   int `json:"ready"`
	Desired int `json:"desired"`
}

// Deployment describes one deployment's current state, as reported by
// the /v1/deployments endpoints.
type Deployment struct {
	// Name is the deployment's unique name within the workspace.
	Name string `json:"name"`

	// Image is the container image the deployment runs.
	Image string `json:"image"`

	// State is one of the Deployment* state constants.
	State string `json:"state"`

	// Replicas reports ready versus desired instance counts.
	Replicas Replicas `json:"replicas"`

	// Endpoint is the public HTTPS endpoint, once provisioned.
	Endpoint string `json:"endpoint,omitempty"`

	// CreatedAt is when the deployment was first created.
	CreatedAt time.Time `json:"created_at"`
}

// Settled reports whether the deployment has reached a state that a
// rollout watch can stop on.
func (d *Deployment) Settled() bool {
	return d.State == DeploymentRunning || d.State == DeploymentFailed || d.State == DeploymentStopped
}

// ListDeployments returns all deployments in the workspace.
func (client *Client) ListDeployments(ctx context.Context) ([]Deployment, error) {
	var result []Deployment
	if err := client.get(ctx, "/v1/deployments", &result); err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	return result, nil
}

// GetDeployment returns one deployment by name.
func (client *Client) GetDeployment(ctx context.Context, name string) (*Deployment, error) {
	var result Deployment
	if err := client.get(ctx, "/v1/deployments/"+url.PathEscape(name), &result); err != nil {
		return nil, fmt.Errorf("get deployment %q: %w", name, err)
	}
	return &result, nil
}

// CreateDeployment creates a deployment from a validated spec and
// returns its initial state. The platform rejects a name that is
// already taken with a 409.
func (client *Client) CreateDeployment(ctx context.Context, spec *deployspec.Spec) (*Deployment, error) {
	var result Deployment
	if err := client.post(ctx, "/v1/deployments", spec, &result); err != nil {
		return nil, fmt.Errorf("create deployment %q: %w", spec.Name, err)
	}
	return &result, nil
}

// RestartDeployment asks the platform to roll all replicas of a
// deployment and returns its state after the restart was accepted.
func (client *Client) RestartDeployment(ctx context.Context, name string) (*Deployment, error) {
	var result Deployment
	if err := client.post(ctx, "/v1/deployments/"+url.PathEscape(name)+"/restart", nil, &result); err != nil {
		return nil, fmt.Errorf("restart deployment %q: %w", name, err)
	}
	return &result, nil
}

// RemoveDeployment deletes a deployment and all its replicas.
func (client *Client) RemoveDeployment(ctx context.Context, name string) error {
	if err := client.delete(ctx, "/v1/deployments/"+url.PathEscape(name)); err != nil {
		return fmt.Errorf("remove deployment %q: %w", name, err)
	}
	return nil
}
