// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package deployspec

// Spec is a deployment specification. Users author it as a JSONC file
// (JSON extended with comments and trailing commas) and pass it to
// "altus deployment create"; the same document is the wire format for
// the create endpoint.
type Spec struct {
	// Name is the deployment's name within the workspace. DNS label
	// rules apply since the name becomes part of the endpoint
	// hostname.
	Name string `json:"name" validate:"required,deployment_name"`

	// Image is the container image reference to run.
	Image string `json:"image" validate:"required,image_ref"`

	// Replicas is the desired instance count. Defaults to 1; zero
	// scales the deployment to nothing while keeping its
	// configuration.
	Replicas int `json:"replicas" validate:"min=0,max=64"`

	// Port is the container port the platform routes traffic to.
	// Required when a health check is configured.
	Port int `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`

	// Env is the plain environment visible to the container. Secret
	// material belongs in Secrets, not here.
	Env map[string]string `json:"env,omitempty"`

	// Secrets names workspace secrets to inject as environment
	// variables, keyed by the secret name.
	Secrets []string `json:"secrets,omitempty"`

	// Resources bounds the per-replica CPU and memory allocation.
	Resources *Resources `json:"resources,omitempty"`

	// HealthCheck configures the HTTP readiness probe.
	HealthCheck *HealthCheck `json:"health_check,omitempty"`
}

// Resources bounds one replica's compute allocation.
type Resources struct {
	// CPUMillis is the CPU limit in millicores.
	CPUMillis int `json:"cpu_millis,omitempty" validate:"omitempty,min=100,max=16000"`

	// MemoryMiB is the memory limit in MiB.
	MemoryMiB int `json:"memory_mib,omitempty" validate:"omitempty,min=64,max=65536"`
}

// HealthCheck configures the HTTP readiness probe for a deployment.
type HealthCheck struct {
	// Path is the HTTP path probed on the deployment's port.
	Path string `json:"path" validate:"required,startswith=/"`

	// IntervalSeconds is the probe interval. Defaults to 10.
	IntervalSeconds int `json:"interval_seconds,omitempty" validate:"omitempty,min=1,max=300"`
}
