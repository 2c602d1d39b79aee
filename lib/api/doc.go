// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package api provides a typed HTTP client for the Altus platform
// control plane. Commands obtain a configured client through their
// connect helper and call typed methods ([Client.Whoami],
// [Client.ListDeployments], [Client.PutSecret], ...) that mirror the
// platform's /v1/* endpoints.
//
// Every call is a single attempt bounded by the client timeout; there
// is no retry or backoff. Non-2xx responses decode into [*Error] so
// callers can branch on status ([IsNotFound]) without string matching.
// Response bodies are read through a bounded reader to keep a
// misbehaving server from exhausting memory.
package api
