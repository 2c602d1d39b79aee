// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts secret values to a workspace's sealing key.
//
// Workspaces may publish an age x25519 public key. When present, the
// CLI encrypts secret values client-side before they leave the
// machine, so the platform's storage and transport layers only ever
// see ciphertext. The matching identity lives inside the platform's
// secret service; nothing in this client can decrypt a sealed value.
//
// Ciphertext is base64-encoded for transport in JSON request fields.
// The encoding is handled internally — callers pass plaintext bytes
// to [Seal] and receive a base64 string. [ValidateRecipient] checks a
// published key before anything is sealed to it.
package sealed
