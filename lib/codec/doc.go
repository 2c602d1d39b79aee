// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// Altus uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: the platform API, CLI --json
//     output, and the workspace credential store.
//   - CBOR for content-addressed data: artifact manifests, where the
//     manifest's identity is a keyed hash over its encoded bytes.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Same logical data always produces identical bytes, which is
// what makes hashing the encoding meaningful.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// Struct tag rules: types that are only ever CBOR (manifests) use
// `cbor` tags; types that serve both JSON and CBOR use `json` tags,
// which fxamacker/cbor reads as a fallback. Never both on one field.
package codec
