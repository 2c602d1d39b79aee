// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package blob implements the content-addressed artifact format used
// by artifact push and pull.
//
// An artifact's payload is split into fixed-size chunks. Each chunk is
// identified by a BLAKE3 keyed hash of its uncompressed bytes, so
// identical content hashes identically regardless of how it was
// compressed for transfer. A manifest records the chunk sequence,
// per-chunk sizes, and compression tags; the manifest's own identity
// is a keyed hash over its deterministic CBOR encoding, which makes
// the manifest ID stable across machines and runs.
//
// Chunk and manifest hashes live in separate BLAKE3 key domains so
// that a chunk's bytes can never collide with a manifest's encoding.
//
// The package is pure data transformation: [Build] turns a payload
// into a manifest plus uploadable chunks, and [Reassemble] inverts it
// given a chunk fetch function. Transport and caching live with the
// callers.
package blob
