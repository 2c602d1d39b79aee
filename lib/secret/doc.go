// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds sensitive material (workspace tokens, secret
// values entered at the prompt) in memory the Go runtime cannot move
// or copy.
//
// [Buffer] allocates its backing memory outside the Go heap with
// mmap(MAP_ANONYMOUS), pins it into RAM with mlock so it never reaches
// swap, and excludes it from core dumps with madvise(MADV_DONTDUMP).
// Close zeroes the region before unmapping; it is idempotent, and any
// access after Close panics.
//
// Constructors:
//
//   - [New] -- a zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory and zeroes the
//     caller's source slice
//
// [ReadFromPath] reads a secret from a file, or from stdin when the
// path is "-", trimming surrounding whitespace. [Zero] wipes a byte
// slice in place for callers holding transient copies.
//
// Only golang.org/x/sys/unix is imported; the package has no other
// dependencies.
package secret
