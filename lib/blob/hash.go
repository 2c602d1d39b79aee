// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest. Chunk hashes and manifest hashes
// are both this size.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures that the same input bytes produce different
// hashes in different contexts.
type domainKey [32]byte

// Domain separation keys. These are protocol constants — changing
// them invalidates every hash already stored in that domain. The byte
// values are the ASCII encoding of the domain name, zero-padded to 32
// bytes, so the keys stay readable in hex dumps and debuggers (BLAKE3
// keyed mode treats the key as an opaque 32-byte value).
var (
	chunkDomainKey = domainKey{
		'a', 'l', 't', 'u', 's', '.', 'b', 'l', 'o', 'b', '.', 'c', 'h', 'u', 'n', 'k',
		'.', 'v', '1', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	manifestDomainKey = domainKey{
		'a', 'l', 't', 'u', 's', '.', 'b', 'l', 'o', 'b', '.', 'm', 'a', 'n', 'i', 'f',
		'e', 's', 't', '.', 'v', '1', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// HashChunk computes the chunk-domain BLAKE3 keyed hash of the given
// data. Chunk hashes are always computed on uncompressed bytes so the
// same content dedups across compression algorithm changes, and so
// pull can verify integrity after decompression.
func HashChunk(data []byte) Hash {
	return keyedHash(chunkDomainKey, data)
}

// hashManifest computes the manifest-domain BLAKE3 keyed hash of an
// encoded manifest. Callers use [Manifest.ID], which encodes first.
func hashManifest(encoded []byte) Hash {
	return keyedHash(manifestDomainKey, encoded)
}

// FormatHash returns the hex-encoded string representation of a hash.
// This is the canonical format used in the platform API, the chunk
// cache, and CLI output.
func FormatHash(hash Hash) string {
	return hex.EncodeToString(hash[:])
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing blob hash: %w", err)
	}
	if len(decoded) != 32 {
		return hash, fmt.Errorf("blob hash is %d bytes, want 32", len(decoded))
	}
	copy(hash[:], decoded)
	return hash, nil
}

// keyedHash computes BLAKE3 keyed hash with the given domain key.
func keyedHash(key domainKey, data []byte) Hash {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	// The error is only returned for wrong key length, so this cannot
	// fail with our fixed-size type.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("blob: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
