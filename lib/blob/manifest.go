// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"fmt"

	"github.com/altus-cloud/altus/lib/codec"
)

// manifestFormatVersion is the current manifest encoding version.
// Bumped only for incompatible layout changes; decoders reject
// versions they do not understand.
const manifestFormatVersion = 1

// Manifest describes how an artifact payload decomposes into chunks.
// It is the unit the platform stores under the artifact name: push
// uploads the chunks it references and then commits the manifest,
// pull fetches the manifest and reassembles the payload from it.
//
// Manifests are encoded as deterministic CBOR, so the same payload
// chunked the same way produces byte-identical manifests and
// therefore the same manifest ID everywhere.
type Manifest struct {
	// FormatVersion is manifestFormatVersion at encode time.
	FormatVersion int `cbor:"format_version"`

	// Name is the artifact name the manifest was built for.
	Name string `cbor:"name"`

	// TotalSize is the uncompressed payload size in bytes. It equals
	// the sum of the chunk sizes.
	TotalSize int64 `cbor:"total_size"`

	// ChunkSize is the chunking interval used by Build. All chunks
	// except the last are exactly this many uncompressed bytes.
	ChunkSize int `cbor:"chunk_size"`

	// Chunks lists the payload's chunks in payload order.
	Chunks []ChunkRef `cbor:"chunks"`
}

// ChunkRef identifies one chunk of an artifact payload.
type ChunkRef struct {
	// Hash is the chunk-domain hash of the uncompressed chunk bytes.
	Hash Hash `cbor:"hash"`

	// Size is the uncompressed chunk size in bytes.
	Size int `cbor:"size"`

	// Compression is the algorithm applied to the chunk's stored and
	// transferred form.
	Compression Tag `cbor:"compression"`
}

// Encode serializes the manifest as deterministic CBOR.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := codec.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return data, nil
}

// DecodeManifest parses a CBOR-encoded manifest and checks that its
// format version is supported and its chunk list is consistent with
// the declared total size.
func DecodeManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := codec.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	if manifest.FormatVersion != manifestFormatVersion {
		return nil, fmt.Errorf("unsupported manifest format version %d (supported: %d)",
			manifest.FormatVersion, manifestFormatVersion)
	}

	var sum int64
	for i, chunk := range manifest.Chunks {
		if chunk.Size <= 0 {
			return nil, fmt.Errorf("manifest chunk %d has invalid size %d", i, chunk.Size)
		}
		sum += int64(chunk.Size)
	}
	if sum != manifest.TotalSize {
		return nil, fmt.Errorf("manifest chunk sizes sum to %d, total_size says %d",
			sum, manifest.TotalSize)
	}

	return &manifest, nil
}

// ID returns the manifest's content address: the hex-encoded
// manifest-domain hash of its deterministic encoding.
func (m *Manifest) ID() (string, error) {
	encoded, err := m.Encode()
	if err != nil {
		return "", err
	}
	return FormatHash(hashManifest(encoded)), nil
}

// ChunkHashes returns the hex-encoded hash of every chunk in payload
// order. This is the list push sends to the platform to negotiate
// which chunks it still needs.
func (m *Manifest) ChunkHashes() []string {
	hashes := make([]string, len(m.Chunks))
	for i, chunk := range m.Chunks {
		hashes[i] = FormatHash(chunk.Hash)
	}
	return hashes
}
