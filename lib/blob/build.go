// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"bytes"
	"fmt"
)

// Chunk is one uploadable unit produced by Build. Data holds the
// transfer form (compressed per the Compression tag); Hash and Size
// describe the uncompressed content.
type Chunk struct {
	Hash        Hash
	Data        []byte
	Size        int
	Compression Tag
}

// Build splits a payload into fixed-size chunks, compresses each one,
// and returns the manifest describing the result alongside the chunks
// ready for upload.
//
// The compression algorithm is selected once per payload by probing
// its head; chunks that do not shrink under the selected algorithm
// are stored uncompressed. An empty payload yields a manifest with no
// chunks.
func Build(name string, data []byte, chunkSize int) (*Manifest, []Chunk, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("artifact name is empty")
	}
	if chunkSize <= 0 {
		return nil, nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	preferred := SelectCompression(data)

	chunkCount := (len(data) + chunkSize - 1) / chunkSize
	chunks := make([]Chunk, 0, chunkCount)
	refs := make([]ChunkRef, 0, chunkCount)

	for offset := 0; offset < len(data); offset += chunkSize {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		plain := data[offset:end]

		transfer, tag, err := CompressAuto(plain, preferred)
		if err != nil {
			return nil, nil, fmt.Errorf("compressing chunk at offset %d: %w", offset, err)
		}

		hash := HashChunk(plain)
		chunks = append(chunks, Chunk{
			Hash:        hash,
			Data:        transfer,
			Size:        len(plain),
			Compression: tag,
		})
		refs = append(refs, ChunkRef{
			Hash:        hash,
			Size:        len(plain),
			Compression: tag,
		})
	}

	manifest := &Manifest{
		FormatVersion: manifestFormatVersion,
		Name:          name,
		TotalSize:     int64(len(data)),
		ChunkSize:     chunkSize,
		Chunks:        refs,
	}
	return manifest, chunks, nil
}

// FetchFunc retrieves the transfer form of a chunk by its hash. The
// returned bytes are in the chunk's stored form; Reassemble handles
// decompression and verification.
type FetchFunc func(hash Hash) ([]byte, error)

// Reassemble reconstructs an artifact payload from its manifest,
// fetching chunks one at a time through the given function. Every
// chunk is decompressed to its declared size and verified against its
// manifest hash before being appended, so a corrupted or substituted
// chunk fails the pull rather than producing a corrupted payload.
func Reassemble(manifest *Manifest, fetch FetchFunc) ([]byte, error) {
	payload := bytes.NewBuffer(make([]byte, 0, manifest.TotalSize))

	for i, ref := range manifest.Chunks {
		transfer, err := fetch(ref.Hash)
		if err != nil {
			return nil, fmt.Errorf("fetching chunk %d (%s): %w", i, FormatHash(ref.Hash), err)
		}

		plain, err := Decompress(transfer, ref.Compression, ref.Size)
		if err != nil {
			return nil, fmt.Errorf("decompressing chunk %d (%s): %w", i, FormatHash(ref.Hash), err)
		}

		if HashChunk(plain) != ref.Hash {
			return nil, fmt.Errorf("chunk %d failed hash verification (%s)", i, FormatHash(ref.Hash))
		}

		payload.Write(plain)
	}

	if int64(payload.Len()) != manifest.TotalSize {
		return nil, fmt.Errorf("reassembled payload is %d bytes, manifest says %d",
			payload.Len(), manifest.TotalSize)
	}
	return payload.Bytes(), nil
}
