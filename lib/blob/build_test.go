// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"
)

// compressiblePayload builds a payload of the given size with enough
// repetition that the probe selects a real algorithm.
func compressiblePayload(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 31)
	}
	return data
}

// fetchFromChunks returns a FetchFunc backed by the chunks Build
// produced, the way push leaves them on the platform.
func fetchFromChunks(chunks []Chunk) FetchFunc {
	byHash := make(map[Hash][]byte, len(chunks))
	for _, chunk := range chunks {
		byHash[chunk.Hash] = chunk.Data
	}
	return func(hash Hash) ([]byte, error) {
		data, ok := byHash[hash]
		if !ok {
			return nil, fmt.Errorf("no chunk with hash %s", FormatHash(hash))
		}
		return data, nil
	}
}

func TestBuildReassembleRoundtrip(t *testing.T) {
	sizes := []int{1, 100, 4096, 4097, 64 * 1024, 100000}
	const chunkSize = 4096

	for _, size := range sizes {
		t.Run(fmt.Sprintf("size=%d", size), func(t *testing.T) {
			payload := compressiblePayload(size)

			manifest, chunks, err := Build("weights", payload, chunkSize)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			wantChunks := (size + chunkSize - 1) / chunkSize
			if len(chunks) != wantChunks {
				t.Errorf("got %d chunks, want %d", len(chunks), wantChunks)
			}
			if len(manifest.Chunks) != len(chunks) {
				t.Errorf("manifest lists %d chunks, Build returned %d", len(manifest.Chunks), len(chunks))
			}
			if manifest.TotalSize != int64(size) {
				t.Errorf("manifest total size %d, want %d", manifest.TotalSize, size)
			}

			reassembled, err := Reassemble(manifest, fetchFromChunks(chunks))
			if err != nil {
				t.Fatalf("Reassemble failed: %v", err)
			}
			if !bytes.Equal(reassembled, payload) {
				t.Error("reassembled payload differs from original")
			}
		})
	}
}

func TestBuildEmptyPayload(t *testing.T) {
	manifest, chunks, err := Build("empty", nil, 4096)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(chunks) != 0 {
		t.Errorf("empty payload produced %d chunks", len(chunks))
	}
	if manifest.TotalSize != 0 {
		t.Errorf("empty payload manifest total size %d", manifest.TotalSize)
	}

	reassembled, err := Reassemble(manifest, fetchFromChunks(nil))
	if err != nil {
		t.Fatalf("Reassemble failed: %v", err)
	}
	if len(reassembled) != 0 {
		t.Errorf("reassembled empty payload has %d bytes", len(reassembled))
	}
}

func TestBuildExactChunkMultiple(t *testing.T) {
	// A payload that is an exact multiple of the chunk size must not
	// produce a trailing zero-length chunk.
	const chunkSize = 1024
	payload := compressiblePayload(4 * chunkSize)

	manifest, chunks, err := Build("aligned", payload, chunkSize)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	for i, ref := range manifest.Chunks {
		if ref.Size != chunkSize {
			t.Errorf("chunk %d size %d, want %d", i, ref.Size, chunkSize)
		}
	}
}

func TestBuildRejectsBadArguments(t *testing.T) {
	if _, _, err := Build("", []byte("data"), 4096); err == nil {
		t.Error("Build should reject an empty name")
	}
	if _, _, err := Build("name", []byte("data"), 0); err == nil {
		t.Error("Build should reject a zero chunk size")
	}
	if _, _, err := Build("name", []byte("data"), -1); err == nil {
		t.Error("Build should reject a negative chunk size")
	}
}

func TestBuildCompressesChunks(t *testing.T) {
	payload := compressiblePayload(64 * 1024)

	_, chunks, err := Build("weights", payload, 16*1024)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i, chunk := range chunks {
		if chunk.Compression == None {
			t.Errorf("chunk %d: repetitive data should have been compressed", i)
		}
		if len(chunk.Data) >= chunk.Size {
			t.Errorf("chunk %d: transfer form %d bytes not smaller than content %d bytes",
				i, len(chunk.Data), chunk.Size)
		}
	}
}

func TestBuildIncompressibleFallsBackToNone(t *testing.T) {
	payload := make([]byte, 32*1024)
	rand.Read(payload)

	_, chunks, err := Build("random", payload, 8*1024)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i, chunk := range chunks {
		if chunk.Compression != None {
			t.Errorf("chunk %d: random data tagged %s, want none", i, chunk.Compression)
		}
		if len(chunk.Data) != chunk.Size {
			t.Errorf("chunk %d: uncompressed transfer form %d bytes, content %d bytes",
				i, len(chunk.Data), chunk.Size)
		}
	}
}

func TestBuildDedupsIdenticalChunks(t *testing.T) {
	// Four identical chunk-sized blocks must produce one distinct
	// hash, so push negotiation uploads the block once.
	const chunkSize = 2048
	block := compressiblePayload(chunkSize)
	payload := bytes.Repeat(block, 4)

	manifest, _, err := Build("repeated", payload, chunkSize)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	distinct := make(map[Hash]bool)
	for _, ref := range manifest.Chunks {
		distinct[ref.Hash] = true
	}
	if len(distinct) != 1 {
		t.Errorf("identical blocks produced %d distinct hashes, want 1", len(distinct))
	}
}

func TestManifestIDDeterministic(t *testing.T) {
	payload := compressiblePayload(10000)

	first, _, err := Build("weights", payload, 4096)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Build("weights", payload, 4096)
	if err != nil {
		t.Fatal(err)
	}

	firstID, err := first.ID()
	if err != nil {
		t.Fatal(err)
	}
	secondID, err := second.ID()
	if err != nil {
		t.Fatal(err)
	}

	if firstID != secondID {
		t.Errorf("same payload produced different manifest IDs: %s != %s", firstID, secondID)
	}
	if len(firstID) != 64 {
		t.Errorf("manifest ID is %d characters, want 64 hex", len(firstID))
	}
}

func TestManifestIDCoversName(t *testing.T) {
	payload := compressiblePayload(10000)

	asWeights, _, err := Build("weights", payload, 4096)
	if err != nil {
		t.Fatal(err)
	}
	asDataset, _, err := Build("dataset", payload, 4096)
	if err != nil {
		t.Fatal(err)
	}

	weightsID, _ := asWeights.ID()
	datasetID, _ := asDataset.ID()
	if weightsID == datasetID {
		t.Error("manifests for different artifact names share an ID")
	}
}

func TestManifestEncodeDecodeRoundtrip(t *testing.T) {
	payload := compressiblePayload(10000)
	manifest, _, err := Build("weights", payload, 4096)
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := manifest.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeManifest(encoded)
	if err != nil {
		t.Fatalf("DecodeManifest failed: %v", err)
	}

	if decoded.Name != manifest.Name {
		t.Errorf("name %q, want %q", decoded.Name, manifest.Name)
	}
	if decoded.TotalSize != manifest.TotalSize {
		t.Errorf("total size %d, want %d", decoded.TotalSize, manifest.TotalSize)
	}
	if len(decoded.Chunks) != len(manifest.Chunks) {
		t.Fatalf("chunk count %d, want %d", len(decoded.Chunks), len(manifest.Chunks))
	}
	for i := range manifest.Chunks {
		if decoded.Chunks[i] != manifest.Chunks[i] {
			t.Errorf("chunk %d differs after roundtrip", i)
		}
	}

	// The decoded manifest must re-encode to the same ID.
	originalID, _ := manifest.ID()
	decodedID, err := decoded.ID()
	if err != nil {
		t.Fatal(err)
	}
	if decodedID != originalID {
		t.Errorf("decoded manifest ID %s, want %s", decodedID, originalID)
	}
}

func TestDecodeManifestRejectsBadInput(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		if _, err := DecodeManifest([]byte{0xFF, 0xFE}); err == nil {
			t.Error("DecodeManifest should reject invalid CBOR")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		manifest, _, err := Build("weights", compressiblePayload(100), 4096)
		if err != nil {
			t.Fatal(err)
		}
		manifest.FormatVersion = 99
		encoded, err := manifest.Encode()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := DecodeManifest(encoded); err == nil {
			t.Error("DecodeManifest should reject an unknown format version")
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		manifest, _, err := Build("weights", compressiblePayload(100), 4096)
		if err != nil {
			t.Fatal(err)
		}
		manifest.TotalSize += 7
		encoded, err := manifest.Encode()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := DecodeManifest(encoded); err == nil {
			t.Error("DecodeManifest should reject a total size that disagrees with the chunks")
		}
	})
}

func TestChunkHashesOrder(t *testing.T) {
	payload := compressiblePayload(10000)
	manifest, _, err := Build("weights", payload, 4096)
	if err != nil {
		t.Fatal(err)
	}

	hashes := manifest.ChunkHashes()
	if len(hashes) != len(manifest.Chunks) {
		t.Fatalf("ChunkHashes returned %d entries, want %d", len(hashes), len(manifest.Chunks))
	}
	for i, ref := range manifest.Chunks {
		if hashes[i] != FormatHash(ref.Hash) {
			t.Errorf("ChunkHashes[%d] = %s, want %s", i, hashes[i], FormatHash(ref.Hash))
		}
	}
}

func TestReassembleDetectsCorruption(t *testing.T) {
	payload := compressiblePayload(10000)
	manifest, chunks, err := Build("weights", payload, 4096)
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt the first chunk's transfer bytes. Depending on where
	// the flip lands this fails decompression or hash verification;
	// either way the pull must fail.
	corrupted := make([]Chunk, len(chunks))
	copy(corrupted, chunks)
	corruptData := append([]byte(nil), corrupted[0].Data...)
	corruptData[0] ^= 0xFF
	corrupted[0].Data = corruptData

	if _, err := Reassemble(manifest, fetchFromChunks(corrupted)); err == nil {
		t.Error("Reassemble should fail on a corrupted chunk")
	}
}

func TestReassembleDetectsSubstitution(t *testing.T) {
	// A chunk whose bytes decompress cleanly but do not match the
	// manifest hash must be rejected.
	payload := make([]byte, 8*1024)
	rand.Read(payload)

	manifest, chunks, err := Build("random", payload, 4*1024)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	// Serve the second chunk's bytes for the first chunk's hash.
	swapped := func(hash Hash) ([]byte, error) {
		if hash == chunks[0].Hash {
			return chunks[1].Data, nil
		}
		return chunks[1].Data, nil
	}

	_, err = Reassemble(manifest, swapped)
	if err == nil {
		t.Error("Reassemble should fail when a chunk's content does not match its hash")
	}
}

func TestReassemblePropagatesFetchError(t *testing.T) {
	payload := compressiblePayload(10000)
	manifest, _, err := Build("weights", payload, 4096)
	if err != nil {
		t.Fatal(err)
	}

	fetchErr := fmt.Errorf("chunk service unavailable")
	_, err = Reassemble(manifest, func(Hash) ([]byte, error) {
		return nil, fetchErr
	})
	if err == nil {
		t.Fatal("Reassemble should propagate fetch errors")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("chunk service unavailable")) {
		t.Errorf("fetch error not propagated: %v", err)
	}
}
