// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ArtifactInfo describes one stored artifact, as reported by
// GET /v1/artifacts.
type ArtifactInfo struct {
	// Name is the artifact's name within the workspace.
	Name string `json:"name"`

	// ManifestID is the content-derived identifier of the artifact's
	// current manifest.
	ManifestID string `json:"manifest_id"`

	// Size is the total uncompressed content size in bytes.
	Size int64 `json:"size"`

	// ChunkCount is the number of content chunks in the manifest.
	ChunkCount int `json:"chunk_count"`

	// CreatedAt is when this artifact version was committed.
	CreatedAt time.Time `json:"created_at"`
}

// ListArtifacts returns all artifacts in the workspace.
func (client *Client) ListArtifacts(ctx context.Context) ([]ArtifactInfo, error) {
	var result []ArtifactInfo
	if err := client.get(ctx, "/v1/artifacts", &result); err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return result, nil
}

// GetManifest returns an artifact's encoded manifest. The caller
// decodes and verifies it with the blob package.
func (client *Client) GetManifest(ctx context.Context, name string) ([]byte, error) {
	body, err := client.do(ctx, http.MethodGet, "/v1/artifacts/"+url.PathEscape(name)+"/manifest", "", nil)
	if err != nil {
		return nil, fmt.Errorf("get manifest for %q: %w", name, err)
	}
	return body, nil
}

// BeginUpload negotiates an artifact upload: the platform compares
// the offered chunk hashes against its store and returns the hashes
// it does not already have. Chunks the platform knows are skipped,
// which is what makes repeated pushes of similar content cheap.
func (client *Client) BeginUpload(ctx context.Context, name, manifestID string, chunkHashes []string) ([]string, error) {
	request := struct {
		ManifestID  string   `json:"manifest_id"`
		ChunkHashes []string `json:"chunk_hashes"`
	}{
		ManifestID:  manifestID,
		ChunkHashes: chunkHashes,
	}
	var result struct {
		Missing []string `json:"missing"`
	}
	if err := client.post(ctx, "/v1/artifacts/"+url.PathEscape(name)+"/uploads", request, &result); err != nil {
		return nil, fmt.Errorf("begin upload for %q: %w", name, err)
	}
	return result.Missing, nil
}

// PutChunk uploads one content chunk, addressed by its content hash.
// The data is the chunk's stored form, compressed per the manifest's
// compression tag for that chunk.
func (client *Client) PutChunk(ctx context.Context, hash string, data []byte) error {
	_, err := client.do(ctx, http.MethodPut, "/v1/chunks/"+url.PathEscape(hash), "application/octet-stream", data)
	if err != nil {
		return fmt.Errorf("put chunk %s: %w", hash, err)
	}
	return nil
}

// GetChunk downloads one content chunk in its stored (compressed)
// form.
func (client *Client) GetChunk(ctx context.Context, hash string) ([]byte, error) {
	body, err := client.do(ctx, http.MethodGet, "/v1/chunks/"+url.PathEscape(hash), "", nil)
	if err != nil {
		return nil, fmt.Errorf("get chunk %s: %w", hash, err)
	}
	return body, nil
}

// CommitArtifact finishes an upload by publishing the encoded
// manifest. The platform verifies it holds every referenced chunk
// before the commit succeeds.
func (client *Client) CommitArtifact(ctx context.Context, name string, manifest []byte) (*ArtifactInfo, error) {
	body, err := client.do(ctx, http.MethodPost, "/v1/artifacts/"+url.PathEscape(name), "application/cbor", manifest)
	if err != nil {
		return nil, fmt.Errorf("commit artifact %q: %w", name, err)
	}
	var result ArtifactInfo
	if err := decode(body, &result); err != nil {
		return nil, fmt.Errorf("commit artifact %q: %w", name, err)
	}
	return &result, nil
}
