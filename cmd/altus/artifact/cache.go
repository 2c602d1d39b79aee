// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/altus-cloud/altus/lib/blob"
)

// chunkCache is an on-disk cache of chunk transfer bytes, keyed by
// content hash and compression tag. The tag is part of the key because
// the same content can be stored under different tags by different
// artifacts. Entries are sharded into two-character subdirectories so
// no single directory grows huge.
//
// The cache is strictly best-effort: every method degrades to a miss
// or a no-op on I/O errors, and readers verify entries against the
// manifest before trusting them.
type chunkCache struct {
	dir string
}

func newChunkCache(baseDir string) (*chunkCache, error) {
	dir := filepath.Join(baseDir, "chunks")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &chunkCache{dir: dir}, nil
}

// openChunkCache opens the chunk cache, or returns nil when the cache
// directory cannot be used. Pulls work without a cache; they just
// refetch every chunk.
func openChunkCache(dir string, logger *slog.Logger) *chunkCache {
	if dir == "" {
		return nil
	}
	cache, err := newChunkCache(dir)
	if err != nil {
		logger.Debug("chunk cache unavailable", "dir", dir, "error", err)
		return nil
	}
	return cache
}

func (c *chunkCache) path(hash string, tag blob.Tag) string {
	return filepath.Join(c.dir, hash[:2], hash+"."+tag.String())
}

// get returns the cached transfer bytes for a chunk, if present.
func (c *chunkCache) get(hash string, tag blob.Tag) ([]byte, bool) {
	data, err := os.ReadFile(c.path(hash, tag))
	if err != nil {
		return nil, false
	}
	return data, true
}

// put stores a chunk's transfer bytes. The entry is written to a
// temporary file and renamed into place so a concurrent pull never
// reads a torn entry.
func (c *chunkCache) put(hash string, tag blob.Tag, data []byte) {
	path := c.path(hash, tag)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+hash+"-*")
	if err != nil {
		return
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
	}
}

// drop removes a cache entry.
func (c *chunkCache) drop(hash string, tag blob.Tag) {
	os.Remove(c.path(hash, tag))
}

// chunkIntact reports whether cached transfer bytes still decompress
// to content matching the manifest's reference for the chunk.
func chunkIntact(data []byte, ref blob.ChunkRef) bool {
	plain, err := blob.Decompress(data, ref.Compression, ref.Size)
	if err != nil {
		return false
	}
	return blob.HashChunk(plain) == ref.Hash
}
