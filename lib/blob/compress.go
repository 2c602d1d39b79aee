// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Tag identifies the compression algorithm applied to a chunk's
// transfer form. Tags are recorded per chunk in the manifest. These
// values are protocol constants — changing them breaks manifest
// compatibility.
type Tag uint8

const (
	// None indicates uncompressed data. Used for already-compressed
	// content (images, video, archives) where compression adds CPU
	// cost without reducing size.
	None Tag = 0

	// LZ4 indicates LZ4 block compression. Fast default for binary
	// data with modest redundancy.
	LZ4 Tag = 1

	// Zstd indicates zstd compression at the default level. Better
	// ratios for text-like content (JSON, logs, source trees).
	Zstd Tag = 2
)

// String returns the human-readable name of a compression tag.
func (tag Tag) String() string {
	switch tag {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// ParseTag parses a compression tag from its string representation.
func ParseTag(name string) (Tag, error) {
	switch name {
	case "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// Compress compresses data using the specified algorithm. For None,
// returns the input unchanged (no copy). Returns errIncompressible
// when the compressed form would not be smaller than the input; the
// caller should fall back to None.
func Compress(data []byte, tag Tag) ([]byte, error) {
	switch tag {
	case None:
		return data, nil

	case LZ4:
		return compressLZ4(data)

	case Zstd:
		return compressZstd(data)

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

// Decompress decompresses data that was compressed with the specified
// algorithm. The uncompressedSize must match the original data length
// exactly — this is verified and a mismatch returns an error.
func Decompress(compressed []byte, tag Tag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case None:
		if len(compressed) != uncompressedSize {
			return nil, fmt.Errorf("uncompressed chunk: size %d does not match expected %d",
				len(compressed), uncompressedSize)
		}
		return compressed, nil

	case LZ4:
		return decompressLZ4(compressed, uncompressedSize)

	case Zstd:
		return decompressZstd(compressed, uncompressedSize)

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

// LZ4 compression: block-mode LZ4.

func compressLZ4(data []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(data))
	destination := make([]byte, bound)

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	// CompressBlock returns 0 when it determines the data is
	// incompressible. We also check whether the compressed output is
	// actually smaller than the input — if not, compression is not
	// worthwhile.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}

	return destination[:written], nil
}

func decompressLZ4(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
	}
	return destination, nil
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. zstd.Encoder and zstd.Decoder are
// safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("blob: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("blob: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, 0, uncompressedSize)
	result, err := zstdDecoder.DecodeAll(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != uncompressedSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), uncompressedSize)
	}
	return result, nil
}

// errIncompressible is returned by compression functions when the
// compressed output is not smaller than the input. The caller should
// fall back to None.
var errIncompressible = fmt.Errorf("data is incompressible")

// IsIncompressible returns true if the error indicates that data
// could not be compressed smaller than its original size.
func IsIncompressible(err error) bool {
	return err == errIncompressible
}

// probeSize bounds how much of the payload SelectCompression feeds to
// the zstd probe. 4 KiB is enough to tell text from packed binary
// without a measurable cost on large artifacts.
const probeSize = 4096

// SelectCompression probes the head of the payload to pick a
// compression algorithm for the whole artifact. It compresses up to
// the first 4 KiB with zstd and inspects the ratio: above 1.5x zstd
// is selected, between 1.1x and 1.5x LZ4 (faster with acceptable
// ratio), below 1.1x the payload is treated as incompressible.
//
// Individual chunks that still fail to shrink under the selected
// algorithm fall back to None via [CompressAuto].
func SelectCompression(data []byte) Tag {
	if len(data) == 0 {
		return None
	}

	sample := data
	if len(sample) > probeSize {
		sample = sample[:probeSize]
	}

	compressed := zstdEncoder.EncodeAll(sample, nil)
	ratio := float64(len(sample)) / float64(len(compressed))

	switch {
	case ratio >= 1.5:
		return Zstd
	case ratio >= 1.1:
		return LZ4
	default:
		return None
	}
}

// CompressAuto compresses data with the preferred algorithm, falling
// back to None when the data is incompressible. Returns the transfer
// bytes and the tag that was actually applied.
func CompressAuto(data []byte, preferred Tag) ([]byte, Tag, error) {
	compressed, err := Compress(data, preferred)
	if err != nil {
		if IsIncompressible(err) {
			return data, None, nil
		}
		return nil, 0, err
	}
	return compressed, preferred, nil
}
