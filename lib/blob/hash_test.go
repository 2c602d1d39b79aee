// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"strings"
	"testing"
)

func TestHashChunkDeterministic(t *testing.T) {
	data := []byte("the same bytes must always hash the same")

	first := HashChunk(data)
	second := HashChunk(data)

	if first != second {
		t.Errorf("HashChunk not deterministic: %s != %s", FormatHash(first), FormatHash(second))
	}
}

func TestHashChunkDistinguishesContent(t *testing.T) {
	a := HashChunk([]byte("payload a"))
	b := HashChunk([]byte("payload b"))

	if a == b {
		t.Error("different content produced the same chunk hash")
	}
}

func TestDomainSeparation(t *testing.T) {
	// The same input bytes must hash differently in the chunk and
	// manifest domains.
	data := []byte("identical input, different domains")

	chunk := keyedHash(chunkDomainKey, data)
	manifest := keyedHash(manifestDomainKey, data)

	if chunk == manifest {
		t.Error("chunk and manifest domains produced the same hash for identical input")
	}
}

func TestFormatParseHashRoundtrip(t *testing.T) {
	original := HashChunk([]byte("roundtrip me"))

	formatted := FormatHash(original)
	if len(formatted) != 64 {
		t.Fatalf("FormatHash produced %d characters, want 64", len(formatted))
	}
	if formatted != strings.ToLower(formatted) {
		t.Errorf("FormatHash should be lowercase hex, got %q", formatted)
	}

	parsed, err := ParseHash(formatted)
	if err != nil {
		t.Fatalf("ParseHash(%q) failed: %v", formatted, err)
	}
	if parsed != original {
		t.Error("FormatHash/ParseHash roundtrip lost data")
	}
}

func TestParseHashRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not hex", strings.Repeat("zz", 32)},
		{"too short", "abcdef"},
		{"too long", strings.Repeat("ab", 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHash(tt.input); err == nil {
				t.Errorf("ParseHash(%q) should fail", tt.input)
			}
		})
	}
}
