// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionRoundtrip(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 200)

	for _, kind := range []Compression{CompressionNone, CompressionZlib, CompressionXZ} {
		encoded, err := compress(kind, payload)
		require.NoError(t, err)

		decoded, err := decompress(kind, encoded, uint32(len(payload)))
		require.NoError(t, err)
		require.Equal(t, payload, decoded)
	}
}

func TestChecksumKinds(t *testing.T) {
	payload := []byte("section body bytes")

	weak, err := checksum(ChecksumWeak, payload)
	require.NoError(t, err)
	require.NotZero(t, weak)

	crc, err := checksum(ChecksumCRC32, payload)
	require.NoError(t, err)
	require.NotEqual(t, weak, crc)

	none, err := checksum(ChecksumNone, payload)
	require.NoError(t, err)
	require.Zero(t, none)
}

func TestDecodeSectionDetectsCorruption(t *testing.T) {
	header := SectionHeader{Checksum: ChecksumCRC32, Compression: CompressionNone}
	raw, chksum, err := encodeSection(header, []byte("hello"))
	require.NoError(t, err)
	header.Chksum = chksum
	header.Size32 = 5

	_, err = decodeSection(1, header, raw)
	require.NoError(t, err)

	corrupted := append([]byte(nil), raw...)
	corrupted[0] ^= 0xFF
	_, err = decodeSection(1, header, corrupted)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}
