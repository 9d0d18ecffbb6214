// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/ulikunitz/xz"
)

// compress applies the compression named by kind to data, returning the
// on-disk bytes.
func compress(kind Compression, data []byte) ([]byte, error) {
	switch kind {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		return compressZlib(data)
	case CompressionXZ:
		return compressXZ(data)
	default:
		return nil, fmt.Errorf("bpx: compress: %w: %d", ErrUnknownCompression, kind)
	}
}

// decompress reverses compress, given the expected decompressed size.
func decompress(kind Compression, data []byte, decompressedSize uint32) ([]byte, error) {
	switch kind {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		return decompressZlib(data, decompressedSize)
	case CompressionXZ:
		return decompressXZ(data, decompressedSize)
	default:
		return nil, fmt.Errorf("bpx: decompress: %w: %d", ErrUnknownCompression, kind)
	}
}

func compressZlib(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("bpx: create zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("bpx: zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bpx: zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressZlib(data []byte, decompressedSize uint32) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bpx: create zlib reader: %w", err)
	}
	defer r.Close()

	result := make([]byte, decompressedSize)
	n, err := io.ReadFull(r, result)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("bpx: zlib decompress: %w", err)
	}
	return result[:n], nil
}

func compressXZ(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("bpx: create xz writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("bpx: xz write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bpx: xz close: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressXZ(data []byte, decompressedSize uint32) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bpx: create xz reader: %w", err)
	}
	result := make([]byte, decompressedSize)
	n, err := io.ReadFull(r, result)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("bpx: xz decompress: %w", err)
	}
	return result[:n], nil
}

// checksum computes the section-body checksum named by kind.
func checksum(kind Checksum, data []byte) (uint32, error) {
	switch kind {
	case ChecksumNone:
		return 0, nil
	case ChecksumWeak:
		return weakChecksum(data), nil
	case ChecksumCRC32:
		return crc32.ChecksumIEEE(data), nil
	default:
		return 0, fmt.Errorf("bpx: checksum: %w: %d", ErrUnknownChecksum, kind)
	}
}

// weakChecksum is the sum of every byte, modulo 2^32 (i.e. a plain
// wrapping uint32 accumulator).
func weakChecksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}

// encodeSection runs the write-side codec pipeline: compress, then
// checksum the compressed bytes.
func encodeSection(h SectionHeader, body []byte) (out []byte, chksum uint32, err error) {
	out, err = compress(h.Compression, body)
	if err != nil {
		return nil, 0, err
	}
	chksum, err = checksum(h.Checksum, out)
	if err != nil {
		return nil, 0, err
	}
	return out, chksum, nil
}

// decodeSection runs the read-side codec pipeline: verify the checksum of
// the on-disk bytes, then decompress.
func decodeSection(handle Handle, h SectionHeader, raw []byte) ([]byte, error) {
	got, err := checksum(h.Checksum, raw)
	if err != nil {
		return nil, err
	}
	if h.Checksum != ChecksumNone && got != h.Chksum {
		return nil, &ChecksumError{Handle: handle, Got: got, Want: h.Chksum}
	}
	return decompress(h.Compression, raw, h.Size32)
}
