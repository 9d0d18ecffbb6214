// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import (
	"bytes"
	"encoding/binary"
	"io"
)

// BPX format constants.
const (
	// magic is the 3-byte "BPX" signature at the start of every file.
	magic0, magic1, magic2 = 'B', 'P', 'X'

	// CurrentVersion is the only wire version this package understands.
	CurrentVersion uint32 = 0x2

	// mainHeaderSize is the fixed size in bytes of the main header.
	mainHeaderSize = 40

	// sectionHeaderSize is the fixed size in bytes of one section header.
	sectionHeaderSize = 24
)

// Checksum identifies the per-section integrity check algorithm.
type Checksum byte

const (
	// ChecksumNone disables the integrity check for a section.
	ChecksumNone Checksum = 0
	// ChecksumWeak is the sum of the on-disk body bytes modulo 2^32.
	ChecksumWeak Checksum = 1
	// ChecksumCRC32 is the IEEE 802.3 CRC-32 of the on-disk body bytes.
	ChecksumCRC32 Checksum = 2
)

// Compression identifies the per-section compression algorithm.
type Compression byte

const (
	// CompressionNone stores the section body as-is.
	CompressionNone Compression = 0
	// CompressionXZ compresses the section body with XZ (LZMA2).
	CompressionXZ Compression = 1
	// CompressionZlib compresses the section body with ZLib (RFC 1950).
	CompressionZlib Compression = 2
)

// flags bit layout (LSB first): bits 0-1 checksum kind, bits 2-3 compression
// kind, remaining bits reserved and must be zero.
func packFlags(chk Checksum, cmp Compression) byte {
	return byte(chk&0x3) | byte(cmp&0x3)<<2
}

func unpackFlags(flags byte) (Checksum, Compression) {
	return Checksum(flags & 0x3), Compression((flags >> 2) & 0x3)
}

// MainHeader is the fixed 40-byte header at the start of every BPX file.
type MainHeader struct {
	// Type is the container variant: 'P' (Package), 'S' (Shader), or any
	// user-defined byte.
	Type byte
	// TypeExt is a 12-byte variant-defined field (architecture/platform
	// for Package, target/type/assembly-hash for Shader).
	TypeExt [12]byte
	// Version must equal CurrentVersion on write; Open rejects any other
	// value.
	Version uint32
	// SectionCount is the number of section headers following the main
	// header. Maintained by Container, not meant to be set by hand.
	SectionCount uint32
	// FileSize is the total length of the file as produced by the last
	// Save. Maintained by Container.
	FileSize uint64
	// Chksum is computed over the main header and section header table
	// bytes, with this field treated as zero during the computation.
	// Maintained by Container.
	Chksum uint32
}

// mainHeaderWire is the exact byte layout of MainHeader, suitable for
// encoding/binary.
type mainHeaderWire struct {
	Magic        [3]byte
	Type         byte
	TypeExt      [12]byte
	Version      uint32
	SectionCount uint32
	FileSize     uint64
	Chksum       uint32
	_            [4]byte
}

func (h MainHeader) toWire() mainHeaderWire {
	return mainHeaderWire{
		Magic:        [3]byte{magic0, magic1, magic2},
		Type:         h.Type,
		TypeExt:      h.TypeExt,
		Version:      h.Version,
		SectionCount: h.SectionCount,
		FileSize:     h.FileSize,
		Chksum:       h.Chksum,
	}
}

func (w mainHeaderWire) toHeader() MainHeader {
	return MainHeader{
		Type:         w.Type,
		TypeExt:      w.TypeExt,
		Version:      w.Version,
		SectionCount: w.SectionCount,
		FileSize:     w.FileSize,
		Chksum:       w.Chksum,
	}
}

// SectionHeader is the fixed 24-byte descriptor for one section, stored in
// the section header table immediately following the main header.
type SectionHeader struct {
	// Pointer is the file offset of the section body, set by Save.
	Pointer uint32
	// Size is the on-disk (post-compression) body length, set by Save.
	Size uint32
	// Size32 is the decompressed body length, set by Save.
	Size32 uint32
	// Chksum is computed over the on-disk body bytes, set by Save.
	Chksum uint32
	// Type is a variant-defined section type tag.
	Type byte
	// Checksum selects the integrity check algorithm for this section.
	Checksum Checksum
	// Compression selects the compression algorithm for this section.
	Compression Compression
}

type sectionHeaderWire struct {
	Pointer uint32
	Size    uint32
	Size32  uint32
	Chksum  uint32
	Type    byte
	Flags   byte
	_       [6]byte
}

func (h SectionHeader) toWire() sectionHeaderWire {
	return sectionHeaderWire{
		Pointer: h.Pointer,
		Size:    h.Size,
		Size32:  h.Size32,
		Chksum:  h.Chksum,
		Type:    h.Type,
		Flags:   packFlags(h.Checksum, h.Compression),
	}
}

func (w sectionHeaderWire) toHeader() SectionHeader {
	chk, cmp := unpackFlags(w.Flags)
	return SectionHeader{
		Pointer:     w.Pointer,
		Size:        w.Size,
		Size32:      w.Size32,
		Chksum:      w.Chksum,
		Type:        w.Type,
		Checksum:    chk,
		Compression: cmp,
	}
}

// readMainHeader reads and validates the 40-byte main header.
func readMainHeader(r io.Reader) (MainHeader, error) {
	var w mainHeaderWire
	if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
		return MainHeader{}, &IOError{Op: "read main header", Err: err}
	}
	if w.Magic != [3]byte{magic0, magic1, magic2} {
		return MainHeader{}, ErrBadMagic
	}
	if w.Version != CurrentVersion {
		return MainHeader{}, &VersionError{Got: w.Version, Want: CurrentVersion}
	}
	return w.toHeader(), nil
}

func writeMainHeader(w io.Writer, h MainHeader) error {
	wire := h.toWire()
	if err := binary.Write(w, binary.LittleEndian, &wire); err != nil {
		return &IOError{Op: "write main header", Err: err}
	}
	return nil
}

func readSectionHeaders(r io.Reader, count uint32) ([]SectionHeader, error) {
	out := make([]SectionHeader, count)
	for i := range out {
		var w sectionHeaderWire
		if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
			return nil, &IOError{Op: "read section header", Err: err}
		}
		out[i] = w.toHeader()
	}
	return out, nil
}

func writeSectionHeaders(w io.Writer, headers []SectionHeader) error {
	for _, h := range headers {
		wire := h.toWire()
		if err := binary.Write(w, binary.LittleEndian, &wire); err != nil {
			return &IOError{Op: "write section header", Err: err}
		}
	}
	return nil
}

// headerChecksum computes the weak checksum over the main header and
// section header table bytes, with header.Chksum treated as zero, per the
// wire format's header-integrity rule. Both Save (to produce the value)
// and Open (to verify it) call this over the same bytes.
func headerChecksum(header MainHeader, headers []SectionHeader) (uint32, error) {
	header.Chksum = 0
	var buf bytes.Buffer
	if err := writeMainHeader(&buf, header); err != nil {
		return 0, err
	}
	if err := writeSectionHeaders(&buf, headers); err != nil {
		return 0, err
	}
	return weakChecksum(buf.Bytes()), nil
}
