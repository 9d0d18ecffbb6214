// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

// Package bpxp implements the BPX Package container variant (main header
// type byte 'P'): an object table whose entries name objects by
// strings-section offset, backed by one or more data sections that a large
// object's body may span.
package bpxp

import (
	"fmt"

	"github.com/bpxfmt/bpx"
)

// Type is the main header Type byte for a Package container.
const Type = 'P'

// Section type tags used within a Package container.
const (
	// SectionTypeObjectTable holds the concatenated ObjectHeader entries.
	SectionTypeObjectTable byte = 0x2
	// SectionTypeData holds raw object bytes, possibly split across
	// several sections.
	SectionTypeData byte = 0x1
)

// Architecture identifies the target CPU architecture of a package.
type Architecture byte

const (
	ArchX86_64 Architecture = 0
	ArchAarch64 Architecture = 1
	ArchX86     Architecture = 2
	ArchArmv7hl Architecture = 3
	ArchAny     Architecture = 4
)

// Platform identifies the target operating system of a package.
type Platform byte

const (
	PlatformLinux   Platform = 0
	PlatformMac     Platform = 1
	PlatformWindows Platform = 2
	PlatformAndroid Platform = 3
	PlatformAny     Platform = 4
)

// Settings describes the target of a package, encoded into the main
// header's 12-byte type-extension field.
type Settings struct {
	Architecture Architecture
	Platform     Platform
	// TypeCode is a 2-byte caller-defined user code (the spec budgets
	// bytes 2..4 of the type-extension field for it).
	TypeCode [2]byte
}

// TypeExt encodes settings into MainHeader.TypeExt.
func (s Settings) TypeExt() [12]byte {
	var ext [12]byte
	ext[0] = byte(s.Architecture)
	ext[1] = byte(s.Platform)
	ext[2] = s.TypeCode[0]
	ext[3] = s.TypeCode[1]
	return ext
}

// SettingsFromTypeExt decodes a MainHeader.TypeExt field back into
// Settings.
func SettingsFromTypeExt(ext [12]byte) Settings {
	return Settings{
		Architecture: Architecture(ext[0]),
		Platform:     Platform(ext[1]),
		TypeCode:     [2]byte{ext[2], ext[3]},
	}
}

// NewHeader returns a MainHeader for a new Package container with the
// given settings.
func NewHeader(s Settings) bpx.MainHeader {
	return bpx.MainHeader{Type: Type, TypeExt: s.TypeExt()}
}

// DataSectionHeader returns the conventional SectionHeader for a Package
// data section: XZ compression, CRC32 checksum.
func DataSectionHeader() bpx.SectionHeader {
	return bpx.SectionHeader{
		Type:        SectionTypeData,
		Compression: bpx.CompressionXZ,
		Checksum:    bpx.ChecksumCRC32,
	}
}

// ObjectTableSectionHeader returns the conventional SectionHeader for the
// Package object table section.
func ObjectTableSectionHeader() bpx.SectionHeader {
	return bpx.SectionHeader{
		Type:        SectionTypeObjectTable,
		Compression: bpx.CompressionZlib,
		Checksum:    bpx.ChecksumCRC32,
	}
}

// ErrNotAPackage is returned when a Container's main header Type is not
// Type ('P').
var ErrNotAPackage = fmt.Errorf("bpxp: not a package container")

// Verify checks that header describes a Package container.
func Verify(header bpx.MainHeader) error {
	if header.Type != Type {
		return ErrNotAPackage
	}
	return nil
}
