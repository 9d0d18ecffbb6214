// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

// Package shader implements the BPX Shader container variant (main header
// type byte 'S'): a symbol table whose entries name shaders by
// strings-section offset, each entry tagged with a pipeline stage and
// pointing to a dedicated bytecode section.
package shader

import (
	"fmt"

	"github.com/bpxfmt/bpx"
)

// Type is the main header Type byte for a Shader container.
const Type = 'S'

// Section type tags used within a Shader container.
const (
	SectionTypeShader        byte = 0x1
	SectionTypeSymbolTable   byte = 0x2
	SectionTypeExtendedData  byte = 0x3
)

// Target identifies the graphics API / shader ISA a shader program targets.
type Target byte

const (
	TargetDX11 Target = 0x01
	TargetDX12 Target = 0x02
	TargetGL33 Target = 0x03
	TargetGL40 Target = 0x04
	TargetGL41 Target = 0x05
	TargetGL42 Target = 0x06
	TargetGL43 Target = 0x07
	TargetGL44 Target = 0x08
	TargetGL45 Target = 0x09
	TargetGL46 Target = 0x0A
	TargetES30 Target = 0x0B
	TargetES31 Target = 0x0C
	TargetES32 Target = 0x0D
	TargetVK10 Target = 0x0E
	TargetVK11 Target = 0x0F
	TargetVK12 Target = 0x10
	TargetMT   Target = 0x11
	TargetAny  Target = 0xFF
)

// PackType distinguishes a pack holding raw assembly from one holding a
// linked pipeline.
type PackType byte

const (
	TypeAssembly PackType = 'A'
	TypePipeline PackType = 'P'
)

// Stage identifies which stage of the graphics pipeline a Shader runs.
type Stage byte

const (
	StageVertex Stage = iota
	StageHull
	StageDomain
	StageGeometry
	StagePixel
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageHull:
		return "hull"
	case StageDomain:
		return "domain"
	case StageGeometry:
		return "geometry"
	case StagePixel:
		return "pixel"
	default:
		return "unknown"
	}
}

// Settings describes one shader pack's identity, encoded into the main
// header's type-extension field.
type Settings struct {
	// AssemblyHash identifies the source program this pack was built
	// from (bpx.Hash of some caller-defined canonical source key).
	AssemblyHash bpx.Name
	Target       Target
	PackType     PackType
}

// TypeExt encodes settings into MainHeader.TypeExt.
func (s Settings) TypeExt() [12]byte {
	var ext [12]byte
	for i := 0; i < 8; i++ {
		ext[i] = byte(s.AssemblyHash >> (8 * uint(i)))
	}
	ext[10] = byte(s.Target)
	ext[11] = byte(s.PackType)
	return ext
}

// SettingsFromTypeExt decodes a MainHeader.TypeExt field back into
// Settings.
func SettingsFromTypeExt(ext [12]byte) Settings {
	var hash bpx.Name
	for i := 0; i < 8; i++ {
		hash |= bpx.Name(ext[i]) << (8 * uint(i))
	}
	return Settings{
		AssemblyHash: hash,
		Target:       Target(ext[10]),
		PackType:     PackType(ext[11]),
	}
}

// NewHeader returns a MainHeader for a new Shader container with the given
// settings.
func NewHeader(s Settings) bpx.MainHeader {
	return bpx.MainHeader{Type: Type, TypeExt: s.TypeExt()}
}

// ShaderSectionHeader returns the conventional SectionHeader for a section
// holding one shader's bytecode.
func ShaderSectionHeader() bpx.SectionHeader {
	return bpx.SectionHeader{
		Type:        SectionTypeShader,
		Compression: bpx.CompressionXZ,
		Checksum:    bpx.ChecksumCRC32,
	}
}

// SymbolTableSectionHeader returns the conventional SectionHeader for the
// symbol table section.
func SymbolTableSectionHeader() bpx.SectionHeader {
	return bpx.SectionHeader{
		Type:        SectionTypeSymbolTable,
		Compression: bpx.CompressionZlib,
		Checksum:    bpx.ChecksumCRC32,
	}
}

// ErrNotAShaderPack is returned when a Container's main header Type is not
// Type ('S').
var ErrNotAShaderPack = fmt.Errorf("shader: not a shader pack container")

// Verify checks that header describes a Shader container.
func Verify(header bpx.MainHeader) error {
	if header.Type != Type {
		return ErrNotAShaderPack
	}
	return nil
}
