// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpxp

import (
	"bytes"
	"io"
	"testing"

	"github.com/bpxfmt/bpx"
	"github.com/stretchr/testify/require"
)

func TestTypeExtRoundtrip(t *testing.T) {
	s := Settings{Architecture: ArchAarch64, Platform: PlatformMac, TypeCode: [2]byte{7, 9}}
	got := SettingsFromTypeExt(s.TypeExt())
	require.Equal(t, s, got)
}

func TestObjectTableRoundtrip(t *testing.T) {
	headers := []ObjectHeader{
		{Size: 10, Name: 0, Start: 0, Offset: 0},
		{Size: 400_000_000, Name: 11, Start: 0, Offset: 10},
	}
	body, err := EncodeObjectTable(headers)
	require.NoError(t, err)
	require.Len(t, body, len(headers)*SizeObjectHeader)

	got, err := DecodeObjectTable(body)
	require.NoError(t, err)
	require.Equal(t, headers, got)
}

func TestPackObjectFromSplitsAtMaxDataSectionSize(t *testing.T) {
	c := bpx.NewContainer(NewHeader(Settings{Architecture: ArchAny, Platform: PlatformAny}))
	w := NewWriter(c)

	// Large enough to guarantee a split into exactly two data sections
	// with headroom on both sides of the MaxDataSectionSize boundary.
	size := MaxDataSectionSize + MaxDataSectionSize/2
	payload := bytes.Repeat([]byte{0xAB}, size)
	header, err := w.PackObjectFrom(bytes.NewReader(payload), 0)
	require.NoError(t, err)

	require.Equal(t, uint64(size), header.Size)
	require.Equal(t, uint32(0), header.Start)
	require.Equal(t, uint32(0), header.Offset)
	require.Len(t, w.DataSectionHandles(), 2)

	r := NewReader(c, w.DataSectionHandles())
	stream, err := r.Open(header)
	require.NoError(t, err)
	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestPackObjectFromLiteral400MBSplitsIntoExactlyTwoSections(t *testing.T) {
	c := bpx.NewContainer(NewHeader(Settings{Architecture: ArchAny, Platform: PlatformAny}))
	w := NewWriter(c)

	const size = 400_000_000
	payload := bytes.Repeat([]byte{0xCD}, size)
	header, err := w.PackObjectFrom(bytes.NewReader(payload), 3)
	require.NoError(t, err)

	require.Equal(t, uint64(size), header.Size)
	require.Len(t, w.DataSectionHandles(), 2)

	r := NewReader(c, w.DataSectionHandles())
	stream, err := r.Open(header)
	require.NoError(t, err)
	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestPackSmallObjectSingleSection(t *testing.T) {
	c := bpx.NewContainer(NewHeader(Settings{}))
	w := NewWriter(c)

	header, err := w.PackObjectFrom(bytes.NewReader([]byte("small object body")), 5)
	require.NoError(t, err)
	require.Len(t, w.DataSectionHandles(), 1)

	r := NewReader(c, w.DataSectionHandles())
	stream, err := r.Open(header)
	require.NoError(t, err)
	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Equal(t, "small object body", string(got))
}
