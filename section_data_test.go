// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemorySectionDataReadWrite(t *testing.T) {
	d := newMemorySectionData()

	n, err := d.Write([]byte("hello world"))
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, uint32(11), d.Size())

	_, err = d.Seek(0, io.SeekStart)
	require.NoError(t, err)

	got, err := d.LoadAll()
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got))
}

func TestMemorySectionDataSeekEndRelativeToSize(t *testing.T) {
	d := newMemorySectionData()
	_, err := d.Write([]byte("0123456789"))
	require.NoError(t, err)

	// Moving the cursor first must not affect a later SeekEnd: it is
	// relative to the section's size, not the cursor.
	_, err = d.Seek(2, io.SeekStart)
	require.NoError(t, err)

	pos, err := d.Seek(-3, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(7), pos)

	buf := make([]byte, 3)
	n, err := d.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "789", string(buf))
}

func TestMemorySectionDataSeekCurrentRelativeToCursor(t *testing.T) {
	d := newMemorySectionData()
	_, err := d.Write([]byte("0123456789"))
	require.NoError(t, err)

	_, err = d.Seek(4, io.SeekStart)
	require.NoError(t, err)

	pos, err := d.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(6), pos)
}

func TestMemorySectionDataSeekNegativeRejected(t *testing.T) {
	d := newMemorySectionData()
	_, err := d.Write([]byte("abc"))
	require.NoError(t, err)

	_, err = d.Seek(-1, io.SeekStart)
	require.Error(t, err)
}

func TestFileSectionDataRoundtrip(t *testing.T) {
	d, err := newFileSectionData()
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Write([]byte("payload"))
	require.NoError(t, err)
	require.Equal(t, uint32(7), d.Size())

	got, err := d.LoadAll()
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))
}

func TestNewSectionDataThresholdPolicy(t *testing.T) {
	small, err := newSectionData(1024)
	require.NoError(t, err)
	defer small.Close()
	auto, ok := small.(*sectionDataAuto)
	require.True(t, ok)
	require.False(t, auto.isFile)
	_, isMemory := auto.inner.(*memorySectionData)
	require.True(t, isMemory)

	large, err := newSectionData(MemoryThreshold + 1)
	require.NoError(t, err)
	defer large.Close()
	auto, ok = large.(*sectionDataAuto)
	require.True(t, ok)
	require.True(t, auto.isFile)
	_, isFile := auto.inner.(*fileSectionData)
	require.True(t, isFile)
}

func TestSectionDataAutoPromotesPastMemoryThreshold(t *testing.T) {
	d, err := newSectionData(0)
	require.NoError(t, err)
	defer d.Close()

	auto := d.(*sectionDataAuto)
	require.False(t, auto.isFile)

	first := []byte("before promotion")
	_, err = d.Write(first)
	require.NoError(t, err)

	// A write that would cross MemoryThreshold promotes the section to a
	// temp file, preserving what was already written.
	big := make([]byte, MemoryThreshold)
	_, err = d.Write(big)
	require.NoError(t, err)
	require.True(t, auto.isFile)
	require.Equal(t, uint32(len(first)+len(big)), d.Size())

	_, err = d.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, err := d.LoadAll()
	require.NoError(t, err)
	require.Equal(t, first, got[:len(first)])
}
