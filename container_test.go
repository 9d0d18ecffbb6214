// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// memFile is a minimal io.ReadWriteSeeker over an in-memory buffer, used to
// exercise Container without touching the filesystem.
type memFile struct {
	buf    []byte
	cursor int
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.cursor >= len(f.buf) {
		return 0, io.EOF
	}
	n := copy(p, f.buf[f.cursor:])
	f.cursor += n
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	end := f.cursor + len(p)
	if end > len(f.buf) {
		grown := make([]byte, end)
		copy(grown, f.buf)
		f.buf = grown
	}
	n := copy(f.buf[f.cursor:end], p)
	f.cursor += n
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(f.cursor)
	case io.SeekEnd:
		base = int64(len(f.buf))
	}
	f.cursor = int(base + offset)
	return int64(f.cursor), nil
}

func TestEmptyContainerRoundtrip(t *testing.T) {
	c := NewContainer(MainHeader{Type: 'P'})
	require.Empty(t, c.Sections().Handles())

	f := &memFile{}
	require.NoError(t, c.Save(f))
	require.NoError(t, c.Close())

	read, err := Open(f)
	require.NoError(t, err)
	require.Equal(t, byte('P'), read.Header().Type)
	require.Empty(t, read.Sections().Handles())
}

func TestCreateWriteSaveOpenRoundtrip(t *testing.T) {
	c := NewContainer(MainHeader{Type: 0})

	h1, err := c.Sections().Create(SectionHeader{Type: 1, Compression: CompressionZlib, Checksum: ChecksumCRC32})
	require.NoError(t, err)
	s1, err := c.Sections().Open(h1)
	require.NoError(t, err)
	_, err = s1.Write(bytes.Repeat([]byte("alpha "), 50))
	require.NoError(t, err)

	h2, err := c.Sections().Create(SectionHeader{Type: 2, Compression: CompressionNone, Checksum: ChecksumWeak})
	require.NoError(t, err)
	s2, err := c.Sections().Open(h2)
	require.NoError(t, err)
	_, err = s2.Write([]byte("beta"))
	require.NoError(t, err)

	f := &memFile{}
	require.NoError(t, c.Save(f))
	require.NoError(t, c.Close())

	read, err := Open(f)
	require.NoError(t, err)
	defer read.Close()

	handles := read.Sections().Handles()
	require.Len(t, handles, 2)

	body1, err := read.Sections().Open(handles[0])
	require.NoError(t, err)
	data1, err := body1.LoadAll()
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte("alpha "), 50), data1)

	body2, err := read.Sections().Open(handles[1])
	require.NoError(t, err)
	data2, err := body2.LoadAll()
	require.NoError(t, err)
	require.Equal(t, []byte("beta"), data2)
}

func TestOpenUnknownHandle(t *testing.T) {
	c := NewContainer(MainHeader{})
	_, err := c.Sections().Open(Handle(99))
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestRemoveSection(t *testing.T) {
	c := NewContainer(MainHeader{})
	h, err := c.Sections().Create(SectionHeader{})
	require.NoError(t, err)
	require.NoError(t, c.Sections().Remove(h))
	require.Empty(t, c.Sections().Handles())

	_, err = c.Sections().Open(h)
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestOpenRejectsBadMagic(t *testing.T) {
	f := &memFile{buf: []byte("not a bpx file at all...................")}
	_, err := Open(f)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestOpenRejectsUnsupportedVersion(t *testing.T) {
	c := NewContainer(MainHeader{})
	f := &memFile{}
	require.NoError(t, c.Save(f))

	// Corrupt the version field in place (offset 16: magic[3]+type[1]+typeext[12]).
	f.buf[16] = 0x99

	_, err := Open(f)
	var verr *VersionError
	require.ErrorAs(t, err, &verr)
}

func TestCorruptSectionBodyDetected(t *testing.T) {
	c := NewContainer(MainHeader{})
	h, err := c.Sections().Create(SectionHeader{Checksum: ChecksumCRC32})
	require.NoError(t, err)
	s, err := c.Sections().Open(h)
	require.NoError(t, err)
	_, err = s.Write([]byte("integrity matters"))
	require.NoError(t, err)

	f := &memFile{}
	require.NoError(t, c.Save(f))

	// Flip a byte inside the section body, well past the header+table region.
	f.buf[len(f.buf)-1] ^= 0xFF

	read, err := Open(f)
	require.NoError(t, err)
	_, err = read.Sections().Open(read.Sections().Handles()[0])
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestCorruptHeaderRegionDetected(t *testing.T) {
	c := NewContainer(MainHeader{Type: 'P'})
	h, err := c.Sections().Create(SectionHeader{Type: 1, Checksum: ChecksumWeak})
	require.NoError(t, err)
	s, err := c.Sections().Open(h)
	require.NoError(t, err)
	_, err = s.Write([]byte("section table entry under test"))
	require.NoError(t, err)

	f := &memFile{}
	require.NoError(t, c.Save(f))

	// Flip a byte inside the section header table, after the main header
	// but before any section body.
	f.buf[mainHeaderSize] ^= 0xFF

	_, err = Open(f)
	var herr *HeaderChecksumError
	require.ErrorAs(t, err, &herr)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}
