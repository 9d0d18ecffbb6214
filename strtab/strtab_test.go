// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package strtab

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// memBacking is a minimal in-memory Backing implementation for tests.
type memBacking struct {
	buf    []byte
	cursor int
}

func (m *memBacking) Read(p []byte) (int, error) {
	if m.cursor >= len(m.buf) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.cursor:])
	m.cursor += n
	return n, nil
}

func (m *memBacking) Write(p []byte) (int, error) {
	end := m.cursor + len(p)
	if end > len(m.buf) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.cursor:end], p)
	m.cursor += n
	return n, nil
}

func (m *memBacking) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(m.cursor)
	case io.SeekEnd:
		base = int64(len(m.buf))
	}
	m.cursor = int(base + offset)
	return int64(m.cursor), nil
}

func (m *memBacking) Size() uint32 { return uint32(len(m.buf)) }

func TestPutGetRoundtrip(t *testing.T) {
	tbl := New(&memBacking{})

	off1, err := tbl.Put("alpha")
	require.NoError(t, err)
	off2, err := tbl.Put("beta")
	require.NoError(t, err)

	require.Equal(t, uint32(0), off1)
	require.Equal(t, uint32(6), off2)

	s1, err := tbl.Get(off1)
	require.NoError(t, err)
	require.Equal(t, "alpha", s1)

	s2, err := tbl.Get(off2)
	require.NoError(t, err)
	require.Equal(t, "beta", s2)
}

func TestGetMissingTerminator(t *testing.T) {
	tbl := New(&memBacking{buf: []byte("no terminator")})
	_, err := tbl.Get(0)
	require.ErrorIs(t, err, ErrNotFound)
}
