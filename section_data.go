// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// MemoryThreshold is the decompressed-size cutoff above which a new section
// is backed by a temp file instead of an in-memory buffer.
const MemoryThreshold = 100 * 1024 * 1024

// SectionData is a randomly-seekable, growable byte store backing one
// section body. Implementations are either held entirely in memory or
// spilled to a scratch file, selected by size at creation time; callers see
// the same interface either way.
type SectionData interface {
	io.Reader
	io.Writer
	io.Seeker

	// Size returns the current length of the stored data, independent of
	// the current seek position.
	Size() uint32

	// LoadAll reads the entire section body from the beginning, leaving
	// the seek position at the end.
	LoadAll() ([]byte, error)

	// Close releases any resources (e.g. a backing temp file) held by
	// this SectionData. After Close the SectionData must not be used.
	Close() error
}

// newSectionData picks an in-memory or file-backed SectionData according to
// MemoryThreshold, wrapped in a sectionDataAuto so that a section started in
// memory on a size hint of 0 (or an underestimate) still spills to a temp
// file the moment a Write would push it past MemoryThreshold. Callers that
// already know the size should still pass it, to skip the initial
// in-memory buffer entirely for sections known upfront to be large.
func newSectionData(sizeHint uint32) (SectionData, error) {
	if sizeHint > MemoryThreshold {
		fd, err := newFileSectionData()
		if err != nil {
			return nil, err
		}
		return &sectionDataAuto{inner: fd, isFile: true}, nil
	}
	return &sectionDataAuto{inner: newMemorySectionData()}, nil
}

// sectionDataAuto wraps a SectionData that starts in memory and promotes
// itself to a file-backed SectionData the first time a Write would grow it
// past MemoryThreshold, preserving the bytes written so far and the current
// seek position. Once promoted, it stays file-backed for the rest of its
// life.
type sectionDataAuto struct {
	inner  SectionData
	isFile bool
}

func (a *sectionDataAuto) promote() error {
	pos, err := a.inner.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	body, err := a.inner.LoadAll()
	if err != nil {
		return err
	}
	fd, err := newFileSectionData()
	if err != nil {
		return err
	}
	if _, err := fd.Write(body); err != nil {
		return err
	}
	if _, err := fd.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	a.inner.Close()
	a.inner = fd
	a.isFile = true
	return nil
}

func (a *sectionDataAuto) Read(p []byte) (int, error) { return a.inner.Read(p) }

func (a *sectionDataAuto) Write(p []byte) (int, error) {
	if !a.isFile && a.inner.Size()+uint32(len(p)) > MemoryThreshold {
		if err := a.promote(); err != nil {
			return 0, err
		}
	}
	return a.inner.Write(p)
}

func (a *sectionDataAuto) Seek(offset int64, whence int) (int64, error) {
	return a.inner.Seek(offset, whence)
}

func (a *sectionDataAuto) Size() uint32 { return a.inner.Size() }

func (a *sectionDataAuto) LoadAll() ([]byte, error) { return a.inner.LoadAll() }

func (a *sectionDataAuto) Close() error { return a.inner.Close() }

// memorySectionData is a SectionData backed by an in-memory buffer.
type memorySectionData struct {
	buf    []byte
	cursor int
}

func newMemorySectionData() *memorySectionData {
	return &memorySectionData{}
}

func (m *memorySectionData) Read(p []byte) (int, error) {
	if m.cursor >= len(m.buf) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.cursor:])
	m.cursor += n
	return n, nil
}

func (m *memorySectionData) Write(p []byte) (int, error) {
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

// Seek implements io.Seeker with the corrected end/current semantics: an
// io.SeekEnd offset is relative to the section's size, and an
// io.SeekCurrent offset is relative to the current cursor. The original
// implementation this package is modeled on computed both relative to the
// cursor, which made SeekEnd wrong whenever the cursor was not already at
// the end; Go's io.Seeker contract requires offsets to be absolute or
// relative per whence, so this divergence is intentional.
func (m *memorySectionData) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(m.cursor)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, fmt.Errorf("bpx: memory section: invalid whence %d", whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, fmt.Errorf("bpx: memory section: negative resulting offset")
	}
	m.cursor = int(pos)
	return pos, nil
}

func (m *memorySectionData) Size() uint32 { return uint32(len(m.buf)) }

func (m *memorySectionData) LoadAll() ([]byte, error) {
	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	m.cursor = len(m.buf)
	return out, nil
}

func (m *memorySectionData) Close() error {
	m.buf = nil
	return nil
}

// fileSectionData is a SectionData backed by a temp file, used for section
// bodies too large to comfortably hold in memory.
type fileSectionData struct {
	f *os.File
}

func newFileSectionData() (*fileSectionData, error) {
	f, err := os.CreateTemp("", "bpx-section-*")
	if err != nil {
		return nil, &IOError{Op: "create section temp file", Err: err}
	}
	return &fileSectionData{f: f}, nil
}

func (fd *fileSectionData) Read(p []byte) (int, error)  { return fd.f.Read(p) }
func (fd *fileSectionData) Write(p []byte) (int, error) { return fd.f.Write(p) }

func (fd *fileSectionData) Seek(offset int64, whence int) (int64, error) {
	return fd.f.Seek(offset, whence)
}

func (fd *fileSectionData) Size() uint32 {
	info, err := fd.f.Stat()
	if err != nil {
		return 0
	}
	return uint32(info.Size())
}

func (fd *fileSectionData) LoadAll() ([]byte, error) {
	if _, err := fd.f.Seek(0, io.SeekStart); err != nil {
		return nil, &IOError{Op: "seek section temp file", Err: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, fd.f); err != nil {
		return nil, &IOError{Op: "read section temp file", Err: err}
	}
	return buf.Bytes(), nil
}

func (fd *fileSectionData) Close() error {
	name := fd.f.Name()
	err := fd.f.Close()
	os.Remove(name)
	if err != nil {
		return &IOError{Op: "close section temp file", Err: err}
	}
	return nil
}
