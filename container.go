// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import (
	"fmt"
	"io"
	"math"
)

// sectionState tracks how a section's body relates to what is (or will be)
// on disk.
type sectionState int

const (
	// stateAbsent means the body has not been read from the backing store
	// yet; only header.Pointer/Size are known.
	stateAbsent sectionState = iota
	// stateLoaded means the body has been decoded into data and matches
	// what is on disk: reads are satisfied from data, Save reuses the
	// cached on-disk bytes without recompressing.
	stateLoaded
	// stateDirty means data has been modified (or newly created) since
	// the container was opened or last saved; Save must recompress it.
	stateDirty
)

// sectionEntry is one row of the container's in-memory section table.
type sectionEntry struct {
	header SectionHeader
	state  sectionState
	// rawOnDisk caches the still-encoded body bytes read from the
	// container's backing store, lazily populated by loadRaw on first
	// access (either Sections().Open or Save). It stays valid across
	// stateAbsent and stateLoaded and is cleared the moment a write makes
	// the section stateDirty.
	rawOnDisk []byte
	data      SectionData
}

// Container is an open BPX file: a main header plus an ordered table of
// sections. A Container owns any SectionData it creates and must be
// closed with Close to release backing temp files.
type Container struct {
	header   MainHeader
	entries  []*sectionEntry
	handles  map[Handle]int // handle -> index into entries
	order    []Handle       // entries in on-disk order
	gen      handleGenerator
	src      io.ReadSeeker // backing store for lazy section loads, nil for a fresh container
}

// NewContainer creates a new, empty Container. Version and SectionCount in
// header are overwritten; callers only need to set Type and any
// variant-specific TypeExt bytes.
func NewContainer(header MainHeader) *Container {
	header.Version = CurrentVersion
	header.SectionCount = 0
	return &Container{
		header:  header,
		handles: make(map[Handle]int),
	}
}

// Open reads a BPX file's main header and section header table from r and
// returns a Container whose section bodies are loaded lazily on first
// access via Sections().Open. No section body is read at Open time: a
// multi-gigabyte file with large, never-accessed sections costs only the
// header and section table reads.
func Open(r io.ReadSeeker) (*Container, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, &IOError{Op: "seek to start", Err: err}
	}
	header, err := readMainHeader(r)
	if err != nil {
		return nil, err
	}
	headers, err := readSectionHeaders(r, header.SectionCount)
	if err != nil {
		return nil, fmt.Errorf("bpx: %w: %v", ErrSectionCountMismatch, err)
	}

	want := header.Chksum
	got, err := headerChecksum(header, headers)
	if err != nil {
		return nil, err
	}
	if got != want {
		return nil, &HeaderChecksumError{Got: got, Want: want}
	}

	c := &Container{
		header:  header,
		handles: make(map[Handle]int),
		src:     r,
	}
	for _, h := range headers {
		handle := c.gen.next()
		c.entries = append(c.entries, &sectionEntry{header: h, state: stateAbsent})
		c.handles[handle] = len(c.entries) - 1
		c.order = append(c.order, handle)
	}
	return c, nil
}

// loadRaw returns the still-encoded body bytes for e, reading them from the
// container's backing store on first access and caching the result so
// later calls (another Open, a second Save) never re-read src.
func (c *Container) loadRaw(e *sectionEntry) ([]byte, error) {
	if e.rawOnDisk != nil || e.header.Size == 0 {
		if e.rawOnDisk == nil {
			e.rawOnDisk = []byte{}
		}
		return e.rawOnDisk, nil
	}
	if c.src == nil {
		return nil, fmt.Errorf("bpx: section has no backing store to load from")
	}
	raw := make([]byte, e.header.Size)
	if _, err := c.src.Seek(int64(e.header.Pointer), io.SeekStart); err != nil {
		return nil, &IOError{Op: "seek to section", Err: err}
	}
	if _, err := io.ReadFull(c.src, raw); err != nil {
		return nil, &IOError{Op: "read section body", Err: err}
	}
	e.rawOnDisk = raw
	return raw, nil
}

// Header returns the container's current main header. FileSize, Chksum and
// SectionCount reflect the file as read by Open, or the last Save call.
func (c *Container) Header() MainHeader { return c.header }

// Sections returns a view over this container's section table.
func (c *Container) Sections() *SectionView { return &SectionView{c: c} }

// SectionView is the handle-based API for creating, reading and removing
// sections of a Container.
type SectionView struct{ c *Container }

// Handles returns every live Handle, in on-disk order.
func (v *SectionView) Handles() []Handle {
	out := make([]Handle, len(v.c.order))
	copy(out, v.c.order)
	return out
}

// Create appends a new, empty section described by header and returns its
// Handle. header.Size32, if set, is used as a size hint to choose the
// section's backing store; header.Pointer/Size/Size32/Chksum are all
// recomputed by Save.
func (v *SectionView) Create(header SectionHeader) (Handle, error) {
	data, err := newSectionData(header.Size32)
	if err != nil {
		return 0, err
	}
	entry := &sectionEntry{header: header, state: stateDirty, data: data}
	handle := v.c.gen.next()
	v.c.entries = append(v.c.entries, entry)
	v.c.handles[handle] = len(v.c.entries) - 1
	v.c.order = append(v.c.order, handle)
	return handle, nil
}

// Header returns the current on-record SectionHeader for handle.
func (v *SectionView) Header(handle Handle) (SectionHeader, error) {
	e, err := v.c.lookup(handle)
	if err != nil {
		return SectionHeader{}, err
	}
	return e.header, nil
}

// Open returns the SectionData for handle, reading and decoding its body
// from the backing store on first access. A section read but never written
// to stays stateLoaded: Save reuses its cached on-disk bytes instead of
// recompressing it.
func (v *SectionView) Open(handle Handle) (SectionData, error) {
	e, err := v.c.lookup(handle)
	if err != nil {
		return nil, err
	}
	if e.state == stateAbsent {
		raw, err := v.c.loadRaw(e)
		if err != nil {
			return nil, err
		}
		body, err := decodeSection(handle, e.header, raw)
		if err != nil {
			return nil, err
		}
		data, err := newSectionData(uint32(len(body)))
		if err != nil {
			return nil, err
		}
		if _, err := data.Write(body); err != nil {
			return nil, err
		}
		if _, err := data.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		e.data = &trackedSectionData{SectionData: data, entry: e}
		e.state = stateLoaded
	}
	return e.data, nil
}

// trackedSectionData wraps a materialized section's SectionData so that a
// caller-initiated write flips the owning entry back to stateDirty and
// drops its now-stale cached on-disk bytes.
type trackedSectionData struct {
	SectionData
	entry *sectionEntry
}

func (t *trackedSectionData) Write(p []byte) (int, error) {
	n, err := t.SectionData.Write(p)
	if n > 0 {
		t.entry.state = stateDirty
		t.entry.rawOnDisk = nil
	}
	return n, err
}

// Touch marks handle's section as modified, forcing Save to re-encode it
// even if its SectionData was never written to after Open. Callers that
// obtain a SectionData via Open and write to it do not need to call this.
func (v *SectionView) Touch(handle Handle) error {
	e, err := v.c.lookup(handle)
	if err != nil {
		return err
	}
	e.state = stateDirty
	e.rawOnDisk = nil
	return nil
}

// Remove deletes the section identified by handle from the table. Handles
// are not reused.
func (v *SectionView) Remove(handle Handle) error {
	idx, ok := v.c.handles[handle]
	if !ok {
		return fmt.Errorf("bpx: remove: %w", ErrSectionNotFound)
	}
	if e := v.c.entries[idx]; e.data != nil {
		e.data.Close()
	}
	v.c.entries = append(v.c.entries[:idx], v.c.entries[idx+1:]...)
	v.c.order = append(v.c.order[:idx], v.c.order[idx+1:]...)
	delete(v.c.handles, handle)
	for h, i := range v.c.handles {
		if i > idx {
			v.c.handles[h] = i - 1
		}
	}
	return nil
}

func (c *Container) lookup(handle Handle) (*sectionEntry, error) {
	idx, ok := c.handles[handle]
	if !ok {
		return nil, ErrSectionNotFound
	}
	return c.entries[idx], nil
}

// Save writes the complete container (main header, section header table,
// and every section body) to w, in section table order. SectionHeader
// fields maintained by the container (Pointer, Size, Size32, Chksum) and
// MainHeader.SectionCount/FileSize/Chksum are recomputed from the current
// contents.
func (c *Container) Save(w io.WriteSeeker) error {
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return &IOError{Op: "seek to start", Err: err}
	}

	headers := make([]SectionHeader, len(c.entries))
	tableOffset := int64(mainHeaderSize)
	bodyOffset := tableOffset + int64(len(c.entries))*sectionHeaderSize

	if _, err := w.Seek(bodyOffset, io.SeekStart); err != nil {
		return &IOError{Op: "seek past section table", Err: err}
	}

	for i, e := range c.entries {
		var onDisk []byte
		var size32 uint32
		var chksum uint32

		switch e.state {
		case stateAbsent, stateLoaded:
			raw, err := c.loadRaw(e)
			if err != nil {
				return err
			}
			onDisk = raw
			size32 = e.header.Size32
			chksum = e.header.Chksum
		default: // stateDirty
			body, err := sectionBody(e)
			if err != nil {
				return err
			}
			if uint64(len(body)) > math.MaxUint32 {
				return fmt.Errorf("bpx: save: %w", ErrSectionTooLarge)
			}
			size32 = uint32(len(body))
			onDisk, chksum, err = encodeSection(e.header, body)
			if err != nil {
				return err
			}
		}

		if uint64(len(onDisk)) > math.MaxUint32 {
			return fmt.Errorf("bpx: save: %w", ErrSectionTooLarge)
		}

		h := e.header
		h.Pointer = uint32(bodyOffset)
		h.Size = uint32(len(onDisk))
		h.Size32 = size32
		h.Chksum = chksum
		headers[i] = h
		e.header = h

		if len(onDisk) > 0 {
			if _, err := w.Write(onDisk); err != nil {
				return &IOError{Op: "write section body", Err: err}
			}
		}
		bodyOffset += int64(len(onDisk))
	}

	c.header.SectionCount = uint32(len(c.entries))
	c.header.FileSize = uint64(bodyOffset)

	chksum, err := headerChecksum(c.header, headers)
	if err != nil {
		return err
	}
	c.header.Chksum = chksum

	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return &IOError{Op: "seek to start", Err: err}
	}
	if err := writeMainHeader(w, c.header); err != nil {
		return err
	}
	if err := writeSectionHeaders(w, headers); err != nil {
		return err
	}
	return nil
}

// sectionBody returns the full, current body bytes of a loaded or dirty
// section.
func sectionBody(e *sectionEntry) ([]byte, error) {
	if e.data == nil {
		return nil, nil
	}
	return e.data.LoadAll()
}

// Close releases any SectionData resources (backing temp files) this
// container owns. It does not write anything; call Save first if changes
// should be persisted.
func (c *Container) Close() error {
	var firstErr error
	for _, e := range c.entries {
		if e.data == nil {
			continue
		}
		if err := e.data.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
