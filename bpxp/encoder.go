// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpxp

import (
	"io"

	"github.com/bpxfmt/bpx"
)

const (
	dataWriteBufferSize = 8192
	// MaxDataSectionSize is the data section size at or past which the
	// writer rolls over to a new section, leaving headroom below the 32-bit
	// size field's practical bound.
	MaxDataSectionSize = 200_000_000 - dataWriteBufferSize
)

// Writer packs object bodies into a Container's data sections, splitting
// into a new data section once the current one has reached
// MaxDataSectionSize (a section may end up to one write buffer plus an
// object's final chunk past it). A single object's body may therefore span
// more than one data section.
type Writer struct {
	c            *bpx.Container
	dataHandles  []bpx.Handle
	currentData  bpx.SectionData
}

// NewWriter creates a Writer over an already-open Container. The caller is
// responsible for the container's main header (see NewHeader).
func NewWriter(c *bpx.Container) *Writer {
	return &Writer{c: c}
}

// DataSectionHandles returns the handles of every data section created so
// far, in creation order — this doubles as the Start index space used by
// ObjectHeader.
func (w *Writer) DataSectionHandles() []bpx.Handle {
	out := make([]bpx.Handle, len(w.dataHandles))
	copy(out, w.dataHandles)
	return out
}

func (w *Writer) rollover() error {
	handle, err := w.c.Sections().Create(DataSectionHeader())
	if err != nil {
		return err
	}
	data, err := w.c.Sections().Open(handle)
	if err != nil {
		return err
	}
	w.dataHandles = append(w.dataHandles, handle)
	w.currentData = data
	return nil
}

func (w *Writer) ensureCurrent() error {
	if w.currentData == nil {
		return w.rollover()
	}
	return nil
}

// PackObjectFrom streams r's full contents into the container's data
// sections and returns the ObjectHeader locating the result. name is the
// strings-section offset of the object's name (see package strtab); this
// writer does not interpret it.
func (w *Writer) PackObjectFrom(r io.Reader, name uint32) (ObjectHeader, error) {
	if err := w.ensureCurrent(); err != nil {
		return ObjectHeader{}, err
	}

	startIdx := uint32(len(w.dataHandles) - 1)
	startOffset := w.currentData.Size()

	var total uint64
	buf := make([]byte, dataWriteBufferSize)
	for {
		n, rerr := io.ReadFull(r, buf)
		if n > 0 {
			// Roll over before a full buffer's worth of data, or an object's
			// first chunk, would push an already-oversized section further
			// out, but never for a later short read: io.ReadFull only
			// returns one at the object's final chunk, and there is no
			// section to roll over into worth paying for. Letting it land
			// past MaxDataSectionSize is exactly what the margin below
			// 200,000,000 exists to absorb.
			if w.currentData.Size() >= MaxDataSectionSize && (n == dataWriteBufferSize || total == 0) {
				if err := w.rollover(); err != nil {
					return ObjectHeader{}, err
				}
				if total == 0 {
					startIdx = uint32(len(w.dataHandles) - 1)
					startOffset = 0
				}
			}
			if _, werr := w.currentData.Write(buf[:n]); werr != nil {
				return ObjectHeader{}, werr
			}
			total += uint64(n)
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			return ObjectHeader{}, rerr
		}
	}

	return ObjectHeader{Size: total, Name: name, Start: startIdx, Offset: startOffset}, nil
}
