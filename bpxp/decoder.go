// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpxp

import (
	"fmt"
	"io"

	"github.com/bpxfmt/bpx"
)

// Reader resolves Package ObjectHeader entries back into byte streams,
// given the ordered list of data-section handles that PackObjectFrom
// produced.
type Reader struct {
	c           *bpx.Container
	dataHandles []bpx.Handle
}

// NewReader creates a Reader over an already-open Container using
// dataHandles as the Start index space (typically every handle whose
// section has type SectionTypeData, in on-disk order).
func NewReader(c *bpx.Container, dataHandles []bpx.Handle) *Reader {
	return &Reader{c: c, dataHandles: dataHandles}
}

// Open returns a reader over the full body described by h, transparently
// following the Start/size chain across data sections if the object spans
// more than one.
func (r *Reader) Open(h ObjectHeader) (io.Reader, error) {
	if int(h.Start) >= len(r.dataHandles) {
		return nil, fmt.Errorf("bpxp: object header start index %d out of range", h.Start)
	}
	return &objectReader{r: r, header: h, sectionIdx: int(h.Start), offset: h.Offset}, nil
}

type objectReader struct {
	r          *Reader
	header     ObjectHeader
	sectionIdx int
	offset     uint32
	read       uint64
}

func (o *objectReader) Read(p []byte) (int, error) {
	if o.read >= o.header.Size {
		return 0, io.EOF
	}
	if o.sectionIdx >= len(o.r.dataHandles) {
		return 0, fmt.Errorf("bpxp: object body truncated: ran out of data sections")
	}
	data, err := o.r.c.Sections().Open(o.r.dataHandles[o.sectionIdx])
	if err != nil {
		return 0, err
	}
	if _, err := data.Seek(int64(o.offset), io.SeekStart); err != nil {
		return 0, err
	}

	remaining := o.header.Size - o.read
	want := uint64(len(p))
	if want > remaining {
		want = remaining
	}
	if avail := uint64(data.Size()) - uint64(o.offset); want > avail {
		want = avail
	}

	n, rerr := data.Read(p[:want])
	o.read += uint64(n)
	o.offset += uint32(n)

	if uint64(o.offset) >= uint64(data.Size()) && o.read < o.header.Size {
		o.sectionIdx++
		o.offset = 0
	}
	if rerr != nil && rerr != io.EOF {
		return n, rerr
	}
	return n, nil
}
