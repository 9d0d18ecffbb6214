// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpxp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// SizeObjectHeader is the fixed on-disk size in bytes of one ObjectHeader.
const SizeObjectHeader = 20

// ObjectHeader is one entry of the Package object table: it locates one
// packaged object's body, which may span more than one data section.
type ObjectHeader struct {
	// Size is the total length of the object's body, in bytes.
	Size uint64
	// Name is the byte offset of this object's name in the strings
	// section.
	Name uint32
	// Start is the index (within this container's ordered list of data
	// sections) of the data section holding the first byte of the body.
	Start uint32
	// Offset is the byte offset within the Start data section at which
	// the body begins.
	Offset uint32
}

func (h ObjectHeader) encode(w io.Writer) error {
	var buf [SizeObjectHeader]byte
	binary.LittleEndian.PutUint64(buf[0:8], h.Size)
	binary.LittleEndian.PutUint32(buf[8:12], h.Name)
	binary.LittleEndian.PutUint32(buf[12:16], h.Start)
	binary.LittleEndian.PutUint32(buf[16:20], h.Offset)
	_, err := w.Write(buf[:])
	return err
}

func decodeObjectHeader(r io.Reader) (ObjectHeader, error) {
	var buf [SizeObjectHeader]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ObjectHeader{}, fmt.Errorf("bpxp: read object header: %w", err)
	}
	return ObjectHeader{
		Size:   binary.LittleEndian.Uint64(buf[0:8]),
		Name:   binary.LittleEndian.Uint32(buf[8:12]),
		Start:  binary.LittleEndian.Uint32(buf[12:16]),
		Offset: binary.LittleEndian.Uint32(buf[16:20]),
	}, nil
}

// EncodeObjectTable serializes headers as the body of the object table
// section.
func EncodeObjectTable(headers []ObjectHeader) ([]byte, error) {
	var buf bytes.Buffer
	for _, h := range headers {
		if err := h.encode(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeObjectTable parses the body of an object table section back into
// its entries.
func DecodeObjectTable(body []byte) ([]ObjectHeader, error) {
	r := bytes.NewReader(body)
	var out []ObjectHeader
	for r.Len() > 0 {
		h, err := decodeObjectHeader(r)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
