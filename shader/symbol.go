// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package shader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bpxfmt/bpx"
)

// Symbol is one entry of the symbol table: it names a shader (via a
// strings-section offset) and records which pipeline stage it runs and
// which section holds its bytecode.
type Symbol struct {
	// Name is the byte offset of this symbol's name in the strings
	// section.
	Name uint32
	// Stage is the pipeline stage this shader implements.
	Stage Stage
	// Section is the handle of the section holding this shader's
	// bytecode.
	Section bpx.Handle
}

// encode writes one Symbol as name(u32) + stage(u8) + section handle(u32).
func (s Symbol) encode(w io.Writer) error {
	var buf [9]byte
	binary.LittleEndian.PutUint32(buf[0:4], s.Name)
	buf[4] = byte(s.Stage)
	binary.LittleEndian.PutUint32(buf[5:9], uint32(s.Section))
	_, err := w.Write(buf[:])
	return err
}

func decodeSymbol(r io.Reader) (Symbol, error) {
	var buf [9]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Symbol{}, fmt.Errorf("shader: read symbol: %w", err)
	}
	return Symbol{
		Name:    binary.LittleEndian.Uint32(buf[0:4]),
		Stage:   Stage(buf[4]),
		Section: bpx.Handle(binary.LittleEndian.Uint32(buf[5:9])),
	}, nil
}

// EncodeSymbolTable serializes symbols as the body of the symbol table
// section.
func EncodeSymbolTable(symbols []Symbol) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range symbols {
		if err := s.encode(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeSymbolTable parses the body of a symbol table section back into
// its entries.
func DecodeSymbolTable(body []byte) ([]Symbol, error) {
	r := bytes.NewReader(body)
	var out []Symbol
	for r.Len() > 0 {
		s, err := decodeSymbol(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
