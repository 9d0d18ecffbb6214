// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package shader

import (
	"bytes"
	"io"

	"github.com/bpxfmt/bpx"
)

// Writer builds a Shader container one stage at a time: each AddShader
// call creates a dedicated bytecode section and a matching Symbol table
// entry.
type Writer struct {
	c       *bpx.Container
	symbols []Symbol
}

// NewWriter creates a Writer over an already-open Container. The caller is
// responsible for the container's main header (see NewHeader).
func NewWriter(c *bpx.Container) *Writer {
	return &Writer{c: c}
}

// AddShader creates a new bytecode section for stage, writes body into it,
// and records a Symbol entry pointing at name (a strings-section offset).
func (w *Writer) AddShader(name uint32, stage Stage, body []byte) error {
	handle, err := w.c.Sections().Create(ShaderSectionHeader())
	if err != nil {
		return err
	}
	data, err := w.c.Sections().Open(handle)
	if err != nil {
		return err
	}
	if _, err := data.Write(body); err != nil {
		return err
	}
	w.symbols = append(w.symbols, Symbol{Name: name, Stage: stage, Section: handle})
	return nil
}

// Symbols returns every symbol recorded so far, in insertion order.
func (w *Writer) Symbols() []Symbol {
	out := make([]Symbol, len(w.symbols))
	copy(out, w.symbols)
	return out
}

// Finish writes the accumulated symbol table as a new section and returns
// its handle.
func (w *Writer) Finish() (bpx.Handle, error) {
	body, err := EncodeSymbolTable(w.symbols)
	if err != nil {
		return 0, err
	}
	handle, err := w.c.Sections().Create(SymbolTableSectionHeader())
	if err != nil {
		return 0, err
	}
	data, err := w.c.Sections().Open(handle)
	if err != nil {
		return 0, err
	}
	if _, err := data.Write(body); err != nil {
		return 0, err
	}
	return handle, nil
}

// Reader reads back shaders from an open Shader Container given its
// decoded symbol table.
type Reader struct {
	c       *bpx.Container
	symbols []Symbol
}

// NewReader creates a Reader over an already-open Container.
func NewReader(c *bpx.Container, symbols []Symbol) *Reader {
	return &Reader{c: c, symbols: symbols}
}

// Symbols returns the symbol table this Reader was built from.
func (r *Reader) Symbols() []Symbol { return r.symbols }

// ByStage returns every symbol tagged with the given stage.
func (r *Reader) ByStage(stage Stage) []Symbol {
	var out []Symbol
	for _, s := range r.symbols {
		if s.Stage == stage {
			out = append(out, s)
		}
	}
	return out
}

// Open returns the bytecode section for sym.
func (r *Reader) Open(sym Symbol) (io.Reader, error) {
	data, err := r.c.Sections().Open(sym.Section)
	if err != nil {
		return nil, err
	}
	body, err := data.LoadAll()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(body), nil
}
