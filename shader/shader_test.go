// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package shader

import (
	"io"
	"testing"

	"github.com/bpxfmt/bpx"
	"github.com/stretchr/testify/require"
)

func TestTypeExtRoundtrip(t *testing.T) {
	s := Settings{AssemblyHash: bpx.Hash("my-program"), Target: TargetVK12, PackType: TypePipeline}
	got := SettingsFromTypeExt(s.TypeExt())
	require.Equal(t, s, got)
}

func TestSymbolTableRoundtrip(t *testing.T) {
	symbols := []Symbol{
		{Name: 0, Stage: StageVertex, Section: 1},
		{Name: 10, Stage: StagePixel, Section: 2},
	}
	body, err := EncodeSymbolTable(symbols)
	require.NoError(t, err)

	got, err := DecodeSymbolTable(body)
	require.NoError(t, err)
	require.Equal(t, symbols, got)
}

func TestWriterReaderRoundtrip(t *testing.T) {
	c := bpx.NewContainer(NewHeader(Settings{AssemblyHash: bpx.Hash("prog"), Target: TargetGL45, PackType: TypeAssembly}))
	w := NewWriter(c)

	require.NoError(t, w.AddShader(0, StageVertex, []byte("vertex bytecode")))
	require.NoError(t, w.AddShader(5, StagePixel, []byte("pixel bytecode")))

	_, err := w.Finish()
	require.NoError(t, err)

	r := NewReader(c, w.Symbols())
	require.Len(t, r.ByStage(StageVertex), 1)
	require.Len(t, r.ByStage(StagePixel), 1)

	stream, err := r.Open(r.ByStage(StageVertex)[0])
	require.NoError(t, err)
	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Equal(t, "vertex bytecode", string(got))
}
