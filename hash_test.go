// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashVectors(t *testing.T) {
	require.Equal(t, Name(5381), Hash(""))
	require.Equal(t, Name(177670), Hash("a"))
}

func TestHashDeterministic(t *testing.T) {
	require.Equal(t, Hash("Data\\Test1.txt"), Hash("Data\\Test1.txt"))
	require.NotEqual(t, Hash("a"), Hash("b"))
}
