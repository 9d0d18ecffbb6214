// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

import "strconv"

// Name is the DJB2-variant 64-bit hash used as the canonical key for named
// entries such as BPXSD object keys. The name fields of the Package object
// table and the Shader symbol table are strings-section offsets, not Names.
//
// Two distinct strings that hash to the same Name are indistinguishable to
// the format; callers needing the original string back must keep a
// side-channel, see package strtab.
type Name uint64

// Hash computes the BPX name hash of s.
//
// The accumulator starts at 5381 and folds in each byte of s with
// h = h*33 + b, wrapping on overflow (equivalently h = (h<<5) + h + b).
// The result depends only on the UTF-8 byte sequence of s, so it is
// stable across runs and platforms.
func Hash(s string) Name {
	h := uint64(5381)
	for i := 0; i < len(s); i++ {
		h = (h<<5)+h + uint64(s[i])
	}
	return Name(h)
}

func (n Name) String() string {
	return strconv.FormatUint(uint64(n), 10)
}
