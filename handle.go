// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package bpx

// Handle is an opaque, non-zero key identifying a section within an open
// Container.
//
// Handles give callers a stable reference to a section without aliasing a
// mutable reference into the container's section table: the table may grow
// or reorder its backing storage, but a Handle's validity and identity
// never change. The zero value is never issued and is invalid, so it is
// safe to use as a "no handle" sentinel in zero-initialized structs.
type Handle uint32

// handleGenerator issues strictly increasing, never-zero Handles for the
// lifetime of a single Container.
type handleGenerator struct {
	last uint32
}

// next issues a fresh Handle. The first Handle issued by a new generator is
// always 1.
func (g *handleGenerator) next() Handle {
	g.last++
	return Handle(g.last)
}

// lastIssued returns the most recently issued Handle, or false if none has
// been issued yet.
func (g *handleGenerator) lastIssued() (Handle, bool) {
	if g.last == 0 {
		return 0, false
	}
	return Handle(g.last), true
}
