// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package sd

import "github.com/bpxfmt/bpx"

// MaxObjectLen is the largest number of properties an Object may hold; the
// wire format prefixes an Object with a single property-count byte.
const MaxObjectLen = 255

// Object maps a BPX name hash to a Value. Property names are hashed with
// bpx.Hash before storage; the original string is not retained here (pair
// this with package strtab when the string must be recovered later).
type Object struct {
	props map[bpx.Name]Value
	order []bpx.Name // preserves first-insertion order for stable re-encoding
}

// NewObjectValue creates an empty Object.
func NewObjectValue() *Object {
	return &Object{props: make(map[bpx.Name]Value)}
}

// Set stores v under the hash of name, overwriting any existing value for
// that hash. It returns ErrCapacityExceeded if adding a new key would
// exceed MaxObjectLen.
func (o *Object) Set(name string, v Value) error {
	return o.SetHash(bpx.Hash(name), v)
}

// SetHash is Set for callers that already have the hashed key (e.g. when
// replaying a decoded wire Object).
func (o *Object) SetHash(key bpx.Name, v Value) error {
	if _, exists := o.props[key]; !exists && len(o.props) >= MaxObjectLen {
		return ErrCapacityExceeded
	}
	if _, exists := o.props[key]; !exists {
		o.order = append(o.order, key)
	}
	o.props[key] = v
	return nil
}

// Get looks up the value stored under the hash of name.
func (o *Object) Get(name string) (Value, bool) {
	return o.GetHash(bpx.Hash(name))
}

// GetHash is Get for callers that already have the hashed key.
func (o *Object) GetHash(key bpx.Name) (Value, bool) {
	v, ok := o.props[key]
	return v, ok
}

// Remove deletes the property stored under the hash of name.
func (o *Object) Remove(name string) {
	key := bpx.Hash(name)
	delete(o.props, key)
	for i, k := range o.order {
		if k == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of properties in the object.
func (o *Object) Len() int { return len(o.props) }

// Each calls fn for every property, in insertion order.
func (o *Object) Each(fn func(bpx.Name, Value)) {
	for _, k := range o.order {
		fn(k, o.props[k])
	}
}

func (o *Object) equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.props) != len(other.props) {
		return false
	}
	for k, v := range o.props {
		ov, ok := other.props[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
