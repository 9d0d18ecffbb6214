// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package sd

// MaxArrayLen is the largest number of elements an Array may hold; the
// wire format prefixes an Array with a single length byte.
const MaxArrayLen = 255

// Array is an ordered, duplicate-permitting sequence of Value.
type Array struct {
	data []Value
}

// NewArrayValue creates an empty Array.
func NewArrayValue() *Array {
	return &Array{}
}

// Add appends v to the end of the array. It returns ErrCapacityExceeded if
// the array is already at MaxArrayLen.
func (a *Array) Add(v Value) error {
	if len(a.data) >= MaxArrayLen {
		return ErrCapacityExceeded
	}
	a.data = append(a.data, v)
	return nil
}

// RemoveAt deletes the element at pos.
func (a *Array) RemoveAt(pos int) {
	a.data = append(a.data[:pos], a.data[pos+1:]...)
}

// Get returns the element at pos and whether pos was in range.
func (a *Array) Get(pos int) (Value, bool) {
	if pos < 0 || pos >= len(a.data) {
		return Value{}, false
	}
	return a.data[pos], true
}

// Len returns the number of elements in the array.
func (a *Array) Len() int { return len(a.data) }

// Each calls fn for every element in order.
func (a *Array) Each(fn func(Value)) {
	for _, v := range a.data {
		fn(v)
	}
}

func (a *Array) equal(other *Array) bool {
	if a == nil || other == nil {
		return a == other
	}
	if len(a.data) != len(other.data) {
		return false
	}
	for i, v := range a.data {
		if !v.Equal(other.data[i]) {
			return false
		}
	}
	return true
}
