// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package sd

// Kind identifies which alternative a Value currently holds.
type Kind byte

// Wire tags for each Value kind. These values are persisted as-is, so
// reordering them is a format break.
const (
	KindNull Kind = iota
	KindBool
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a single node of a BPX Structured Data tree: exactly one of its
// fields is meaningful, selected by kind.
type Value struct {
	kind Kind

	b      bool
	u      uint64
	i      int64
	f32    float32
	f64    float64
	str    string
	arr    *Array
	object *Object
}

// Kind returns which alternative v holds.
func (v Value) Kind() Kind { return v.kind }

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

func NewBool(b bool) Value    { return Value{kind: KindBool, b: b} }
func NewU8(x uint8) Value     { return Value{kind: KindU8, u: uint64(x)} }
func NewU16(x uint16) Value   { return Value{kind: KindU16, u: uint64(x)} }
func NewU32(x uint32) Value   { return Value{kind: KindU32, u: uint64(x)} }
func NewU64(x uint64) Value   { return Value{kind: KindU64, u: x} }
func NewI8(x int8) Value      { return Value{kind: KindI8, i: int64(x)} }
func NewI16(x int16) Value    { return Value{kind: KindI16, i: int64(x)} }
func NewI32(x int32) Value    { return Value{kind: KindI32, i: int64(x)} }
func NewI64(x int64) Value    { return Value{kind: KindI64, i: x} }
func NewF32(x float32) Value  { return Value{kind: KindF32, f32: x} }
func NewF64(x float64) Value  { return Value{kind: KindF64, f64: x} }
func NewString(s string) Value { return Value{kind: KindString, str: s} }
func NewArray(a *Array) Value  { return Value{kind: KindArray, arr: a} }
func NewObject(o *Object) Value { return Value{kind: KindObject, object: o} }

func (v Value) typed(want Kind) error {
	if v.kind != want {
		return &TypeMismatchError{Got: v.kind, Want: want}
	}
	return nil
}

func (v Value) Bool() (bool, error) {
	if err := v.typed(KindBool); err != nil {
		return false, err
	}
	return v.b, nil
}

func (v Value) U8() (uint8, error) {
	if err := v.typed(KindU8); err != nil {
		return 0, err
	}
	return uint8(v.u), nil
}

func (v Value) U16() (uint16, error) {
	if err := v.typed(KindU16); err != nil {
		return 0, err
	}
	return uint16(v.u), nil
}

func (v Value) U32() (uint32, error) {
	if err := v.typed(KindU32); err != nil {
		return 0, err
	}
	return uint32(v.u), nil
}

func (v Value) U64() (uint64, error) {
	if err := v.typed(KindU64); err != nil {
		return 0, err
	}
	return v.u, nil
}

func (v Value) I8() (int8, error) {
	if err := v.typed(KindI8); err != nil {
		return 0, err
	}
	return int8(v.i), nil
}

func (v Value) I16() (int16, error) {
	if err := v.typed(KindI16); err != nil {
		return 0, err
	}
	return int16(v.i), nil
}

func (v Value) I32() (int32, error) {
	if err := v.typed(KindI32); err != nil {
		return 0, err
	}
	return int32(v.i), nil
}

func (v Value) I64() (int64, error) {
	if err := v.typed(KindI64); err != nil {
		return 0, err
	}
	return v.i, nil
}

func (v Value) F32() (float32, error) {
	if err := v.typed(KindF32); err != nil {
		return 0, err
	}
	return v.f32, nil
}

func (v Value) F64() (float64, error) {
	if err := v.typed(KindF64); err != nil {
		return 0, err
	}
	return v.f64, nil
}

func (v Value) String() (string, error) {
	if err := v.typed(KindString); err != nil {
		return "", err
	}
	return v.str, nil
}

func (v Value) Array() (*Array, error) {
	if err := v.typed(KindArray); err != nil {
		return nil, err
	}
	return v.arr, nil
}

func (v Value) Object() (*Object, error) {
	if err := v.typed(KindObject); err != nil {
		return nil, err
	}
	return v.object, nil
}

// Equal reports whether v and other hold the same kind and value.
// Arrays and Objects compare by deep equality of their elements.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindU8, KindU16, KindU32, KindU64:
		return v.u == other.u
	case KindI8, KindI16, KindI32, KindI64:
		return v.i == other.i
	case KindF32:
		return v.f32 == other.f32
	case KindF64:
		return v.f64 == other.f64
	case KindString:
		return v.str == other.str
	case KindArray:
		return v.arr.equal(other.arr)
	case KindObject:
		return v.object.equal(other.object)
	default:
		return false
	}
}
