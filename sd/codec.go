// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

package sd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/bpxfmt/bpx"
)

// MaxStringLen is the longest String payload the wire format can carry; it
// is prefixed by a u16 length.
const MaxStringLen = 65535

// Encode writes v to w using the BPX Structured Data binary codec: a
// leading 1-byte type tag followed by the type's payload, little-endian
// throughout.
func Encode(w io.Writer, v Value) error {
	if _, err := w.Write([]byte{byte(v.kind)}); err != nil {
		return err
	}
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		b := byte(0)
		if v.b {
			b = 1
		}
		_, err := w.Write([]byte{b})
		return err
	case KindU8:
		_, err := w.Write([]byte{byte(v.u)})
		return err
	case KindU16:
		return binary.Write(w, binary.LittleEndian, uint16(v.u))
	case KindU32:
		return binary.Write(w, binary.LittleEndian, uint32(v.u))
	case KindU64:
		return binary.Write(w, binary.LittleEndian, v.u)
	case KindI8:
		_, err := w.Write([]byte{byte(v.i)})
		return err
	case KindI16:
		return binary.Write(w, binary.LittleEndian, int16(v.i))
	case KindI32:
		return binary.Write(w, binary.LittleEndian, int32(v.i))
	case KindI64:
		return binary.Write(w, binary.LittleEndian, v.i)
	case KindF32:
		return binary.Write(w, binary.LittleEndian, math.Float32bits(v.f32))
	case KindF64:
		return binary.Write(w, binary.LittleEndian, math.Float64bits(v.f64))
	case KindString:
		return encodeString(w, v.str)
	case KindArray:
		return encodeArray(w, v.arr)
	case KindObject:
		return encodeObject(w, v.object)
	default:
		return fmt.Errorf("sd: encode: %w: %d", ErrUnknownType, v.kind)
	}
}

func encodeString(w io.Writer, s string) error {
	if len(s) > MaxStringLen {
		return fmt.Errorf("sd: encode string: %w", ErrCapacityExceeded)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func encodeArray(w io.Writer, a *Array) error {
	if a == nil {
		a = NewArrayValue()
	}
	if a.Len() > MaxArrayLen {
		return fmt.Errorf("sd: encode array: %w", ErrCapacityExceeded)
	}
	var payload bytes.Buffer
	for _, v := range a.data {
		if err := Encode(&payload, v); err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte{byte(a.Len())}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(payload.Len())); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

func encodeObject(w io.Writer, o *Object) error {
	if o == nil {
		o = NewObjectValue()
	}
	if o.Len() > MaxObjectLen {
		return fmt.Errorf("sd: encode object: %w", ErrCapacityExceeded)
	}
	var payload bytes.Buffer
	for _, key := range o.order {
		if err := binary.Write(&payload, binary.LittleEndian, uint64(key)); err != nil {
			return err
		}
		if err := Encode(&payload, o.props[key]); err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte{byte(o.Len())}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(payload.Len())); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

// Decode reads one Value from r using the BPX Structured Data binary
// codec.
func Decode(r io.Reader) (Value, error) {
	var tagBuf [1]byte
	if _, err := io.ReadFull(r, tagBuf[:]); err != nil {
		return Value{}, eosOr(err)
	}
	kind := Kind(tagBuf[0])
	switch kind {
	case KindNull:
		return Null(), nil
	case KindBool:
		b, err := readByte(r)
		if err != nil {
			return Value{}, err
		}
		return NewBool(b != 0), nil
	case KindU8:
		b, err := readByte(r)
		if err != nil {
			return Value{}, err
		}
		return NewU8(b), nil
	case KindU16:
		var x uint16
		if err := readLE(r, &x); err != nil {
			return Value{}, err
		}
		return NewU16(x), nil
	case KindU32:
		var x uint32
		if err := readLE(r, &x); err != nil {
			return Value{}, err
		}
		return NewU32(x), nil
	case KindU64:
		var x uint64
		if err := readLE(r, &x); err != nil {
			return Value{}, err
		}
		return NewU64(x), nil
	case KindI8:
		b, err := readByte(r)
		if err != nil {
			return Value{}, err
		}
		return NewI8(int8(b)), nil
	case KindI16:
		var x int16
		if err := readLE(r, &x); err != nil {
			return Value{}, err
		}
		return NewI16(x), nil
	case KindI32:
		var x int32
		if err := readLE(r, &x); err != nil {
			return Value{}, err
		}
		return NewI32(x), nil
	case KindI64:
		var x int64
		if err := readLE(r, &x); err != nil {
			return Value{}, err
		}
		return NewI64(x), nil
	case KindF32:
		var bits uint32
		if err := readLE(r, &bits); err != nil {
			return Value{}, err
		}
		return NewF32(math.Float32frombits(bits)), nil
	case KindF64:
		var bits uint64
		if err := readLE(r, &bits); err != nil {
			return Value{}, err
		}
		return NewF64(math.Float64frombits(bits)), nil
	case KindString:
		return decodeString(r)
	case KindArray:
		return decodeArray(r)
	case KindObject:
		return decodeObject(r)
	default:
		return Value{}, fmt.Errorf("sd: decode: %w: %d", ErrUnknownType, kind)
	}
}

func decodeString(r io.Reader) (Value, error) {
	var length uint16
	if err := readLE(r, &length); err != nil {
		return Value{}, err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Value{}, eosOr(err)
	}
	if !utf8.Valid(buf) {
		return Value{}, ErrInvalidUTF8
	}
	return NewString(string(buf)), nil
}

func decodeArray(r io.Reader) (Value, error) {
	count, err := readByte(r)
	if err != nil {
		return Value{}, err
	}
	var payloadSize uint32
	if err := readLE(r, &payloadSize); err != nil {
		return Value{}, err
	}
	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Value{}, eosOr(err)
	}
	pr := bytes.NewReader(payload)
	a := NewArrayValue()
	for i := 0; i < int(count); i++ {
		v, err := Decode(pr)
		if err != nil {
			return Value{}, err
		}
		if err := a.Add(v); err != nil {
			return Value{}, err
		}
	}
	if pr.Len() != 0 {
		return Value{}, fmt.Errorf("%w: array declared %d bytes, %d unconsumed", ErrTrailingData, payloadSize, pr.Len())
	}
	return NewArray(a), nil
}

func decodeObject(r io.Reader) (Value, error) {
	count, err := readByte(r)
	if err != nil {
		return Value{}, err
	}
	var payloadSize uint32
	if err := readLE(r, &payloadSize); err != nil {
		return Value{}, err
	}
	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Value{}, eosOr(err)
	}
	pr := bytes.NewReader(payload)
	o := NewObjectValue()
	for i := 0; i < int(count); i++ {
		var key uint64
		if err := readLE(pr, &key); err != nil {
			return Value{}, err
		}
		v, err := Decode(pr)
		if err != nil {
			return Value{}, err
		}
		if err := o.SetHash(bpx.Name(key), v); err != nil {
			return Value{}, err
		}
	}
	if pr.Len() != 0 {
		return Value{}, fmt.Errorf("%w: object declared %d bytes, %d unconsumed", ErrTrailingData, payloadSize, pr.Len())
	}
	return NewObject(o), nil
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, eosOr(err)
	}
	return buf[0], nil
}

func readLE(r io.Reader, v any) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return eosOr(err)
	}
	return nil
}

func eosOr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrEOS
	}
	return err
}
