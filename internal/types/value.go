package types

import (
	"encoding/binary"
	"math"
)

// Value is a typed, packed byte value: spec.md §3's "Values carry a type
// and a contiguous packed byte buffer whose layout depends only on the
// type." Strings carry a StringDictionary handle; unsized arrays carry a
// ConstantTable handle, both little-endian uint32s in Bytes.
type Value struct {
	Type  Type
	Bytes []byte
}

// NewBoolValue packs a bool.
func NewBoolValue(t Type, v bool) Value {
	b := byte(0)
	if v {
		b = 1
	}
	return Value{Type: t, Bytes: []byte{b}}
}

// NewI32Value packs a 32-bit integer.
func NewI32Value(t Type, v int32) Value {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return Value{Type: t, Bytes: buf}
}

// NewI64Value packs a 64-bit integer.
func NewI64Value(t Type, v int64) Value {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v))
	return Value{Type: t, Bytes: buf}
}

// NewF32Value packs a 32-bit float.
func NewF32Value(t Type, v float32) Value {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return Value{Type: t, Bytes: buf}
}

// NewF64Value packs a 64-bit float.
func NewF64Value(t Type, v float64) Value {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return Value{Type: t, Bytes: buf}
}

// NewStringValue packs a StringDictionary handle.
func NewStringValue(t Type, handle uint32) Value {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, handle)
	return Value{Type: t, Bytes: buf}
}

// AsI32 reads the packed bytes as a 32-bit integer.
func (v Value) AsI32() int32 { return int32(binary.LittleEndian.Uint32(v.Bytes)) }

// AsI64 reads the packed bytes as a 64-bit integer.
func (v Value) AsI64() int64 { return int64(binary.LittleEndian.Uint64(v.Bytes)) }

// AsF32 reads the packed bytes as a 32-bit float.
func (v Value) AsF32() float32 { return math.Float32frombits(binary.LittleEndian.Uint32(v.Bytes)) }

// AsF64 reads the packed bytes as a 64-bit float.
func (v Value) AsF64() float64 { return math.Float64frombits(binary.LittleEndian.Uint64(v.Bytes)) }

// AsBool reads the packed bytes as a bool.
func (v Value) AsBool() bool { return v.Bytes[0] != 0 }

// AsHandle reads the packed bytes as a 32-bit dictionary/table handle.
func (v Value) AsHandle() uint32 { return binary.LittleEndian.Uint32(v.Bytes) }

// Clone copies Bytes so the clone's packed buffer is independent of v's.
// Type is left shared: it is an immutable description, not owned state.
func (v Value) Clone() Value {
	b := make([]byte, len(v.Bytes))
	copy(b, v.Bytes)
	return Value{Type: v.Type, Bytes: b}
}

// CastValue performs a cast-round-trip-safe conversion of v to target,
// applying bounded-int normalisation and truncating/widening numeric
// reinterpretation. The caller is responsible for verifying the cast is
// permitted via CanSilentlyCastTo/CanExplicitlyCastTo first.
func CastValue(v Value, target Type) Value {
	switch t := target.(type) {
	case *BoundedIntType:
		n := valueAsInt(v)
		return NewI32Value(t, int32(t.Normalize(n)))
	case *PrimitiveType:
		return castToPrimitive(v, t)
	default:
		return v
	}
}

func valueAsInt(v Value) int64 {
	switch p := v.Type.(type) {
	case *PrimitiveType:
		if p.Kind == I64 {
			return v.AsI64()
		}
		return int64(v.AsI32())
	case *BoundedIntType:
		return int64(v.AsI32())
	default:
		return 0
	}
}

func castToPrimitive(v Value, t *PrimitiveType) Value {
	switch src := v.Type.(type) {
	case *BoundedIntType:
		return NewI32Value(t, int32(v.AsI32()))
	case *PrimitiveType:
		switch {
		case src.Kind.IsInteger() && t.Kind.IsInteger():
			n := valueAsInt(v)
			if t.Kind == I64 {
				return NewI64Value(t, n)
			}
			return NewI32Value(t, int32(n))
		case src.Kind.IsFloat() && t.Kind.IsFloat():
			f := valueAsFloat(v)
			if t.Kind == F64 {
				return NewF64Value(t, f)
			}
			return NewF32Value(t, float32(f))
		case src.Kind.IsInteger() && t.Kind.IsFloat():
			f := float64(valueAsInt(v))
			if t.Kind == F64 {
				return NewF64Value(t, f)
			}
			return NewF32Value(t, float32(f))
		case src.Kind.IsFloat() && t.Kind.IsInteger():
			n := int64(valueAsFloat(v))
			if t.Kind == I64 {
				return NewI64Value(t, n)
			}
			return NewI32Value(t, int32(n))
		}
	}
	return v
}

func valueAsFloat(v Value) float64 {
	if p, ok := v.Type.(*PrimitiveType); ok && p.Kind == F64 {
		return v.AsF64()
	}
	return float64(v.AsF32())
}
