package types

// The functions below back C3's closed set of type meta-functions
// (spec.md §4.3): makeConst, makeConstSilent, makeReference,
// removeReference, elementType, primitiveType, size, and the isXxx
// predicates. Each has a defined precondition; MetaFunctionError reports
// a violation the way the resolver surfaces it to a Diagnostic.

// MetaFunctionError names a type meta-function precondition violation.
type MetaFunctionError struct {
	Function string
	Type     Type
}

func (e *MetaFunctionError) Error() string {
	return e.Function + " is not defined for " + e.Type.String()
}

// MakeConst returns t with the const modifier forced on.
func MakeConst(t Type) Type { return withConst(t, true) }

// MakeConstSilent is identical to MakeConst: spec.md treats the
// "silent" variant as a hint to the caller that the result is always
// silently castable from the original, which holds unconditionally for
// adding const (see CanSilentlyCastTo's "any type -> const T" rule).
func MakeConstSilent(t Type) Type { return withConst(t, true) }

// MakeReference returns t with the reference modifier forced on.
func MakeReference(t Type) Type { return withReference(t, true) }

// RemoveReference returns t with the reference modifier forced off.
func RemoveReference(t Type) Type { return withReference(t, false) }

func withConst(t Type, c bool) Type {
	switch v := t.(type) {
	case *PrimitiveType:
		n := *v
		n.constFlag = c
		return &n
	case *VectorType:
		n := *v
		n.constFlag = c
		return &n
	case *FixedArrayType:
		n := *v
		n.constFlag = c
		return &n
	case *UnsizedArrayType:
		n := *v
		n.constFlag = c
		return &n
	case *StructType:
		n := *v
		n.constFlag = c
		return &n
	case *BoundedIntType:
		n := *v
		n.constFlag = c
		return &n
	case *VoidType:
		n := *v
		n.constFlag = c
		return &n
	default:
		return t
	}
}

// ElementTypeOf returns (elementType, nil) for an array/vector, or an
// error if t is not array-or-vector (the precondition of the `elementType`
// meta-function).
func ElementTypeOf(t Type) (Type, error) {
	if e := ElementType(t); e != nil {
		return e, nil
	}
	return nil, &MetaFunctionError{Function: "elementType", Type: t}
}

// PrimitiveTypeOf returns the underlying Primitive of a primitive,
// vector, or bounded-int type, or an error otherwise (the precondition of
// the `primitiveType` meta-function).
func PrimitiveTypeOf(t Type) (Primitive, error) {
	switch v := t.(type) {
	case *PrimitiveType:
		return v.Kind, nil
	case *VectorType:
		return v.Elem, nil
	case *BoundedIntType:
		return I32, nil
	default:
		return 0, &MetaFunctionError{Function: "primitiveType", Type: t}
	}
}

// SizeOf returns the packed size of t, or an error if t has no defined
// size (the precondition of the `size` meta-function — spec.md's
// "cannot-take-size-of-type" error kind).
func SizeOf(t Type) (int, error) {
	if s := t.Size(); s >= 0 {
		return s, nil
	}
	return 0, &MetaFunctionError{Function: "size", Type: t}
}

// IsVector reports whether t is a VectorType.
func IsVector(t Type) bool { _, ok := t.(*VectorType); return ok }

// IsStruct reports whether t is a StructType.
func IsStruct(t Type) bool { _, ok := t.(*StructType); return ok }

// IsBoundedInt reports whether t is a BoundedIntType.
func IsBoundedInt(t Type) bool { _, ok := t.(*BoundedIntType); return ok }

// IsVoid reports whether t is VoidType.
func IsVoid(t Type) bool { _, ok := t.(*VoidType); return ok }

// IsFloat32 reports whether t is the f32 primitive.
func IsFloat32(t Type) bool { p, ok := t.(*PrimitiveType); return ok && p.Kind == F32 }

// IsFloat64 reports whether t is the f64 primitive.
func IsFloat64(t Type) bool { p, ok := t.(*PrimitiveType); return ok && p.Kind == F64 }

// IsIntegerType reports whether t is an integer primitive or bounded-int.
func IsIntegerType(t Type) bool {
	if p, ok := t.(*PrimitiveType); ok {
		return p.Kind.IsInteger()
	}
	return IsBoundedInt(t)
}

// PackedSize computes the packed byte size of t, validating against
// MaxPackedObjectSize (spec.md §3 invariant).
func PackedSize(t Type) (int, bool) {
	s := t.Size()
	if s < 0 {
		return s, false
	}
	return s, s <= MaxPackedObjectSize
}

// HasMultidimensionalArray reports whether t is an array whose element is
// itself an array — such types are rejected by the resolver when it
// resolves an array type (spec.md §3/§4.4).
func HasMultidimensionalArray(t Type) bool {
	elem := ElementType(t)
	if elem == nil {
		return false
	}
	return IsArray(elem)
}
