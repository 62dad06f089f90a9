// Package types implements the closed type variant set of C1: primitives,
// vectors, fixed/unsized arrays, structs, and bounded integers, plus the
// const/reference modifier bits every one of them can carry. The design
// mirrors the teacher's SemType interface (structural Equals, byte-precise
// Size, immutable-after-construction values) generalised from a general
// purpose type system to the closed variant spec.md §3 describes.
package types

import (
	"fmt"
	"strings"
)

// MaxPackedObjectSize bounds the packed byte size of any single value, per
// spec.md §3's "packed size of any single value <= a fixed byte limit".
const MaxPackedObjectSize = 4096

// Type is the semantic representation of a signalcore type.
type Type interface {
	// String renders a human-readable spelling, e.g. "vector<f32, 4>".
	String() string
	// Equals reports structural equality, treating named structs as
	// nominally identical iff they came from the same declaration.
	Equals(other Type) bool
	// IdenticalLayout reports whether two types share byte layout even if
	// they are not Equal (e.g. a bounded_int and its backing integer).
	IdenticalLayout(other Type) bool
	// Size returns the packed size in bytes, or -1 if unknown (void).
	Size() int
	// IsConst reports the const modifier bit.
	IsConst() bool
	// IsReference reports the reference modifier bit.
	IsReference() bool
	isType()
}

// Kind tags the closed variant a Type belongs to.
type Kind int

const (
	KindVoid Kind = iota
	KindPrimitive
	KindVector
	KindFixedArray
	KindUnsizedArray
	KindStruct
	KindBoundedInt
)

// Primitive is a closed enumeration of scalar types.
type Primitive int

const (
	Bool Primitive = iota
	I32
	I64
	F32
	F64
	String
)

func (p Primitive) String() string {
	switch p {
	case Bool:
		return "bool"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case String:
		return "string"
	default:
		return "<unknown primitive>"
	}
}

// IsNumeric reports whether p participates in arithmetic and widening.
func (p Primitive) IsNumeric() bool { return p != Bool && p != String }

// IsInteger reports whether p is an integer primitive.
func (p Primitive) IsInteger() bool { return p == I32 || p == I64 }

// IsFloat reports whether p is a floating-point primitive.
func (p Primitive) IsFloat() bool { return p == F32 || p == F64 }

func primitiveSize(p Primitive) int {
	switch p {
	case Bool:
		return 1
	case I32, F32:
		return 4
	case I64, F64:
		return 8
	case String:
		return 4 // StringDictionary handle
	default:
		return -1
	}
}

// widenRank orders primitives for widening-cast purposes: a value of a
// lower rank silently widens to any primitive of a higher or equal rank
// within the same family (int family, float family).
func widenRank(p Primitive) int {
	switch p {
	case I32:
		return 1
	case I64:
		return 2
	case F32:
		return 1
	case F64:
		return 2
	default:
		return 0
	}
}

type modifiers struct {
	constFlag bool
	refFlag   bool
}

func (m modifiers) IsConst() bool     { return m.constFlag }
func (m modifiers) IsReference() bool { return m.refFlag }

func modString(m modifiers, inner string) string {
	s := inner
	if m.constFlag {
		s = "const " + s
	}
	if m.refFlag {
		s = s + "&"
	}
	return s
}

// VoidType is the unique type of a function with no return value.
type VoidType struct {
	modifiers
}

func NewVoid() *VoidType { return &VoidType{} }

func (v *VoidType) isType()            {}
func (v *VoidType) String() string     { return modString(v.modifiers, "void") }
func (v *VoidType) Size() int          { return -1 }
func (v *VoidType) Equals(o Type) bool { _, ok := o.(*VoidType); return ok }
func (v *VoidType) IdenticalLayout(o Type) bool { return v.Equals(o) }

// PrimitiveType is a scalar bool/i32/i64/f32/f64/string type.
type PrimitiveType struct {
	modifiers
	Kind Primitive
}

func NewPrimitive(p Primitive) *PrimitiveType { return &PrimitiveType{Kind: p} }

func (p *PrimitiveType) isType()        {}
func (p *PrimitiveType) String() string { return modString(p.modifiers, p.Kind.String()) }
func (p *PrimitiveType) Size() int      { return primitiveSize(p.Kind) }
func (p *PrimitiveType) Equals(o Type) bool {
	op, ok := o.(*PrimitiveType)
	return ok && op.Kind == p.Kind && op.constFlag == p.constFlag && op.refFlag == p.refFlag
}
func (p *PrimitiveType) IdenticalLayout(o Type) bool {
	op, ok := o.(*PrimitiveType)
	return ok && op.Kind == p.Kind
}

// WithConst returns a copy of the type with the const modifier set.
func (p *PrimitiveType) WithConst() *PrimitiveType {
	c := *p
	c.constFlag = true
	return &c
}

// WithReference returns a copy of the type with the reference modifier set.
func (p *PrimitiveType) WithReference() *PrimitiveType {
	c := *p
	c.refFlag = true
	return &c
}

// VectorType is vector<P, N>: N lanes of a single primitive element.
// Invariant (spec.md §3): the element is a primitive.
type VectorType struct {
	modifiers
	Elem  Primitive
	Width int
}

func NewVector(elem Primitive, width int) *VectorType {
	return &VectorType{Elem: elem, Width: width}
}

func (v *VectorType) isType() {}
func (v *VectorType) String() string {
	return modString(v.modifiers, fmt.Sprintf("vector<%s, %d>", v.Elem, v.Width))
}
func (v *VectorType) Size() int { return primitiveSize(v.Elem) * v.Width }
func (v *VectorType) Equals(o Type) bool {
	ov, ok := o.(*VectorType)
	return ok && ov.Elem == v.Elem && ov.Width == v.Width && ov.constFlag == v.constFlag && ov.refFlag == v.refFlag
}
func (v *VectorType) IdenticalLayout(o Type) bool {
	ov, ok := o.(*VectorType)
	return ok && ov.Elem == v.Elem && ov.Width == v.Width
}

// FixedArrayType is fixed_array<T, N>. Invariant: T is not an
// unsized array and not itself an array (no multidimensional arrays,
// rejected by the resolver when it resolves an array type, not by the
// type system — spec.md §3/§4.4).
type FixedArrayType struct {
	modifiers
	Elem   Type
	Length int
}

func NewFixedArray(elem Type, length int) *FixedArrayType {
	return &FixedArrayType{Elem: elem, Length: length}
}

func (a *FixedArrayType) isType() {}
func (a *FixedArrayType) String() string {
	return modString(a.modifiers, fmt.Sprintf("%s[%d]", a.Elem.String(), a.Length))
}
func (a *FixedArrayType) Size() int { return a.Elem.Size() * a.Length }
func (a *FixedArrayType) Equals(o Type) bool {
	oa, ok := o.(*FixedArrayType)
	return ok && oa.Length == a.Length && oa.Elem.Equals(a.Elem) && oa.constFlag == a.constFlag && oa.refFlag == a.refFlag
}
func (a *FixedArrayType) IdenticalLayout(o Type) bool {
	oa, ok := o.(*FixedArrayType)
	return ok && oa.Length == a.Length && oa.Elem.IdenticalLayout(a.Elem)
}

// IsArray reports whether t is a FixedArrayType or UnsizedArrayType.
func IsArray(t Type) bool {
	switch t.(type) {
	case *FixedArrayType, *UnsizedArrayType:
		return true
	default:
		return false
	}
}

// ElementType returns the element type of an array or vector, or nil.
func ElementType(t Type) Type {
	switch at := t.(type) {
	case *FixedArrayType:
		return at.Elem
	case *UnsizedArrayType:
		return at.Elem
	case *VectorType:
		return NewPrimitive(at.Elem)
	default:
		return nil
	}
}

// UnsizedArrayType is unsized_array<T>: a runtime-sized array referenced by
// handle into a ConstantTable, never laid out inline (spec.md §3).
type UnsizedArrayType struct {
	modifiers
	Elem Type
}

func NewUnsizedArray(elem Type) *UnsizedArrayType { return &UnsizedArrayType{Elem: elem} }

func (a *UnsizedArrayType) isType()        {}
func (a *UnsizedArrayType) String() string { return modString(a.modifiers, a.Elem.String()+"[]") }
func (a *UnsizedArrayType) Size() int      { return 4 } // ConstantTable handle
func (a *UnsizedArrayType) Equals(o Type) bool {
	oa, ok := o.(*UnsizedArrayType)
	return ok && oa.Elem.Equals(a.Elem) && oa.constFlag == a.constFlag && oa.refFlag == a.refFlag
}
func (a *UnsizedArrayType) IdenticalLayout(o Type) bool {
	_, ok := o.(*UnsizedArrayType)
	return ok
}

// StructField is a single (type, name) member of a StructType.
type StructField struct {
	Name string
	Type Type
}

// StructType is a named, nominally-typed aggregate. Invariant (spec.md
// §3): struct members are fully resolved and no member is const
// (enforced by the validator, not the type representation).
type StructType struct {
	modifiers
	Name   string
	Fields []StructField
	declID uint64 // identity of the declaring AST node, for nominal equality
}

// NewStruct creates a struct type identified by declID, the number the
// resolver's declaration counter assigned to the declaring
// ast.StructDecl — two StructTypes are Equal iff declID matches, giving
// nominal (not structural) typing.
func NewStruct(name string, fields []StructField, declID uint64) *StructType {
	return &StructType{Name: name, Fields: fields, declID: declID}
}

// midiMessageDeclID is a reserved declID for the single built-in MIDI
// message struct: 0, which the resolver's declaration counter (it
// starts at 1) never hands out to a real declaration, so no user
// struct can ever collide with it nominally.
const midiMessageDeclID = 0

// NewMIDIMessageType returns the built-in single-field struct
// representing a raw MIDI message (spec.md §6: "messages are a struct
// with a single 24-bit payload field"), grounded on
// soul_Endpoints.cpp's createMIDIEventEndpointType.
func NewMIDIMessageType() *StructType {
	return NewStruct("Message", []StructField{{Name: "midiBytes", Type: NewPrimitive(I32)}}, midiMessageDeclID)
}

// IsMIDIMessageType reports whether t is exactly the built-in MIDI
// message struct, by nominal identity rather than structural shape
// (so a user struct that happens to share its field layout is never
// mistaken for it).
func IsMIDIMessageType(t Type) bool {
	st, ok := t.(*StructType)
	return ok && st.declID == midiMessageDeclID
}

func (s *StructType) isType() {}
func (s *StructType) String() string {
	if s.Name != "" {
		return modString(s.modifiers, s.Name)
	}
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	return modString(s.modifiers, fmt.Sprintf("struct{%s}", strings.Join(parts, ", ")))
}
func (s *StructType) Size() int {
	total := 0
	for _, f := range s.Fields {
		total += f.Type.Size()
	}
	return total
}
func (s *StructType) Equals(o Type) bool {
	os, ok := o.(*StructType)
	if !ok {
		return false
	}
	return os.declID == s.declID && os.constFlag == s.constFlag && os.refFlag == s.refFlag
}
func (s *StructType) IdenticalLayout(o Type) bool {
	os, ok := o.(*StructType)
	return ok && os.declID == s.declID
}

// ContainsSelf reports whether t recursively contains its own declID
// through a chain of struct fields, detected via a threaded visit-stack
// rather than recursion depth (spec.md §9).
func (s *StructType) ContainsSelf() bool {
	visiting := map[uint64]bool{s.declID: true}
	for _, f := range s.Fields {
		if structContains(f.Type, s.declID, visiting) {
			return true
		}
	}
	return false
}

func structContains(t Type, target uint64, visiting map[uint64]bool) bool {
	st, ok := t.(*StructType)
	if !ok {
		if inner := ElementType(t); inner != nil {
			return structContains(inner, target, visiting)
		}
		return false
	}
	if st.declID == target {
		return true
	}
	if visiting[st.declID] {
		return false
	}
	visiting[st.declID] = true
	defer delete(visiting, st.declID)
	for _, f := range st.Fields {
		if structContains(f.Type, target, visiting) {
			return true
		}
	}
	return false
}

// BoundedMode is the wrap-or-clamp normalisation policy of a bounded_int.
type BoundedMode int

const (
	Wrap BoundedMode = iota
	Clamp
)

func (m BoundedMode) String() string {
	if m == Clamp {
		return "clamp"
	}
	return "wrap"
}

// BoundedIntType is bounded_int{limit, mode}: an integer constrained to
// [0, Limit) by either Euclidean-mod wrapping or saturating clamp on every
// cast and assignment (spec.md §4.1).
type BoundedIntType struct {
	modifiers
	Limit int64
	Mode  BoundedMode
}

func NewBoundedInt(limit int64, mode BoundedMode) *BoundedIntType {
	return &BoundedIntType{Limit: limit, Mode: mode}
}

func (b *BoundedIntType) isType() {}
func (b *BoundedIntType) String() string {
	return modString(b.modifiers, fmt.Sprintf("bounded_int<%d, %s>", b.Limit, b.Mode))
}
func (b *BoundedIntType) Size() int { return 4 }
func (b *BoundedIntType) Equals(o Type) bool {
	ob, ok := o.(*BoundedIntType)
	return ok && ob.Limit == b.Limit && ob.Mode == b.Mode && ob.constFlag == b.constFlag && ob.refFlag == b.refFlag
}
func (b *BoundedIntType) IdenticalLayout(o Type) bool {
	_, okB := o.(*BoundedIntType)
	_, okP := o.(*PrimitiveType)
	if okB {
		return b.Equals(o)
	}
	return okP && primitiveSize(I32) == b.Size()
}

// Normalize applies the bounded int's wrap-or-clamp policy to n.
//
// Wrap mode normalises to [0, Limit) with Euclidean modulo so negative
// operands land in-range rather than mirroring Go's truncating %. Clamp
// mode saturates to [0, Limit). Both are deterministic (spec.md §8).
func (b *BoundedIntType) Normalize(n int64) int64 {
	if b.Limit <= 0 {
		return 0
	}
	switch b.Mode {
	case Clamp:
		if n < 0 {
			return 0
		}
		if n >= b.Limit {
			return b.Limit - 1
		}
		return n
	default: // Wrap
		r := n % b.Limit
		if r < 0 {
			r += b.Limit
		}
		return r
	}
}
