package ast

// LiteralKind tags the kind of constant a Literal expression holds.
type LiteralKind int

const (
	BoolLit LiteralKind = iota
	IntLit
	FloatLit
	StringLit
)

// Literal is a constant written directly in source.
type Literal struct {
	Header
	LitKind LiteralKind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
}

func (l *Literal) exprNode() {}

// Identifier is a bare name reference. Resolved is filled in by the
// resolver once name lookup determines what the identifier names; its
// dynamic type (*VariableDecl-like Decl, *EndpointDecl, *ProcessorDecl,
// ...) together with Header.kind tells callers what kind of thing this is.
type Identifier struct {
	Header
	Name     string
	Resolved Decl
}

func (i *Identifier) exprNode() {}

// QualifiedIdent is a namespace-qualified path (`a::b::c`), resolved as
// a unit rather than as nested member accesses since namespace
// resolution happens at compile time, not via a runtime selector chain.
type QualifiedIdent struct {
	Header
	Parts    []string
	Resolved Decl
}

func (q *QualifiedIdent) exprNode() {}

// BinaryOp enumerates the binary operators spec.md §3 supports.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	LogicalAnd
	LogicalOr
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Assign
)

// Binary is a two-operand expression, including plain assignment
// (Op == Assign).
type Binary struct {
	Header
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (b *Binary) exprNode() {}

// UnaryOp enumerates the unary prefix operators.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	BitNot
	AddressOf
)

// Unary is a one-operand prefix expression.
type Unary struct {
	Header
	Op      UnaryOp
	Operand Expr
}

func (u *Unary) exprNode() {}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Header
	Condition Expr
	Then      Expr
	Else      Expr
}

func (t *Ternary) exprNode() {}

// IncDec is a pre- or post-increment/decrement. The validator flags a
// collision when a variable incremented or decremented in a statement
// is also read elsewhere in that statement (spec.md §4.4's
// PreIncDecCollision).
type IncDec struct {
	Header
	Increment bool
	Prefix    bool
	Operand   Expr
}

func (i *IncDec) exprNode() {}

// Call is a function call `callee(args...)`.
type Call struct {
	Header
	Callee Expr
	Args   []Expr

	// Resolved is filled in by the resolver: the exact FunctionDecl
	// this call binds to, after overload resolution and (if generic)
	// specialisation (spec.md §4.2).
	Resolved *FunctionDecl
}

func (c *Call) exprNode() {}

// Cast is an explicit `cast<T>(value)` or the implicit cast the
// resolver inserts at an assignment/argument site. Explicit
// distinguishes the two for diagnostics (CannotCast vs
// CannotImplicitCast, spec.md §4.1).
type Cast struct {
	Header
	Target   TypeNode
	Operand  Expr
	Explicit bool
}

func (c *Cast) exprNode() {}

// Index is a single-element subscript `base[i]`.
type Index struct {
	Header
	Base  Expr
	Index Expr
}

func (i *Index) exprNode() {}

// Slice is a range subscript `base[low:high]`. A nil bound means
// "from the start" / "to the end".
type Slice struct {
	Header
	Base Expr
	Low  Expr
	High Expr
}

func (s *Slice) exprNode() {}

// Member is the dot operator `base.name`: a struct field access, a
// namespace member access, or (once the resolver narrows Base's kind to
// Endpoint) an endpoint-array element name — spec.md §3 treats all three
// as one syntax form disambiguated during resolution.
type Member struct {
	Header
	Base Expr
	Name string
}

func (m *Member) exprNode() {}

// ChevronArgs is a generic/type argument list written with angle
// brackets, `base<Args...>` — used both for built-in parametric types
// (`vector<f32, 4>`) and for explicit generic function/processor
// instantiation (`transform<i32>(x)`).
type ChevronArgs struct {
	Header
	Base Expr
	Args []TypeNode
}

func (c *ChevronArgs) exprNode() {}

// MetaFunction calls one of the closed set of type meta-functions
// (spec.md §4.3): makeConst, makeConstSilent, makeReference,
// removeReference, elementType, primitiveType, size, and the isXxx
// predicates. Operand is always a TypeNode, never a value expression.
type MetaFunction struct {
	Header
	Function string
	Operand  TypeNode
}

func (m *MetaFunction) exprNode() {}

// List is a comma-separated expression list, used in multi-value
// contexts such as a struct literal's field list or a function's
// multiple-return expansion.
type List struct {
	Header
	Elements []Expr
}

func (l *List) exprNode() {}

// Write models an assignment through an output endpoint, `out <- value`.
// It is kept distinct from plain Binary/Assign because writing an
// endpoint from a context that can only read it is rejected by the
// validator's CannotReadFromOutput-adjacent check, and because endpoint
// writes lower to a different IR statement kind than a local assignment
// (spec.md §4.4, §4.5).
type Write struct {
	Header
	Endpoint Expr
	Value    Expr
}

func (w *Write) exprNode() {}

// AdvanceClock models the explicit per-sample clock advance operator a
// processor's run function uses to step its internal sample counter.
type AdvanceClock struct {
	Header
}

func (a *AdvanceClock) exprNode() {}

// StaticAssert is a compile-time assertion; Message is nil when no
// custom message was given. A failing StaticAssert is a
// StaticAssertionFailure diagnostic from the validator (spec.md §4.4).
type StaticAssert struct {
	Header
	Condition Expr
	Message   Expr
}

func (s *StaticAssert) exprNode() {}

// ProcessorProperty accesses a built-in reflective property of a
// processor instance or the enclosing processor itself (e.g. its
// sample rate or block size), distinct from an arbitrary struct/
// namespace Member access because the set of valid property names is
// closed and checked against a fixed table, not against declared
// fields (spec.md §3, §6).
type ProcessorProperty struct {
	Header
	Instance Expr
	Property string
}

func (p *ProcessorProperty) exprNode() {}

// NamedTypeExpr is a type reference written in source: a possibly
// qualified name, optional generic arguments, and optional const/
// reference modifiers. It is the TypeNode produced for ordinary type
// syntax (`const Foo::Bar<i32>&`).
type NamedTypeExpr struct {
	Header
	Name      Expr // *Identifier or *QualifiedIdent
	Generics  []TypeNode
	Const     bool
	Reference bool
}

func (n *NamedTypeExpr) exprNode() {}

// ArrayTypeExpr is fixed/unsized array type syntax: `T[N]` (Size
// non-nil) or `T[]` (Size nil).
type ArrayTypeExpr struct {
	Header
	Elem TypeNode
	Size Expr
}

func (a *ArrayTypeExpr) exprNode() {}

// VectorTypeExpr is `vector<Elem, Width>` type syntax.
type VectorTypeExpr struct {
	Header
	Elem  TypeNode
	Width Expr
}

func (v *VectorTypeExpr) exprNode() {}

// BoundedIntTypeExpr is `bounded_int<Limit, wrap|clamp>` type syntax.
type BoundedIntTypeExpr struct {
	Header
	Limit Expr
	Mode  string
}

func (b *BoundedIntTypeExpr) exprNode() {}
