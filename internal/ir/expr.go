package ir

import "signalcore/internal/types"

// Expr is a pure-value IR expression. Every variant knows its own
// resolved Type so lowering and the optimizer never need to re-derive
// it (spec.md §4.5: "the IR carries fully resolved types, no inference
// left to do").
type Expr interface {
	ExprType() types.Type
	irExpr()
}

// ConstExpr is a compile-time constant value.
type ConstExpr struct {
	Value types.Value
}

func (c *ConstExpr) irExpr()                 {}
func (c *ConstExpr) ExprType() types.Type    { return c.Value.Type }

// LocalRef reads the current value of a local variable or parameter.
type LocalRef struct {
	ID   LocalID
	Type types.Type
}

func (l *LocalRef) irExpr()              {}
func (l *LocalRef) ExprType() types.Type { return l.Type }

// StateVarRef reads the current value of a processor state variable,
// the StateVars-scoped analogue of LocalRef.
type StateVarRef struct {
	ID   LocalID
	Type types.Type
}

func (s *StateVarRef) irExpr()              {}
func (s *StateVarRef) ExprType() types.Type { return s.Type }

// EndpointRead reads the current value of an input endpoint, or of an
// output endpoint's last-written value where the language allows
// reading one back (validated, not assumed, at C4). Instance is "" for
// one of the enclosing processor's own endpoints, and names a graph's
// child instance when the read reaches through `inst.endpoint`.
type EndpointRead struct {
	Instance string
	Endpoint string
	Index    Expr // non-nil for an endpoint array element
	Type     types.Type
}

func (e *EndpointRead) irExpr()              {}
func (e *EndpointRead) ExprType() types.Type { return e.Type }

// BinOp enumerates the IR's binary operators. Logical and/or have
// already been lowered to control flow by the time this reaches the
// optimizer; this set is the purely-arithmetic/comparison remainder.
type BinOp int

const (
	Add BinOp = iota
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
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
)

// Binary applies a BinOp to two operands.
type Binary struct {
	Op    BinOp
	Left  Expr
	Right Expr
	Type  types.Type
}

func (b *Binary) irExpr()              {}
func (b *Binary) ExprType() types.Type { return b.Type }

// UnOp enumerates the IR's unary operators.
type UnOp int

const (
	Neg UnOp = iota
	Not
	BitNot
)

// Unary applies a UnOp to one operand.
type Unary struct {
	Op      UnOp
	Operand Expr
	Type    types.Type
}

func (u *Unary) irExpr()              {}
func (u *Unary) ExprType() types.Type { return u.Type }

// Cast converts Operand to Type, applying bounded-int normalisation or
// numeric widen/narrow as resolved at C3 (internal/types.CastValue
// drives the constant-folded case; this node drives the runtime case).
type Cast struct {
	Operand Expr
	Type    types.Type
}

func (c *Cast) irExpr()              {}
func (c *Cast) ExprType() types.Type { return c.Type }

// Call invokes a resolved, non-generic Function and yields its return
// value. Side-effecting calls reach the IR as a CallStmt instead; this
// variant is only used where the call result feeds another expression.
type Call struct {
	Func *Function
	Args []Expr
	Type types.Type
}

func (c *Call) irExpr()              {}
func (c *Call) ExprType() types.Type { return c.Type }

// Ternary is the lowered form of ast.Ternary.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
	Type types.Type
}

func (t *Ternary) irExpr()              {}
func (t *Ternary) ExprType() types.Type { return t.Type }

// Aggregate is the lowered form of a struct or array literal
// initialiser (spec.md §4.5's "aggregate-init lowering"): Elements are
// positional, matching Type's field order for a struct or element order
// for an array, with any inferred/defaulted member already resolved to
// an explicit Expr by C3.
type Aggregate struct {
	Type     types.Type
	Elements []Expr
}

func (a *Aggregate) irExpr()              {}
func (a *Aggregate) ExprType() types.Type { return a.Type }

// PropertyRead is the lowered form of ast.ProcessorProperty (sampleRate,
// blockSize, channelCount): a read of a built-in reflective property of
// the enclosing processor or a named instance.
type PropertyRead struct {
	Instance string // "" for the enclosing processor's own property
	Property string
	Type     types.Type
}

func (p *PropertyRead) irExpr()              {}
func (p *PropertyRead) ExprType() types.Type { return p.Type }

// Index reads one element of an array or vector named by Base, the
// lowered form of ast.Index.
type Index struct {
	Base  Expr
	Index Expr
	Type  types.Type
}

func (i *Index) irExpr()              {}
func (i *Index) ExprType() types.Type { return i.Type }

// FieldRead reads one named field of a struct-valued Base, the lowered
// form of ast.Member once resolution narrows it to a struct field
// access rather than a namespace or endpoint-array member.
type FieldRead struct {
	Base  Expr
	Field string
	Type  types.Type
}

func (f *FieldRead) irExpr()              {}
func (f *FieldRead) ExprType() types.Type { return f.Type }

// Slice reads a `base[low:high]` range subscript, the lowered form of
// ast.Slice. Low/High are nil when the bound was omitted ("from the
// start"/"to the end").
type Slice struct {
	Base Expr
	Low  Expr
	High Expr
	Type types.Type
}

func (s *Slice) irExpr()              {}
func (s *Slice) ExprType() types.Type { return s.Type }
