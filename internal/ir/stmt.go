package ir

import "signalcore/internal/source"

// Statement is one effect-producing step inside a Block.
type Statement interface {
	Loc() source.Location
	irStmt()
}

// Assign stores Value into a local variable.
type Assign struct {
	Target   LocalID
	Value    Expr
	Location source.Location
}

func (a *Assign) irStmt()              {}
func (a *Assign) Loc() source.Location { return a.Location }

// StateVarAssign stores Value into a processor state variable, the
// StateVars-scoped analogue of Assign. State variables are addressed
// separately from a function's own locals/params since one slot is
// shared across a processor's init/run/event functions, each with its
// own independent Locals/Params numbering.
type StateVarAssign struct {
	Target   LocalID
	Value    Expr
	Location source.Location
}

func (s *StateVarAssign) irStmt()              {}
func (s *StateVarAssign) Loc() source.Location { return s.Location }

// EndpointWrite stores Value into an output endpoint. Instance is ""
// for one of the enclosing processor's own endpoints, and names a
// graph's child instance when the write reaches through
// `inst.endpoint <- value`.
type EndpointWrite struct {
	Instance string
	Endpoint string
	Index    Expr // non-nil for an endpoint array element
	Value    Expr
	Location source.Location
}

func (e *EndpointWrite) irStmt()              {}
func (e *EndpointWrite) Loc() source.Location { return e.Location }

// CallStmt invokes Func for its side effects, discarding any result.
type CallStmt struct {
	Func     *Function
	Args     []Expr
	Location source.Location
}

func (c *CallStmt) irStmt()              {}
func (c *CallStmt) Loc() source.Location { return c.Location }

// AdvanceClock is the lowered form of ast.AdvanceClock.
type AdvanceClock struct {
	Location source.Location
}

func (a *AdvanceClock) irStmt()              {}
func (a *AdvanceClock) Loc() source.Location { return a.Location }

// IndexAssign stores Value into element Index of the array/vector Base
// names. Base is always a LocalRef or StateVarRef: these are the only
// two addressable element containers spec.md §3 supports for element
// assignment (an endpoint array is written element-wise through
// EndpointWrite's own Index instead).
type IndexAssign struct {
	Base     Expr
	Index    Expr
	Value    Expr
	Location source.Location
}

func (i *IndexAssign) irStmt()              {}
func (i *IndexAssign) Loc() source.Location { return i.Location }

// FieldAssign stores Value into one named field of a struct-valued
// Base, the lowered form of assigning through an ast.Member.
type FieldAssign struct {
	Base     Expr
	Field    string
	Value    Expr
	Location source.Location
}

func (f *FieldAssign) irStmt()              {}
func (f *FieldAssign) Loc() source.Location { return f.Location }
