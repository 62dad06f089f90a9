package ast

// TypeNode is a type written in source, prior to resolution: a
// qualified identifier, an array/vector type syntax, or a type
// meta-function call. It resolves to exactly one instantiated
// internal/types.Type. Type syntax reuses the Expr variant set (see
// expr.go's *NamedTypeExpr, *ArrayTypeExpr, *VectorTypeExpr) rather than
// a parallel node hierarchy, since both share the same qualified-name
// and generic-argument grammar.
type TypeNode = Expr

// EndpointDirection is In or Out.
type EndpointDirection int

const (
	In EndpointDirection = iota
	Out
)

// EndpointFlow distinguishes the three endpoint flow kinds spec.md §3
// describes: continuous per-sample/per-block streams, discrete
// timestamped events, and single-shot values read once at start.
type EndpointFlow int

const (
	Stream EndpointFlow = iota
	Event
	ValueFlow
)

// EndpointDecl declares one input or output endpoint of a processor or
// graph. DataTypes lists every type the endpoint accepts; more than one
// entry means the endpoint is polymorphic over its connected peer's
// type, resolved per-connection (spec.md §3, §4.3's DuplicateEndpointTypes
// check rejects repeats in this list). ArraySize is non-nil for an
// endpoint array (`output stream out[4]: f32`).
type EndpointDecl struct {
	Header
	Name        string
	Direction   EndpointDirection
	Flow        EndpointFlow
	DataTypes   []TypeNode
	ArraySize   Expr
	Annotations []*Annotation
}

func (e *EndpointDecl) declNode() {}

// StateVarDecl declares a processor-private state variable. External
// marks a variable the host program may read/write directly between
// blocks (spec.md §6's "enumerate external state variables").
type StateVarDecl struct {
	Header
	Name     string
	Type     TypeNode
	Init     Expr
	External bool
}

func (s *StateVarDecl) declNode() {}

// ConstantDecl declares a compile-time constant. Type is nil when the
// type is inferred from Value.
type ConstantDecl struct {
	Header
	Name  string
	Type  TypeNode
	Value Expr
}

func (c *ConstantDecl) declNode() {}

// Param is one parameter of a FunctionDecl.
type Param struct {
	Header
	Name      string
	Type      TypeNode
	Const     bool
	Reference bool
}

func (p *Param) astNode() {}

// FunctionDecl declares a function. Generics holds unbound type
// parameter names; a generic function is specialised by the resolver
// once per distinct argument-type tuple (spec.md §4.2). IsEvent marks a
// processor event-handler function, whose signature the validator
// constrains (spec.md §4.4's EventFunctionInvalidType/Args checks).
type FunctionDecl struct {
	Header
	Name        string
	Generics    []string
	Params      []*Param
	ReturnType  TypeNode
	Body        *Block
	IsEvent     bool
	Annotations []*Annotation
	Scope       *Scope

	// OriginalGenericFunction links a specialisation back to the
	// generic FunctionDecl it was produced from, for diagnostic trails
	// (spec.md §4.2, §4.4).
	OriginalGenericFunction *FunctionDecl
}

func (f *FunctionDecl) declNode() {}

// HasAnnotation reports whether the function carries an annotation
// named name (e.g. "do_not_optimise", which C6 must respect).
func (f *FunctionDecl) HasAnnotation(name string) bool {
	for _, a := range f.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// StructFieldDecl is one member of a StructDecl.
type StructFieldDecl struct {
	Header
	Name string
	Type TypeNode
}

func (f *StructFieldDecl) astNode() {}

// StructDecl declares a named aggregate type. Members are never const
// (enforced by the validator's MemberCannotBeConst check, spec.md §4.4).
type StructDecl struct {
	Header
	Name   string
	Fields []*StructFieldDecl
}

func (s *StructDecl) declNode() {}

// UsingDecl introduces a type alias: `using Name = TypeNode;`.
type UsingDecl struct {
	Header
	Name   string
	Target TypeNode
}

func (u *UsingDecl) declNode() {}

// ProcessorAliasDecl introduces an alias for a processor or graph type,
// optionally binding some or all of its generic arguments:
// `processor Name = Target<Args...>;`.
type ProcessorAliasDecl struct {
	Header
	Name   string
	Target TypeNode
	Args   []TypeNode
}

func (p *ProcessorAliasDecl) declNode() {}

// ProcessorInstanceDecl declares a named instance of a processor or
// graph inside a graph body. ArraySize is non-nil for an instance array
// (`voice[8] = Voice();`).
type ProcessorInstanceDecl struct {
	Header
	Name         string
	ProcessorRef TypeNode
	Args         []Expr
	ArraySize    Expr
}

func (p *ProcessorInstanceDecl) declNode() {}

// InterpolationMode is the resampling strategy applied when a
// connection's source and destination run at different rates
// (spec.md §3: "an interpolation mode ∈ {none, latch, linear, sinc,
// fast, best}"). None is the zero value: a plain same-rate wire.
type InterpolationMode int

const (
	InterpolationNone InterpolationMode = iota
	InterpolationLatch
	InterpolationLinear
	InterpolationSinc
	InterpolationFast
	InterpolationBest
)

func (m InterpolationMode) String() string {
	switch m {
	case InterpolationLatch:
		return "latch"
	case InterpolationLinear:
		return "linear"
	case InterpolationSinc:
		return "sinc"
	case InterpolationFast:
		return "fast"
	case InterpolationBest:
		return "best"
	default:
		return "none"
	}
}

// ConnectionDecl wires one endpoint expression to another inside a
// graph body (`a.out -> b.in;`). DelayFrames is non-nil when the
// connection carries an explicit delay line length, which the
// validator bounds against DelayLineTooShort/TooLong (spec.md §4.4) —
// a connection with no delay is the feedback-free default, so a cycle
// through it is rejected by the feedback-cycle detector while a cycle
// passing through a delay line is the one feedback shape spec.md §4.4
// allows. Interpolation is the resampling strategy spec.md §3
// attaches to every connection; it has no effect on recursion/
// feedback/delay-length checking, which look only at DelayFrames.
type ConnectionDecl struct {
	Header
	From          Expr
	To            Expr
	DelayFrames   Expr
	Interpolation InterpolationMode
}

func (c *ConnectionDecl) declNode() {}
