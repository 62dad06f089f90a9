// Package ir implements the block/statement intermediate representation
// of C5 (spec.md §4.5): resolved processors and graphs lower into
// Modules of Functions made of Blocks, each a straight-line run of
// Statements ending in one Terminator. Unlike the teacher's SSA-based
// MIR (internal/mir/ir.go's ValueID-per-instruction model), locals here
// are mutable named slots — spec.md's optimizer passes (write-once-to-
// const conversion, unused-variable removal) are statement-level
// rewrites over a mutable-local IR, not SSA dataflow.
package ir

import (
	"signalcore/internal/source"
	"signalcore/internal/types"
)

// LocalID identifies a local variable (including parameters) within a
// Function.
type LocalID uint32

// BlockID identifies a Block within a Function.
type BlockID uint32

// Module is the IR root for one compiled Program (spec.md §6): every
// namespace's functions and every processor/graph, plus the shared
// string and constant tables their Values reference.
type Module struct {
	Functions  []*Function
	Processors []*Processor
	Strings    *types.StringDictionary
	Constants  *types.ConstantTable
	Location   source.Location
}

// EndpointInfo is the lowered form of ast.EndpointDecl: enough to drive
// IR endpoint reads/writes, plus the Properties spec.md §6's
// "EndpointDetails" schema derives from the endpoint's source
// annotations. EndpointInfo no longer carries source syntax itself
// (no Annotation nodes survive past C5), but the values those
// annotations carried — name/unit/group/text/min/max/step/init/
// rampFrames/automatable/boolean/hidden — are extracted once during
// lowering and kept here, not discarded.
type EndpointInfo struct {
	Name       string
	Direction  EndpointDirection
	Flow       EndpointFlow
	Type       types.Type
	ArraySize  int // 0 when not an endpoint array
	Properties *EndpointProperties // nil when the endpoint carries no annotations
}

// EndpointProperties is the parameter-property schema spec.md §6
// describes as annotation-derived: every field mirrors one
// `@key(value)` endpoint annotation, with the same defaults the
// original SOUL `EndpointDetails` constructor applies when an
// annotation is absent (Automatable defaults true; everything else
// defaults to its zero value).
type EndpointProperties struct {
	Name        string
	Unit        string
	Group       string
	Text        string
	Min         float64
	Max         float64
	Step        float64
	Init        float64
	RampFrames  int64
	Automatable bool
	Boolean     bool
	Hidden      bool
}

type EndpointDirection int

const (
	In EndpointDirection = iota
	Out
)

type EndpointFlow int

const (
	Stream EndpointFlow = iota
	Event
	ValueFlow
)

// Local is one parameter or local variable slot of a Function, or one
// state variable slot of a Processor. Init is non-nil only for a state
// variable, carrying its initial-value expression (a plain parameter or
// local never has one: a local's initialiser lowers to an Assign
// statement in its owning block instead, since it runs once control
// reaches that statement, not once at construction).
type Local struct {
	ID      LocalID
	Name    string
	Type    types.Type
	IsConst bool
	Init    Expr

	// External mirrors ast.StateVarDecl.External (spec.md §6's "enumerate
	// external state variables"): only meaningful for a state-variable
	// Local, never set for a plain function local/param.
	External bool
}

// Function is a lowered function, processor `run`/event body, or
// processor `init` body. Entry names the block execution starts in.
type Function struct {
	Name       string
	Params     []*Local
	Locals     []*Local
	ReturnType types.Type
	Blocks     []*Block
	Entry      BlockID
	Location   source.Location

	// DoNotOptimise mirrors the ast `@do_not_optimise` annotation so
	// C6's passes can skip this function (spec.md §4.6).
	DoNotOptimise bool
}

// LocalByID returns the Local with the given ID, or nil.
func (f *Function) LocalByID(id LocalID) *Local {
	for _, l := range f.Locals {
		if l.ID == id {
			return l
		}
	}
	for _, l := range f.Params {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// BlockByID returns the Block with the given ID, or nil.
func (f *Function) BlockByID(id BlockID) *Block {
	for _, b := range f.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Block is a straight-line run of Statements terminated by exactly one
// Terminator. Name follows spec.md §4.5's block-synthesis convention
// ("if_true"/"if_end", "loop_cond"/"loop_body"), generalised from the
// teacher's dot-separated internal/mir/gen/builder.go names
// ("if.then"/"while.cond") to the snake_case spelling spec.md's own
// lowering examples use.
type Block struct {
	ID       BlockID
	Name     string
	Stmts    []Statement
	Term     Terminator
	Location source.Location
}

// Instance is one processor/graph instance materialised by lowering a
// graph's ast.ProcessorInstanceDecl (spec.md §4.5: "graph lowering
// materialises processor instances... into IR-level... records").
type Instance struct {
	Name      string
	Processor *Processor
	ArraySize int // 0 when not an instance array
}

// EndpointRef addresses one endpoint of one instance within a
// Connection, optionally at a constant array index.
type EndpointRef struct {
	Instance string
	Endpoint string
	Index    Expr // non-nil for an endpoint array element
}

// InterpolationMode is the lowered form of ast.InterpolationMode,
// spec.md §3's closed resampling-strategy set. Mirrored as its own
// enum here rather than reused from the AST, the same way
// EndpointDirection/EndpointFlow above are: the IR never carries an
// ast type directly.
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

// Connection is the lowered form of ast.ConnectionDecl: a wire between
// two instance endpoints, with its delay line length, resampling
// Interpolation mode, and the integer clock-ratio multiplier/divider
// spec.md §4.5 names for routing between instances running at
// different sample rates. Lowering always sets the ratio to 1/1; no
// rate conversion is read from the AST.
type Connection struct {
	From            EndpointRef
	To              EndpointRef
	DelayFrames     int
	Interpolation   InterpolationMode
	ClockMultiplier int
	ClockDivider    int
	Location        source.Location
}

// Processor is the lowered form of ast.ProcessorDecl/ast.GraphDecl: its
// endpoint schema, state variable locals, and the three function kinds
// a processor may define. Instances/Connections are populated only for
// a Processor lowered from a GraphDecl.
type Processor struct {
	Name      string
	Endpoints []*EndpointInfo
	StateVars []*Local
	Init      *Function
	Run       *Function
	Events    map[string]*Function
	Location  source.Location

	Instances   []*Instance
	Connections []*Connection

	IsMain bool
}
