// Package program implements the Program type spec.md §6 names as the
// compiler's public output: "a Program owns a vector of Modules, a
// constant table, and a string dictionary." What spec.md calls a
// Module — one namespace's worth of processors and graphs — is already
// our internal/ir.Processor; what it calls the Program is already our
// internal/ir.Module, the thing that owns the shared StringDictionary
// and ConstantTable (internal/ir/ir.go's own doc comment: "Module is
// the IR root for one compiled Program"). Program here is a thin
// façade over *ir.Module that exposes the lookup/clone/hash operations
// spec.md §6 requires as a public surface, rather than a second,
// redundant ownership hierarchy.
package program

import (
	"hash/fnv"

	"signalcore/internal/ir"
	"signalcore/internal/types"
)

// Program is the compiler's output artifact: the resolved, lowered,
// and optimized IR for one compilation, plus the accessors spec.md §6
// requires a performer to drive it through.
type Program struct {
	mod *ir.Module
}

// New wraps mod. mod is owned by the returned Program from this point
// on; callers should not keep mutating it directly.
func New(mod *ir.Module) *Program {
	return &Program{mod: mod}
}

// Module returns the underlying IR module, for callers (the pipeline
// pretty-printer, the optimizer) that need direct IR access.
func (p *Program) Module() *ir.Module { return p.mod }

// Modules enumerates every processor/graph the Program owns, the
// "enumerate modules" operation of spec.md §6.
func (p *Program) Modules() []*ir.Processor { return p.mod.Processors }

// FindMain returns the processor marked `main` (annotation takes
// precedence; otherwise the sole processor/graph, per spec.md §6 and
// §4 resolver rules). If several processors carry IsMain, the first in
// Module order is returned; no compiler stage rejects a program with
// more than one.
func (p *Program) FindMain() (*ir.Processor, bool) {
	for _, proc := range p.mod.Processors {
		if proc.IsMain {
			return proc, true
		}
	}
	if len(p.mod.Processors) == 1 {
		return p.mod.Processors[0], true
	}
	return nil, false
}

// FindFunction locates a function by name, searching free functions
// first and then every processor's init/run/event functions.
//
// spec.md §6 asks for lookup "by qualified path"; by the time a
// FunctionDecl reaches this IR, namespace qualification has already
// been flattened away during C5 lowering (internal/lower never writes
// a namespace-qualified Name onto the ir.Function it produces), so
// there is no dotted path left to match against here. This resolves to
// plain name lookup, matching the only qualification the IR actually
// carries.
func (p *Program) FindFunction(name string) (*ir.Function, bool) {
	for _, fn := range p.mod.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	for _, proc := range p.mod.Processors {
		for _, fn := range []*ir.Function{proc.Init, proc.Run} {
			if fn != nil && fn.Name == name {
				return fn, true
			}
		}
		for _, fn := range proc.Events {
			if fn != nil && fn.Name == name {
				return fn, true
			}
		}
	}
	return nil, false
}

// FindVariable locates a state variable by name across every
// processor the Program owns. Plain function locals/params are not
// state and are never returned here: spec.md §6 groups this operation
// with ExternalVariables, both of which only make sense for the
// construction-time, processor-scoped slots a state variable is.
func (p *Program) FindVariable(name string) (*ir.Local, bool) {
	for _, proc := range p.mod.Processors {
		for _, sv := range proc.StateVars {
			if sv.Name == name {
				return sv, true
			}
		}
	}
	return nil, false
}

// FindStruct locates a struct type by name, searching every
// types.StructType reachable from a function signature/local, a
// processor endpoint, or a processor state variable. Unlike
// internal/optimize's findUnreadStructMembers, which walks the same
// shape to build a usage report, this only needs the first matching
// type and returns as soon as it is found.
func (p *Program) FindStruct(name string) (*types.StructType, bool) {
	check := func(t types.Type) (*types.StructType, bool) {
		st, ok := t.(*types.StructType)
		return st, ok && st.Name == name
	}
	for _, fn := range p.mod.Functions {
		for _, l := range fn.Params {
			if st, ok := check(l.Type); ok {
				return st, true
			}
		}
		for _, l := range fn.Locals {
			if st, ok := check(l.Type); ok {
				return st, true
			}
		}
		if st, ok := check(fn.ReturnType); ok {
			return st, true
		}
	}
	for _, proc := range p.mod.Processors {
		for _, sv := range proc.StateVars {
			if st, ok := check(sv.Type); ok {
				return st, true
			}
		}
		for _, ep := range proc.Endpoints {
			if st, ok := check(ep.Type); ok {
				return st, true
			}
		}
	}
	return nil, false
}

// ExternalVariables enumerates every state variable declared external
// (spec.md §6: "for resolution before linking"), across every
// processor the Program owns.
func (p *Program) ExternalVariables() []*ir.Local {
	var out []*ir.Local
	for _, proc := range p.mod.Processors {
		for _, sv := range proc.StateVars {
			if sv.External {
				out = append(out, sv)
			}
		}
	}
	return out
}

// LookupString reads a StringDictionary entry by handle.
func (p *Program) LookupString(handle uint32) (string, bool) {
	return p.mod.Strings.Lookup(handle)
}

// InternString writes a new StringDictionary entry, returning its
// handle.
func (p *Program) InternString(s string) uint32 {
	return p.mod.Strings.Intern(s)
}

// SetString overwrites the entry at an already-allocated handle.
func (p *Program) SetString(handle uint32, s string) bool {
	return p.mod.Strings.Set(handle, s)
}

// LookupConstant reads a ConstantTable entry by handle.
func (p *Program) LookupConstant(handle uint32) ([]types.Value, bool) {
	return p.mod.Constants.Get(handle)
}

// AddConstant writes a new ConstantTable entry, returning its handle.
func (p *Program) AddConstant(elems []types.Value) uint32 {
	return p.mod.Constants.Add(elems)
}

// SetConstant overwrites the entry at an already-allocated handle.
func (p *Program) SetConstant(handle uint32, elems []types.Value) bool {
	return p.mod.Constants.Set(handle, elems)
}

// Clone deep-clones the Program, preserving cross-reference identity
// (every Call/CallStmt still targets the cloned function it targeted
// before, every graph Instance still targets the cloned processor it
// targeted before) and StringDictionary/ConstantTable handle numbering,
// per spec.md §6.
func (p *Program) Clone() *Program {
	return New(p.mod.Clone())
}

// Hash produces a stable hash of the Program for caching (spec.md §6).
// It hashes the IR pretty-printer's textual form (internal/ir/format.go's
// FormatModule) rather than walking the pointer graph directly: the
// printer already normalises the Program into the same canonical text
// spec.md §6's "Persisted state" section requires for round-trip
// equality, so two structurally-equal Programs hash identically even
// if their internal pointers/slice capacities differ. No ecosystem
// hash library appears anywhere in the reference corpus for this kind
// of caching key, so this uses the standard library's hash/fnv rather
// than inventing a new third-party dependency with nothing to ground
// it on.
func (p *Program) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(ir.FormatModule(p.mod)))
	return h.Sum64()
}
