// Package compiler wires C3-C6 into the single entry point spec.md §2
// describes: resolved-AST in, a Program out, first error aborts every
// later stage.
package compiler

import (
	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/lower"
	"signalcore/internal/optimize"
	"signalcore/internal/program"
	"signalcore/internal/resolver"
	"signalcore/internal/types"
	"signalcore/internal/validator"
)

// Result is the outcome of one Compile call: either a built Program
// plus whatever optimizer Report it produced, or nothing but the
// diagnostics explaining why compilation stopped short.
type Result struct {
	Program *program.Program
	Report  optimize.Report
	Diags   *diagnostics.Bag
}

// Compile drives ns (with parent scope pointers already set, per
// spec.md §6's "Input (from parser)") through
// C4's pre-resolution structural checks, C3 resolution, C4's post-
// resolution semantic checks, C5 lowering, and C6 optimisation, in
// that order. The first stage that reports any error aborts the
// pipeline immediately (spec.md §7: "first error aborts the
// pipeline") — there is no reason to resolve a namespace that already
// failed its structural checks, or lower one that never reached the
// resolver's fixed point cleanly.
func Compile(ns *ast.Namespace) Result {
	diags := diagnostics.NewBag()

	v := validator.New(diags)
	v.CheckStructure(ns)
	if diags.HasErrors() {
		return Result{Diags: diags}
	}

	strDict := types.NewStringDictionary()
	res := resolver.New(diags, strDict)
	res.ResolveNamespace(ns, nil)
	if diags.HasErrors() {
		return Result{Diags: diags}
	}

	v.CheckSemantics(ns)
	if diags.HasErrors() {
		return Result{Diags: diags}
	}

	consts := types.NewConstantTable()
	mod := lower.Lower(ns, res, strDict, consts)
	report := optimize.Optimize(mod)

	return Result{Program: program.New(mod), Report: report, Diags: diags}
}
