// Package validator implements C4 (spec.md §4.4): structural checks
// that run before the resolver's fixed point and semantic checks that
// run after it, including the graph recursion detector and the
// feedback-cycle detector. The walker shape follows the teacher's
// internal/semantics/cfganalyzer: a top-level Analyze entry point that
// dispatches per declaration kind and recurses into nested blocks,
// generalised here from control-flow analysis to the checks spec.md
// §4.4 enumerates.
package validator

import (
	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
)

// Validator holds the diagnostics sink threaded through one
// compilation's structural and semantic checks.
type Validator struct {
	diags *diagnostics.Bag
}

// New creates a Validator reporting into diags.
func New(diags *diagnostics.Bag) *Validator {
	return &Validator{diags: diags}
}

// CheckStructure runs the pre-resolution structural checks of spec.md
// §4.4 over ns and every nested namespace: output-endpoint presence,
// run-function arity, and duplicate names within each scope-bearing
// declaration.
func (v *Validator) CheckStructure(ns *ast.Namespace) {
	v.checkDuplicateNames(namespaceMemberNames(ns))
	for _, s := range ns.Structs {
		v.checkDuplicateFieldNames(s)
	}
	for _, p := range ns.Processors {
		v.checkProcessorStructure(p)
	}
	for _, g := range ns.Graphs {
		v.checkGraphStructure(g)
	}
	for _, f := range ns.Functions {
		v.checkRunInitSignature(f)
	}
	for _, sub := range ns.Namespaces {
		v.CheckStructure(sub)
	}
}

func (v *Validator) checkProcessorStructure(p *ast.ProcessorDecl) {
	v.checkDuplicateNames(processorMemberNames(p))

	hasOutput := false
	hasNonEvent := false
	for _, ep := range p.Endpoints {
		if ep.Direction == ast.Out {
			hasOutput = true
		}
		if ep.Flow != ast.Event {
			hasNonEvent = true
		}
	}
	if !hasOutput {
		v.diags.Add(diagnostics.NewError(diagnostics.ProcessorNeedsOutput, "processor '"+p.Name+"' has no output endpoint").
			WithPrimaryLabel(p.Loc(), "missing output endpoint"))
	}

	runCount := 0
	for _, f := range p.Functions {
		if f.Name == "run" {
			runCount++
		}
		v.checkRunInitSignature(f)
	}
	if hasNonEvent && runCount != 1 {
		code := diagnostics.ProcessorNeedsRunFunction
		msg := "processor '" + p.Name + "' needs exactly one run function"
		if runCount > 1 {
			code = diagnostics.MultipleRunFunctions
			msg = "processor '" + p.Name + "' declares more than one run function"
		}
		v.diags.Add(diagnostics.NewError(code, msg).WithPrimaryLabel(p.Loc(), "run function count mismatch"))
	}

	for _, s := range p.Structs {
		v.checkDuplicateFieldNames(s)
	}
}

func (v *Validator) checkGraphStructure(g *ast.GraphDecl) {
	v.checkDuplicateNames(graphMemberNames(g))

	hasOutput := false
	for _, ep := range g.Endpoints {
		if ep.Direction == ast.Out {
			hasOutput = true
		}
	}
	if !hasOutput {
		v.diags.Add(diagnostics.NewError(diagnostics.ProcessorNeedsOutput, "graph '"+g.Name+"' has no output endpoint").
			WithPrimaryLabel(g.Loc(), "missing output endpoint"))
	}
	for _, f := range g.Functions {
		v.checkRunInitSignature(f)
	}
}

// checkRunInitSignature enforces that run/init functions return void
// and take no parameters (spec.md §4.4).
func (v *Validator) checkRunInitSignature(f *ast.FunctionDecl) {
	if f.Name != "run" && f.Name != "init" {
		return
	}
	if len(f.Params) > 0 {
		v.diags.Add(diagnostics.NewError(diagnostics.EventFunctionInvalidArgs, "'"+f.Name+"' must take no parameters").
			WithPrimaryLabel(f.Loc(), "unexpected parameters"))
	}
	if f.ReturnType != nil && typeNodeSpelling(f.ReturnType) != "void" {
		v.diags.Add(diagnostics.NewError(diagnostics.EventFunctionInvalidType, "'"+f.Name+"' must return void").
			WithPrimaryLabel(f.ReturnType.Loc(), "non-void return type"))
	}
}

// checkDuplicateNames reports every name that appears more than once
// among entries, attributing the diagnostic to the scope they share
// (spec.md §4.4: "no duplicate names within a scope (endpoints, state
// variables, structs, usings, sub-modules, and annotation keys are
// each deduplicated)").
func (v *Validator) checkDuplicateNames(entries []ast.Node) {
	seen := make(map[string]ast.Node)
	for _, n := range entries {
		name := nameOf(n)
		if name == "" {
			continue
		}
		if prev, ok := seen[name]; ok {
			v.diags.Add(diagnostics.Redeclared(n.Loc(), prev.Loc(), name))
			continue
		}
		seen[name] = n
	}
}

func nameOf(n ast.Node) string {
	switch d := n.(type) {
	case *ast.EndpointDecl:
		return d.Name
	case *ast.StateVarDecl:
		return d.Name
	case *ast.StructDecl:
		return d.Name
	case *ast.UsingDecl:
		return d.Name
	case *ast.Namespace:
		return d.Name
	case *ast.ConstantDecl:
		return d.Name
	case *ast.ProcessorInstanceDecl:
		return d.Name
	default:
		return ""
	}
}

func namespaceMemberNames(ns *ast.Namespace) []ast.Node {
	var out []ast.Node
	for _, s := range ns.Structs {
		out = append(out, s)
	}
	for _, c := range ns.Constants {
		out = append(out, c)
	}
	for _, u := range ns.Usings {
		out = append(out, u)
	}
	for _, sub := range ns.Namespaces {
		out = append(out, sub)
	}
	return out
}

func processorMemberNames(p *ast.ProcessorDecl) []ast.Node {
	var out []ast.Node
	for _, ep := range p.Endpoints {
		out = append(out, ep)
	}
	for _, sv := range p.StateVars {
		out = append(out, sv)
	}
	for _, s := range p.Structs {
		out = append(out, s)
	}
	for _, c := range p.Constants {
		out = append(out, c)
	}
	return out
}

func graphMemberNames(g *ast.GraphDecl) []ast.Node {
	var out []ast.Node
	for _, ep := range g.Endpoints {
		out = append(out, ep)
	}
	for _, sv := range g.StateVars {
		out = append(out, sv)
	}
	for _, inst := range g.Instances {
		out = append(out, inst)
	}
	return out
}

func (v *Validator) checkDuplicateFieldNames(s *ast.StructDecl) {
	seen := make(map[string]*ast.StructFieldDecl)
	for _, f := range s.Fields {
		if prev, ok := seen[f.Name]; ok {
			v.diags.Add(diagnostics.Redeclared(f.Loc(), prev.Loc(), f.Name))
			continue
		}
		seen[f.Name] = f
	}
}
