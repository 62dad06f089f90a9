package resolver

import (
	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/types"
)

func (r *Resolver) resolveConstant(c *ast.ConstantDecl, scope *ast.Scope, e *env) {
	if c.Type != nil {
		r.resolveType(c.Type, scope, e)
	}
	r.resolveExpr(c.Value, scope, e)
}

func (r *Resolver) resolveFunction(fn *ast.FunctionDecl, scope *ast.Scope, e *env) {
	fn.Scope = ast.NewScope(scope)
	for _, p := range fn.Params {
		if _, ok := r.resolveType(p.Type, scope, e); !ok {
			continue
		}
		fn.Scope.Declare(p.Name, &ast.ConstantDecl{Header: p.Header, Name: p.Name, Type: p.Type})
	}
	if fn.ReturnType != nil {
		r.resolveType(fn.ReturnType, scope, e)
	}
	if fn.Body != nil {
		r.resolveBlock(fn.Body, fn.Scope, e)
	}
}

func (r *Resolver) resolveProcessor(p *ast.ProcessorDecl, scope *ast.Scope) {
	if len(p.Generics) > 0 {
		// Generic processors are only resolved once specialized by a
		// ProcessorInstanceDecl referencing them with concrete args.
		return
	}
	r.resolveProcessorBody(p, scope, nil)
}

func (r *Resolver) resolveProcessorBody(p *ast.ProcessorDecl, scope *ast.Scope, subst map[string]types.Type) {
	p.Scope = ast.NewScope(scope)
	e := newEnv()
	e.subst = subst

	for _, ep := range p.Endpoints {
		r.resolveEndpoint(ep, p.Scope, e)
		p.Scope.Declare(ep.Name, ep)
	}
	for _, sv := range p.StateVars {
		if sv.Type != nil {
			r.resolveType(sv.Type, p.Scope, e)
		}
		if sv.Init != nil {
			r.resolveExpr(sv.Init, p.Scope, e)
		}
		p.Scope.Declare(sv.Name, sv)
	}
	for _, c := range p.Constants {
		r.resolveConstant(c, p.Scope, e)
		p.Scope.Declare(c.Name, c)
	}
	for _, s := range p.Structs {
		r.resolveStruct(s, p.Scope)
		p.Scope.Declare(s.Name, s)
	}
	for _, f := range p.Functions {
		p.Scope.Declare(f.Name, f)
		r.registerOverload(p.Scope, f)
	}

	runCount := 0
	for _, f := range p.Functions {
		if f.Name == "run" {
			runCount++
		}
		r.resolveFunction(f, p.Scope, e)
	}
	if runCount > 1 {
		r.diags.Add(diagnostics.NewError(diagnostics.MultipleRunFunctions, "processor '"+p.Name+"' declares more than one run function").
			WithPrimaryLabel(p.Loc(), "multiple run functions"))
	}
	if runCount == 0 {
		r.diags.Add(diagnostics.NewError(diagnostics.ProcessorNeedsRunFunction, "processor '"+p.Name+"' needs a run function").
			WithPrimaryLabel(p.Loc(), "missing run function"))
	}
	hasOutput := false
	for _, ep := range p.Endpoints {
		if ep.Direction == ast.Out {
			hasOutput = true
		}
	}
	if !hasOutput {
		r.diags.Add(diagnostics.NewError(diagnostics.ProcessorNeedsOutput, "processor '"+p.Name+"' has no output endpoint").
			WithPrimaryLabel(p.Loc(), "missing output endpoint"))
	}
}

func (r *Resolver) resolveEndpoint(ep *ast.EndpointDecl, scope *ast.Scope, e *env) {
	seen := make(map[string]bool)
	for _, dt := range ep.DataTypes {
		t, ok := r.resolveType(dt, scope, e)
		if !ok {
			continue
		}
		key := t.String()
		if seen[key] {
			r.diags.Add(diagnostics.NewError(diagnostics.DuplicateEndpointTypes, "endpoint '"+ep.Name+"' repeats data type "+key).
				WithPrimaryLabel(dt.Loc(), "duplicate endpoint type"))
		}
		seen[key] = true
	}
	if ep.ArraySize != nil {
		r.evalConstInt(ep.ArraySize, scope, e)
	}
}

func (r *Resolver) resolveGraph(g *ast.GraphDecl, scope *ast.Scope) {
	g.Scope = ast.NewScope(scope)
	e := newEnv()

	for _, ep := range g.Endpoints {
		r.resolveEndpoint(ep, g.Scope, e)
		g.Scope.Declare(ep.Name, ep)
	}
	for _, inst := range g.Instances {
		r.resolveInstance(inst, g.Scope, e)
		g.Scope.Declare(inst.Name, inst)
	}
	for _, conn := range g.Connections {
		r.resolveConnection(conn, g.Scope, e)
	}
	for _, f := range g.Functions {
		g.Scope.Declare(f.Name, f)
		r.registerOverload(g.Scope, f)
	}
	for _, f := range g.Functions {
		r.resolveFunction(f, g.Scope, e)
	}
}

// resolveInstance resolves a ProcessorInstanceDecl's target, which may
// name either a ProcessorDecl or a GraphDecl (spec.md §3 treats both
// jointly as ProcessorBase). The target Identifier's Resolved field is
// set so later passes — the graph recursion detector in particular —
// can follow the instance back to its declaration without repeating
// this lookup.
func (r *Resolver) resolveInstance(inst *ast.ProcessorInstanceDecl, scope *ast.Scope, e *env) {
	name, ok := identName(inst.ProcessorRef)
	if !ok {
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "expected a processor or graph name").
			WithPrimaryLabel(inst.ProcessorRef.Loc(), "not a processor reference"))
		return
	}
	decl, ok := scope.Lookup(name)
	if !ok {
		r.unresolved(inst.Loc(), name)
		return
	}

	var generics []string
	switch target := decl.(type) {
	case *ast.ProcessorDecl:
		generics = target.Generics
	case *ast.GraphDecl:
		generics = nil
	default:
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "'"+name+"' does not name a processor or graph").
			WithPrimaryLabel(inst.Loc(), "not a processor or graph"))
		return
	}
	if id, ok := inst.ProcessorRef.(*ast.Identifier); ok {
		id.Resolved = decl
		id.SetKind(ast.Processor)
	}

	argTypes := make([]types.Type, 0, len(inst.Args))
	for _, a := range inst.Args {
		argTypes = append(argTypes, r.resolveExpr(a, scope, e))
	}
	if proc, ok := decl.(*ast.ProcessorDecl); ok && len(generics) > 0 {
		r.specializeProcessor(proc, argTypes, scope)
	}
	if inst.ArraySize != nil {
		r.evalConstInt(inst.ArraySize, scope, e)
	}
}

func (r *Resolver) resolveConnection(conn *ast.ConnectionDecl, scope *ast.Scope, e *env) {
	r.resolveExpr(conn.From, scope, e)
	r.resolveExpr(conn.To, scope, e)
	if conn.DelayFrames != nil {
		r.evalConstInt(conn.DelayFrames, scope, e)
	}
}
