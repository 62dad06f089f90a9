package lower

import (
	"signalcore/internal/ast"
	"signalcore/internal/ir"
	"signalcore/internal/types"
)

// ensureProcessor lowers a ProcessorDecl or GraphDecl on first
// reference and memoizes the result, the Processor-level analogue of
// ensureFunction: a graph's instance may reference a processor/graph
// declared anywhere in the namespace, in any order, so lowering it
// lazily on demand (rather than requiring declaration order) keeps
// instance lowering simple.
func (l *lowerer) ensureProcessor(decl ast.Decl) *ir.Processor {
	if p, ok := l.procByDecl[decl]; ok {
		return p
	}
	var p *ir.Processor
	switch d := decl.(type) {
	case *ast.ProcessorDecl:
		p = l.lowerProcessor(d)
	case *ast.GraphDecl:
		p = l.lowerGraph(d)
	default:
		return nil
	}
	l.mod.Processors = append(l.mod.Processors, p)
	return p
}

func lowerDirection(d ast.EndpointDirection) ir.EndpointDirection { return ir.EndpointDirection(d) }
func lowerFlow(f ast.EndpointFlow) ir.EndpointFlow                { return ir.EndpointFlow(f) }

func (l *lowerer) lowerEndpoint(ep *ast.EndpointDecl, scope *ast.Scope) *ir.EndpointInfo {
	info := &ir.EndpointInfo{
		Name:       ep.Name,
		Direction:  lowerDirection(ep.Direction),
		Flow:       lowerFlow(ep.Flow),
		Properties: lowerEndpointProperties(ep.Annotations),
	}
	if len(ep.DataTypes) > 0 {
		info.Type, _ = l.res.ResolveType(ep.DataTypes[0], scope)
	}
	if ep.ArraySize != nil {
		if n, ok := l.evalConstInt(ep.ArraySize, scope); ok {
			info.ArraySize = n
		}
	}
	return info
}

func (l *lowerer) evalConstInt(e ast.Expr, scope *ast.Scope) (int, bool) {
	v, ok := l.res.EvalConst(e, scope)
	if !ok {
		return 0, false
	}
	switch p, ok := v.Type.(*types.PrimitiveType); {
	case !ok:
		return 0, false
	case p.Kind == types.I64:
		return int(v.AsI64()), true
	default:
		return int(v.AsI32()), true
	}
}

func (l *lowerer) lowerProcessor(p *ast.ProcessorDecl) *ir.Processor {
	irP := &ir.Processor{
		Name:     p.Name,
		Location: p.Loc(),
		IsMain:   p.IsMain(),
		Events:   map[string]*ir.Function{},
	}
	l.procByDecl[p] = irP

	for _, ep := range p.Endpoints {
		irP.Endpoints = append(irP.Endpoints, l.lowerEndpoint(ep, p.Scope))
	}

	ctx := &procLowerCtx{proc: irP, stateVars: map[*ast.StateVarDecl]*ir.Local{}, scope: p.Scope}
	for _, sv := range p.StateVars {
		t, _ := l.res.ResolveType(sv.Type, p.Scope)
		local := &ir.Local{ID: ir.LocalID(len(irP.StateVars)), Name: sv.Name, Type: t, External: sv.External}
		irP.StateVars = append(irP.StateVars, local)
		ctx.stateVars[sv] = local
	}
	irP.Init = l.lowerStateVarInit(p.StateVars, p.Scope, ctx)

	for _, f := range p.Functions {
		l.funcCtx[f] = ctx
	}
	for _, f := range p.Functions {
		irFn := l.ensureFunction(f, ctx)
		switch {
		case f.Name == "run":
			irP.Run = irFn
		case f.IsEvent:
			irP.Events[f.Name] = irFn
		}
	}
	return irP
}

// lowerStateVarInit builds the synthesized function that runs once at
// construction to assign every state variable's initial value
// (ast/decl.go's StateVarDecl.Init), the processor-level analogue of a
// local variable's Init statement. Each Local's own Init field also
// records the initial value when the initialiser lowers directly to an
// ir.ConstExpr; an initialiser that lowers to an operation tree (such
// as `1 + 2`) is not recorded there, even when it is foldable.
func (l *lowerer) lowerStateVarInit(svs []*ast.StateVarDecl, scope *ast.Scope, ctx *procLowerCtx) *ir.Function {
	fn := &ir.Function{Name: "init", ReturnType: types.NewVoid()}
	b := newFuncBuilder(l, fn, ctx)
	entry := b.newBlock("entry")
	b.switchTo(entry)
	for _, sv := range svs {
		if sv.Init == nil {
			continue
		}
		local := ctx.stateVars[sv]
		val := b.lowerValue(sv.Init, scope)
		if ce, ok := val.(*ir.ConstExpr); ok {
			local.Init = ce
		}
		b.emit(&ir.StateVarAssign{Target: local.ID, Value: val, Location: sv.Loc()})
	}
	b.finish(fn.Location)
	return fn
}

func (l *lowerer) lowerGraph(g *ast.GraphDecl) *ir.Processor {
	irP := &ir.Processor{
		Name:     g.Name,
		Location: g.Loc(),
		IsMain:   g.IsMain(),
		Events:   map[string]*ir.Function{},
	}
	l.procByDecl[g] = irP

	for _, ep := range g.Endpoints {
		irP.Endpoints = append(irP.Endpoints, l.lowerEndpoint(ep, g.Scope))
	}

	// GraphDecl.StateVars is never resolved into g.Scope by the
	// resolver (only ProcessorDecl's are): type-resolve each one
	// defensively and skip folding its Init expression, since that
	// expression's identifiers were never run through resolveExpr and
	// so carry no Resolved links to walk.
	ctx := &procLowerCtx{proc: irP, stateVars: map[*ast.StateVarDecl]*ir.Local{}, scope: g.Scope}
	for _, sv := range g.StateVars {
		t, _ := l.res.ResolveType(sv.Type, g.Scope)
		local := &ir.Local{ID: ir.LocalID(len(irP.StateVars)), Name: sv.Name, Type: t, External: sv.External}
		irP.StateVars = append(irP.StateVars, local)
		ctx.stateVars[sv] = local
	}

	for _, inst := range g.Instances {
		irP.Instances = append(irP.Instances, l.lowerInstance(inst, g.Scope))
	}
	for _, conn := range g.Connections {
		irP.Connections = append(irP.Connections, l.lowerConnection(conn, g.Scope))
	}

	for _, f := range g.Functions {
		l.funcCtx[f] = ctx
	}
	for _, f := range g.Functions {
		irFn := l.ensureFunction(f, ctx)
		switch {
		case f.Name == "run":
			irP.Run = irFn
		case f.IsEvent:
			irP.Events[f.Name] = irFn
		}
	}
	return irP
}

func (l *lowerer) lowerInstance(inst *ast.ProcessorInstanceDecl, scope *ast.Scope) *ir.Instance {
	irInst := &ir.Instance{Name: inst.Name}
	if id, ok := inst.ProcessorRef.(*ast.Identifier); ok && id.Resolved != nil {
		irInst.Processor = l.ensureProcessor(id.Resolved)
	}
	if inst.ArraySize != nil {
		if n, ok := l.evalConstInt(inst.ArraySize, scope); ok {
			irInst.ArraySize = n
		}
	}
	return irInst
}

func (l *lowerer) lowerConnection(conn *ast.ConnectionDecl, scope *ast.Scope) *ir.Connection {
	fromInst, fromEp, fromIdx := l.endpointTargetExpr(conn.From, scope)
	toInst, toEp, toIdx := l.endpointTargetExpr(conn.To, scope)
	out := &ir.Connection{
		From:            ir.EndpointRef{Instance: fromInst, Endpoint: fromEp, Index: fromIdx},
		To:              ir.EndpointRef{Instance: toInst, Endpoint: toEp, Index: toIdx},
		Interpolation:   lowerInterpolation(conn.Interpolation),
		ClockMultiplier: 1,
		ClockDivider:    1,
		Location:        conn.Loc(),
	}
	if conn.DelayFrames != nil {
		if n, ok := l.evalConstInt(conn.DelayFrames, scope); ok {
			out.DelayFrames = n
		}
	}
	return out
}

func lowerInterpolation(m ast.InterpolationMode) ir.InterpolationMode {
	switch m {
	case ast.InterpolationLatch:
		return ir.InterpolationLatch
	case ast.InterpolationLinear:
		return ir.InterpolationLinear
	case ast.InterpolationSinc:
		return ir.InterpolationSinc
	case ast.InterpolationFast:
		return ir.InterpolationFast
	case ast.InterpolationBest:
		return ir.InterpolationBest
	default:
		return ir.InterpolationNone
	}
}

// endpointTargetExpr is the lowerer-level entry point to the same
// instance/endpoint/index decomposition funcBuilder.endpointTarget
// performs for a `<-` write, used here with no enclosing function (a
// connection's endpoints reference instance names directly, never a
// local or state variable).
func (l *lowerer) endpointTargetExpr(e ast.Expr, scope *ast.Scope) (instance, endpoint string, index ir.Expr) {
	b := &funcBuilder{l: l}
	return b.endpointTarget(e, scope)
}
