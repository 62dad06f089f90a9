package validator

import (
	"fmt"

	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/types"
)

const (
	maxEndpointArraySize   = 64
	maxProcessorArraySize  = 256
	maxDelayFrames         = 1 << 20
)

// CheckSemantics runs the post-resolution checks of spec.md §4.4 over
// ns and every nested namespace. The resolver must have reached its
// fixed point before this is called, since several checks (signature
// uniqueness, event-handler payload matching) depend on every call
// site and endpoint having a resolved type.
func (v *Validator) CheckSemantics(ns *ast.Namespace) {
	for _, s := range ns.Structs {
		v.checkStructMembers(s)
	}
	v.checkSignatureUniqueness(ns.Functions)
	for _, f := range ns.Functions {
		v.checkFunctionBody(f)
	}
	for _, p := range ns.Processors {
		v.checkProcessorSemantics(p)
	}
	for _, g := range ns.Graphs {
		v.checkGraphSemantics(g)
	}
	for _, sub := range ns.Namespaces {
		v.CheckSemantics(sub)
	}
}

func (v *Validator) checkProcessorSemantics(p *ast.ProcessorDecl) {
	for _, ep := range p.Endpoints {
		v.checkEndpointArraySize(ep)
	}
	for _, sv := range p.StateVars {
		v.checkNotVoid(sv.Type, sv.Name)
	}
	for _, s := range p.Structs {
		v.checkStructMembers(s)
	}
	v.checkSignatureUniqueness(p.Functions)
	for _, f := range p.Functions {
		v.checkFunctionBody(f)
		v.checkParamsNotVoid(f)
		if f.IsEvent {
			v.checkEventHandler(f, p.Endpoints)
		}
	}
}

// checkNotVoid reports a variable declared with an explicit `void`
// type spelling (spec.md §4.4's "no variable has void type").
func (v *Validator) checkNotVoid(t ast.TypeNode, name string) {
	if t == nil {
		return
	}
	if typeNodeSpelling(t) == "void" {
		v.diags.Add(diagnostics.NewError(diagnostics.VariableCannotBeVoid, "'"+name+"' cannot have type void").
			WithPrimaryLabel(t.Loc(), "void variable"))
	}
}

// checkParamsNotVoid reports a void-typed parameter (spec.md §4.4's
// "no parameter is void").
func (v *Validator) checkParamsNotVoid(f *ast.FunctionDecl) {
	for _, p := range f.Params {
		v.checkNotVoid(p.Type, p.Name)
	}
}

func (v *Validator) checkGraphSemantics(g *ast.GraphDecl) {
	for _, ep := range g.Endpoints {
		v.checkEndpointArraySize(ep)
	}
	for _, inst := range g.Instances {
		v.checkInstanceArraySize(inst)
	}
	for _, conn := range g.Connections {
		v.checkDelayLength(conn)
	}
	for _, sv := range g.StateVars {
		v.checkNotVoid(sv.Type, sv.Name)
	}
	v.checkSignatureUniqueness(g.Functions)
	for _, f := range g.Functions {
		v.checkFunctionBody(f)
		v.checkParamsNotVoid(f)
	}
	v.CheckGraphRecursion(g)
	v.CheckFeedbackCycles(g)
}

func (v *Validator) checkStructMembers(s *ast.StructDecl) {
	// Members are never const, per the grammar (spec.md §4.4's
	// MemberCannotBeConst); a resolved NamedTypeExpr carrying Const is
	// the only way a member could end up const.
	for _, f := range s.Fields {
		if nt, ok := f.Type.(*ast.NamedTypeExpr); ok && nt.Const {
			v.diags.Add(diagnostics.NewError(diagnostics.MemberCannotBeConst, "struct member '"+f.Name+"' cannot be declared const").
				WithPrimaryLabel(f.Loc(), "const struct member"))
		}
	}
}

func (v *Validator) checkEndpointArraySize(ep *ast.EndpointDecl) {
	if ep.ArraySize == nil {
		return
	}
	n, ok := constIntValue(ep.ArraySize)
	if !ok {
		return
	}
	if n < 1 || n > maxEndpointArraySize {
		v.diags.Add(diagnostics.NewError(diagnostics.IllegalArraySize, fmt.Sprintf("endpoint array size %d is out of range [1, %d]", n, maxEndpointArraySize)).
			WithPrimaryLabel(ep.ArraySize.Loc(), "invalid endpoint array size"))
	}
}

func (v *Validator) checkInstanceArraySize(inst *ast.ProcessorInstanceDecl) {
	if inst.ArraySize == nil {
		return
	}
	n, ok := constIntValue(inst.ArraySize)
	if !ok {
		return
	}
	if n < 1 || n > maxProcessorArraySize {
		v.diags.Add(diagnostics.NewError(diagnostics.IllegalArraySize, fmt.Sprintf("processor instance array size %d is out of range [1, %d]", n, maxProcessorArraySize)).
			WithPrimaryLabel(inst.ArraySize.Loc(), "invalid processor array size"))
	}
}

func (v *Validator) checkDelayLength(conn *ast.ConnectionDecl) {
	if conn.DelayFrames == nil {
		return
	}
	n, ok := constIntValue(conn.DelayFrames)
	if !ok {
		return
	}
	switch {
	case n < 1:
		v.diags.Add(diagnostics.NewError(diagnostics.DelayLineTooShort, fmt.Sprintf("delay length %d must be at least 1 frame", n)).
			WithPrimaryLabel(conn.DelayFrames.Loc(), "delay too short"))
	case n > maxDelayFrames:
		v.diags.Add(diagnostics.NewError(diagnostics.DelayLineTooLong, fmt.Sprintf("delay length %d exceeds the maximum of %d frames", n, maxDelayFrames)).
			WithPrimaryLabel(conn.DelayFrames.Loc(), "delay too long"))
	}
}

// constIntValue extracts the integer value of an integer or float
// literal. The resolver evaluates array-size and delay expressions
// without rewriting them in the AST, so any expression other than a
// literal (including a foldable one such as `2 * 4`) is not recognised
// here, and the validator silently skips it.
func constIntValue(e ast.Expr) (int64, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return 0, false
	}
	switch lit.LitKind {
	case ast.IntLit:
		return lit.Int, true
	case ast.FloatLit:
		return int64(lit.Float), true
	default:
		return 0, false
	}
}

// checkSignatureUniqueness enforces unique (name, mangled-param-types)
// signatures among non-generic functions sharing one scope (spec.md
// §4.4).
func (v *Validator) checkSignatureUniqueness(funcs []*ast.FunctionDecl) {
	seen := make(map[string]*ast.FunctionDecl)
	for _, f := range funcs {
		if len(f.Generics) > 0 {
			continue
		}
		key := f.Name + "(" + mangleParams(f.Params) + ")"
		if prev, ok := seen[key]; ok {
			v.diags.Add(diagnostics.Redeclared(f.Loc(), prev.Loc(), f.Name))
			continue
		}
		seen[key] = f
	}
}

func mangleParams(params []*ast.Param) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ","
		}
		out += typeNodeSpelling(p.Type)
	}
	return out
}

// typeNodeSpelling renders an unresolved TypeNode's syntactic shape for
// mangling purposes: exact resolved types.Type are preferred when
// available via the resolver, but the validator runs independently of
// resolver internals, so it falls back to a syntactic rendering that is
// still precise enough to distinguish overloads of different shapes.
func typeNodeSpelling(t ast.TypeNode) string {
	switch n := t.(type) {
	case *ast.NamedTypeExpr:
		name, _ := identName(n.Name)
		return name
	case *ast.ArrayTypeExpr:
		return typeNodeSpelling(n.Elem) + "[]"
	case *ast.VectorTypeExpr:
		return "vector<" + typeNodeSpelling(n.Elem) + ">"
	default:
		return "?"
	}
}

func identName(e ast.Expr) (string, bool) {
	switch id := e.(type) {
	case *ast.Identifier:
		return id.Name, true
	case *ast.QualifiedIdent:
		if len(id.Parts) == 0 {
			return "", false
		}
		return id.Parts[len(id.Parts)-1], true
	default:
		return "", false
	}
}

// checkEventHandler enforces spec.md §4.4's event-handler function
// contract: the name matches an input event endpoint; parameters are
// either (payloadType) or (index, payloadType) for an array endpoint;
// payloadType is one the endpoint declares; index is integer.
func (v *Validator) checkEventHandler(f *ast.FunctionDecl, endpoints []*ast.EndpointDecl) {
	var ep *ast.EndpointDecl
	for _, e := range endpoints {
		if e.Name == f.Name && e.Direction == ast.In && e.Flow == ast.Event {
			ep = e
			break
		}
	}
	if ep == nil {
		v.diags.Add(diagnostics.NewError(diagnostics.EventFunctionInvalidType, "'"+f.Name+"' does not name an input event endpoint").
			WithPrimaryLabel(f.Loc(), "no matching event endpoint"))
		return
	}

	params := f.Params
	if ep.ArraySize != nil {
		if len(params) != 2 {
			v.diags.Add(diagnostics.NewError(diagnostics.EventFunctionInvalidArgs, "event handler for array endpoint '"+ep.Name+"' needs (index, payload) parameters").
				WithPrimaryLabel(f.Loc(), "wrong parameter count"))
			return
		}
		if !isIntegerTypeNode(params[0].Type) {
			v.diags.Add(diagnostics.NewError(diagnostics.EventFunctionInvalidArgs, "event handler index parameter must be an integer").
				WithPrimaryLabel(params[0].Loc(), "non-integer index parameter"))
		}
		v.checkPayloadType(params[1].Type, ep)
		return
	}
	if len(params) != 1 {
		v.diags.Add(diagnostics.NewError(diagnostics.EventFunctionInvalidArgs, "event handler for '"+ep.Name+"' needs exactly one payload parameter").
			WithPrimaryLabel(f.Loc(), "wrong parameter count"))
		return
	}
	v.checkPayloadType(params[0].Type, ep)
}

func (v *Validator) checkPayloadType(paramType ast.TypeNode, ep *ast.EndpointDecl) {
	spelling := typeNodeSpelling(paramType)
	for _, dt := range ep.DataTypes {
		if typeNodeSpelling(dt) == spelling {
			return
		}
	}
	v.diags.Add(diagnostics.NewError(diagnostics.EventFunctionInvalidType, "payload type does not match any type endpoint '"+ep.Name+"' declares").
		WithPrimaryLabel(paramType.Loc(), "unexpected payload type"))
}

func isIntegerTypeNode(t ast.TypeNode) bool {
	nt, ok := t.(*ast.NamedTypeExpr)
	if !ok {
		return false
	}
	name, _ := identName(nt.Name)
	return name == "i32" || name == "i64"
}

// checkFunctionBody walks fn's body for the remaining statement/
// expression-level checks: pre/post inc-or-dec collisions and
// always-true/always-false constant comparisons.
func (v *Validator) checkFunctionBody(fn *ast.FunctionDecl) {
	if fn.Body != nil {
		v.checkBlock(fn.Body)
	}
}

func (v *Validator) checkBlock(b *ast.Block) {
	for _, s := range b.Statements {
		v.checkStmt(s)
	}
}

func (v *Validator) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		v.checkBlock(n)
	case *ast.If:
		v.checkExprStmt(n.Condition)
		v.checkComparison(n.Condition)
		v.checkBlock(n.Then)
		if n.Else != nil {
			v.checkStmt(n.Else)
		}
	case *ast.Loop:
		if n.Condition != nil {
			v.checkExprStmt(n.Condition)
			v.checkComparison(n.Condition)
		}
		v.checkBlock(n.Body)
	case *ast.ExprStmt:
		v.checkExprStmt(n.Value)
	case *ast.VariableDeclaration:
		if n.Init != nil {
			v.checkExprStmt(n.Init)
		}
	case *ast.Return:
		if n.Value != nil {
			v.checkExprStmt(n.Value)
		}
	}
}

// checkExprStmt reports a pre/post inc-or-dec collision: the same
// variable read and pre/post modified within one statement (spec.md
// §4.4's PreIncDecCollision). It collects every IncDec operand name and
// every plain Identifier read under e, flagging an overlap.
func (v *Validator) checkExprStmt(e ast.Expr) {
	incDecs := make(map[string]ast.Node)
	reads := make(map[string]ast.Node)
	collectIncDecAndReads(e, incDecs, reads, true)
	for name, n := range incDecs {
		if r, ok := reads[name]; ok && r != n {
			v.diags.Add(diagnostics.NewError(diagnostics.PreIncDecCollision, "'"+name+"' is both read and pre/post-modified in this statement").
				WithPrimaryLabel(n.Loc(), "increment/decrement here").
				WithSecondaryLabel(r.Loc(), "read here"))
		}
	}
}

func collectIncDecAndReads(e ast.Expr, incDecs, reads map[string]ast.Node, topLevel bool) {
	switch n := e.(type) {
	case *ast.IncDec:
		// n.Operand is the inc/dec target itself, not a read of it from
		// elsewhere in the statement; only record it in incDecs.
		if id, ok := n.Operand.(*ast.Identifier); ok {
			incDecs[id.Name] = n
		}
	case *ast.Identifier:
		if !topLevel {
			reads[n.Name] = n
		}
	case *ast.Binary:
		collectIncDecAndReads(n.Left, incDecs, reads, false)
		collectIncDecAndReads(n.Right, incDecs, reads, false)
	case *ast.Unary:
		collectIncDecAndReads(n.Operand, incDecs, reads, false)
	case *ast.Ternary:
		collectIncDecAndReads(n.Condition, incDecs, reads, false)
		collectIncDecAndReads(n.Then, incDecs, reads, false)
		collectIncDecAndReads(n.Else, incDecs, reads, false)
	case *ast.Call:
		for _, a := range n.Args {
			collectIncDecAndReads(a, incDecs, reads, false)
		}
	case *ast.Index:
		collectIncDecAndReads(n.Base, incDecs, reads, false)
		collectIncDecAndReads(n.Index, incDecs, reads, false)
	case *ast.Write:
		collectIncDecAndReads(n.Value, incDecs, reads, false)
	case *ast.Member:
		collectIncDecAndReads(n.Base, incDecs, reads, false)
	}
}

// checkComparison reports a binary comparison that is provably always
// true or always false when one side is a constant literal and the
// other side's type is a bounded_int whose range makes the outcome
// certain (spec.md §4.4).
func (v *Validator) checkComparison(e ast.Expr) {
	b, ok := e.(*ast.Binary)
	if !ok || !isComparisonOp(b.Op) {
		return
	}
	lit, other, litOnRight := literalSide(b)
	if lit == nil || lit.LitKind != ast.IntLit {
		return
	}
	bt := boundedIntOperand(other)
	if bt == nil {
		return
	}
	always, verdict := evaluateBoundedComparison(b.Op, lit.Int, bt, litOnRight)
	if !always {
		return
	}
	code := diagnostics.ComparisonAlwaysFalse
	word := "false"
	if verdict {
		code = diagnostics.ComparisonAlwaysTrue
		word = "true"
	}
	v.diags.Add(diagnostics.NewError(code, "comparison is always "+word+" given the bounded range of its operand").
		WithPrimaryLabel(b.Loc(), "always "+word))
}

func isComparisonOp(op ast.BinaryOp) bool {
	switch op {
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return true
	default:
		return false
	}
}

func literalSide(b *ast.Binary) (*ast.Literal, ast.Expr, bool) {
	if lit, ok := b.Left.(*ast.Literal); ok {
		return lit, b.Right, false
	}
	if lit, ok := b.Right.(*ast.Literal); ok {
		return lit, b.Left, true
	}
	return nil, nil, false
}

// boundedIntOperand returns other's resolved bounded_int type, if the
// resolver attached one via Identifier.Resolved's declared type. Since
// the validator does not re-run type resolution, it only recognises the
// case it can read directly off a resolved ConstantDecl/StateVarDecl.
func boundedIntOperand(e ast.Expr) *types.BoundedIntType {
	id, ok := e.(*ast.Identifier)
	if !ok || id.Resolved == nil {
		return nil
	}
	var tn ast.TypeNode
	switch d := id.Resolved.(type) {
	case *ast.StateVarDecl:
		tn = d.Type
	case *ast.ConstantDecl:
		tn = d.Type
	default:
		return nil
	}
	bi, ok := tn.(*ast.BoundedIntTypeExpr)
	if !ok {
		return nil
	}
	limit, ok := constIntValue(bi.Limit)
	if !ok {
		return nil
	}
	mode := types.Wrap
	if bi.Mode == "clamp" {
		mode = types.Clamp
	}
	return types.NewBoundedInt(limit, mode)
}

// evaluateBoundedComparison decides whether `lit OP other` (or `other
// OP lit` if litOnRight) is certain given other's range [0, Limit).
func evaluateBoundedComparison(op ast.BinaryOp, lit int64, bt *types.BoundedIntType, litOnRight bool) (always bool, verdict bool) {
	lo, hi := int64(0), bt.Limit-1
	if litOnRight {
		op = flipComparison(op)
	}
	switch op {
	case ast.Lt:
		if lit < lo {
			return true, true
		}
		if lit >= hi {
			return true, false
		}
	case ast.Le:
		if lit <= lo {
			return true, true
		}
		if lit > hi {
			return true, false
		}
	case ast.Gt:
		if lit <= lo {
			return true, false
		}
		if lit > hi {
			return true, true
		}
	case ast.Ge:
		if lit >= hi {
			return true, true
		}
		if lit < lo {
			return true, false
		}
	case ast.Eq:
		if lit < lo || lit > hi {
			return true, false
		}
	case ast.Ne:
		if lit < lo || lit > hi {
			return true, true
		}
	}
	return false, false
}

func flipComparison(op ast.BinaryOp) ast.BinaryOp {
	switch op {
	case ast.Lt:
		return ast.Gt
	case ast.Le:
		return ast.Ge
	case ast.Gt:
		return ast.Lt
	case ast.Ge:
		return ast.Le
	default:
		return op
	}
}
