package lower

import (
	"signalcore/internal/ast"
	"signalcore/internal/ir"
	"signalcore/internal/source"
)

// lowerBlockStmts lowers block's statements into the builder's current
// block, stopping once a statement has terminated it: anything lexically
// following a return/break/continue is unreachable and spec.md's
// validator already rejects relying on it, so lowering simply drops it
// rather than emitting dead blocks for C6 to clean up.
func (b *funcBuilder) lowerBlockStmts(block *ast.Block) {
	for _, s := range block.Statements {
		if b.cur == nil || b.cur.Term != nil {
			return
		}
		b.lowerStmt(s, block.Scope)
	}
}

func (b *funcBuilder) lowerStmt(s ast.Stmt, scope *ast.Scope) {
	switch v := s.(type) {
	case *ast.Block:
		b.lowerBlockStmts(v)
	case *ast.VariableDeclaration:
		b.lowerVariableDecl(v, scope)
	case *ast.If:
		b.lowerIf(v, scope)
	case *ast.Loop:
		b.lowerLoop(v)
	case *ast.Return:
		var val ir.Expr
		if v.Value != nil {
			val = b.lowerValue(v.Value, scope)
		}
		b.term(&ir.Return{Value: val, Location: v.Loc()})
	case *ast.Break:
		if len(b.loopStack) > 0 {
			b.term(&ir.Jump{Target: b.currentLoop().breakTo, Location: v.Loc()})
		}
	case *ast.Continue:
		if len(b.loopStack) > 0 {
			b.term(&ir.Jump{Target: b.currentLoop().continueTo, Location: v.Loc()})
		}
	case *ast.Noop:
		// nothing to lower
	case *ast.ExprStmt:
		b.lowerExprStmt(v, scope)
	}
}

func (b *funcBuilder) lowerVariableDecl(v *ast.VariableDeclaration, scope *ast.Scope) {
	var t = b.l.res.ExprType(v.Init, scope)
	if v.Type != nil {
		if rt, ok := b.l.res.ResolveType(v.Type, scope); ok {
			t = rt
		}
	}
	id := b.allocLocal(v.Name, t)
	if decl, ok := scope.LookupLocal(v.Name); ok {
		if cd, ok2 := decl.(*ast.ConstantDecl); ok2 {
			b.localOf[cd] = id
		}
	}
	if v.Init != nil {
		val := b.lowerValue(v.Init, scope)
		b.emit(&ir.Assign{Target: id, Value: val, Location: v.Loc()})
	}
}

// lowerIf eliminates the dead arm of a const-if in place (spec.md
// §4.5): when Const is true and the condition folds, only the taken
// arm is lowered and no branch is emitted at all.
func (b *funcBuilder) lowerIf(v *ast.If, scope *ast.Scope) {
	if v.Const {
		if taken, ok := b.l.res.EvalConstBool(v.Condition, scope); ok {
			if taken {
				b.lowerBlockStmts(v.Then)
			} else if v.Else != nil {
				b.lowerStmt(v.Else, scope)
			}
			return
		}
	}

	cond := b.lowerValue(v.Condition, scope)
	thenBlk := b.newBlock("if_true")
	endBlk := b.newBlock("if_end")
	elseBlk := endBlk
	if v.Else != nil {
		elseBlk = b.newBlock("if_false")
	}
	b.branch(v.Loc(), cond, thenBlk, elseBlk)

	b.switchTo(thenBlk)
	b.lowerBlockStmts(v.Then)
	b.jumpTo(v.Loc(), endBlk)

	if v.Else != nil {
		b.switchTo(elseBlk)
		b.lowerStmt(v.Else, scope)
		b.jumpTo(v.Loc(), endBlk)
	}

	b.switchTo(endBlk)
}

// lowerLoop builds the cond/body(/post)/end block skeleton for all
// three loop forms, following the teacher's internal/mir/gen/builder.go
// lowerWhile shape. loopScope recovers the scope the resolver built for
// Init/Condition/Post (internal/resolver/expr.go's resolveStmt Loop case creates it as
// a child of the enclosing scope and never stores it on the Loop node
// itself, only on Body via resolveBlock, so it is always
// loop.Body.Scope.Parent).
func (b *funcBuilder) lowerLoop(loop *ast.Loop) {
	loopScope := loop.Body.Scope.Parent

	condBlk := b.newBlock("loop_cond")
	bodyBlk := b.newBlock("loop_body")
	var postBlk *ir.Block
	if loop.Post != nil {
		postBlk = b.newBlock("loop_post")
	}
	endBlk := b.newBlock("loop_end")

	continueTarget := condBlk
	if postBlk != nil {
		continueTarget = postBlk
	}

	switch loop.Kind {
	case ast.DoWhileLoop:
		b.jumpTo(loop.Loc(), bodyBlk)
	default: // ForLoop, WhileLoop
		if loop.Init != nil {
			b.lowerStmt(loop.Init, loopScope)
		}
		b.jumpTo(loop.Loc(), condBlk)
	}

	b.switchTo(condBlk)
	if loop.Condition != nil {
		cond := b.lowerValue(loop.Condition, loopScope)
		b.branch(loop.Loc(), cond, bodyBlk, endBlk)
	} else {
		b.jumpTo(loop.Loc(), bodyBlk)
	}

	b.switchTo(bodyBlk)
	b.pushLoop(endBlk.ID, continueTarget.ID)
	b.lowerBlockStmts(loop.Body)
	b.popLoop()
	if postBlk != nil {
		b.jumpTo(loop.Loc(), postBlk)
	} else {
		b.jumpTo(loop.Loc(), condBlk)
	}

	if postBlk != nil {
		b.switchTo(postBlk)
		b.lowerStmt(loop.Post, loopScope)
		b.jumpTo(loop.Loc(), condBlk)
	}

	if loop.Kind == ast.DoWhileLoop {
		// A do-while's condition is only ever reached from the bottom of
		// the body, so its jump into condBlk above already carries the
		// body's effects; nothing further to wire.
	}

	b.switchTo(endBlk)
}

// lowerExprStmt lowers the side-effecting expression forms that only
// make sense as a statement: a write into an endpoint, an assignment,
// a bare call, an increment/decrement, or advancing the processor
// clock. Anything else reaching here is a value expression evaluated
// and discarded, matched against ast/stmt.go's ExprStmt doc comment.
func (b *funcBuilder) lowerExprStmt(s *ast.ExprStmt, scope *ast.Scope) {
	switch v := s.Value.(type) {
	case *ast.Write:
		b.lowerWrite(v, scope)
	case *ast.AdvanceClock:
		b.emit(&ir.AdvanceClock{Location: v.Loc()})
	case *ast.Binary:
		if v.Op == ast.Assign {
			b.lowerAssign(v, scope)
			return
		}
		b.lowerValue(v, scope)
	case *ast.StaticAssert:
		// Already checked at resolve time; nothing left to lower.
	case *ast.Call:
		b.lowerCallStmt(v, scope)
	case *ast.IncDec:
		b.lowerIncDecStmt(v, scope)
	default:
		b.lowerValue(v, scope)
	}
}

func (b *funcBuilder) lowerWrite(w *ast.Write, scope *ast.Scope) {
	instance, endpoint, index := b.endpointTarget(w.Endpoint, scope)
	val := b.lowerValue(w.Value, scope)
	b.emit(&ir.EndpointWrite{Instance: instance, Endpoint: endpoint, Index: index, Value: val, Location: w.Loc()})
}

// endpointTarget decomposes the left side of a `<-` write (or the base
// of an endpoint read) into the instance it names (empty for one of the
// enclosing processor's own endpoints), the endpoint name, and an
// optional constant/runtime array index.
func (b *funcBuilder) endpointTarget(e ast.Expr, scope *ast.Scope) (instance, endpoint string, index ir.Expr) {
	switch v := e.(type) {
	case *ast.Identifier:
		return "", v.Name, nil
	case *ast.Member:
		if base, ok := v.Base.(*ast.Identifier); ok {
			return base.Name, v.Name, nil
		}
		return "", v.Name, nil
	case *ast.Index:
		inst, ep, _ := b.endpointTarget(v.Base, scope)
		if b.fn != nil {
			return inst, ep, b.lowerValue(v.Index, scope)
		}
		// Called from graph-level connection lowering with no enclosing
		// function (funcBuilder.fn is nil): a connection's endpoint index
		// must already be a compile-time constant, so fold it directly
		// rather than through the statement-lowering local allocator.
		if val, ok := b.l.res.EvalConst(v.Index, scope); ok {
			return inst, ep, &ir.ConstExpr{Value: val}
		}
		return inst, ep, nil
	default:
		return "", "", nil
	}
}

func (b *funcBuilder) lowerAssign(bin *ast.Binary, scope *ast.Scope) {
	val := b.lowerValue(bin.Right, scope)
	b.storeToLValue(bin.Left, val, scope, bin.Loc())
}

// storeToLValue emits whichever statement stores val into lhs's
// addressable target: a local/state-variable Assign for a plain name,
// an EndpointWrite when resolution narrowed the target to an endpoint
// (through a Member or an array Index), or a FieldAssign/IndexAssign
// for a struct field or array element otherwise. Shared by `=`
// assignment and by hoistIncDec's store-back of the incremented value.
func (b *funcBuilder) storeToLValue(lhs ast.Expr, val ir.Expr, scope *ast.Scope, loc source.Location) {
	switch v := lhs.(type) {
	case *ast.Identifier:
		switch decl := v.Resolved.(type) {
		case *ast.StateVarDecl:
			if sv, ok := b.stateVarID(decl); ok {
				b.emit(&ir.StateVarAssign{Target: sv, Value: val, Location: loc})
			}
		case *ast.ConstantDecl:
			if local, ok := b.localOf[decl]; ok {
				b.emit(&ir.Assign{Target: local, Value: val, Location: loc})
			}
		}
	case *ast.Member:
		if v.Kind() == ast.Endpoint {
			instance, endpoint, index := b.endpointTarget(v, scope)
			b.emit(&ir.EndpointWrite{Instance: instance, Endpoint: endpoint, Index: index, Value: val, Location: loc})
			return
		}
		base := b.lowerValue(v.Base, scope)
		b.emit(&ir.FieldAssign{Base: base, Field: v.Name, Value: val, Location: loc})
	case *ast.Index:
		if v.Kind() == ast.Endpoint {
			instance, endpoint, index := b.endpointTarget(v, scope)
			b.emit(&ir.EndpointWrite{Instance: instance, Endpoint: endpoint, Index: index, Value: val, Location: loc})
			return
		}
		base := b.lowerValue(v.Base, scope)
		idx := b.lowerValue(v.Index, scope)
		b.emit(&ir.IndexAssign{Base: base, Index: idx, Value: val, Location: loc})
	}
}
