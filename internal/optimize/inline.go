package optimize

import "signalcore/internal/ir"

// inlineSizeThreshold bounds which callees makeFunctionCallInline will
// fold into their call sites. spec.md §4.6 names the pass but not a
// size cutoff; this keeps a single inlining step from ballooning a
// function by an unbounded amount in one pass of the pipeline — the
// convergence loop still lets a chain of small calls inline over
// several rounds.
const inlineSizeThreshold = 12

// makeFunctionCallInline is spec.md §4.6 pass 9. It only inlines call
// sites the lowering pass already put in one of the two statement
// shapes C5 ever produces for a call (spec.md §4.5's side-effect
// hoisting guarantees a Call expression only ever appears as the
// Value of an Assign, never nested inside a larger expression): a
// bare CallStmt for a discarded result, or Assign{Value: *ir.Call} for
// a used one.
func makeFunctionCallInline(mod *ir.Module) bool {
	changed := false
	seq := 0
	for _, fn := range allFunctions(mod) {
		if fn.DoNotOptimise {
			continue
		}
		for i := 0; i < maxIterations; i++ {
			if !inlineOneCallIn(fn, seq) {
				break
			}
			seq++
			changed = true
		}
	}
	return changed
}

func eligibleInlineCallee(f *ir.Function) bool {
	if f == nil || f.DoNotOptimise {
		return false
	}
	if totalStmts(f) > inlineSizeThreshold {
		return false
	}
	return !isRecursive(f)
}

func totalStmts(f *ir.Function) int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Stmts)
	}
	return n
}

func isRecursive(f *ir.Function) bool {
	visited := map[*ir.Function]bool{}
	var dfs func(cur *ir.Function) bool
	dfs = func(cur *ir.Function) bool {
		for _, callee := range calleesOf(cur) {
			if callee == f {
				return true
			}
			if visited[callee] {
				continue
			}
			visited[callee] = true
			if dfs(callee) {
				return true
			}
		}
		return false
	}
	return dfs(f)
}

func inlineOneCallIn(fn *ir.Function, seq int) bool {
	for bi, blk := range fn.Blocks {
		for si, s := range blk.Stmts {
			switch v := s.(type) {
			case *ir.CallStmt:
				if eligibleInlineCallee(v.Func) {
					inlineCallAt(fn, bi, si, v.Func, v.Args, nil, seq)
					return true
				}
			case *ir.Assign:
				if call, ok := v.Value.(*ir.Call); ok && eligibleInlineCallee(call.Func) {
					target := v.Target
					inlineCallAt(fn, bi, si, call.Func, call.Args, &target, seq)
					return true
				}
			}
		}
	}
	return false
}

func maxBlockID(fn *ir.Function) ir.BlockID {
	var m ir.BlockID
	for _, b := range fn.Blocks {
		if b.ID > m {
			m = b.ID
		}
	}
	return m
}

func maxLocalID(fn *ir.Function) ir.LocalID {
	var m ir.LocalID
	for _, l := range fn.Locals {
		if l.ID > m {
			m = l.ID
		}
	}
	for _, p := range fn.Params {
		if p.ID > m {
			m = p.ID
		}
	}
	return m
}

// inlineCallAt splices callee's body into fn at blk.Stmts[stmtIdx],
// binding args to fresh locals in place of callee's params and
// rewriting every Return in the cloned body into an assignment to
// resultTarget (when the caller used the result) followed by a jump
// to the continuation block holding whatever followed the call.
func inlineCallAt(fn *ir.Function, blockIdx, stmtIdx int, callee *ir.Function, args []ir.Expr, resultTarget *ir.LocalID, seq int) {
	blk := fn.Blocks[blockIdx]
	before := append([]ir.Statement{}, blk.Stmts[:stmtIdx]...)
	after := append([]ir.Statement{}, blk.Stmts[stmtIdx+1:]...)
	originalTerm := blk.Term

	nextBlockID := maxBlockID(fn) + 1
	nextLocalID := maxLocalID(fn) + 1

	blockRemap := map[ir.BlockID]ir.BlockID{}
	for _, b := range callee.Blocks {
		blockRemap[b.ID] = nextBlockID
		nextBlockID++
	}
	localRemap := map[ir.LocalID]ir.LocalID{}
	bindLocal := func(l *ir.Local) {
		localRemap[l.ID] = nextLocalID
		fn.Locals = append(fn.Locals, &ir.Local{
			ID:   nextLocalID,
			Name: inlineLocalName(callee.Name, seq, l.Name),
			Type: l.Type,
		})
		nextLocalID++
	}
	for _, p := range callee.Params {
		bindLocal(p)
	}
	for _, l := range callee.Locals {
		bindLocal(l)
	}

	afterID := nextBlockID
	afterBlock := &ir.Block{ID: afterID, Name: blk.Name + "_after_inline", Stmts: after, Term: originalTerm, Location: blk.Location}

	paramBinds := make([]ir.Statement, len(callee.Params))
	for i, p := range callee.Params {
		paramBinds[i] = &ir.Assign{Target: localRemap[p.ID], Value: args[i], Location: blk.Location}
	}
	blk.Stmts = append(before, paramBinds...)
	blk.Term = &ir.Jump{Target: blockRemap[callee.Entry], Location: blk.Location}

	clonedBlocks := make([]*ir.Block, 0, len(callee.Blocks))
	for _, b := range callee.Blocks {
		newStmts := make([]ir.Statement, len(b.Stmts))
		for i, s := range b.Stmts {
			ns := cloneStmt(s)
			remapStmtLocals(ns, localRemap)
			newStmts[i] = ns
		}
		newTerm := cloneTerm(b.Term)
		remapTermLocals(newTerm, localRemap)
		switch t := newTerm.(type) {
		case *ir.Jump:
			t.Target = blockRemap[t.Target]
		case *ir.Branch:
			t.Then = blockRemap[t.Then]
			t.Else = blockRemap[t.Else]
		case *ir.Return:
			if resultTarget != nil && t.Value != nil {
				newStmts = append(newStmts, &ir.Assign{Target: *resultTarget, Value: t.Value, Location: b.Location})
			}
			newTerm = &ir.Jump{Target: afterID, Location: b.Location}
		}
		clonedBlocks = append(clonedBlocks, &ir.Block{
			ID:       blockRemap[b.ID],
			Name:     inlineLocalName(callee.Name, seq, b.Name),
			Stmts:    newStmts,
			Term:     newTerm,
			Location: b.Location,
		})
	}

	newBlocks := make([]*ir.Block, 0, len(fn.Blocks)+len(clonedBlocks)+1)
	newBlocks = append(newBlocks, fn.Blocks...)
	newBlocks = append(newBlocks, clonedBlocks...)
	newBlocks = append(newBlocks, afterBlock)
	fn.Blocks = newBlocks
}

func inlineLocalName(calleeName string, seq int, suffix string) string {
	return calleeName + "_inline" + itoa(seq) + "_" + suffix
}

// itoa avoids pulling in strconv for one call site; seq never leaves
// the small non-negative range a single function's inlining rounds
// produce.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

func remapExprLocals(e ir.Expr, remap map[ir.LocalID]ir.LocalID) ir.Expr {
	return transformExpr(e, func(x ir.Expr) ir.Expr {
		if lr, ok := x.(*ir.LocalRef); ok {
			if nid, ok2 := remap[lr.ID]; ok2 {
				lr.ID = nid
			}
		}
		return x
	})
}

func remapStmtLocals(s ir.Statement, remap map[ir.LocalID]ir.LocalID) {
	transformStmtExprs(s, func(e ir.Expr) ir.Expr { return remapExprLocals(e, remap) })
}

func remapTermLocals(t ir.Terminator, remap map[ir.LocalID]ir.LocalID) {
	transformTermExprs(t, func(e ir.Expr) ir.Expr { return remapExprLocals(e, remap) })
}

func cloneExpr(e ir.Expr) ir.Expr {
	switch v := e.(type) {
	case nil:
		return nil
	case *ir.ConstExpr:
		return &ir.ConstExpr{Value: v.Value}
	case *ir.LocalRef:
		return &ir.LocalRef{ID: v.ID, Type: v.Type}
	case *ir.StateVarRef:
		return &ir.StateVarRef{ID: v.ID, Type: v.Type}
	case *ir.PropertyRead:
		return &ir.PropertyRead{Instance: v.Instance, Property: v.Property, Type: v.Type}
	case *ir.EndpointRead:
		return &ir.EndpointRead{Instance: v.Instance, Endpoint: v.Endpoint, Index: cloneExpr(v.Index), Type: v.Type}
	case *ir.Binary:
		return &ir.Binary{Op: v.Op, Left: cloneExpr(v.Left), Right: cloneExpr(v.Right), Type: v.Type}
	case *ir.Unary:
		return &ir.Unary{Op: v.Op, Operand: cloneExpr(v.Operand), Type: v.Type}
	case *ir.Cast:
		return &ir.Cast{Operand: cloneExpr(v.Operand), Type: v.Type}
	case *ir.Call:
		args := make([]ir.Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = cloneExpr(a)
		}
		return &ir.Call{Func: v.Func, Args: args, Type: v.Type}
	case *ir.Ternary:
		return &ir.Ternary{Cond: cloneExpr(v.Cond), Then: cloneExpr(v.Then), Else: cloneExpr(v.Else), Type: v.Type}
	case *ir.Aggregate:
		els := make([]ir.Expr, len(v.Elements))
		for i, el := range v.Elements {
			els[i] = cloneExpr(el)
		}
		return &ir.Aggregate{Type: v.Type, Elements: els}
	case *ir.Index:
		return &ir.Index{Base: cloneExpr(v.Base), Index: cloneExpr(v.Index), Type: v.Type}
	case *ir.FieldRead:
		return &ir.FieldRead{Base: cloneExpr(v.Base), Field: v.Field, Type: v.Type}
	case *ir.Slice:
		return &ir.Slice{Base: cloneExpr(v.Base), Low: cloneExpr(v.Low), High: cloneExpr(v.High), Type: v.Type}
	default:
		return e
	}
}

func cloneStmt(s ir.Statement) ir.Statement {
	switch v := s.(type) {
	case *ir.Assign:
		return &ir.Assign{Target: v.Target, Value: cloneExpr(v.Value), Location: v.Location}
	case *ir.StateVarAssign:
		return &ir.StateVarAssign{Target: v.Target, Value: cloneExpr(v.Value), Location: v.Location}
	case *ir.EndpointWrite:
		return &ir.EndpointWrite{Instance: v.Instance, Endpoint: v.Endpoint, Index: cloneExpr(v.Index), Value: cloneExpr(v.Value), Location: v.Location}
	case *ir.CallStmt:
		args := make([]ir.Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = cloneExpr(a)
		}
		return &ir.CallStmt{Func: v.Func, Args: args, Location: v.Location}
	case *ir.AdvanceClock:
		return &ir.AdvanceClock{Location: v.Location}
	case *ir.IndexAssign:
		return &ir.IndexAssign{Base: cloneExpr(v.Base), Index: cloneExpr(v.Index), Value: cloneExpr(v.Value), Location: v.Location}
	case *ir.FieldAssign:
		return &ir.FieldAssign{Base: cloneExpr(v.Base), Field: v.Field, Value: cloneExpr(v.Value), Location: v.Location}
	default:
		return s
	}
}

func cloneTerm(t ir.Terminator) ir.Terminator {
	switch v := t.(type) {
	case *ir.Jump:
		return &ir.Jump{Target: v.Target, Location: v.Location}
	case *ir.Branch:
		return &ir.Branch{Cond: cloneExpr(v.Cond), Then: v.Then, Else: v.Else, Location: v.Location}
	case *ir.Return:
		return &ir.Return{Value: cloneExpr(v.Value), Location: v.Location}
	case *ir.Unreachable:
		return &ir.Unreachable{Location: v.Location}
	default:
		return t
	}
}
