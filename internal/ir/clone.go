package ir

// Clone returns a deep copy of m in which every cross-reference between
// IR nodes, a Call/CallStmt's Func pointer and an Instance's Processor
// pointer, is rewritten to point into the clone rather than into m
// (spec.md §6: "clone the entire Program deeply, preserving handle
// identity through a cross-reference map"). Strings and Constants are
// cloned through their own Clone methods so every StringDictionary/
// ConstantTable handle the clone holds resolves exactly as it did in m.
// types.Type values are shared, not cloned: a Type is an immutable
// description of a shape, never owned or mutated by one Module.
func (m *Module) Clone() *Module {
	fnMap := make(map[*Function]*Function, len(m.Functions))
	newFns := make([]*Function, len(m.Functions))
	for i, f := range m.Functions {
		nf := &Function{
			Name:          f.Name,
			ReturnType:    f.ReturnType,
			Entry:         f.Entry,
			Location:      f.Location,
			DoNotOptimise: f.DoNotOptimise,
		}
		fnMap[f] = nf
		newFns[i] = nf
	}
	procMap := make(map[*Processor]*Processor, len(m.Processors))
	newProcs := make([]*Processor, len(m.Processors))
	for i, p := range m.Processors {
		np := &Processor{
			Name:     p.Name,
			Location: p.Location,
			IsMain:   p.IsMain,
			Events:   map[string]*Function{},
		}
		procMap[p] = np
		newProcs[i] = np
	}

	for i, f := range m.Functions {
		cloneFunctionBody(f, newFns[i], fnMap)
	}
	for i, p := range m.Processors {
		np := newProcs[i]
		for _, ep := range p.Endpoints {
			cp := *ep
			np.Endpoints = append(np.Endpoints, &cp)
		}
		np.StateVars = cloneLocals(p.StateVars)
		if p.Init != nil {
			np.Init = fnMap[p.Init]
		}
		if p.Run != nil {
			np.Run = fnMap[p.Run]
		}
		for name, fn := range p.Events {
			np.Events[name] = fnMap[fn]
		}
		for _, inst := range p.Instances {
			np.Instances = append(np.Instances, &Instance{
				Name:      inst.Name,
				Processor: procMap[inst.Processor],
				ArraySize: inst.ArraySize,
			})
		}
		for _, conn := range p.Connections {
			np.Connections = append(np.Connections, &Connection{
				From:            EndpointRef{Instance: conn.From.Instance, Endpoint: conn.From.Endpoint, Index: cloneExprTree(conn.From.Index, fnMap)},
				To:              EndpointRef{Instance: conn.To.Instance, Endpoint: conn.To.Endpoint, Index: cloneExprTree(conn.To.Index, fnMap)},
				DelayFrames:     conn.DelayFrames,
				Interpolation:   conn.Interpolation,
				ClockMultiplier: conn.ClockMultiplier,
				ClockDivider:    conn.ClockDivider,
				Location:        conn.Location,
			})
		}
	}

	return &Module{
		Functions:  newFns,
		Processors: newProcs,
		Strings:    m.Strings.Clone(),
		Constants:  m.Constants.Clone(),
		Location:   m.Location,
	}
}

func cloneLocals(locals []*Local) []*Local {
	out := make([]*Local, len(locals))
	for i, l := range locals {
		out[i] = &Local{
			ID:       l.ID,
			Name:     l.Name,
			Type:     l.Type,
			IsConst:  l.IsConst,
			Init:     cloneExprTree(l.Init, nil),
			External: l.External,
		}
	}
	return out
}

func cloneFunctionBody(f, nf *Function, fnMap map[*Function]*Function) {
	nf.Params = cloneLocals(f.Params)
	nf.Locals = cloneLocals(f.Locals)
	nf.Blocks = make([]*Block, len(f.Blocks))
	for i, b := range f.Blocks {
		stmts := make([]Statement, len(b.Stmts))
		for j, s := range b.Stmts {
			stmts[j] = cloneStmtTree(s, fnMap)
		}
		nf.Blocks[i] = &Block{
			ID:       b.ID,
			Name:     b.Name,
			Stmts:    stmts,
			Term:     cloneTermTree(b.Term, fnMap),
			Location: b.Location,
		}
	}
}

func cloneExprTree(e Expr, fnMap map[*Function]*Function) Expr {
	switch v := e.(type) {
	case nil:
		return nil
	case *ConstExpr:
		return &ConstExpr{Value: v.Value.Clone()}
	case *LocalRef:
		return &LocalRef{ID: v.ID, Type: v.Type}
	case *StateVarRef:
		return &StateVarRef{ID: v.ID, Type: v.Type}
	case *PropertyRead:
		return &PropertyRead{Instance: v.Instance, Property: v.Property, Type: v.Type}
	case *EndpointRead:
		return &EndpointRead{Instance: v.Instance, Endpoint: v.Endpoint, Index: cloneExprTree(v.Index, fnMap), Type: v.Type}
	case *Binary:
		return &Binary{Op: v.Op, Left: cloneExprTree(v.Left, fnMap), Right: cloneExprTree(v.Right, fnMap), Type: v.Type}
	case *Unary:
		return &Unary{Op: v.Op, Operand: cloneExprTree(v.Operand, fnMap), Type: v.Type}
	case *Cast:
		return &Cast{Operand: cloneExprTree(v.Operand, fnMap), Type: v.Type}
	case *Call:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = cloneExprTree(a, fnMap)
		}
		return &Call{Func: remapFunc(v.Func, fnMap), Args: args, Type: v.Type}
	case *Ternary:
		return &Ternary{Cond: cloneExprTree(v.Cond, fnMap), Then: cloneExprTree(v.Then, fnMap), Else: cloneExprTree(v.Else, fnMap), Type: v.Type}
	case *Aggregate:
		els := make([]Expr, len(v.Elements))
		for i, el := range v.Elements {
			els[i] = cloneExprTree(el, fnMap)
		}
		return &Aggregate{Type: v.Type, Elements: els}
	case *Index:
		return &Index{Base: cloneExprTree(v.Base, fnMap), Index: cloneExprTree(v.Index, fnMap), Type: v.Type}
	case *FieldRead:
		return &FieldRead{Base: cloneExprTree(v.Base, fnMap), Field: v.Field, Type: v.Type}
	case *Slice:
		return &Slice{Base: cloneExprTree(v.Base, fnMap), Low: cloneExprTree(v.Low, fnMap), High: cloneExprTree(v.High, fnMap), Type: v.Type}
	default:
		return e
	}
}

func remapFunc(f *Function, fnMap map[*Function]*Function) *Function {
	if nf, ok := fnMap[f]; ok {
		return nf
	}
	return f
}

func cloneStmtTree(s Statement, fnMap map[*Function]*Function) Statement {
	switch v := s.(type) {
	case *Assign:
		return &Assign{Target: v.Target, Value: cloneExprTree(v.Value, fnMap), Location: v.Location}
	case *StateVarAssign:
		return &StateVarAssign{Target: v.Target, Value: cloneExprTree(v.Value, fnMap), Location: v.Location}
	case *EndpointWrite:
		return &EndpointWrite{Instance: v.Instance, Endpoint: v.Endpoint, Index: cloneExprTree(v.Index, fnMap), Value: cloneExprTree(v.Value, fnMap), Location: v.Location}
	case *CallStmt:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = cloneExprTree(a, fnMap)
		}
		return &CallStmt{Func: remapFunc(v.Func, fnMap), Args: args, Location: v.Location}
	case *AdvanceClock:
		return &AdvanceClock{Location: v.Location}
	case *IndexAssign:
		return &IndexAssign{Base: cloneExprTree(v.Base, fnMap), Index: cloneExprTree(v.Index, fnMap), Value: cloneExprTree(v.Value, fnMap), Location: v.Location}
	case *FieldAssign:
		return &FieldAssign{Base: cloneExprTree(v.Base, fnMap), Field: v.Field, Value: cloneExprTree(v.Value, fnMap), Location: v.Location}
	default:
		return s
	}
}

func cloneTermTree(t Terminator, fnMap map[*Function]*Function) Terminator {
	switch v := t.(type) {
	case *Jump:
		return &Jump{Target: v.Target, Location: v.Location}
	case *Branch:
		return &Branch{Cond: cloneExprTree(v.Cond, fnMap), Then: v.Then, Else: v.Else, Location: v.Location}
	case *Return:
		return &Return{Value: cloneExprTree(v.Value, fnMap), Location: v.Location}
	case *Unreachable:
		return &Unreachable{Location: v.Location}
	default:
		return t
	}
}
