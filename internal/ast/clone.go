package ast

// CloneFunction produces an independent deep copy of fn, used to give
// each generic specialization its own AST to resolve and narrow
// (spec.md §4.2: "two distinct specialized functions" must not alias
// each other's resolved ExprKind/Resolved fields).
func CloneFunction(fn *FunctionDecl) *FunctionDecl {
	if fn == nil {
		return nil
	}
	c := *fn
	c.Params = make([]*Param, len(fn.Params))
	for i, p := range fn.Params {
		cp := *p
		cp.Type = cloneExpr(p.Type)
		c.Params[i] = &cp
	}
	c.ReturnType = cloneExpr(fn.ReturnType)
	c.Body = cloneBlock(fn.Body)
	c.Scope = nil
	c.OriginalGenericFunction = fn
	return &c
}

// CloneProcessor produces an independent deep copy of p.
func CloneProcessor(p *ProcessorDecl) *ProcessorDecl {
	if p == nil {
		return nil
	}
	c := *p
	c.Endpoints = make([]*EndpointDecl, len(p.Endpoints))
	for i, e := range p.Endpoints {
		ce := *e
		ce.DataTypes = cloneExprList(e.DataTypes)
		ce.ArraySize = cloneExpr(e.ArraySize)
		c.Endpoints[i] = &ce
	}
	c.StateVars = make([]*StateVarDecl, len(p.StateVars))
	for i, s := range p.StateVars {
		cs := *s
		cs.Type = cloneExpr(s.Type)
		cs.Init = cloneExpr(s.Init)
		c.StateVars[i] = &cs
	}
	c.Functions = make([]*FunctionDecl, len(p.Functions))
	for i, f := range p.Functions {
		c.Functions[i] = CloneFunction(f)
	}
	c.Scope = nil
	return &c
}

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	c := &Block{Header: b.Header, Scope: nil}
	c.Statements = make([]Stmt, len(b.Statements))
	for i, s := range b.Statements {
		c.Statements[i] = cloneStmt(s)
	}
	return c
}

func cloneStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	switch v := s.(type) {
	case *VariableDeclaration:
		c := *v
		c.Type = cloneExpr(v.Type)
		c.Init = cloneExpr(v.Init)
		return &c
	case *If:
		c := *v
		c.Condition = cloneExpr(v.Condition)
		c.Then = cloneBlock(v.Then)
		c.Else = cloneStmt(v.Else)
		return &c
	case *Loop:
		c := *v
		c.Init = cloneStmt(v.Init)
		c.Condition = cloneExpr(v.Condition)
		c.Post = cloneStmt(v.Post)
		c.Body = cloneBlock(v.Body)
		return &c
	case *Return:
		c := *v
		c.Value = cloneExpr(v.Value)
		return &c
	case *Break:
		c := *v
		return &c
	case *Continue:
		c := *v
		return &c
	case *Noop:
		c := *v
		return &c
	case *ExprStmt:
		c := *v
		c.Value = cloneExpr(v.Value)
		return &c
	case *Block:
		return cloneBlock(v)
	default:
		return s
	}
}

func cloneExprList(es []Expr) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = cloneExpr(e)
	}
	return out
}

func cloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *Literal:
		c := *v
		return &c
	case *Identifier:
		c := *v
		c.Resolved = nil
		return &c
	case *QualifiedIdent:
		c := *v
		c.Resolved = nil
		return &c
	case *Binary:
		c := *v
		c.Left = cloneExpr(v.Left)
		c.Right = cloneExpr(v.Right)
		return &c
	case *Unary:
		c := *v
		c.Operand = cloneExpr(v.Operand)
		return &c
	case *Ternary:
		c := *v
		c.Condition = cloneExpr(v.Condition)
		c.Then = cloneExpr(v.Then)
		c.Else = cloneExpr(v.Else)
		return &c
	case *IncDec:
		c := *v
		c.Operand = cloneExpr(v.Operand)
		return &c
	case *Call:
		c := *v
		c.Callee = cloneExpr(v.Callee)
		c.Args = cloneExprList(v.Args)
		c.Resolved = nil
		return &c
	case *Cast:
		c := *v
		c.Target = cloneExpr(v.Target)
		c.Operand = cloneExpr(v.Operand)
		return &c
	case *Index:
		c := *v
		c.Base = cloneExpr(v.Base)
		c.Index = cloneExpr(v.Index)
		return &c
	case *Slice:
		c := *v
		c.Base = cloneExpr(v.Base)
		c.Low = cloneExpr(v.Low)
		c.High = cloneExpr(v.High)
		return &c
	case *Member:
		c := *v
		c.Base = cloneExpr(v.Base)
		return &c
	case *ChevronArgs:
		c := *v
		c.Base = cloneExpr(v.Base)
		c.Args = cloneExprList(v.Args)
		return &c
	case *MetaFunction:
		c := *v
		c.Operand = cloneExpr(v.Operand)
		return &c
	case *List:
		c := *v
		c.Elements = cloneExprList(v.Elements)
		return &c
	case *Write:
		c := *v
		c.Endpoint = cloneExpr(v.Endpoint)
		c.Value = cloneExpr(v.Value)
		return &c
	case *AdvanceClock:
		c := *v
		return &c
	case *StaticAssert:
		c := *v
		c.Condition = cloneExpr(v.Condition)
		c.Message = cloneExpr(v.Message)
		return &c
	case *ProcessorProperty:
		c := *v
		c.Instance = cloneExpr(v.Instance)
		return &c
	case *NamedTypeExpr:
		c := *v
		c.Name = cloneExpr(v.Name)
		c.Generics = cloneExprList(v.Generics)
		return &c
	case *ArrayTypeExpr:
		c := *v
		c.Elem = cloneExpr(v.Elem)
		c.Size = cloneExpr(v.Size)
		return &c
	case *VectorTypeExpr:
		c := *v
		c.Elem = cloneExpr(v.Elem)
		c.Width = cloneExpr(v.Width)
		return &c
	case *BoundedIntTypeExpr:
		c := *v
		c.Limit = cloneExpr(v.Limit)
		return &c
	default:
		return e
	}
}
