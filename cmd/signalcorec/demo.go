package main

import (
	"signalcore/internal/ast"
	"signalcore/internal/source"
)

// No tokeniser/parser exists in this module (spec.md §1 places that
// outside the compiler core's scope); demoNamespace plays the part an
// external parser would, building a *ast.Namespace by hand so the
// pipeline below has something to compile.
func demoNamespace() *ast.Namespace {
	loc := func() source.Location {
		return source.NewLocation("demo.sig", source.Position{Line: 1, Column: 1}, source.Position{Line: 1, Column: 1})
	}
	hdr := func() ast.Header { return ast.Header{Location: loc()} }
	namedType := func(name string) *ast.NamedTypeExpr {
		return &ast.NamedTypeExpr{Header: hdr(), Name: &ast.Identifier{Header: hdr(), Name: name}}
	}
	ident := func(name string) *ast.Identifier { return &ast.Identifier{Header: hdr(), Name: name} }

	// double(x) returns 2*x; exists purely so -repl has a free function
	// to look up via Program.FindFunction.
	double := &ast.FunctionDecl{
		Header:     hdr(),
		Name:       "double",
		Params:     []*ast.Param{{Header: hdr(), Name: "x", Type: namedType("f32")}},
		ReturnType: namedType("f32"),
		Body: &ast.Block{
			Header: hdr(),
			Statements: []ast.Stmt{
				&ast.Return{Header: hdr(), Value: &ast.Binary{
					Header: hdr(), Op: ast.Mul,
					Left:  ident("x"),
					Right: &ast.Literal{Header: hdr(), LitKind: ast.FloatLit, Float: 2},
				}},
			},
		},
	}

	osc := &ast.ProcessorDecl{
		Header: hdr(),
		Name:   "Osc",
		Endpoints: []*ast.EndpointDecl{
			{Header: hdr(), Name: "out", Direction: ast.Out, Flow: ast.Stream, DataTypes: []ast.TypeNode{namedType("f32")}},
		},
		StateVars: []*ast.StateVarDecl{
			{Header: hdr(), Name: "phase", Type: namedType("f32"), Init: &ast.Literal{Header: hdr(), LitKind: ast.FloatLit, Float: 0}},
			{Header: hdr(), Name: "tuning", Type: namedType("f32"), Init: &ast.Literal{Header: hdr(), LitKind: ast.FloatLit, Float: 440}, External: true},
		},
		Functions: []*ast.FunctionDecl{
			{
				Header:     hdr(),
				Name:       "run",
				ReturnType: namedType("void"),
				Body: &ast.Block{
					Header: hdr(),
					Statements: []ast.Stmt{
						&ast.ExprStmt{Header: hdr(), Value: &ast.Write{
							Header:   hdr(),
							Endpoint: ident("out"),
							Value:    &ast.Literal{Header: hdr(), LitKind: ast.FloatLit, Float: 0},
						}},
					},
				},
			},
		},
	}

	gain := &ast.ProcessorDecl{
		Header:      hdr(),
		Name:        "Gain",
		Annotations: []*ast.Annotation{{Header: hdr(), Name: "main"}},
		Endpoints: []*ast.EndpointDecl{
			{Header: hdr(), Name: "in", Direction: ast.In, Flow: ast.Stream, DataTypes: []ast.TypeNode{namedType("f32")}},
			{Header: hdr(), Name: "out", Direction: ast.Out, Flow: ast.Stream, DataTypes: []ast.TypeNode{namedType("f32")}},
		},
		StateVars: []*ast.StateVarDecl{
			{Header: hdr(), Name: "level", Type: namedType("f32"), Init: &ast.Literal{Header: hdr(), LitKind: ast.FloatLit, Float: 1}, External: true},
		},
		Functions: []*ast.FunctionDecl{
			{
				Header:     hdr(),
				Name:       "run",
				ReturnType: namedType("void"),
				Body: &ast.Block{
					Header: hdr(),
					Statements: []ast.Stmt{
						&ast.ExprStmt{Header: hdr(), Value: &ast.Write{
							Header:   hdr(),
							Endpoint: ident("out"),
							Value: &ast.Call{
								Header: hdr(),
								Callee: ident("double"),
								Args:   []ast.Expr{ident("in")},
							},
						}},
					},
				},
			},
		},
	}

	return &ast.Namespace{
		Header:     hdr(),
		Functions:  []*ast.FunctionDecl{double},
		Processors: []*ast.ProcessorDecl{osc, gain},
	}
}
