// Package ast implements the closed AST variant set of C2 (spec.md §3):
// modules, declarations, statements, and expressions for the audio-DSL
// front end. The shape follows the teacher's HIR node interfaces
// (internal/hir/nodes.go's Node/Expr/Stmt/Decl with hirNode()/Loc()
// marker methods) rather than the teacher's general-purpose frontend AST,
// since the domain here is a closed variant set, not an extensible
// grammar.
package ast

import "signalcore/internal/source"

// Node is implemented by every AST node.
type Node interface {
	Loc() source.Location
	astNode()
}

// Decl is implemented by every top-level or module-level declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is implemented by every statement inside a function/block body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression. ExprKind starts as Unknown
// and narrows to Value, Type, Endpoint, or Processor once the resolver
// has classified it (spec.md §4.2's "an expression's kind is not known
// until resolution determines what it names").
type Expr interface {
	Node
	exprNode()
	Kind() ExprKind
	SetKind(ExprKind)
}

// ExprKind classifies what an expression ultimately names, once resolved.
type ExprKind int

const (
	Unknown ExprKind = iota
	Value
	TypeExpr
	Endpoint
	Processor
)

func (k ExprKind) String() string {
	switch k {
	case Value:
		return "value"
	case TypeExpr:
		return "type"
	case Endpoint:
		return "endpoint"
	case Processor:
		return "processor"
	default:
		return "unknown"
	}
}

// Header is embedded by every concrete node to supply Loc() and the
// mutable ExprKind slot for expressions that embed it directly.
type Header struct {
	Location source.Location
	kind     ExprKind
}

func (h *Header) Loc() source.Location { return h.Location }
func (h *Header) astNode()             {}
func (h *Header) Kind() ExprKind       { return h.kind }
func (h *Header) SetKind(k ExprKind)   { h.kind = k }
