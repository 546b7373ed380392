// Package ast holds the declaration-level syntax tree of a host-language
// module. Expressions are go.starlark.net/syntax nodes; this package adds
// the statement forms the static binder cares about (classes, functions,
// annotated assignments, imports).
package ast

import (
	"go.starlark.net/syntax"
)

// Node is the base interface for all AST nodes.
// Pointer identity is stable and nodes are used as cache keys.
type Node interface {
	Span() (start, end syntax.Position)
	Accept(v Visitor)
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Start returns the start position of the node.
func Start(n Node) syntax.Position {
	start, _ := n.Span()
	return start
}

// Module is the root node of every declaration tree.
type Module struct {
	Name string // dotted module name, e.g. "pkg.mod"
	File string // source file path
	Body []Statement
}

func (m *Module) Accept(v Visitor) { v.VisitModule(m) }
func (m *Module) Span() (start, end syntax.Position) {
	if len(m.Body) == 0 {
		return
	}
	start, _ = m.Body[0].Span()
	_, end = m.Body[len(m.Body)-1].Span()
	return start, end
}

// ExprContext tells whether a name reference reads, writes or deletes.
type ExprContext int

const (
	Load ExprContext = iota
	Store
	Del
)

func (c ExprContext) String() string {
	switch c {
	case Load:
		return "load"
	case Store:
		return "store"
	case Del:
		return "del"
	default:
		return "unknown"
	}
}

// Name is a reference to an identifier together with its usage context.
// syntax.Ident carries no context, so use sites wrap it.
type Name struct {
	Ident *syntax.Ident
	Ctx   ExprContext
}

func (n *Name) Accept(v Visitor) { v.VisitName(n) }
func (n *Name) Span() (start, end syntax.Position) {
	return n.Ident.Span()
}

// IsConstant reports whether e is a literal constant: a string, bytes or
// numeric literal, or one of the None/True/False singletons.
func IsConstant(e syntax.Expr) bool {
	switch e := e.(type) {
	case *syntax.Literal:
		return true
	case *syntax.Ident:
		return e.Name == "None" || e.Name == "True" || e.Name == "False"
	case *syntax.ParenExpr:
		return IsConstant(e.X)
	}
	return false
}

// Unparen strips any number of enclosing parentheses.
func Unparen(e syntax.Expr) syntax.Expr {
	for {
		p, ok := e.(*syntax.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
