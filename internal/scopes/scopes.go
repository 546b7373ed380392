// Package scopes computes the lexical scopes of a module: which names each
// module, class and function scope binds locally, and in which scope every
// identifier reference occurs.
package scopes

import (
	"sort"

	"github.com/funvibe/staticpy/internal/ast"
	"go.starlark.net/syntax"
)

type Kind int

const (
	ModuleScope Kind = iota
	ClassScope
	FunctionScope
)

func (k Kind) String() string {
	switch k {
	case ModuleScope:
		return "module"
	case ClassScope:
		return "class"
	case FunctionScope:
		return "function"
	}
	return "unknown"
}

// Scope is one lexical scope.
type Scope struct {
	Kind   Kind
	Name   string
	Parent *Scope
	names  map[string]bool
}

func newScope(kind Kind, name string, parent *Scope) *Scope {
	return &Scope{Kind: kind, Name: name, Parent: parent, names: make(map[string]bool)}
}

func (s *Scope) IsModule() bool { return s.Kind == ModuleScope }

// Defines reports whether name is bound in this scope itself.
func (s *Scope) Defines(name string) bool { return s.names[name] }

func (s *Scope) define(name string) { s.names[name] = true }

// Names returns the locally bound names, sorted.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Ref is an identifier reference and the scope it occurs in.
type Ref struct {
	Name  *ast.Name
	Scope *Scope
}

// Tree holds every scope of a module.
type Tree struct {
	Module *Scope
	byNode map[ast.Node]*Scope
	refs   []Ref
}

// ScopeOf returns the scope opened by a class or function definition.
func (t *Tree) ScopeOf(n ast.Node) (*Scope, bool) {
	s, ok := t.byNode[n]
	return s, ok
}

// Refs returns every identifier reference in source traversal order.
func (t *Tree) Refs() []Ref { return t.refs }

// Build computes the scope tree of mod.
func Build(mod *ast.Module) *Tree {
	tree := &Tree{
		Module: newScope(ModuleScope, mod.Name, nil),
		byNode: make(map[ast.Node]*Scope),
	}
	b := &builder{tree: tree, cur: tree.Module}
	b.Self = b
	mod.Accept(b)
	return tree
}

type builder struct {
	ast.BaseVisitor
	tree *Tree
	cur  *Scope
}

func (b *builder) push(kind Kind, node ast.Node, name string) func() {
	outer := b.cur
	b.cur = newScope(kind, name, outer)
	b.tree.byNode[node] = b.cur
	return func() { b.cur = outer }
}

func (b *builder) VisitName(n *ast.Name) {
	b.tree.refs = append(b.tree.refs, Ref{Name: n, Scope: b.cur})
}

func (b *builder) ref(id *syntax.Ident, ctx ast.ExprContext) {
	(&ast.Name{Ident: id, Ctx: ctx}).Accept(b)
}

func (b *builder) bindIdent(id *syntax.Ident) {
	b.cur.define(id.Name)
	b.ref(id, ast.Store)
}

func (b *builder) VisitClassDef(cd *ast.ClassDef) {
	b.loadAll(cd.Decorators)
	b.loadAll(cd.Bases)
	b.bindIdent(cd.Name)

	pop := b.push(ClassScope, cd, cd.Name.Name)
	defer pop()
	b.BaseVisitor.VisitClassDef(cd)
}

func (b *builder) VisitFunctionDef(fd *ast.FunctionDef) {
	b.loadAll(fd.Decorators)
	for _, p := range fd.Params {
		b.load(p.Annotation)
		b.load(p.Default)
	}
	b.load(fd.Returns)
	b.bindIdent(fd.Name)

	pop := b.push(FunctionScope, fd, fd.Name.Name)
	defer pop()
	for _, p := range fd.Params {
		b.bindIdent(p.Name)
	}
	b.BaseVisitor.VisitFunctionDef(fd)
}

func (b *builder) VisitAnnAssign(aa *ast.AnnAssign) {
	b.load(aa.Annotation)
	b.load(aa.Value)
	b.bindTarget(aa.Target)
}

func (b *builder) VisitAssign(as *ast.Assign) {
	b.load(as.Value)
	for _, target := range as.Targets {
		b.bindTarget(target)
	}
}

func (b *builder) VisitImport(im *ast.Import) {
	for _, alias := range im.Names {
		b.cur.define(alias.Bound(im.IsFrom()))
	}
}

func (b *builder) VisitSimpleStatement(ss *ast.SimpleStatement) {
	b.stmt(ss.Stmt)
}

func (b *builder) stmts(list []syntax.Stmt) {
	for _, s := range list {
		b.stmt(s)
	}
}

// stmt handles a host-language statement inside a declaration body. Nested
// def statements bind their name; their bodies are not scoped.
func (b *builder) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.AssignStmt:
		b.load(s.RHS)
		if s.Op != syntax.EQ {
			b.load(s.LHS)
		}
		b.bindTarget(s.LHS)
	case *syntax.ExprStmt:
		b.load(s.X)
	case *syntax.ReturnStmt:
		b.load(s.Result)
	case *syntax.IfStmt:
		b.load(s.Cond)
		b.stmts(s.True)
		b.stmts(s.False)
	case *syntax.ForStmt:
		b.load(s.X)
		b.bindTarget(s.Vars)
		b.stmts(s.Body)
	case *syntax.WhileStmt:
		b.load(s.Cond)
		b.stmts(s.Body)
	case *syntax.LoadStmt:
		for _, id := range s.To {
			b.bindIdent(id)
		}
	case *syntax.DefStmt:
		b.bindIdent(s.Name)
	}
}

func (b *builder) bindTarget(e syntax.Expr) {
	switch e := ast.Unparen(e).(type) {
	case *syntax.Ident:
		b.bindIdent(e)
	case *syntax.TupleExpr:
		for _, x := range e.List {
			b.bindTarget(x)
		}
	case *syntax.ListExpr:
		for _, x := range e.List {
			b.bindTarget(x)
		}
	default:
		b.load(e)
	}
}

func (b *builder) loadAll(list []syntax.Expr) {
	for _, e := range list {
		b.load(e)
	}
}

// load records every identifier read by e. Attribute names and keyword
// argument names are not references; comprehensions and lambdas open
// scopes of their own and are skipped.
func (b *builder) load(e syntax.Expr) {
	if e == nil {
		return
	}
	syntax.Walk(e, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Ident:
			b.ref(n, ast.Load)
		case *syntax.DotExpr:
			b.load(n.X)
			return false
		case *syntax.CallExpr:
			b.load(n.Fn)
			for _, arg := range n.Args {
				if kw, ok := arg.(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
					b.load(kw.Y)
					continue
				}
				b.load(arg)
			}
			return false
		case *syntax.LambdaExpr, *syntax.Comprehension:
			return false
		}
		return true
	})
}
