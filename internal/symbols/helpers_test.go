package symbols

import (
	"testing"

	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/typesystem"
	"go.starlark.net/syntax"
)

func newTable() *ModuleTable {
	return NewModuleTable("m", "m.py", NewContext())
}

func boundTable(t *testing.T) *ModuleTable {
	t.Helper()
	tb := newTable()
	if err := tb.FinishBind(); err != nil {
		t.Fatalf("FinishBind: %v", err)
	}
	return tb
}

func parse(t *testing.T, src string) syntax.Expr {
	t.Helper()
	e, err := syntax.ParseExpr("m.py", src, 0)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return e
}

func ident(t *testing.T, name string) *syntax.Ident {
	t.Helper()
	return parse(t, name).(*syntax.Ident)
}

func parseAll(t *testing.T, srcs []string) []syntax.Expr {
	t.Helper()
	var out []syntax.Expr
	for _, s := range srcs {
		out = append(out, parse(t, s))
	}
	return out
}

func declareClass(t *testing.T, tb *ModuleTable, name string, bases ...string) (*typesystem.Class, *ModuleTable) {
	t.Helper()
	id := ident(t, name)
	node := &ast.ClassDef{ClassPos: id.NamePos, Name: id, Bases: parseAll(t, bases)}
	body := NewEnclosedTable(tb, tb.Name+"."+name, ScopeClass)
	klass := typesystem.NewUserClass(node, tb.Name, body)
	tb.DeclareClass(node, klass)
	return klass, body
}

func defNode(t *testing.T, name, returns string, decorators ...string) *ast.FunctionDef {
	t.Helper()
	id := ident(t, name)
	node := &ast.FunctionDef{DefPos: id.NamePos, Name: id, Decorators: parseAll(t, decorators)}
	if returns != "" {
		node.Returns = parse(t, returns)
	}
	return node
}

func declareDef(t *testing.T, tb *ModuleTable, name, returns string, decorators ...string) *typesystem.Function {
	t.Helper()
	node := defNode(t, name, returns, decorators...)
	fn := typesystem.NewFunction(node, tb.Name, tb)
	if err := tb.DeclareFunction(node, fn); err != nil {
		t.Fatalf("DeclareFunction(%s): %v", name, err)
	}
	return fn
}

func declareVar(t *testing.T, tb *ModuleTable, target, annotation, value string) *ast.AnnAssign {
	t.Helper()
	node := &ast.AnnAssign{Target: parse(t, target), Annotation: parse(t, annotation)}
	if value != "" {
		node.Value = parse(t, value)
	}
	tb.DeclareVariable(node)
	return node
}

func resolve(t *testing.T, tb *ModuleTable, src string) *typesystem.Class {
	t.Helper()
	c, err := tb.ResolveAnnotation(parse(t, src), false)
	if err != nil {
		t.Fatalf("ResolveAnnotation(%s): %v", src, err)
	}
	return c
}

func finishBind(t *testing.T, tb *ModuleTable) {
	t.Helper()
	if err := tb.FinishBind(); err != nil {
		t.Fatalf("FinishBind: %v", err)
	}
	if tb.Pending() != 0 {
		t.Fatalf("%d declarations left pending", tb.Pending())
	}
}

func expectCode(t *testing.T, err error, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	de, ok := diagnostics.AsDiagnostic(err)
	if !ok || de.Code != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
	return de
}

func expectContractViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if _, ok := recover().(*diagnostics.ContractViolation); !ok {
			t.Errorf("expected a contract violation")
		}
	}()
	fn()
}

type fakeScope struct {
	module  bool
	defines map[string]bool
}

func (s fakeScope) IsModule() bool           { return s.module }
func (s fakeScope) Defines(name string) bool { return s.defines[name] }
