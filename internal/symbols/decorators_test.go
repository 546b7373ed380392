package symbols

import (
	"testing"

	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/typesystem"
	"go.starlark.net/syntax"
)

// recordingDecorator returns a decorator class that logs its name into
// order and returns result(fn).
func recordingDecorator(name string, order *[]string, result func(typesystem.Value) typesystem.Value) *typesystem.Class {
	return typesystem.NewClass(name, "decorators", typesystem.WithDecorator(
		func(fn typesystem.Value, _ syntax.Expr) typesystem.Value {
			*order = append(*order, name)
			return result(fn)
		}))
}

func identity(fn typesystem.Value) typesystem.Value { return fn }

func TestDecoratorOrder(t *testing.T) {
	var order []string
	tb := newTable()
	tb.DeclareImport("outer", recordingDecorator("outer", &order, identity))
	tb.DeclareImport("inner", recordingDecorator("inner", &order, identity))
	fn := declareDef(t, tb, "f", "", "outer", "inner")
	finishBind(t, tb)

	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("applied in order %v, want [inner outer]", order)
	}
	if got, _ := tb.NodeType(fn.Node); got != fn {
		t.Errorf("node type = %v", got)
	}
	if tb.children["f"] != fn {
		t.Errorf("f = %v", tb.children["f"])
	}
}

func TestUnknownDecoratedMethod(t *testing.T) {
	var order []string
	tb := newTable()
	tb.DeclareImport("outer", recordingDecorator("outer", &order, identity))
	tb.DeclareImport("inner", recordingDecorator("inner", &order,
		func(typesystem.Value) typesystem.Value { return nil }))
	fn := declareDef(t, tb, "f", "", "outer", "inner")
	finishBind(t, tb)

	if len(order) != 1 || order[0] != "inner" {
		t.Errorf("applied %v, want only inner", order)
	}
	got, _ := tb.NodeType(fn.Node)
	if u, ok := got.(*typesystem.UnknownDecoratedMethod); !ok || u.Function != fn {
		t.Errorf("node type = %v", got)
	}
	if _, ok := tb.Lookup("f"); ok {
		t.Errorf("f must be removed from the table")
	}
}

func TestUnresolvedDecorator(t *testing.T) {
	tb := newTable()
	fn := declareDef(t, tb, "f", "", "missing")
	finishBind(t, tb)
	if got, _ := tb.NodeType(fn.Node); got == nil || got.Kind() != typesystem.KindUnknownDecorated {
		t.Errorf("node type = %v", got)
	}
}

// propertyWrapper returns a class whose instances turn functions into
// properties.
func propertyWrapper() *typesystem.Class {
	return typesystem.NewClass("Wrapper", "lib", typesystem.WithInstanceDecorator(
		func(fn typesystem.Value, _ syntax.Expr) typesystem.Value {
			return &typesystem.Method{Function: fn.(*typesystem.Function), Wrapper: typesystem.Property}
		}))
}

func TestDecoratorFactory(t *testing.T) {
	wrapper := propertyWrapper()
	tb := newTable()
	tb.DeclareImport("Wrapper", wrapper)
	declareDef(t, tb, "factory", "Wrapper")
	g := declareDef(t, tb, "g", "", "factory(1)")
	h := declareDef(t, tb, "h", "", "Wrapper()")
	finishBind(t, tb)

	for name, fn := range map[string]*typesystem.Function{"g": g, "h": h} {
		m, ok := tb.children[name].(*typesystem.Method)
		if !ok || m.Function != fn {
			t.Errorf("%s = %v", name, tb.children[name])
		}
	}

	dec, err := tb.ResolveDecorator(parse(t, "factory()"))
	if err != nil || dec != wrapper.Instance() {
		t.Errorf("ResolveDecorator(factory()) = %v, %v", dec, err)
	}
	dec, err = tb.ResolveDecorator(parse(t, "missing()"))
	if err != nil || dec != nil {
		t.Errorf("ResolveDecorator(missing()) = %v, %v", dec, err)
	}
}

func TestDecoratorFactoryOnLaterClass(t *testing.T) {
	tb := newTable()
	tb.DeclareImport("Wrapper", propertyWrapper())
	g := declareDef(t, tb, "g", "", "C.factory()")
	c, body := declareClass(t, tb, "C")
	declareDef(t, body, "factory", "Wrapper", "staticmethod")
	finishBind(t, tb)

	m, ok := tb.children["g"].(*typesystem.Method)
	if !ok || m.Function != g || m.Wrapper != typesystem.Property {
		t.Errorf("g = %v", tb.children["g"])
	}
	if _, ok := c.Members["factory"].(*typesystem.Method); !ok {
		t.Errorf("C.factory = %v", c.Members["factory"])
	}
}

func TestTypingDecorators(t *testing.T) {
	tb := newTable()
	typing := typesystem.VirtualModule("typing")
	tb.DeclareImport("typing", typing)
	tb.DeclareImport("overload", typing.Members["overload"])
	f1 := declareDef(t, tb, "f", "int", "overload")
	f2 := declareDef(t, tb, "f", "str", "overload")
	fin := declareDef(t, tb, "g", "", "typing.final")
	finishBind(t, tb)

	g, ok := tb.children["f"].(*typesystem.FunctionGroup)
	if !ok || len(g.Functions) != 2 || g.Functions[0] != f1 || g.Functions[1] != f2 {
		t.Errorf("f = %v", tb.children["f"])
	}
	if tb.children["g"] != fin || !fin.Final {
		t.Errorf("g = %v final=%v", tb.children["g"], fin.Final)
	}
}

func TestOverloadGroupCollapse(t *testing.T) {
	tb := newTable()
	declareDef(t, tb, "f", "", "missing")
	survivor := declareDef(t, tb, "f", "")
	declareDef(t, tb, "g", "", "missing")
	declareDef(t, tb, "g", "", "missing")
	finishBind(t, tb)

	if tb.children["f"] != survivor {
		t.Errorf("f = %v, want the single survivor", tb.children["f"])
	}
	if _, ok := tb.Lookup("g"); ok {
		t.Errorf("g has no representable member and must be removed")
	}
}

func TestDecoratorError(t *testing.T) {
	tb := newTable()
	tb.DeclareImport("Final", typesystem.FinalType)
	declareDef(t, tb, "f", "", "list[Final[int]]")
	de := expectCode(t, tb.FinishBind(), diagnostics.ErrS003)
	if de.File != "m.py" || !de.HasLocation() {
		t.Errorf("error not located: %v", de)
	}
}
