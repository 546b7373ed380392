package symbols

import (
	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/config"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/typesystem"
	"go.starlark.net/syntax"
)

// ResolveName looks name up in this table, the enclosing tables and
// finally the builtins. It returns nil for unknown names.
func (t *ModuleTable) ResolveName(name string) typesystem.Value {
	for s := t; s != nil; s = s.outer {
		if v, ok := s.children[name]; ok {
			return v
		}
	}
	return t.ctx.Builtins[name]
}

// ResolveAnnotation resolves a type annotation to the class it denotes.
// Final and ClassVar are only accepted when isDeclaration is set, i.e. on
// the declared type of an assignment target. The result is inexact; float
// widens to float | int, and a union that is not optional degrades to the
// dynamic type. nil means the annotation is not statically understood.
func (t *ModuleTable) ResolveAnnotation(node syntax.Expr, isDeclaration bool) (*typesystem.Class, error) {
	t.requireBound("annotation")

	klass, err := t.resolveAnnotation(node, isDeclaration)
	if err != nil || klass == nil {
		return nil, err
	}
	if !isDeclaration && klass.IsQualifier() {
		name := config.FinalName
		if klass.Kind() == typesystem.KindClassVar {
			name = config.ClassVarName
		}
		return nil, diagnostics.Errorf(diagnostics.ErrS003,
			"%s annotation is only valid on a declaration", name)
	}

	klass = klass.InexactType()
	if klass == typesystem.FloatType {
		klass = typesystem.MakeUnion([]*typesystem.Class{typesystem.FloatType, typesystem.IntType}, t.ctx.Generics)
	}
	if klass.Kind() == typesystem.KindUnion &&
		klass != typesystem.UnionType && klass != typesystem.OptionalType &&
		klass.OptType() == nil {
		return typesystem.DynamicType, nil
	}
	return klass, nil
}

// ResolveType resolves a plain class reference such as a base class. It
// returns nil for anything that is not a class, including qualifiers.
func (t *ModuleTable) ResolveType(node syntax.Expr) (*typesystem.Class, error) {
	t.requireBound("type")

	v, err := t.resolve(node, false)
	if err != nil {
		return nil, err
	}
	klass, ok := v.(*typesystem.Class)
	if !ok || klass.IsQualifier() {
		return nil, nil
	}
	return klass, nil
}

func (t *ModuleTable) resolveAnnotation(node syntax.Expr, isDeclaration bool) (*typesystem.Class, error) {
	v, err := t.resolve(node, isDeclaration)
	if err != nil {
		return nil, err
	}
	klass, _ := v.(*typesystem.Class)
	return klass, nil
}

// resolve maps an expression to the value it names.
func (t *ModuleTable) resolve(node syntax.Expr, isDeclaration bool) (typesystem.Value, error) {
	switch n := node.(type) {
	case *syntax.ParenExpr:
		return t.resolve(n.X, isDeclaration)
	case *syntax.Ident:
		if n.Name == config.NoneTypeName {
			return typesystem.NoneType, nil
		}
		return t.ResolveName(n.Name), nil
	case *syntax.DotExpr:
		base, err := t.resolve(n.X, isDeclaration)
		if err != nil || base == nil {
			return nil, err
		}
		if err := t.bindAhead(base); err != nil {
			return nil, err
		}
		return typesystem.ResolveAttr(base, n.Name.Name), nil
	case *syntax.IndexExpr:
		return t.resolveSubscript(n)
	case *syntax.Literal:
		if n.Token == syntax.STRING {
			return t.resolveForwardRef(n)
		}
	case *syntax.BinaryExpr:
		if n.Op == syntax.PIPE {
			return t.resolveUnion(n)
		}
	}
	return nil, nil
}

// bindAhead binds a class of this file whose entry comes later in source
// order, so that its members are final when a dotted name reads them.
func (t *ModuleTable) bindAhead(v typesystem.Value) error {
	c, ok := v.(*typesystem.Class)
	if !ok {
		return nil
	}
	body, ok := c.Body.(*ModuleTable)
	if !ok || body.outer == nil || body.outer.phase != Bound || body.Filename != t.Filename {
		return nil
	}
	_, err := typesystem.FinishBind(c, body.outer)
	return err
}

// resolveBase resolves the subscripted part of X[...]. Qualifiers are
// valid here even outside a declaration.
func (t *ModuleTable) resolveBase(node syntax.Expr) (typesystem.Value, error) {
	c, err := t.ResolveAnnotation(node, true)
	return valueOf(c), err
}

func (t *ModuleTable) resolveSubscript(n *syntax.IndexExpr) (typesystem.Value, error) {
	base, err := t.resolveBase(n.X)
	if err != nil || base == nil {
		return nil, err
	}

	var elems []syntax.Expr
	if tuple, ok := ast.Unparen(n.Y).(*syntax.TupleExpr); ok {
		elems = tuple.List
	} else {
		elems = []syntax.Expr{n.Y}
	}
	args := make([]*typesystem.Class, len(elems))
	for i, e := range elems {
		arg, err := t.ResolveAnnotation(e, false)
		if err != nil {
			return nil, err
		}
		if arg == nil {
			arg = typesystem.DynamicType
		}
		args[i] = arg
	}

	if g := typesystem.MakeGenericType(base, args, t.ctx.Generics); g != nil {
		return g, nil
	}
	return base, nil
}

// resolveForwardRef parses a string annotation and resolves the result.
// Text that does not parse is not an annotation the binder understands.
// Qualifiers are never valid inside the string.
func (t *ModuleTable) resolveForwardRef(lit *syntax.Literal) (typesystem.Value, error) {
	text, ok := lit.Value.(string)
	if !ok {
		return nil, nil
	}
	expr, err := syntax.ParseExpr(t.Filename, text, 0)
	if err != nil {
		return nil, nil
	}
	c, err := t.ResolveAnnotation(expr, false)
	return valueOf(c), err
}

func (t *ModuleTable) resolveUnion(n *syntax.BinaryExpr) (typesystem.Value, error) {
	left, err := t.ResolveAnnotation(n.X, false)
	if err != nil || left == nil {
		return nil, err
	}
	right, err := t.ResolveAnnotation(n.Y, false)
	if err != nil || right == nil {
		return nil, err
	}
	return typesystem.MakeUnion([]*typesystem.Class{left, right}, t.ctx.Generics), nil
}
