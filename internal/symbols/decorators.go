package symbols

import (
	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/typesystem"
	"go.starlark.net/syntax"
)

// ResolveDecorator resolves a decorator expression to the value that is
// applied to the function. For @factory(args) that is whatever the call
// produces: an instance of the class, or an instance of the factory's
// declared return type.
func (t *ModuleTable) ResolveDecorator(node syntax.Expr) (typesystem.Value, error) {
	t.requireBound("decorator")

	if call, ok := ast.Unparen(node).(*syntax.CallExpr); ok {
		target, err := t.resolve(call.Fn, false)
		if err != nil || target == nil {
			return nil, err
		}
		result, ok, err := typesystem.CallResult(target)
		if err != nil || !ok {
			return nil, err
		}
		return result, nil
	}
	return t.resolve(node, false)
}

// FinishDecorator applies the decorators of def to fn, innermost (closest
// to the def) first, and caches the result as the node type of def. If a
// decorator has no static result, the function is recorded as an unknown
// decorated method and nil is returned.
func (t *ModuleTable) FinishDecorator(def *ast.FunctionDef, fn *typesystem.Function) (typesystem.Value, error) {
	var res typesystem.Value = fn
	for i := len(def.Decorators) - 1; i >= 0; i-- {
		dec := def.Decorators[i]
		var decorator typesystem.Value
		err := t.ctx.Sink.WithContext(t.Filename, dec, func() error {
			var err error
			decorator, err = t.ResolveDecorator(dec)
			return err
		})
		if err != nil {
			return nil, err
		}
		if decorator == nil {
			decorator = typesystem.DynamicType
		}
		res = typesystem.DecorateFunction(decorator, res, dec)
		if res == nil {
			t.nodeTypes[def] = &typesystem.UnknownDecoratedMethod{Function: fn}
			return nil, nil
		}
	}
	t.nodeTypes[def] = res
	return res, nil
}
