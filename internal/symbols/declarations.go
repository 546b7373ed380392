package symbols

import (
	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/typesystem"
)

// DeclareClass records a class statement and binds the class right away so
// declarations later in the same pass can refer to it.
func (t *ModuleTable) DeclareClass(node *ast.ClassDef, klass *typesystem.Class) {
	name := node.Name.Name
	t.decls = append(t.decls, declaration{node: node, name: name, value: klass})
	t.children[name] = klass
}

// DeclareFunction records a def statement. Repeated definitions of a name
// merge into one FunctionGroup in source order.
func (t *ModuleTable) DeclareFunction(node *ast.FunctionDef, fn *typesystem.Function) error {
	name := node.Name.Name
	return t.ctx.Sink.WithContext(t.Filename, node, func() error {
		var value typesystem.Value = fn
		switch existing := t.children[name].(type) {
		case nil:
		case *typesystem.Function:
			value = typesystem.NewFunctionGroup(name, existing, fn)
		case *typesystem.FunctionGroup:
			existing.Functions = append(existing.Functions, fn)
			value = existing
		default:
			return diagnostics.Errorf(diagnostics.ErrS001,
				"function conflicts with other member %s in %s", name, t.Name)
		}
		t.decls = append(t.decls, declaration{node: node, name: name, value: value})
		t.children[name] = value
		return nil
	})
}

// DeclareVariable records an annotated assignment. Its annotation is
// resolved by FinishBind.
func (t *ModuleTable) DeclareVariable(node *ast.AnnAssign) {
	t.decls = append(t.decls, declaration{node: node})
}

// DeclareVariables is called for plain assignments, which declare nothing.
func (t *ModuleTable) DeclareVariables(node *ast.Assign) {}

// DeclareImport binds an imported name. Imports are visible to the whole
// first pass.
func (t *ModuleTable) DeclareImport(name string, v typesystem.Value) {
	t.bind(name, v)
}
