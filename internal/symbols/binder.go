package symbols

import (
	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/typesystem"
	"go.starlark.net/syntax"
)

// FinishBind is the second pass. It finalizes every pending declaration in
// the order it was recorded and commits the results. The first error stops
// the pass; the pending list is cleared either way.
func (t *ModuleTable) FinishBind() error {
	t.phase = Bound
	defer func() { t.decls = nil }()

	for _, d := range t.decls {
		d := d
		err := t.ctx.Sink.WithContext(t.Filename, d.node, func() error {
			return t.bindDeclaration(d)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *ModuleTable) bindDeclaration(d declaration) error {
	if d.value != nil && !t.finished[d.value] && !t.superseded(d) {
		t.finished[d.value] = true
		res, err := typesystem.FinishBind(d.value, t)
		if err != nil {
			return err
		}
		switch res.Outcome {
		case typesystem.Replaced:
			t.bind(d.name, res.Value)
		case typesystem.Removed:
			t.bind(d.name, nil)
		}
	}
	if aa, ok := d.node.(*ast.AnnAssign); ok {
		return t.bindAnnAssign(aa)
	}
	return nil
}

// superseded reports whether d is a single function that was later merged
// into the overload group now bound under its name. The group entry
// finalizes it.
func (t *ModuleTable) superseded(d declaration) bool {
	fn, ok := d.value.(*typesystem.Function)
	if !ok {
		return false
	}
	g, ok := t.children[d.name].(*typesystem.FunctionGroup)
	return ok && g.Contains(fn)
}

func (t *ModuleTable) bindAnnAssign(node *ast.AnnAssign) error {
	typ, err := t.ResolveAnnotation(node.Annotation, true)
	if err != nil {
		return err
	}
	if typ == nil {
		typ = typesystem.DynamicType
	}
	target, isName := node.TargetName()

	var inst typesystem.Value = typ.Instance()
	switch typ.Kind() {
	case typesystem.KindClassVar:
		if t.scopeType != ScopeClass {
			return diagnostics.NewError(diagnostics.ErrS003,
				"ClassVar is allowed only in class attribute annotations")
		}
	case typesystem.KindFinal:
		if node.Value == nil {
			return diagnostics.NewError(diagnostics.ErrS002,
				"Must assign a value when declaring a Final")
		}
		inner := typ.Unwrap()
		if inner == typesystem.DynamicType {
			if ref, ok := ast.Unparen(node.Value).(*syntax.Ident); ok {
				if v, ok := t.children[ref.Name]; ok {
					inst = v
				}
			}
		}
		if isName && !inner.IsCType() && ast.IsConstant(node.Value) {
			t.finalLiterals[target.Name] = ast.Unparen(node.Value)
		}
	}

	if isName {
		t.bind(target.Name, inst)
	}
	return nil
}
