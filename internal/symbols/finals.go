package symbols

import (
	"github.com/funvibe/staticpy/internal/ast"
	"go.starlark.net/syntax"
)

// LexicalScope is the part of a lexical scope needed to decide whether a
// module constant is shadowed at a use site.
type LexicalScope interface {
	IsModule() bool
	Defines(name string) bool
}

// GetFinalLiteral returns the literal a Final constant was initialized
// with, for a read of the name in scope. A local definition of the same
// name in a non-module scope hides the constant.
func (t *ModuleTable) GetFinalLiteral(name *ast.Name, scope LexicalScope) (syntax.Expr, bool) {
	if name.Ctx != ast.Load {
		return nil, false
	}
	if !scope.IsModule() && scope.Defines(name.Ident.Name) {
		return nil, false
	}
	lit, ok := t.finalLiterals[name.Ident.Name]
	return lit, ok
}

// FinalLiterals returns a copy of the recorded Final constants.
func (t *ModuleTable) FinalLiterals() map[string]syntax.Expr {
	out := make(map[string]syntax.Expr, len(t.finalLiterals))
	for k, v := range t.finalLiterals {
		out[k] = v
	}
	return out
}

// FinalUse is a read of a Final constant that can be replaced by its
// literal.
type FinalUse struct {
	Name    *ast.Name
	Literal syntax.Expr
}
