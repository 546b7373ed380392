package compiler

import (
	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/scopes"
	"github.com/funvibe/staticpy/internal/symbols"
)

// FinalUses lists every read in the module that GetFinalLiteral resolves
// to a literal, in traversal order.
func FinalUses(table *symbols.ModuleTable, tree *scopes.Tree) []symbols.FinalUse {
	var uses []symbols.FinalUse
	for _, ref := range tree.Refs() {
		if ref.Name.Ctx != ast.Load {
			continue
		}
		if lit, ok := table.GetFinalLiteral(ref.Name, ref.Scope); ok {
			uses = append(uses, symbols.FinalUse{Name: ref.Name, Literal: lit})
		}
	}
	return uses
}
