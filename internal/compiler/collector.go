package compiler

import (
	"strings"

	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/symbols"
	"github.com/funvibe/staticpy/internal/typesystem"
)

// Collect runs the first pass over mod and returns its table, ready for
// Bind. Class bodies get nested tables; function bodies are not collected.
// The first declaration error stops collection.
func (c *Compiler) Collect(mod *ast.Module, flags ...symbols.ModuleFlag) (*symbols.ModuleTable, error) {
	table := symbols.NewModuleTable(mod.Name, mod.File, c.Context, flags...)
	table.SetFlag(c.flags)

	col := &collector{c: c, module: mod.Name, table: table}
	col.Self = col
	mod.Accept(col)
	if col.err != nil {
		return nil, col.err
	}
	c.logf("collected %s: %d pending declarations", mod.Name, table.Pending())
	return table, nil
}

type collector struct {
	ast.BaseVisitor
	c      *Compiler
	module string
	table  *symbols.ModuleTable
	err    error
}

func (col *collector) VisitModule(m *ast.Module) {
	for _, s := range m.Body {
		if col.err != nil {
			return
		}
		s.Accept(col)
	}
}

func (col *collector) VisitClassDef(cd *ast.ClassDef) {
	outer := col.table
	body := symbols.NewEnclosedTable(outer, outer.Name+"."+cd.Name.Name, symbols.ScopeClass)
	outer.DeclareClass(cd, typesystem.NewUserClass(cd, col.module, body))

	col.table = body
	defer func() { col.table = outer }()
	for _, s := range cd.Body {
		if col.err != nil {
			return
		}
		s.Accept(col)
	}
}

func (col *collector) VisitFunctionDef(fd *ast.FunctionDef) {
	fn := typesystem.NewFunction(fd, col.module, col.table)
	if err := col.table.DeclareFunction(fd, fn); err != nil {
		col.err = err
	}
}

func (col *collector) VisitAnnAssign(aa *ast.AnnAssign) { col.table.DeclareVariable(aa) }
func (col *collector) VisitAssign(as *ast.Assign)       { col.table.DeclareVariables(as) }

func (col *collector) VisitImport(im *ast.Import) {
	for _, alias := range im.Names {
		col.table.DeclareImport(alias.Bound(im.IsFrom()), col.c.importValue(im, alias))
	}
}

// importValue is the value an import binds. Names from unknown modules are
// dynamic.
func (c *Compiler) importValue(im *ast.Import, alias ast.Alias) typesystem.Value {
	if im.IsFrom() {
		if m := c.module(im.Module); m != nil {
			if v, ok := m.Members[alias.Name]; ok {
				return v
			}
		}
		return typesystem.DynamicType
	}
	name := alias.Name
	if alias.AsName == "" {
		name, _, _ = strings.Cut(name, ".")
	}
	if m := c.module(name); m != nil {
		return m
	}
	return typesystem.DynamicType
}
