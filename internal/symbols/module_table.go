// Package symbols implements the per-scope declaration table of the static
// binder. A ModuleTable is filled in two passes: the collector declares
// classes, functions and annotated assignments in source order, then
// FinishBind resolves every pending declaration once all names are known.
package symbols

import (
	"github.com/funvibe/staticpy/internal/ast"
	"github.com/funvibe/staticpy/internal/diagnostics"
	"github.com/funvibe/staticpy/internal/typesystem"
	"go.starlark.net/syntax"
)

// ScopeType is the kind of scope a table covers.
type ScopeType int

const (
	ScopeModule ScopeType = iota // top level of a module
	ScopeClass                   // class body
	ScopeFunction
)

func (s ScopeType) String() string {
	switch s {
	case ScopeModule:
		return "module"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	}
	return "unknown"
}

// Phase is the binding state of a table. It only moves forward.
type Phase int

const (
	Collecting Phase = iota
	Bound
)

func (p Phase) String() string {
	if p == Bound {
		return "bound"
	}
	return "collecting"
}

// Context is the compiler-wide state every table reads: the builtins
// namespace, the generic instantiation cache and the diagnostic sink.
// Builtins is never written after construction; the cache and the sink
// synchronize themselves.
type Context struct {
	Builtins map[string]typesystem.Value
	Generics *typesystem.GenericCache
	Sink     *diagnostics.Sink
}

// NewContext returns a context with fresh builtins, cache and sink.
func NewContext() *Context {
	return &Context{
		Builtins: typesystem.Builtins(),
		Generics: typesystem.NewGenericCache(),
		Sink:     diagnostics.NewSink(),
	}
}

// declaration is one pending entry recorded during collection. name and
// value are empty for annotated assignments.
type declaration struct {
	node  ast.Node
	name  string
	value typesystem.Value
}

// ModuleTable is the symbol table of a module or of a nested class scope.
type ModuleTable struct {
	Name     string
	Filename string

	ctx       *Context
	outer     *ModuleTable
	scopeType ScopeType

	children      map[string]typesystem.Value
	nodeTypes     map[ast.Node]typesystem.Value // shared with nested tables
	decls         []declaration
	finalLiterals map[string]syntax.Expr
	flags         ModuleFlag
	phase         Phase

	finished map[typesystem.Value]bool
}

// NewModuleTable creates the table of a module in the collecting phase.
func NewModuleTable(name, filename string, ctx *Context, flags ...ModuleFlag) *ModuleTable {
	t := &ModuleTable{
		Name:          name,
		Filename:      filename,
		ctx:           ctx,
		scopeType:     ScopeModule,
		children:      make(map[string]typesystem.Value),
		nodeTypes:     make(map[ast.Node]typesystem.Value),
		finalLiterals: make(map[string]syntax.Expr),
		finished:      make(map[typesystem.Value]bool),
	}
	for _, f := range flags {
		t.SetFlag(f)
	}
	return t
}

// NewEnclosedTable creates the table of a scope nested in outer. Name
// lookups fall back to outer, and the node type cache is shared.
func NewEnclosedTable(outer *ModuleTable, name string, scopeType ScopeType) *ModuleTable {
	t := NewModuleTable(name, outer.Filename, outer.ctx)
	t.outer = outer
	t.scopeType = scopeType
	t.nodeTypes = outer.nodeTypes
	t.flags = outer.flags
	return t
}

// Outer returns the enclosing table, or nil for a module.
func (t *ModuleTable) Outer() *ModuleTable { return t.outer }

// ScopeType returns the kind of scope t covers.
func (t *ModuleTable) ScopeType() ScopeType { return t.scopeType }

// Phase returns the binding phase t is in.
func (t *ModuleTable) Phase() Phase { return t.phase }

// Context returns the compiler context shared by all tables.
func (t *ModuleTable) Context() *Context { return t.ctx }

// Children returns a snapshot of the committed bindings.
func (t *ModuleTable) Children() map[string]typesystem.Value {
	out := make(map[string]typesystem.Value, len(t.children))
	for k, v := range t.children {
		out[k] = v
	}
	return out
}

// Lookup returns the binding of name in this table only.
func (t *ModuleTable) Lookup(name string) (typesystem.Value, bool) {
	v, ok := t.children[name]
	return v, ok
}

// NodeType returns the cached value for a syntax node.
func (t *ModuleTable) NodeType(node ast.Node) (typesystem.Value, bool) {
	v, ok := t.nodeTypes[node]
	return v, ok
}

func (t *ModuleTable) SetNodeType(node ast.Node, v typesystem.Value) {
	t.nodeTypes[node] = v
}

// Pending returns the number of declarations waiting for FinishBind.
func (t *ModuleTable) Pending() int { return len(t.decls) }

// bind commits v under name; a nil value removes the name.
func (t *ModuleTable) bind(name string, v typesystem.Value) {
	if v == nil {
		delete(t.children, name)
		return
	}
	t.children[name] = v
}

func (t *ModuleTable) requireBound(what string) {
	diagnostics.Require(t.phase == Bound,
		"%s resolved in %s before its first pass completed", what, t.Name)
}

func valueOf(c *typesystem.Class) typesystem.Value {
	if c == nil {
		return nil
	}
	return c
}
