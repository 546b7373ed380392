// Package typesystem defines the resolved type values produced by the
// static binder: classes (including unions, qualifiers and generic
// instantiations), instances, functions, overload groups, method wrappers
// and modules.
//
// Value is a closed sum type. Behaviour that varies by variant lives in
// package-level functions (FinishBind, ResolveAttr, MakeGenericType,
// DecorateFunction, ...) that switch over the concrete types.
package typesystem

import (
	"github.com/funvibe/staticpy/internal/ast"
	"go.starlark.net/syntax"
)

// Kind is the variant tag of a Value.
type Kind int

const (
	KindClass Kind = iota
	KindDynamic
	KindCType
	KindUnion
	KindFinal
	KindClassVar
	KindObject
	KindFunction
	KindFunctionGroup
	KindMethod
	KindBuiltin
	KindModule
	KindUnknownDecorated
)

var kindNames = [...]string{
	KindClass:            "class",
	KindDynamic:          "dynamic",
	KindCType:            "ctype",
	KindUnion:            "union",
	KindFinal:            "final",
	KindClassVar:         "classvar",
	KindObject:           "object",
	KindFunction:         "function",
	KindFunctionGroup:    "function group",
	KindMethod:           "method",
	KindBuiltin:          "builtin",
	KindModule:           "module",
	KindUnknownDecorated: "unknown decorated method",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a resolved static value.
type Value interface {
	Kind() Kind
	String() string
	value()
}

func (*Class) value()                  {}
func (*Object) value()                 {}
func (*Function) value()               {}
func (*FunctionGroup) value()          {}
func (*Method) value()                 {}
func (*Builtin) value()                {}
func (*Module) value()                 {}
func (*UnknownDecoratedMethod) value() {}

// Scope is what a value needs from its owning symbol table while it is
// being finalized after collection. *symbols.ModuleTable implements it.
type Scope interface {
	ResolveAnnotation(e syntax.Expr, isDeclaration bool) (*Class, error)
	ResolveType(e syntax.Expr) (*Class, error)
	FinishDecorator(def *ast.FunctionDef, fn *Function) (Value, error)
}

// Body is a nested declaration scope (a class body) bound together with
// its owner. Lookup sees declarations before the body is bound.
type Body interface {
	FinishBind() error
	Children() map[string]Value
	Lookup(name string) (Value, bool)
}
