package typesystem

import (
	"strings"
	"sync"

	"github.com/funvibe/staticpy/internal/ast"
)

// FuncParam is a parameter with its resolved annotation.
type FuncParam struct {
	Name string
	Type *Class
	Star int
}

// Function is a plain function or method declaration.
type Function struct {
	Name   string
	Module string
	Node   *ast.FunctionDef

	// Owner is the table the function was declared in. Annotations on the
	// function resolve there.
	Owner Scope

	Params []FuncParam

	Final  bool // @typing.final
	Inline bool // @__static__.inline

	retOnce sync.Once
	ret     *Class
	retErr  error

	finished bool
	result   BindResult
}

func NewFunction(node *ast.FunctionDef, module string, owner Scope) *Function {
	return &Function{
		Name:   node.Name.Name,
		Module: module,
		Node:   node,
		Owner:  owner,
	}
}

func (f *Function) Kind() Kind { return KindFunction }

func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString("def ")
	sb.WriteString(f.Name)
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strings.Repeat("*", p.Star))
		sb.WriteString(p.Name)
		if p.Type != nil {
			sb.WriteString(": ")
			sb.WriteString(p.Type.String())
		}
	}
	sb.WriteString(")")
	if f.ret != nil {
		sb.WriteString(" -> ")
		sb.WriteString(f.ret.String())
	}
	return sb.String()
}

// ReturnType resolves the return annotation in the owning table. It is
// computed once; a missing annotation is the dynamic type.
func (f *Function) ReturnType() (*Class, error) {
	f.retOnce.Do(func() {
		if f.Node == nil || f.Node.Returns == nil || f.Owner == nil {
			f.ret = DynamicType
			return
		}
		ret, err := f.Owner.ResolveAnnotation(f.Node.Returns, false)
		if err != nil {
			f.retErr = err
			return
		}
		if ret == nil {
			ret = DynamicType
		}
		f.ret = ret
	})
	return f.ret, f.retErr
}

func (f *Function) finishBind(scope Scope) (BindResult, error) {
	if f.finished {
		return f.result, nil
	}
	if f.Owner == nil {
		f.Owner = scope
	}
	if f.Node != nil {
		f.Params = f.Params[:0]
		for _, p := range f.Node.Params {
			fp := FuncParam{Name: p.Name.Name, Star: p.Star, Type: DynamicType}
			if p.Annotation != nil {
				t, err := f.Owner.ResolveAnnotation(p.Annotation, false)
				if err != nil {
					return BindResult{}, err
				}
				if t != nil {
					fp.Type = t
				}
			}
			f.Params = append(f.Params, fp)
		}
	}
	if _, err := f.ReturnType(); err != nil {
		return BindResult{}, err
	}
	if f.Node == nil {
		f.finished, f.result = true, unchanged
		return f.result, nil
	}
	v, err := f.Owner.FinishDecorator(f.Node, f)
	if err != nil {
		return BindResult{}, err
	}
	switch {
	case v == nil:
		f.result = removed
	case v == Value(f):
		f.result = unchanged
	default:
		f.result = replacedBy(v)
	}
	f.finished = true
	return f.result, nil
}

// FunctionGroup is a run of same-named function declarations in one scope.
type FunctionGroup struct {
	Name      string
	Functions []Value
}

func NewFunctionGroup(name string, fns ...Value) *FunctionGroup {
	return &FunctionGroup{Name: name, Functions: fns}
}

func (g *FunctionGroup) Kind() Kind { return KindFunctionGroup }

func (g *FunctionGroup) String() string {
	parts := make([]string, len(g.Functions))
	for i, fn := range g.Functions {
		parts[i] = fn.String()
	}
	return "overloads " + g.Name + " {" + strings.Join(parts, "; ") + "}"
}

// Contains reports whether fn is one of the group's members.
func (g *FunctionGroup) Contains(fn Value) bool {
	for _, m := range g.Functions {
		if m == fn {
			return true
		}
	}
	return false
}

func (g *FunctionGroup) finishBind(scope Scope) (BindResult, error) {
	kept := make([]Value, 0, len(g.Functions))
	for _, m := range g.Functions {
		res, err := FinishBind(m, scope)
		if err != nil {
			return BindResult{}, err
		}
		switch res.Outcome {
		case Unchanged:
			kept = append(kept, m)
		case Replaced:
			kept = append(kept, res.Value)
		}
	}
	g.Functions = kept
	switch len(kept) {
	case 0:
		return removed, nil
	case 1:
		return replacedBy(kept[0]), nil
	}
	return unchanged, nil
}

// MethodKind tells which builtin wrapper produced a Method.
type MethodKind int

const (
	StaticMethod MethodKind = iota
	ClassMethod
	Property
)

var methodKindNames = [...]string{
	StaticMethod: "staticmethod",
	ClassMethod:  "classmethod",
	Property:     "property",
}

func (k MethodKind) String() string { return methodKindNames[k] }

// Method is a function wrapped by staticmethod, classmethod or property.
type Method struct {
	Function *Function
	Wrapper  MethodKind
}

func (m *Method) Kind() Kind     { return KindMethod }
func (m *Method) String() string { return m.Wrapper.String() + " " + m.Function.String() }

// Builtin is a builtin callable. Decorate is set for callables usable as
// decorators; Returns is the class of a call's result.
type Builtin struct {
	Name     string
	Module   string
	Returns  *Class
	Decorate DecorateFunc
}

func (b *Builtin) Kind() Kind     { return KindBuiltin }
func (b *Builtin) String() string { return b.Module + "." + b.Name }

// Module is an imported module namespace.
type Module struct {
	Name    string
	Members map[string]Value
}

func (m *Module) Kind() Kind     { return KindModule }
func (m *Module) String() string { return "module " + m.Name }

// UnknownDecoratedMethod records a function whose decorator chain has no
// static representation.
type UnknownDecoratedMethod struct {
	Function *Function
}

func (u *UnknownDecoratedMethod) Kind() Kind { return KindUnknownDecorated }
func (u *UnknownDecoratedMethod) String() string {
	return "unknown decorated " + u.Function.Name
}
