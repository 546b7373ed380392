package typesystem

import (
	"strings"
	"sync"

	"github.com/funvibe/staticpy/internal/ast"
	"go.starlark.net/syntax"
)

// DecorateFunc applies a decorator to the accumulated function value. It
// returns nil when the result has no static representation.
type DecorateFunc func(fn Value, node syntax.Expr) Value

// Class is every class-like value: ordinary and builtin classes, the
// dynamic class, primitive machine-numeric classes, unions, the Final and
// ClassVar qualifiers and generic instantiations of any of these. The
// flavour is the variant tag returned by Kind.
type Class struct {
	Name    string
	Module  string
	Bases   []*Class
	Members map[string]Value

	Node *ast.ClassDef // nil for builtins
	Body Body          // nested declaration scope, nil for builtins

	// Generic definitions: Arity type parameters, or any number if Variadic.
	Arity    int
	Variadic bool

	// Instantiations point back at their generic definition.
	Origin *Class
	Args   []*Class

	flavor            Kind
	exact             bool
	decorates         DecorateFunc
	instanceDecorates DecorateFunc

	twinOnce sync.Once
	twin     *Class
	instOnce sync.Once
	instance *Object

	finished bool
}

// ClassOption configures NewClass.
type ClassOption func(*Class)

func WithBases(bases ...*Class) ClassOption {
	return func(c *Class) { c.Bases = append(c.Bases, bases...) }
}

func WithArity(n int) ClassOption {
	return func(c *Class) { c.Arity = n }
}

func WithVariadic() ClassOption {
	return func(c *Class) { c.Variadic = true }
}

func WithFlavor(k Kind) ClassOption {
	return func(c *Class) { c.flavor = k }
}

func WithMembers(members map[string]Value) ClassOption {
	return func(c *Class) {
		for k, v := range members {
			c.Members[k] = v
		}
	}
}

// WithDecorator makes the class usable as a decorator (@cls).
func WithDecorator(fn DecorateFunc) ClassOption {
	return func(c *Class) { c.decorates = fn }
}

// WithInstanceDecorator makes instances of the class usable as decorators,
// as produced by decorator factories (@factory(args)).
func WithInstanceDecorator(fn DecorateFunc) ClassOption {
	return func(c *Class) { c.instanceDecorates = fn }
}

// NewClass creates an ordinary inexact class.
func NewClass(name, module string, opts ...ClassOption) *Class {
	c := &Class{
		Name:    name,
		Module:  module,
		Members: make(map[string]Value),
		flavor:  KindClass,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewUserClass creates the class value for a class statement.
func NewUserClass(node *ast.ClassDef, module string, body Body) *Class {
	c := NewClass(node.Name.Name, module)
	c.Node = node
	c.Body = body
	return c
}

func (c *Class) Kind() Kind { return c.flavor }

func (c *Class) String() string {
	var sb strings.Builder
	if c.exact {
		sb.WriteString("Exact[")
	}
	switch {
	case c.Origin == nil:
		sb.WriteString(c.Name)
	case c.flavor == KindUnion && c.OptType() != nil:
		sb.WriteString("Optional[")
		sb.WriteString(c.OptType().String())
		sb.WriteString("]")
	default:
		sb.WriteString(c.Origin.Name)
		sb.WriteString("[")
		for i, a := range c.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteString("]")
	}
	if c.exact {
		sb.WriteString("]")
	}
	return sb.String()
}

// QualifiedName returns module.Name for user and library classes.
func (c *Class) QualifiedName() string {
	if c.Module == "" || c.Module == "builtins" {
		return c.String()
	}
	return c.Module + "." + c.String()
}

// IsGeneric reports whether the class is an uninstantiated generic definition.
func (c *Class) IsGeneric() bool {
	return c.Origin == nil && (c.Arity > 0 || c.Variadic)
}

// IsExact reports whether the class denotes exactly this runtime type,
// excluding subclasses.
func (c *Class) IsExact() bool { return c.exact }

// IsCType reports whether the class is a primitive machine-numeric type.
func (c *Class) IsCType() bool { return c.flavor == KindCType }

// IsQualifier reports whether the class is a Final or ClassVar wrapper.
func (c *Class) IsQualifier() bool {
	return c.flavor == KindFinal || c.flavor == KindClassVar
}

func (c *Class) makeTwin() {
	c.twinOnce.Do(func() {
		t := &Class{
			Name:              c.Name,
			Module:            c.Module,
			Bases:             c.Bases,
			Members:           c.Members,
			Node:              c.Node,
			Body:              c.Body,
			Arity:             c.Arity,
			Variadic:          c.Variadic,
			Origin:            c.Origin,
			Args:              c.Args,
			flavor:            c.flavor,
			exact:             !c.exact,
			decorates:         c.decorates,
			instanceDecorates: c.instanceDecorates,
			twin:              c,
		}
		t.twinOnce.Do(func() {})
		c.twin = t
	})
}

// ExactType returns the exact counterpart of c.
func (c *Class) ExactType() *Class {
	if c.exact || c.flavor != KindClass {
		return c
	}
	c.makeTwin()
	return c.twin
}

// InexactType returns the class meaning "c or any subclass".
func (c *Class) InexactType() *Class {
	if !c.exact {
		return c
	}
	c.makeTwin()
	return c.twin
}

// Instance returns the value of an instance of c.
func (c *Class) Instance() *Object {
	c.instOnce.Do(func() {
		c.instance = &Object{Class: c}
	})
	return c.instance
}

// Unwrap returns the type inside a Final or ClassVar qualifier. A bare
// qualifier wraps the dynamic type. Other classes unwrap to themselves.
func (c *Class) Unwrap() *Class {
	if !c.IsQualifier() {
		return c
	}
	if len(c.Args) == 0 {
		return DynamicType
	}
	return c.Args[0]
}

// OptType returns T for a union of exactly T and None, else nil.
func (c *Class) OptType() *Class {
	if c.flavor != KindUnion || len(c.Args) != 2 {
		return nil
	}
	switch {
	case c.Args[0] == NoneType:
		return c.Args[1]
	case c.Args[1] == NoneType:
		return c.Args[0]
	}
	return nil
}

// IsSubclassOf reports whether c inherits from other (or is other).
func (c *Class) IsSubclassOf(other *Class) bool {
	c, other = c.InexactType(), other.InexactType()
	if c == other || other == ObjectType {
		return true
	}
	if c.Origin != nil {
		return c.Origin.IsSubclassOf(other)
	}
	for _, b := range c.Bases {
		if b.IsSubclassOf(other) {
			return true
		}
	}
	return false
}

func (c *Class) lookup(name string, seen map[*Class]bool) Value {
	if seen[c] {
		return nil
	}
	seen[c] = true
	if v, ok := c.Members[name]; ok {
		return v
	}
	// Members are filled when the body is bound.
	if c.Body != nil {
		if v, ok := c.Body.Lookup(name); ok {
			return v
		}
	}
	if c.Origin != nil {
		if v := c.Origin.lookup(name, seen); v != nil {
			return v
		}
	}
	for _, b := range c.Bases {
		if v := b.lookup(name, seen); v != nil {
			return v
		}
	}
	return nil
}

// Lookup finds a member on c or, depth-first, on its bases.
func (c *Class) Lookup(name string) Value {
	return c.lookup(name, make(map[*Class]bool))
}

func (c *Class) finishBind(scope Scope) (BindResult, error) {
	if c.finished {
		return unchanged, nil
	}
	c.finished = true
	if c.Node != nil {
		for _, base := range c.Node.Bases {
			b, err := scope.ResolveType(base)
			if err != nil {
				return BindResult{}, err
			}
			if b != nil && !b.IsGeneric() {
				c.Bases = append(c.Bases, b.InexactType())
			}
		}
	}
	if c.Body != nil {
		if err := c.Body.FinishBind(); err != nil {
			return BindResult{}, err
		}
		for name, v := range c.Body.Children() {
			c.Members[name] = v
		}
	}
	return unchanged, nil
}

// Object is an instance of a class.
type Object struct {
	Class *Class
}

func (o *Object) Kind() Kind     { return KindObject }
func (o *Object) String() string { return o.Class.String() }
