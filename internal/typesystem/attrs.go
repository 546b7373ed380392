package typesystem

import "go.starlark.net/syntax"

// ResolveAttr returns the member name of v, or nil if v has no such
// statically known member.
func ResolveAttr(v Value, name string) Value {
	switch v := v.(type) {
	case *Module:
		return v.Members[name]
	case *Class:
		return v.Lookup(name)
	case *Object:
		return v.Class.Lookup(name)
	}
	return nil
}

// DecorateFunction applies decorator to fn. node is the decorator
// expression. A nil result means the decorated value is not statically
// known.
func DecorateFunction(decorator, fn Value, node syntax.Expr) Value {
	switch d := decorator.(type) {
	case *Class:
		if d.decorates != nil {
			return d.decorates(fn, node)
		}
	case *Object:
		if d.Class.instanceDecorates != nil {
			return d.Class.instanceDecorates(fn, node)
		}
	case *Builtin:
		if d.Decorate != nil {
			return d.Decorate(fn, node)
		}
	}
	return nil
}

// InstanceOf returns the instance value of a class, or nil for other values.
func InstanceOf(v Value) Value {
	if c, ok := v.(*Class); ok {
		return c.Instance()
	}
	return nil
}

// ReturnType returns the declared return type of a callable value, or nil
// if v is not a statically known callable.
func ReturnType(v Value) (*Class, error) {
	switch v := v.(type) {
	case *Function:
		return v.ReturnType()
	case *Method:
		return v.Function.ReturnType()
	case *Builtin:
		return v.Returns, nil
	}
	return nil, nil
}

// CallResult returns the value produced by calling v, used when a call
// expression appears as a decorator. ok is false when v is not callable
// in a statically known way.
func CallResult(v Value) (result Value, ok bool, err error) {
	if inst := InstanceOf(v); inst != nil {
		return inst, true, nil
	}
	ret, err := ReturnType(v)
	if err != nil || ret == nil {
		return nil, false, err
	}
	return ret.Instance(), true, nil
}
