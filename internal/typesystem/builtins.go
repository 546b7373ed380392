package typesystem

import (
	"github.com/funvibe/staticpy/internal/config"
	"go.starlark.net/syntax"
)

const builtinsModule = "builtins"

// Canonical builtin classes. These are shared by every compilation.
var (
	DynamicType = NewClass(config.DynamicTypeName, builtinsModule, WithFlavor(KindDynamic))
	ObjectType  = NewClass(config.ObjectTypeName, builtinsModule)
	NoneType    = NewClass(config.NoneTypeName, builtinsModule, WithBases(ObjectType))

	IntType     = NewClass(config.IntTypeName, builtinsModule, WithBases(ObjectType))
	BoolType    = NewClass(config.BoolTypeName, builtinsModule, WithBases(IntType))
	FloatType   = NewClass(config.FloatTypeName, builtinsModule, WithBases(ObjectType))
	ComplexType = NewClass(config.ComplexTypeName, builtinsModule, WithBases(ObjectType))
	StrType     = NewClass(config.StrTypeName, builtinsModule, WithBases(ObjectType))
	BytesType   = NewClass(config.BytesTypeName, builtinsModule, WithBases(ObjectType))

	ListType  = NewClass(config.ListTypeName, builtinsModule, WithBases(ObjectType), WithArity(1))
	SetType   = NewClass(config.SetTypeName, builtinsModule, WithBases(ObjectType), WithArity(1))
	DictType  = NewClass(config.DictTypeName, builtinsModule, WithBases(ObjectType), WithArity(2))
	TupleType = NewClass(config.TupleTypeName, builtinsModule, WithBases(ObjectType), WithVariadic())
	TypeType  = NewClass(config.TypeTypeName, builtinsModule, WithBases(ObjectType), WithArity(1))

	UnionType    = NewClass(config.UnionName, config.TypingModule, WithFlavor(KindUnion), WithVariadic())
	OptionalType = NewClass(config.OptionalName, config.TypingModule, WithFlavor(KindUnion), WithArity(1))
	FinalType    = NewClass(config.FinalName, config.TypingModule, WithFlavor(KindFinal), WithArity(1))
	ClassVarType = NewClass(config.ClassVarName, config.TypingModule, WithFlavor(KindClassVar), WithArity(1))

	StaticMethodType = NewClass(config.StaticMethodName, builtinsModule,
		WithBases(ObjectType), WithDecorator(wrapMethod(StaticMethod)))
	ClassMethodType = NewClass(config.ClassMethodName, builtinsModule,
		WithBases(ObjectType), WithDecorator(wrapMethod(ClassMethod)))
	PropertyType = NewClass(config.PropertyName, builtinsModule,
		WithBases(ObjectType), WithDecorator(wrapMethod(Property)))
)

// Primitive machine-numeric classes of the __static__ module.
var (
	Int8Type   = newCType("int8")
	Int16Type  = newCType("int16")
	Int32Type  = newCType("int32")
	Int64Type  = newCType("int64")
	UInt8Type  = newCType("uint8")
	UInt16Type = newCType("uint16")
	UInt32Type = newCType("uint32")
	UInt64Type = newCType("uint64")
	DoubleType = newCType("double")
	CBoolType  = newCType("cbool")
)

// CTypes lists the primitive classes in declaration order.
var CTypes = []*Class{
	Int8Type, Int16Type, Int32Type, Int64Type,
	UInt8Type, UInt16Type, UInt32Type, UInt64Type,
	DoubleType, CBoolType,
}

func newCType(name string) *Class {
	return NewClass(name, config.StaticModule, WithFlavor(KindCType))
}

func wrapMethod(kind MethodKind) DecorateFunc {
	return func(fn Value, _ syntax.Expr) Value {
		if f, ok := fn.(*Function); ok {
			return &Method{Function: f, Wrapper: kind}
		}
		return nil
	}
}

// Builtin decorators of the typing and __static__ modules.
var (
	FinalDecorator = &Builtin{
		Name:   config.FinalDecorator,
		Module: config.TypingModule,
		Decorate: func(fn Value, _ syntax.Expr) Value {
			if f, ok := fn.(*Function); ok {
				f.Final = true
			}
			return fn
		},
	}
	OverloadDecorator = &Builtin{
		Name:     config.OverloadName,
		Module:   config.TypingModule,
		Decorate: func(fn Value, _ syntax.Expr) Value { return fn },
	}
	InlineDecorator = &Builtin{
		Name:   config.InlineName,
		Module: config.StaticModule,
		Decorate: func(fn Value, _ syntax.Expr) Value {
			f, ok := fn.(*Function)
			if !ok {
				return nil
			}
			f.Inline = true
			return f
		},
	}
)

// Builtins returns a fresh builtins namespace.
func Builtins() map[string]Value {
	m := map[string]Value{}
	for _, c := range []*Class{
		ObjectType, IntType, BoolType, FloatType, ComplexType, StrType, BytesType,
		ListType, SetType, DictType, TupleType, TypeType,
		StaticMethodType, ClassMethodType, PropertyType,
	} {
		m[c.Name] = c
	}
	return m
}

// VirtualModule returns the statically known contents of a library module,
// or nil if the module is not known.
func VirtualModule(name string) *Module {
	switch name {
	case config.TypingModule:
		return &Module{Name: name, Members: map[string]Value{
			config.FinalName:      FinalType,
			config.ClassVarName:   ClassVarType,
			config.OptionalName:   OptionalType,
			config.UnionName:      UnionType,
			config.AnyName:        DynamicType,
			"List":                ListType,
			"Dict":                DictType,
			"Tuple":               TupleType,
			"Set":                 SetType,
			"Type":                TypeType,
			config.FinalDecorator: FinalDecorator,
			config.OverloadName:   OverloadDecorator,
		}}
	case config.StaticModule:
		members := map[string]Value{config.InlineName: InlineDecorator}
		for _, c := range CTypes {
			members[c.Name] = c
		}
		return &Module{Name: name, Members: members}
	case config.FutureModule:
		return &Module{Name: name, Members: map[string]Value{}}
	}
	return nil
}
