package config

// StubFileExt is the extension of YAML module stubs read by the loader.
const StubFileExt = ".stub.yaml"

// StubFileExtensions are all recognized stub extensions.
var StubFileExtensions = []string{".stub.yaml", ".stub.yml"}

// ConfigFileNames are searched, in order, when looking for project configuration.
var ConfigFileNames = []string{"staticpy.yaml", "staticpy.yml"}

// Builtin class names
const (
	ObjectTypeName  = "object"
	IntTypeName     = "int"
	FloatTypeName   = "float"
	ComplexTypeName = "complex"
	BoolTypeName    = "bool"
	StrTypeName     = "str"
	BytesTypeName   = "bytes"
	ListTypeName    = "list"
	DictTypeName    = "dict"
	TupleTypeName   = "tuple"
	SetTypeName     = "set"
	TypeTypeName    = "type"
	NoneTypeName    = "None"
	DynamicTypeName = "dynamic"
)

// Qualifier and special-form names
const (
	FinalName    = "Final"
	ClassVarName = "ClassVar"
	OptionalName = "Optional"
	UnionName    = "Union"
	AnyName      = "Any"
)

// Decorator names
const (
	StaticMethodName = "staticmethod"
	ClassMethodName  = "classmethod"
	PropertyName     = "property"
	FinalDecorator   = "final"
	OverloadName     = "overload"
	InlineName       = "inline"
)

// Virtual module names
const (
	TypingModule = "typing"
	StaticModule = "__static__"
	FutureModule = "__future__"
)
