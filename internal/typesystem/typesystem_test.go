package typesystem

import (
	"sync"
	"testing"

	"github.com/funvibe/staticpy/internal/ast"
	"go.starlark.net/syntax"
)

func TestGenericCacheInterns(t *testing.T) {
	gc := NewGenericCache()
	a := MakeGenericType(ListType, []*Class{IntType}, gc)
	b := MakeGenericType(ListType, []*Class{IntType}, gc)
	if a == nil || a != b {
		t.Fatalf("list[int] not interned: %v vs %v", a, b)
	}
	if got := a.String(); got != "list[int]" {
		t.Errorf("String() = %q", got)
	}
	if c := MakeGenericType(ListType, []*Class{StrType}, gc); c == a {
		t.Errorf("list[str] must differ from list[int]")
	}
	if gc.Len() != 2 {
		t.Errorf("cache size = %d, want 2", gc.Len())
	}
}

func TestGenericCacheConcurrent(t *testing.T) {
	gc := NewGenericCache()
	results := make([]Value, 32)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = MakeGenericType(DictType, []*Class{StrType, IntType}, gc)
		}(i)
	}
	wg.Wait()
	for _, r := range results[1:] {
		if r != results[0] {
			t.Fatal("concurrent instantiations returned distinct classes")
		}
	}
}

func TestMakeGenericTypeArity(t *testing.T) {
	tests := []struct {
		name string
		base Value
		args []*Class
		ok   bool
	}{
		{"list one", ListType, []*Class{IntType}, true},
		{"list two", ListType, []*Class{IntType, StrType}, false},
		{"dict one", DictType, []*Class{IntType}, false},
		{"dict two", DictType, []*Class{IntType, StrType}, true},
		{"tuple many", TupleType, []*Class{IntType, StrType, FloatType}, true},
		{"not generic", IntType, []*Class{IntType}, false},
		{"not a class", FinalDecorator, []*Class{IntType}, false},
		{"final", FinalType, []*Class{IntType}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakeGenericType(tt.base, tt.args, nil)
			if (got != nil) != tt.ok {
				t.Errorf("MakeGenericType = %v, want ok=%v", got, tt.ok)
			}
		})
	}
}

func TestMakeUnion(t *testing.T) {
	gc := NewGenericCache()

	if got := MakeUnion([]*Class{IntType, IntType}, gc); got != IntType {
		t.Errorf("int | int = %v, want int", got)
	}
	if got := MakeUnion([]*Class{IntType, DynamicType}, gc); got != DynamicType {
		t.Errorf("int | dynamic = %v, want dynamic", got)
	}

	a := MakeUnion([]*Class{IntType, NoneType}, gc)
	b := MakeUnion([]*Class{NoneType, IntType}, gc)
	if a != b {
		t.Errorf("member order changed the union: %v vs %v", a, b)
	}
	if a.OptType() != IntType {
		t.Errorf("OptType() = %v, want int", a.OptType())
	}
	if got := a.String(); got != "Optional[int]" {
		t.Errorf("String() = %q", got)
	}
	if opt := MakeGenericType(OptionalType, []*Class{IntType}, gc); opt != a {
		t.Errorf("Optional[int] = %v, want %v", opt, a)
	}

	nested := MakeUnion([]*Class{a, StrType}, gc)
	if len(nested.Args) != 3 || nested.OptType() != nil {
		t.Errorf("nested union not flattened: %v", nested)
	}
	if nested.Args[2] != NoneType {
		t.Errorf("None must sort last: %v", nested)
	}
}

func TestExactInexact(t *testing.T) {
	c := NewClass("C", "m")
	ex := c.ExactType()
	if ex == c || !ex.IsExact() {
		t.Fatalf("ExactType() = %v", ex)
	}
	if ex.ExactType() != ex || ex.InexactType() != c || c.ExactType() != ex {
		t.Errorf("exact/inexact twins are not stable")
	}
	if got := ex.String(); got != "Exact[C]" {
		t.Errorf("String() = %q", got)
	}
	if DynamicType.ExactType() != DynamicType {
		t.Errorf("dynamic has no exact form")
	}
}

func TestUnwrapQualifiers(t *testing.T) {
	gc := NewGenericCache()
	final := MakeGenericType(FinalType, []*Class{IntType}, gc).(*Class)
	if final.Kind() != KindFinal || final.Unwrap() != IntType {
		t.Errorf("Final[int] unwraps to %v", final.Unwrap())
	}
	if FinalType.Unwrap() != DynamicType {
		t.Errorf("bare Final must wrap dynamic")
	}
	if IntType.Unwrap() != IntType {
		t.Errorf("int must unwrap to itself")
	}
}

func TestResolveAttr(t *testing.T) {
	typing := VirtualModule("typing")
	if ResolveAttr(typing, "Final") != FinalType {
		t.Errorf("typing.Final not found")
	}
	if ResolveAttr(typing, "Nope") != nil {
		t.Errorf("unknown member must be nil")
	}
	base := NewClass("Base", "m", WithMembers(map[string]Value{"x": IntType.Instance()}))
	derived := NewClass("Derived", "m", WithBases(base))
	if ResolveAttr(derived, "x") != IntType.Instance() {
		t.Errorf("inherited member not found")
	}
	if ResolveAttr(IntType.Instance(), "nope") != nil {
		t.Errorf("object attribute must be nil")
	}
	if VirtualModule("nope") != nil {
		t.Errorf("unknown virtual module must be nil")
	}
}

func testFunction(name string) *Function {
	node := &ast.FunctionDef{Name: &syntax.Ident{Name: name}}
	return NewFunction(node, "m", nil)
}

func TestDecorateFunction(t *testing.T) {
	fn := testFunction("f")

	m, ok := DecorateFunction(StaticMethodType, fn, nil).(*Method)
	if !ok || m.Wrapper != StaticMethod || m.Function != fn {
		t.Fatalf("staticmethod produced %v", m)
	}
	if DecorateFunction(ClassMethodType, m, nil) != nil {
		t.Errorf("classmethod over a method must be unknown")
	}
	if DecorateFunction(IntType, fn, nil) != nil {
		t.Errorf("int is not a decorator")
	}
	if DecorateFunction(DynamicType, fn, nil) != nil {
		t.Errorf("dynamic decorator must be unknown")
	}
	if DecorateFunction(FinalDecorator, fn, nil) != fn || !fn.Final {
		t.Errorf("typing.final must return the function marked final")
	}

	factory := NewClass("Wraps", "m", WithInstanceDecorator(func(fn Value, _ syntax.Expr) Value { return fn }))
	if DecorateFunction(factory.Instance(), fn, nil) != fn {
		t.Errorf("instance decorator not applied")
	}
}

func TestCallResult(t *testing.T) {
	v, ok, err := CallResult(IntType)
	if err != nil || !ok || v != IntType.Instance() {
		t.Errorf("CallResult(int) = %v, %v, %v", v, ok, err)
	}
	v, ok, err = CallResult(testFunction("f"))
	if err != nil || !ok || v != DynamicType.Instance() {
		t.Errorf("CallResult(unannotated def) = %v, %v, %v", v, ok, err)
	}
	if _, ok, _ := CallResult(VirtualModule("typing")); ok {
		t.Errorf("modules are not callable")
	}
}

type stubScope struct {
	decorate func(fn *Function) Value
}

func (s stubScope) ResolveAnnotation(syntax.Expr, bool) (*Class, error) { return IntType, nil }
func (s stubScope) ResolveType(syntax.Expr) (*Class, error)             { return IntType, nil }
func (s stubScope) FinishDecorator(_ *ast.FunctionDef, fn *Function) (Value, error) {
	return s.decorate(fn), nil
}

func TestFinishBindFunctionGroup(t *testing.T) {
	f1, f2 := testFunction("f"), testFunction("f")
	drop := stubScope{decorate: func(fn *Function) Value {
		if fn == f1 {
			return nil
		}
		return fn
	}}
	g := NewFunctionGroup("f", f1, f2)
	res, err := FinishBind(g, drop)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != Replaced || res.Value != f2 {
		t.Errorf("group with one survivor = %v %v, want replaced by f2", res.Outcome, res.Value)
	}

	keep := stubScope{decorate: func(fn *Function) Value { return fn }}
	g = NewFunctionGroup("g", testFunction("g"), testFunction("g"))
	if res, _ := FinishBind(g, keep); res.Outcome != Unchanged || len(g.Functions) != 2 {
		t.Errorf("group = %v with %d members", res.Outcome, len(g.Functions))
	}

	none := stubScope{decorate: func(*Function) Value { return nil }}
	g = NewFunctionGroup("h", testFunction("h"), testFunction("h"))
	if res, _ := FinishBind(g, none); res.Outcome != Removed {
		t.Errorf("empty group = %v, want removed", res.Outcome)
	}
}

func TestFinishBindFunctionOnce(t *testing.T) {
	calls := 0
	s := stubScope{decorate: func(fn *Function) Value {
		calls++
		return &Method{Function: fn, Wrapper: Property}
	}}
	fn := testFunction("f")
	r1, _ := FinishBind(fn, s)
	r2, _ := FinishBind(fn, s)
	if calls != 1 || r1.Value != r2.Value || r1.Outcome != Replaced {
		t.Errorf("decorator chain ran %d times: %v %v", calls, r1, r2)
	}
}
