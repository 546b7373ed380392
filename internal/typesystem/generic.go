package typesystem

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// GenericCache interns generic instantiations so the same origin applied
// to the same arguments always yields the same *Class. It is shared by all
// tables of a compilation and safe for concurrent use. A nil cache
// instantiates without interning.
type GenericCache struct {
	mu      sync.Mutex
	entries map[string]*Class
}

func NewGenericCache() *GenericCache {
	return &GenericCache{entries: make(map[string]*Class)}
}

func cacheKey(origin *Class, args []*Class) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%p", origin)
	for _, a := range args {
		fmt.Fprintf(&sb, ",%p", a)
	}
	return sb.String()
}

// Instantiate returns origin[args...].
func (gc *GenericCache) Instantiate(origin *Class, args []*Class) *Class {
	if gc == nil {
		return instantiate(origin, args)
	}
	key := cacheKey(origin, args)
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if c, ok := gc.entries[key]; ok {
		return c
	}
	c := instantiate(origin, args)
	gc.entries[key] = c
	return c
}

// Len returns the number of interned instantiations.
func (gc *GenericCache) Len() int {
	if gc == nil {
		return 0
	}
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return len(gc.entries)
}

func instantiate(origin *Class, args []*Class) *Class {
	return &Class{
		Name:              origin.Name,
		Module:            origin.Module,
		Bases:             origin.Bases,
		Members:           origin.Members,
		Origin:            origin,
		Args:              append([]*Class(nil), args...),
		flavor:            origin.flavor,
		decorates:         origin.decorates,
		instanceDecorates: origin.instanceDecorates,
		finished:          true,
	}
}

// MakeGenericType applies a generic class to type arguments. It returns nil
// when base is not a generic definition or the argument count does not fit.
func MakeGenericType(base Value, args []*Class, cache *GenericCache) Value {
	c, ok := base.(*Class)
	if !ok || !c.IsGeneric() {
		return nil
	}
	if !c.Variadic && len(args) != c.Arity {
		return nil
	}
	switch c {
	case UnionType:
		return MakeUnion(args, cache)
	case OptionalType:
		return MakeUnion([]*Class{args[0], NoneType}, cache)
	}
	return cache.Instantiate(c, args)
}

// MakeUnion builds the union of members. Nested unions are flattened and
// duplicates dropped; a union containing the dynamic type is the dynamic
// type, and a single remaining member is returned as is. Members are kept
// in a canonical order with None last, so A | None and Optional[A] are the
// same class.
func MakeUnion(members []*Class, cache *GenericCache) *Class {
	var flat []*Class
	seen := make(map[*Class]bool)
	var add func(m *Class) bool
	add = func(m *Class) bool {
		if m.flavor == KindDynamic {
			return false
		}
		if m.flavor == KindUnion && m.Origin != nil {
			for _, a := range m.Args {
				if !add(a) {
					return false
				}
			}
			return true
		}
		if !seen[m] {
			seen[m] = true
			flat = append(flat, m)
		}
		return true
	}
	for _, m := range members {
		if !add(m) {
			return DynamicType
		}
	}
	switch len(flat) {
	case 0:
		return DynamicType
	case 1:
		return flat[0]
	}
	sort.SliceStable(flat, func(i, j int) bool {
		if (flat[i] == NoneType) != (flat[j] == NoneType) {
			return flat[j] == NoneType
		}
		return flat[i].QualifiedName() < flat[j].QualifiedName()
	})
	return cache.Instantiate(UnionType, flat)
}
