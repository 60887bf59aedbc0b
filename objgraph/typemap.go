package objgraph

import (
	"fmt"
	"reflect"

	"github.com/relstream/fudge/errs"
	"github.com/relstream/fudge/msgtree"
)

// Surrogate adapts a runtime type to and from a message. Accepts is
// evaluated against the object's base type (the pointed-to type for a
// pointer), in the fixed order surrogates were registered with a TypeMap.
type Surrogate interface {
	Accepts(t reflect.Type) bool
	Serialize(obj any, msg *msgtree.Message, ctx *WriteContext) error
	Deserialize(t reflect.Type, msg *msgtree.Message, ctx *ReadContext) (any, error)
}

// TypeMap registers runtime types to surrogates and to the type-name
// strings written at ordinal -1. Surrogate selection order is fixed at
// registration time (spec: user-hook, classic-info, list/dictionary, bean
// — first match wins); once a type resolves to a surrogate the result is
// cached.
type TypeMap struct {
	surrogates []Surrogate
	resolved   map[reflect.Type]Surrogate

	namesByType map[reflect.Type][]string
	typeByName  map[string]reflect.Type
}

// NewTypeMap returns an empty TypeMap with no candidate surrogates
// registered.
func NewTypeMap() *TypeMap {
	return &TypeMap{
		resolved:    make(map[reflect.Type]Surrogate),
		namesByType: make(map[reflect.Type][]string),
		typeByName:  make(map[string]reflect.Type),
	}
}

// NewDefaultTypeMap returns a TypeMap with the built-in surrogates
// registered in the spec's fixed selection order.
func NewDefaultTypeMap() *TypeMap {
	tm := NewTypeMap()
	tm.RegisterSurrogate(UserHookSurrogate{})
	tm.RegisterSurrogate(ClassicInfoSurrogate{})
	tm.RegisterSurrogate(ListSurrogate{})
	tm.RegisterSurrogate(DictionarySurrogate{})
	tm.RegisterSurrogate(BeanSurrogate{})

	return tm
}

// RegisterSurrogate appends a candidate surrogate to the end of the
// selection list.
func (tm *TypeMap) RegisterSurrogate(s Surrogate) {
	tm.surrogates = append(tm.surrogates, s)
}

// RegisterType associates one or more type-name strings (most specific
// first) with t, used both to populate the ordinal -1 type-id field on
// write and to resolve a decoded name back to a runtime type on read.
func (tm *TypeMap) RegisterType(t reflect.Type, names ...string) {
	tm.namesByType[t] = append([]string{}, names...)
	for _, n := range names {
		tm.typeByName[n] = t
	}
}

// TypeNames returns the names registered for t, most specific first.
func (tm *TypeMap) TypeNames(t reflect.Type) []string {
	return tm.namesByType[t]
}

// ResolveName looks up a runtime type by one of its registered names.
func (tm *TypeMap) ResolveName(name string) (reflect.Type, bool) {
	t, ok := tm.typeByName[name]
	return t, ok
}

// SurrogateFor returns the first registered surrogate that accepts t,
// caching the result.
func (tm *TypeMap) SurrogateFor(t reflect.Type) (Surrogate, error) {
	if s, ok := tm.resolved[t]; ok {
		return s, nil
	}

	for _, s := range tm.surrogates {
		if s.Accepts(t) {
			tm.resolved[t] = s
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrTypeNotRegistered, t)
}
