package objgraph

import (
	"fmt"
	"reflect"

	"github.com/relstream/fudge/msgtree"
)

// BeanSurrogate is the fallback, lowest-priority surrogate: every
// exported struct field becomes a field named after it (or after a
// `fudge:"name"` tag override, `fudge:"-"` to skip it). This is the
// idiomatic Go stand-in for the classic getX/setX bean convention — Go
// has no such convention, so exported fields play the same role.
type BeanSurrogate struct{}

func (BeanSurrogate) Accepts(t reflect.Type) bool {
	return t.Kind() == reflect.Struct
}

func beanFieldName(sf reflect.StructField) (string, bool) {
	if sf.PkgPath != "" {
		return "", false
	}

	if tag, ok := sf.Tag.Lookup("fudge"); ok {
		if tag == "-" {
			return "", false
		}

		return tag, true
	}

	return sf.Name, true
}

func (BeanSurrogate) Serialize(obj any, msg *msgtree.Message, ctx *WriteContext) error {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		name, ok := beanFieldName(sf)
		if !ok {
			continue
		}

		if err := ctx.WriteValueField(msg, true, name, false, 0, v.Field(i).Interface()); err != nil {
			return fmt.Errorf("objgraph: field %q: %w", name, err)
		}
	}

	return nil
}

func (BeanSurrogate) Deserialize(t reflect.Type, msg *msgtree.Message, ctx *ReadContext) (any, error) {
	refID, err := ctx.refIDForMessage(msg)
	if err != nil {
		return nil, err
	}

	ptr := reflect.New(t)
	if err := ctx.Register(refID, ptr.Interface()); err != nil {
		return nil, err
	}

	v := ptr.Elem()

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		name, ok := beanFieldName(sf)
		if !ok {
			continue
		}

		f, ok := msg.First(name)
		if !ok {
			continue
		}

		val, err := ctx.ResolveFieldValue(f, sf.Type)
		if err != nil {
			return nil, fmt.Errorf("objgraph: field %q: %w", name, err)
		}

		if val == nil {
			continue
		}

		v.Field(i).Set(convertTo(val, sf.Type))
	}

	return ptr.Interface(), nil
}
