package objgraph

import (
	"reflect"

	"github.com/relstream/fudge/msgtree"
)

// ListSurrogate handles slice types (excluding []byte, which the type
// dictionary already encodes as a fixed wire type). Elements are written
// as repeated fields at ordinal 1, in order; read pairs them back in wire
// order.
type ListSurrogate struct{}

func (ListSurrogate) Accepts(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8
}

func (ListSurrogate) Serialize(obj any, msg *msgtree.Message, ctx *WriteContext) error {
	v := reflect.ValueOf(obj)

	for i := 0; i < v.Len(); i++ {
		if err := ctx.WriteValueField(msg, false, "", true, 1, v.Index(i).Interface()); err != nil {
			return err
		}
	}

	return nil
}

func (ListSurrogate) Deserialize(t reflect.Type, msg *msgtree.Message, ctx *ReadContext) (any, error) {
	refID, err := ctx.refIDForMessage(msg)
	if err != nil {
		return nil, err
	}

	elemType := t.Elem()
	fields := msg.ByOrdinal(1)

	// The slice is allocated at its final length up front (never
	// reallocated by a later append) so registering it immediately lets a
	// cyclic element resolve back to the same backing array.
	out := reflect.MakeSlice(t, len(fields), len(fields))
	if err := ctx.Register(refID, out.Interface()); err != nil {
		return nil, err
	}

	for i, f := range fields {
		val, err := ctx.ResolveFieldValue(f, elemType)
		if err != nil {
			return nil, err
		}

		if val == nil {
			continue
		}

		out.Index(i).Set(convertTo(val, elemType))
	}

	return out.Interface(), nil
}

// convertTo adapts a decoded value to an assignable reflect.Value for a
// struct field, slice element, or map key/value of the given static type.
// A surrogate's Deserialize always returns a pointer (so cyclic
// references can share one instance); when the static target is the
// pointee type itself, dereference it here rather than in every
// surrogate.
func convertTo(val any, target reflect.Type) reflect.Value {
	rv := reflect.ValueOf(val)

	if rv.Type() == target {
		return rv
	}

	if rv.Kind() == reflect.Ptr && rv.Type().Elem() == target {
		return rv.Elem()
	}

	if rv.Type().ConvertibleTo(target) {
		return rv.Convert(target)
	}

	return rv
}
