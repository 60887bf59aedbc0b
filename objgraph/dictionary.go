package objgraph

import (
	"reflect"

	"github.com/relstream/fudge/msgtree"
)

// DictionarySurrogate handles map types: keys and values are written as
// two parallel repeated-field sequences at ordinals 1 and 2. Read pairs
// them back by position, truncating to the shorter side if they ever
// disagree in length.
//
// Go's built-in map has no retained insertion order, so round-tripping
// through this surrogate preserves map content but not necessarily the
// original key/value emission order — see DESIGN.md.
type DictionarySurrogate struct{}

func (DictionarySurrogate) Accepts(t reflect.Type) bool {
	return t.Kind() == reflect.Map
}

func (DictionarySurrogate) Serialize(obj any, msg *msgtree.Message, ctx *WriteContext) error {
	v := reflect.ValueOf(obj)
	iter := v.MapRange()

	for iter.Next() {
		if err := ctx.WriteValueField(msg, false, "", true, 1, iter.Key().Interface()); err != nil {
			return err
		}

		if err := ctx.WriteValueField(msg, false, "", true, 2, iter.Value().Interface()); err != nil {
			return err
		}
	}

	return nil
}

func (DictionarySurrogate) Deserialize(t reflect.Type, msg *msgtree.Message, ctx *ReadContext) (any, error) {
	refID, err := ctx.refIDForMessage(msg)
	if err != nil {
		return nil, err
	}

	out := reflect.MakeMap(t)
	if err := ctx.Register(refID, out.Interface()); err != nil {
		return nil, err
	}

	keys := msg.ByOrdinal(1)
	values := msg.ByOrdinal(2)

	n := min(len(keys), len(values))
	keyType, valType := t.Key(), t.Elem()

	for i := 0; i < n; i++ {
		k, err := ctx.ResolveFieldValue(keys[i], keyType)
		if err != nil {
			return nil, err
		}

		val, err := ctx.ResolveFieldValue(values[i], valType)
		if err != nil {
			return nil, err
		}

		if k == nil {
			continue
		}

		valRV := reflect.Zero(valType)
		if val != nil {
			valRV = convertTo(val, valType)
		}

		out.SetMapIndex(convertTo(k, keyType), valRV)
	}

	return out.Interface(), nil
}
