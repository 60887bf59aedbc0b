package objgraph

import (
	"reflect"

	"github.com/relstream/fudge/msgtree"
)

// InfoBag is an ordered name/value property bag used by
// ClassicInfoSurrogate, modeled on the classic "serialization info"
// constructor pattern: a writer populates it field by field, a reader
// drains it the same way before the real constructor runs.
type InfoBag struct {
	msg *msgtree.Message
}

func newInfoBag() *InfoBag {
	return &InfoBag{msg: msgtree.New(0, 0, 0)}
}

func newInfoBagFromMessage(msg *msgtree.Message) *InfoBag {
	return &InfoBag{msg: msg}
}

// AddValue appends a wire-primitive or reference-typed value under name.
func (b *InfoBag) AddValue(ctx *WriteContext, name string, value any) error {
	return ctx.WriteValueField(b.msg, true, name, false, 0, value)
}

// GetValue resolves the value stored under name against hintType. The
// second return reports whether name was present at all.
func (b *InfoBag) GetValue(ctx *ReadContext, name string, hintType reflect.Type) (any, bool, error) {
	f, ok := b.msg.First(name)
	if !ok {
		return nil, false, nil
	}

	v, err := ctx.ResolveFieldValue(f, hintType)
	if err != nil {
		return nil, true, err
	}

	return v, true, nil
}

// Has reports whether name was present in the bag.
func (b *InfoBag) Has(name string) bool {
	_, ok := b.msg.First(name)
	return ok
}
