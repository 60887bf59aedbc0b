package objgraph

import (
	"fmt"
	"reflect"

	"github.com/relstream/fudge/errs"
	"github.com/relstream/fudge/msgtree"
)

// UserHook is implemented by a type that wants full control over how its
// own fields are written, bypassing bean/classic-info/list reflection.
type UserHook interface {
	SerializeFudge(msg *msgtree.Message, ctx *WriteContext) error
}

// UserHookDeserializer is implemented by a pointer receiver that can
// rebuild an instance from a message. UserHookSurrogate registers the new
// instance with ctx before calling DeserializeFudge, so a member reference
// that cycles back to it resolves to the same instance.
type UserHookDeserializer interface {
	DeserializeFudge(msg *msgtree.Message, ctx *ReadContext) error
}

var (
	userHookType             = reflect.TypeOf((*UserHook)(nil)).Elem()
	userHookDeserializerType = reflect.TypeOf((*UserHookDeserializer)(nil)).Elem()
)

// UserHookSurrogate is the highest-priority surrogate: preferred whenever
// a type opts into full control over its own wire representation.
type UserHookSurrogate struct{}

func (UserHookSurrogate) Accepts(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(userHookDeserializerType) && (t.Implements(userHookType) || pt.Implements(userHookType))
}

func (UserHookSurrogate) Serialize(obj any, msg *msgtree.Message, ctx *WriteContext) error {
	hook, ok := obj.(UserHook)
	if !ok {
		return fmt.Errorf("%w: %T does not implement UserHook", errs.ErrTypeNotRegistered, obj)
	}

	return hook.SerializeFudge(msg, ctx)
}

func (UserHookSurrogate) Deserialize(t reflect.Type, msg *msgtree.Message, ctx *ReadContext) (any, error) {
	ptr := reflect.New(t)

	hook, ok := ptr.Interface().(UserHookDeserializer)
	if !ok {
		return nil, fmt.Errorf("%w: *%s does not implement UserHookDeserializer", errs.ErrTypeNotRegistered, t)
	}

	refID, err := ctx.refIDForMessage(msg)
	if err != nil {
		return nil, err
	}

	if err := ctx.Register(refID, ptr.Interface()); err != nil {
		return nil, err
	}

	if err := hook.DeserializeFudge(msg, ctx); err != nil {
		return nil, err
	}

	return ptr.Interface(), nil
}
