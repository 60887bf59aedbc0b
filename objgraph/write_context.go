package objgraph

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/relstream/fudge/errs"
	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/wtype"
)

type writeFrame struct {
	msg   *msgtree.Message
	refID int
}

// WriteContext drives writing an object graph to a message tree: an
// identity map from object to ref id, a monotonically incremented ref
// counter assigned in first-encounter order, and a stack of frames for
// resolving relative deltas against the sub-message currently being
// written (spec §4.8).
type WriteContext struct {
	typeMap *TypeMap
	dict    *wtype.Dictionary

	identity  map[uintptr]int
	nextRefID int

	// typePrototype records, for each runtime type, the ref id of the
	// first sub-message whose ordinal -1 field carried that type's name
	// strings. Later sub-messages of the same type reference it by delta
	// instead of repeating the names.
	typePrototype map[reflect.Type]int

	frames []writeFrame
}

// NewWriteContext returns a WriteContext that resolves surrogates via tm
// and wire-primitive types via dict.
func NewWriteContext(tm *TypeMap, dict *wtype.Dictionary) *WriteContext {
	return &WriteContext{
		typeMap:       tm,
		dict:          dict,
		identity:      make(map[uintptr]int),
		typePrototype: make(map[reflect.Type]int),
	}
}

// Serialize writes obj as the root of a new message tree and returns it.
func (c *WriteContext) Serialize(obj any) (*msgtree.Message, error) {
	return c.StartObject(obj)
}

// identityKey returns the pointer-identity key for obj's reference-kind
// values (pointer, map, slice) and reports whether one exists. Plain
// struct/scalar values have no aliasing identity in Go and are never
// tracked, so two equal-valued structs are never mistaken for the same
// shared object.
func identityKey(obj any) (uintptr, bool) {
	v := reflect.ValueOf(obj)

	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if v.IsNil() {
			return 0, false
		}

		return v.Pointer(), true
	default:
		return 0, false
	}
}

func isNilValue(obj any) bool {
	if obj == nil {
		return true
	}

	v := reflect.ValueOf(obj)

	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

func baseType(obj any) reflect.Type {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}

	return t
}

func (c *WriteContext) currentFrame() (writeFrame, error) {
	if len(c.frames) == 0 {
		return writeFrame{}, errors.New("objgraph: no active write frame")
	}

	return c.frames[len(c.frames)-1], nil
}

// StartObject allocates a new sub-message for obj, registers its identity
// (permitting a cycle reached while serializing obj's own members to
// resolve back to this ref id), writes the ordinal -1 type-id field, and
// runs obj's surrogate against the new sub-message.
func (c *WriteContext) StartObject(obj any) (*msgtree.Message, error) {
	key, tracked := identityKey(obj)
	if tracked {
		if _, exists := c.identity[key]; exists {
			return nil, fmt.Errorf("%w: object already registered", errs.ErrDuplicateRefID)
		}
	}

	t := baseType(obj)
	msg := msgtree.New(0, 0, 0)
	refID := c.nextRefID
	c.nextRefID++

	if tracked {
		c.identity[key] = refID
	}

	if err := c.writeTypeIDField(msg, refID, t); err != nil {
		return nil, err
	}

	c.frames = append(c.frames, writeFrame{msg: msg, refID: refID})

	surrogate, err := c.typeMap.SurrogateFor(t)
	if err != nil {
		c.frames = c.frames[:len(c.frames)-1]
		return nil, err
	}

	err = surrogate.Serialize(obj, msg, c)
	c.frames = c.frames[:len(c.frames)-1]

	if err != nil {
		return nil, err
	}

	return msg, nil
}

func (c *WriteContext) writeTypeIDField(msg *msgtree.Message, refID int, t reflect.Type) error {
	if protoRef, ok := c.typePrototype[t]; ok && protoRef != refID {
		delta := protoRef - refID
		msg.Append(msgtree.Field{HasOrdinal: true, Ordinal: -1, Type: wtype.Int, Value: int32(delta)}) //nolint:gosec
		return nil
	}

	// A type with no registered name is written under its Go type string;
	// the reader then falls back to its hint type if that name is unknown.
	names := c.typeMap.TypeNames(t)
	if len(names) == 0 {
		names = []string{t.String()}
	}

	for _, n := range names {
		msg.Append(msgtree.Field{HasOrdinal: true, Ordinal: -1, Type: wtype.String, Value: n})
	}

	c.typePrototype[t] = refID

	return nil
}

// WriteObjectField appends a field for a reference-typed member: inline
// (a nested sub-message) the first time obj is seen, or a relative
// reference delta when obj has already been emitted elsewhere in the
// stream (spec §4.7 "Object field encoding").
func (c *WriteContext) WriteObjectField(msg *msgtree.Message, hasName bool, name string, hasOrdinal bool, ordinal int16, obj any) error {
	if isNilValue(obj) {
		msg.Append(msgtree.Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: wtype.Indicator})
		return nil
	}

	if key, tracked := identityKey(obj); tracked {
		if refID, ok := c.identity[key]; ok {
			cur, err := c.currentFrame()
			if err != nil {
				return err
			}

			msg.Append(msgtree.Field{
				Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal,
				Type: wtype.Long, Value: int64(refID - cur.refID),
			})

			return nil
		}
	}

	sub, err := c.StartObject(obj)
	if err != nil {
		return err
	}

	msg.Append(msgtree.Field{
		Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal,
		Type: wtype.FudgeMsg, Sub: sub,
	})

	return nil
}

// WriteValueField appends a field whose value is either a wire-primitive
// known to dict or a reference type requiring recursive object
// serialization, used by the list/dictionary/bean surrogates for member
// values whose static kind isn't known in advance.
func (c *WriteContext) WriteValueField(msg *msgtree.Message, hasName bool, name string, hasOrdinal bool, ordinal int16, value any) error {
	if isNilValue(value) {
		msg.Append(msgtree.Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: wtype.Indicator})
		return nil
	}

	t := reflect.TypeOf(value)

	if id, ok := c.dict.PreferredID(t.String()); ok {
		msg.Append(msgtree.Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: id, Value: value})
		return nil
	}

	return c.WriteObjectField(msg, hasName, name, hasOrdinal, ordinal, value)
}
