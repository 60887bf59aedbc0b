package objgraph

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/relstream/fudge/errs"
	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/wtype"
)

type readEntry struct {
	msg   *msgtree.Message
	obj   any
	refID int
}

type readFrame struct {
	refID int
}

// ReadContext drives reading a message tree back into an object graph: an
// ordered ref-id-indexed table of {msg, obj?}, built by LoadMessage in
// first-encounter (pre-order, matching stream) order, plus the guard and
// frame stack needed to resolve relative references and detect a
// surrogate that follows a cyclic reference before registering its own
// partially constructed object (spec §4.8).
type ReadContext struct {
	typeMap *TypeMap

	entries []readEntry
	byMsg   map[*msgtree.Message]int

	frames []readFrame
	guard  *refGuard
}

// NewReadContext returns a ReadContext that resolves surrogates via tm.
func NewReadContext(tm *TypeMap) *ReadContext {
	return &ReadContext{
		typeMap: tm,
		byMsg:   make(map[*msgtree.Message]int),
		guard:   newRefGuard(),
	}
}

// LoadMessage walks root and every sub-message reachable from it,
// assigning each one a ref id in the order it's first encountered — the
// same order a binary reader would emit SubmessageFieldStart events for
// them, since both traverse fields in wire order.
func (c *ReadContext) LoadMessage(root *msgtree.Message) error {
	if err := c.registerMsg(root); err != nil {
		return err
	}

	var walk func(msg *msgtree.Message) error

	walk = func(msg *msgtree.Message) error {
		for _, f := range msg.Fields() {
			if f.Type == wtype.FudgeMsg && f.Sub != nil {
				if err := c.registerMsg(f.Sub); err != nil {
					return err
				}

				if err := walk(f.Sub); err != nil {
					return err
				}
			}
		}

		return nil
	}

	return walk(root)
}

func (c *ReadContext) registerMsg(msg *msgtree.Message) error {
	if _, exists := c.byMsg[msg]; exists {
		return fmt.Errorf("%w: sub-message visited twice while loading", errs.ErrDuplicateRefID)
	}

	refID := len(c.entries)
	c.entries = append(c.entries, readEntry{msg: msg, refID: refID})
	c.byMsg[msg] = refID

	return nil
}

func (c *ReadContext) currentFrame() (readFrame, error) {
	if len(c.frames) == 0 {
		return readFrame{}, errors.New("objgraph: no active read frame")
	}

	return c.frames[len(c.frames)-1], nil
}

// Register associates obj with refID's entry. Surrogates that support
// cyclic references MUST call this before recursing into any member
// field, so a back-edge resolves to the same partially constructed
// instance instead of triggering ErrNotRegisteredBeforeRef.
func (c *ReadContext) Register(refID int, obj any) error {
	if refID < 0 || refID >= len(c.entries) {
		return errs.ErrRefOutOfRange
	}

	if c.entries[refID].obj != nil {
		return errs.ErrDuplicateRefID
	}

	c.entries[refID].obj = obj

	return nil
}

// GetFromRef returns the live object for refID, deserializing it on first
// access. hintType is used when the ordinal -1 type-id field can't be
// resolved against the type map (spec §4.8 step 3).
func (c *ReadContext) GetFromRef(refID int, hintType reflect.Type) (any, error) {
	if refID < 0 || refID >= len(c.entries) {
		return nil, errs.ErrRefOutOfRange
	}

	if obj := c.entries[refID].obj; obj != nil {
		return obj, nil
	}

	return c.deserializeFromMessage(refID, hintType)
}

func (c *ReadContext) deserializeFromMessage(refID int, hintType reflect.Type) (any, error) {
	t, err := c.resolveType(refID, hintType)
	if err != nil {
		return nil, err
	}

	surrogate, err := c.typeMap.SurrogateFor(t)
	if err != nil {
		return nil, err
	}

	if err := c.guard.enter(refID); err != nil {
		return nil, err
	}
	defer c.guard.leave(refID)

	c.frames = append(c.frames, readFrame{refID: refID})
	obj, err := surrogate.Deserialize(t, c.entries[refID].msg, c)
	c.frames = c.frames[:len(c.frames)-1]

	if err != nil {
		return nil, err
	}

	if c.entries[refID].obj == nil {
		if err := c.Register(refID, obj); err != nil {
			return nil, err
		}
	}

	return c.entries[refID].obj, nil
}

// resolveType reads ordinal -1 of entries[refID].msg, following chained
// relative references until a string-typed type-id field is reached, then
// tries each candidate name until the type map resolves one.
func (c *ReadContext) resolveType(refID int, hintType reflect.Type) (reflect.Type, error) {
	seen := make(map[int]bool)
	cur := refID

	for {
		if seen[cur] {
			return nil, errs.ErrForwardReference
		}

		seen[cur] = true

		msg := c.entries[cur].msg

		f, ok := msg.FirstByOrdinal(-1)
		if !ok {
			if hintType != nil {
				return hintType, nil
			}

			return nil, errs.ErrNoTypeIDField
		}

		switch f.Type {
		case wtype.String:
			for _, name := range msg.ByOrdinal(-1) {
				if s, ok := name.Value.(string); ok {
					if t, ok := c.typeMap.ResolveName(s); ok {
						return t, nil
					}
				}
			}

			if hintType != nil {
				return hintType, nil
			}

			return nil, errs.ErrTypeNameUnresolved
		case wtype.Int, wtype.Long:
			delta, err := intFieldAsInt64(f)
			if err != nil {
				return nil, err
			}

			if delta > 0 {
				return nil, errs.ErrForwardReference
			}

			target := cur + int(delta)
			if target < 0 || target >= cur {
				return nil, errs.ErrRefOutOfRange
			}

			cur = target

			continue
		default:
			return nil, errs.ErrNoTypeIDField
		}
	}
}

func intFieldAsInt64(f msgtree.Field) (int64, error) {
	switch v := f.Value.(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: ordinal -1 relative reference must be an integer", errs.ErrNoTypeIDField)
	}
}

// ResolveFieldValue decodes f into a value assignable to hintType. A
// sub-message field is always an inline object reference; an Int/Long
// field is treated as a relative-reference delta only when hintType is
// itself a reference kind, so a genuine integer-typed member is never
// mistaken for one. Every other field type is already the scalar the
// dictionary decoded it into.
func (c *ReadContext) ResolveFieldValue(f msgtree.Field, hintType reflect.Type) (any, error) {
	switch {
	case f.Sub != nil:
		refID, ok := c.byMsg[f.Sub]
		if !ok {
			return nil, errs.ErrRefOutOfRange
		}

		return c.GetFromRef(refID, hintType)
	case f.Type == wtype.Indicator:
		if hintType == nil {
			return nil, nil
		}

		return reflect.Zero(hintType).Interface(), nil
	case isReferenceKind(hintType) && (f.Type == wtype.Int || f.Type == wtype.Long):
		return c.resolveDeltaRef(f, hintType)
	default:
		return f.Value, nil
	}
}

func (c *ReadContext) resolveDeltaRef(f msgtree.Field, hintType reflect.Type) (any, error) {
	delta, err := intFieldAsInt64(f)
	if err != nil {
		return nil, err
	}

	if delta > 0 {
		return nil, errs.ErrForwardReference
	}

	cur, err := c.currentFrame()
	if err != nil {
		return nil, err
	}

	target := cur.refID + int(delta)
	if target < 0 || target >= len(c.entries) {
		return nil, errs.ErrRefOutOfRange
	}

	return c.GetFromRef(target, hintType)
}

func isReferenceKind(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Struct, reflect.Slice, reflect.Map, reflect.Interface:
		return t != reflect.TypeOf(wtype.DateTime{})
	default:
		return false
	}
}

// refIDForMessage returns the ref id assigned to msg by LoadMessage.
func (c *ReadContext) refIDForMessage(msg *msgtree.Message) (int, error) {
	refID, ok := c.byMsg[msg]
	if !ok {
		return 0, errs.ErrRefOutOfRange
	}

	return refID, nil
}
