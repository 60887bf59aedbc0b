package msgtree

import (
	"fmt"

	"github.com/relstream/fudge/wireio"
)

// readFrame tracks the walk position within one level of the tree: the
// message being walked and the index of the next field to emit.
type readFrame struct {
	msg *Message
	pos int
}

// TreeReader walks a Message as a wireio.Reader, letting a tree be piped
// into a binary or JSON writer without re-parsing anything.
type TreeReader struct {
	root    *Message
	stack   []readFrame
	current wireio.Element
	started bool
	done    bool
}

// NewTreeReader returns a Reader that emits root's contents as an event
// sequence.
func NewTreeReader(root *Message) *TreeReader {
	return &TreeReader{root: root}
}

func (r *TreeReader) HasNext() bool {
	return !r.done
}

func (r *TreeReader) Current() wireio.Element {
	return r.current
}

func (r *TreeReader) MoveNext() (wireio.Event, error) {
	if r.done {
		return wireio.NoElement, nil
	}

	if !r.started {
		r.started = true
		r.stack = append(r.stack, readFrame{msg: r.root})
		r.current = wireio.Element{
			Envelope: wireio.EnvelopeInfo{
				ProcessingDirectives: r.root.ProcessingDirectives,
				SchemaVersion:        r.root.SchemaVersion,
				TaxonomyID:           r.root.TaxonomyID,
			},
		}

		return wireio.MessageStart, nil
	}

	if len(r.stack) == 0 {
		return wireio.NoElement, fmt.Errorf("msgtree: MoveNext called after stream end")
	}

	top := &r.stack[len(r.stack)-1]

	if top.pos >= len(top.msg.fields) {
		r.stack = r.stack[:len(r.stack)-1]
		r.current = wireio.Element{}

		if len(r.stack) == 0 {
			r.done = true
			return wireio.MessageEnd, nil
		}

		return wireio.SubmessageFieldEnd, nil
	}

	f := top.msg.fields[top.pos]
	top.pos++

	r.current = wireio.Element{
		Name: f.Name, HasName: f.HasName,
		Ordinal: f.Ordinal, HasOrdinal: f.HasOrdinal,
		Type: f.Type, Value: f.Value,
	}

	if f.Sub != nil {
		r.stack = append(r.stack, readFrame{msg: f.Sub})
		return wireio.SubmessageFieldStart, nil
	}

	return wireio.SimpleField, nil
}
