package msgtree

import (
	"fmt"

	"github.com/relstream/fudge/wireio"
	"github.com/relstream/fudge/wtype"
)

// TreeWriter builds a Message tree from a sequence of wireio.Writer calls,
// the mirror image of TreeReader. It is the receiving end used when piping
// a binary or JSON reader into an in-memory tree.
type TreeWriter struct {
	root  *Message
	stack []*Message
}

// NewTreeWriter returns an empty TreeWriter. Root retrieves the finished
// tree once EndMessage has closed the top-level message.
func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

// Root returns the completed top-level Message, or nil if StartMessage has
// not yet been matched by EndMessage.
func (w *TreeWriter) Root() *Message {
	return w.root
}

func (w *TreeWriter) StartMessage(info wireio.EnvelopeInfo) error {
	if len(w.stack) != 0 {
		return fmt.Errorf("msgtree: StartMessage called with a message already open")
	}

	msg := New(info.ProcessingDirectives, info.SchemaVersion, info.TaxonomyID)
	w.stack = append(w.stack, msg)
	w.root = nil

	return nil
}

func (w *TreeWriter) current() (*Message, error) {
	if len(w.stack) == 0 {
		return nil, fmt.Errorf("msgtree: no open message")
	}

	return w.stack[len(w.stack)-1], nil
}

func (w *TreeWriter) WriteField(hasName bool, name string, hasOrdinal bool, ordinal int16, typ wtype.TypeID, value any) error {
	cur, err := w.current()
	if err != nil {
		return err
	}

	cur.Append(Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: typ, Value: value})

	return nil
}

func (w *TreeWriter) StartSubMessage(hasName bool, name string, hasOrdinal bool, ordinal int16) error {
	cur, err := w.current()
	if err != nil {
		return err
	}

	cur.Append(Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: wtype.FudgeMsg})

	child := New(0, 0, 0)
	w.stack = append(w.stack, child)

	return nil
}

func (w *TreeWriter) EndSubMessage() error {
	if len(w.stack) < 2 {
		return fmt.Errorf("msgtree: EndSubMessage called with no open sub-message")
	}

	child := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]

	parent := w.stack[len(w.stack)-1]
	if len(parent.fields) == 0 {
		return fmt.Errorf("msgtree: EndSubMessage called before the introducing field was recorded")
	}

	last := &parent.fields[len(parent.fields)-1]
	last.Sub = child
	parent.byName = nil
	parent.byOrdinal = nil

	return nil
}

func (w *TreeWriter) EndMessage() error {
	if len(w.stack) != 1 {
		return fmt.Errorf("msgtree: EndMessage called with sub-message(s) still open")
	}

	w.root = w.stack[0]
	w.stack = w.stack[:0]

	return nil
}
