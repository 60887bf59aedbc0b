package objgraph

import (
	"reflect"

	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/wireio"
	"github.com/relstream/fudge/wtype"
)

// Marshal serializes obj into a new message tree under the given envelope
// header fields, ready to be driven through pipe.Pump into any wireio.Writer.
func Marshal(tm *TypeMap, dict *wtype.Dictionary, obj any, envelope wireio.EnvelopeInfo) (*msgtree.Message, error) {
	ctx := NewWriteContext(tm, dict)

	msg, err := ctx.Serialize(obj)
	if err != nil {
		return nil, err
	}

	msg.ProcessingDirectives = envelope.ProcessingDirectives
	msg.SchemaVersion = envelope.SchemaVersion
	msg.TaxonomyID = envelope.TaxonomyID

	return msg, nil
}

// Unmarshal rebuilds the root object of root, a message tree previously
// produced by a wireio.Reader (or Marshal). hintType is used when the
// root's own ordinal -1 type-id field can't be resolved via tm.
func Unmarshal(tm *TypeMap, root *msgtree.Message, hintType reflect.Type) (any, error) {
	ctx := NewReadContext(tm)

	if err := ctx.LoadMessage(root); err != nil {
		return nil, err
	}

	return ctx.GetFromRef(0, hintType)
}
