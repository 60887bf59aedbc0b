package objgraph

import (
	"fmt"
	"reflect"

	"github.com/relstream/fudge/errs"
	"github.com/relstream/fudge/msgtree"
)

// ClassicInfoWriter is implemented by a type that serializes itself as a
// flat name/value bag rather than via field reflection.
type ClassicInfoWriter interface {
	GetObjectData(info *InfoBag, ctx *WriteContext) error
}

// ClassicInfoReader is implemented by a pointer receiver that populates
// itself from a drained InfoBag, after the framework has allocated the
// zero value and registered it for cycle support.
type ClassicInfoReader interface {
	SetObjectData(info *InfoBag, ctx *ReadContext) error
}

var (
	classicInfoWriterType = reflect.TypeOf((*ClassicInfoWriter)(nil)).Elem()
	classicInfoReaderType = reflect.TypeOf((*ClassicInfoReader)(nil)).Elem()
)

// ClassicInfoSurrogate serializes through a name/value info bag rather
// than raw field reflection: the object's writer populates the bag, then
// each pair is emitted as a field. On read, the zero value is allocated
// and registered before the bag is populated, so a constructor that
// stashes a back-reference to itself still resolves correctly.
type ClassicInfoSurrogate struct{}

func (ClassicInfoSurrogate) Accepts(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(classicInfoReaderType) && (t.Implements(classicInfoWriterType) || pt.Implements(classicInfoWriterType))
}

func (ClassicInfoSurrogate) Serialize(obj any, msg *msgtree.Message, ctx *WriteContext) error {
	w, ok := obj.(ClassicInfoWriter)
	if !ok {
		return fmt.Errorf("%w: %T does not implement ClassicInfoWriter", errs.ErrTypeNotRegistered, obj)
	}

	bag := newInfoBag()
	if err := w.GetObjectData(bag, ctx); err != nil {
		return err
	}

	for _, f := range bag.msg.Fields() {
		msg.Append(f)
	}

	return nil
}

func (ClassicInfoSurrogate) Deserialize(t reflect.Type, msg *msgtree.Message, ctx *ReadContext) (any, error) {
	refID, err := ctx.refIDForMessage(msg)
	if err != nil {
		return nil, err
	}

	ptr := reflect.New(t)
	obj := ptr.Interface()

	if err := ctx.Register(refID, obj); err != nil {
		return nil, err
	}

	reader, ok := obj.(ClassicInfoReader)
	if !ok {
		return nil, fmt.Errorf("%w: *%s does not implement ClassicInfoReader", errs.ErrTypeNotRegistered, t)
	}

	bag := newInfoBagFromMessage(stripTypeIDField(msg))
	if err := reader.SetObjectData(bag, ctx); err != nil {
		return nil, err
	}

	return obj, nil
}

// stripTypeIDField returns a shallow view of msg whose fields exclude the
// ordinal -1 type-id entries, so an InfoBag built from it never surfaces
// framework bookkeeping as a user-visible property.
func stripTypeIDField(msg *msgtree.Message) *msgtree.Message {
	view := msgtree.New(msg.ProcessingDirectives, msg.SchemaVersion, msg.TaxonomyID)

	for _, f := range msg.Fields() {
		if f.HasOrdinal && f.Ordinal == -1 {
			continue
		}

		view.Append(f)
	}

	return view
}
