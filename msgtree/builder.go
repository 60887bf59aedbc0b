package msgtree

import "github.com/relstream/fudge/wtype"

// Builder assembles a Message field by field through a fluent, chainable
// API, the same idiom the teacher's blob.Builder uses for constructing a
// NumericBlob one metric at a time.
type Builder struct {
	msg *Message
}

// NewBuilder starts building a Message with the given envelope header
// fields.
func NewBuilder(processingDirectives, schemaVersion uint8, taxonomyID int16) *Builder {
	return &Builder{msg: New(processingDirectives, schemaVersion, taxonomyID)}
}

// Field appends an arbitrary leaf field.
func (b *Builder) Field(name string, ordinal int16, hasName, hasOrdinal bool, typ wtype.TypeID, value any) *Builder {
	b.msg.Append(Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: typ, Value: value})
	return b
}

// Named appends a field addressed only by name.
func (b *Builder) Named(name string, typ wtype.TypeID, value any) *Builder {
	return b.Field(name, 0, true, false, typ, value)
}

// Ordinal appends a field addressed only by ordinal.
func (b *Builder) Ordinal(ordinal int16, typ wtype.TypeID, value any) *Builder {
	return b.Field("", ordinal, false, true, typ, value)
}

// SubMessage appends a nested sub-message field built by fn.
func (b *Builder) SubMessage(name string, ordinal int16, hasName, hasOrdinal bool, fn func(*Builder)) *Builder {
	child := &Builder{msg: New(0, 0, 0)}
	fn(child)

	b.msg.Append(Field{
		Name: name, HasName: hasName,
		Ordinal: ordinal, HasOrdinal: hasOrdinal,
		Type: wtype.FudgeMsg,
		Sub:  child.msg,
	})

	return b
}

// Build returns the assembled Message.
func (b *Builder) Build() *Message {
	return b.msg
}
