package wtype

import "github.com/relstream/fudge/endian"

// Codec reads and writes the payload of a single field value.
//
// For a fixed-width type, Read is always called with exactly FixedSize()
// bytes and Write always appends exactly FixedSize() bytes. For a
// variable-width type, Read is called with exactly the already-decoded
// size's worth of bytes (the caller has stripped the size prefix), and
// Write appends the payload only — the caller is responsible for computing
// and writing the size prefix from the returned, grown buffer.
type Codec interface {
	TypeID() TypeID
	Kind() Kind
	FixedWidth() bool
	// FixedSize is meaningful only when FixedWidth() is true.
	FixedSize() int

	Read(engine endian.EndianEngine, b []byte) (any, error)
	Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error)
}

// unknownCodec is the placeholder registered for an id not present in a
// Dictionary. It preserves the opaque bytes of a variable-width field for
// round-tripping; it must never be asked to handle a fixed-width field
// (callers check FixedWidth() on the prefix, not on this codec, before
// deciding whether an unknown id is recoverable).
type unknownCodec struct {
	id TypeID
}

func (c unknownCodec) TypeID() TypeID    { return c.id }
func (c unknownCodec) Kind() Kind        { return KindUnknown }
func (c unknownCodec) FixedWidth() bool  { return false }
func (c unknownCodec) FixedSize() int    { return 0 }

func (c unknownCodec) Read(_ endian.EndianEngine, b []byte) (any, error) {
	opaque := make([]byte, len(b))
	copy(opaque, b)

	return Opaque{ID: c.id, Bytes: opaque}, nil
}

func (c unknownCodec) Write(_ endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	opaque, ok := value.(Opaque)
	if !ok {
		return buf, errUnsupportedValue(c.id, value)
	}

	return append(buf, opaque.Bytes...), nil
}

// Opaque wraps the undecoded bytes of a field whose type id is not present
// in the dictionary in use. Round-tripping an Opaque value through the same
// or a compatible dictionary reproduces the original bytes exactly.
type Opaque struct {
	ID    TypeID
	Bytes []byte
}

// Dictionary maps a wire type id to its Codec. The zero Dictionary is empty;
// use NewDictionary to get one pre-populated with the built-in types.
//
// A Dictionary is read-only after construction and safe for concurrent use
// by multiple readers/writers, matching the "shared registries are
// read-only after initialization" rule of the concurrency model.
type Dictionary struct {
	codecs     map[TypeID]Codec
	preferred  map[string]TypeID // native Go type name -> preferred TypeID
}

// NewDictionary returns a Dictionary populated with every built-in type.
func NewDictionary() *Dictionary {
	d := &Dictionary{
		codecs:    make(map[TypeID]Codec, 32),
		preferred: make(map[string]TypeID, 16),
	}

	registerBuiltins(d)

	return d
}

// Register adds or replaces the codec for an id. Intended for building a
// customized Dictionary at startup; Dictionary values already handed out to
// readers/writers should not be mutated concurrently with use.
func (d *Dictionary) Register(c Codec) {
	d.codecs[c.TypeID()] = c
}

// RegisterPreferred records the preferred wire type id for a native Go type,
// keyed by its reflect.Type.String() form.
func (d *Dictionary) RegisterPreferred(nativeTypeName string, id TypeID) {
	d.preferred[nativeTypeName] = id
}

// Lookup returns the codec registered for id, or an unknownCodec that
// preserves opaque bytes if none is registered.
func (d *Dictionary) Lookup(id TypeID) Codec {
	if c, ok := d.codecs[id]; ok {
		return c
	}

	return unknownCodec{id: id}
}

// IsKnown reports whether id has a registered codec.
func (d *Dictionary) IsKnown(id TypeID) bool {
	_, ok := d.codecs[id]
	return ok
}

// PreferredID returns the preferred wire type id for a native Go type name
// (as produced by reflect.Type.String()), and whether one is registered.
func (d *Dictionary) PreferredID(nativeTypeName string) (TypeID, bool) {
	id, ok := d.preferred[nativeTypeName]
	return id, ok
}
