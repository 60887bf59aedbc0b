package wtype

import "github.com/relstream/fudge/endian"

// registerBuiltins populates d with every built-in type id and a preferred
// wire-type mapping for the common native Go types, mirroring the
// teacher's "native runtime type -> preferred wire type id" auto-typing
// table used when a caller appends an untyped value to a blob/tree.
func registerBuiltins(d *Dictionary) {
	d.Register(indicatorCodec{})
	d.Register(booleanCodec{})
	d.Register(byteCodec{})
	d.Register(shortCodec{})
	d.Register(intCodec{})
	d.Register(longCodec{})
	d.Register(floatCodec{})
	d.Register(doubleCodec{})
	d.Register(stringCodec{})
	d.Register(messageMarkerCodec{})
	d.Register(varByteArrayCodec{})
	d.Register(shortArrayCodec{})
	d.Register(intArrayCodec{})
	d.Register(longArrayCodec{})
	d.Register(floatArrayCodec{})
	d.Register(doubleArrayCodec{})
	d.Register(dateTimeCodec{})

	for id, size := range fixedByteArraySizes {
		d.Register(fixedByteArrayCodec{id: id, size: size})
	}

	d.RegisterPreferred("bool", Boolean)
	d.RegisterPreferred("int8", Byte)
	d.RegisterPreferred("int16", Short)
	d.RegisterPreferred("int", Int)
	d.RegisterPreferred("int32", Int)
	d.RegisterPreferred("int64", Long)
	d.RegisterPreferred("float32", Float)
	d.RegisterPreferred("float64", Double)
	d.RegisterPreferred("string", String)
	d.RegisterPreferred("[]uint8", VarByteArray)
	d.RegisterPreferred("[]int16", ShortArray)
	d.RegisterPreferred("[]int32", IntArray)
	d.RegisterPreferred("[]int64", LongArray)
	d.RegisterPreferred("[]float32", FloatArray)
	d.RegisterPreferred("[]float64", DoubleArray)
	d.RegisterPreferred("wtype.DateTime", DateTime)
}

// messageMarkerCodec is registered for FudgeMsg so Dictionary.IsKnown(FudgeMsg)
// is true and its Kind()/FixedWidth() are queryable, but Read/Write are never
// invoked: a sub-message's bytes are always produced and consumed by the
// stream reader/writer recursing into a nested frame, never by a flat
// Codec.Read/Write call.
type messageMarkerCodec struct{}

func (messageMarkerCodec) TypeID() TypeID   { return FudgeMsg }
func (messageMarkerCodec) Kind() Kind       { return KindMessage }
func (messageMarkerCodec) FixedWidth() bool { return false }
func (messageMarkerCodec) FixedSize() int   { return 0 }

func (messageMarkerCodec) Read(_ endian.EndianEngine, _ []byte) (any, error) {
	panic("wtype: FudgeMsg codec Read must never be called directly")
}

func (messageMarkerCodec) Write(_ endian.EndianEngine, _ []byte, _ any) ([]byte, error) {
	panic("wtype: FudgeMsg codec Write must never be called directly")
}
