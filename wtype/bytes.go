package wtype

import "github.com/relstream/fudge/endian"

// fixedByteArrayCodec handles one of the nine fixed-length byte[] types
// (4, 8, 16, 20, 32, 64, 128, 256, 512 bytes).
type fixedByteArrayCodec struct {
	id   TypeID
	size int
}

func (c fixedByteArrayCodec) TypeID() TypeID   { return c.id }
func (c fixedByteArrayCodec) Kind() Kind       { return KindBytes }
func (c fixedByteArrayCodec) FixedWidth() bool { return true }
func (c fixedByteArrayCodec) FixedSize() int   { return c.size }

func (c fixedByteArrayCodec) Read(_ endian.EndianEngine, b []byte) (any, error) {
	if len(b) != c.size {
		return nil, errShortBuffer(c.id, c.size, len(b))
	}

	out := make([]byte, c.size)
	copy(out, b)

	return out, nil
}

func (c fixedByteArrayCodec) Write(_ endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.([]byte)
	if !ok || len(v) != c.size {
		return buf, errUnsupportedValue(c.id, value)
	}

	return append(buf, v...), nil
}

// varByteArrayCodec handles the variable-length byte[] type. Read/Write
// operate on the payload only; the size prefix is handled by the caller
// (wireio's reader/writer), the same separation of concerns as
// VarStringEncoder in the teacher's encoding package.
type varByteArrayCodec struct{}

func (varByteArrayCodec) TypeID() TypeID   { return VarByteArray }
func (varByteArrayCodec) Kind() Kind       { return KindBytes }
func (varByteArrayCodec) FixedWidth() bool { return false }
func (varByteArrayCodec) FixedSize() int   { return 0 }

func (varByteArrayCodec) Read(_ endian.EndianEngine, b []byte) (any, error) {
	out := make([]byte, len(b))
	copy(out, b)

	return out, nil
}

func (varByteArrayCodec) Write(_ endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.([]byte)
	if !ok {
		return buf, errUnsupportedValue(VarByteArray, value)
	}

	return append(buf, v...), nil
}
