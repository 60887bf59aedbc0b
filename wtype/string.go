package wtype

import (
	"unicode/utf8"

	"github.com/relstream/fudge/endian"
	"github.com/relstream/fudge/errs"
)

// stringCodec encodes a UTF-8 string as its raw bytes. Like varByteArrayCodec,
// the length prefix itself is handled by the caller; this mirrors the
// teacher's VarStringEncoder, generalized from a hardcoded uint8 length
// cap to the wire format's 0/1/2/4-byte variable size-width selection.
type stringCodec struct{}

func (stringCodec) TypeID() TypeID   { return String }
func (stringCodec) Kind() Kind       { return KindString }
func (stringCodec) FixedWidth() bool { return false }
func (stringCodec) FixedSize() int   { return 0 }

func (stringCodec) Read(_ endian.EndianEngine, b []byte) (any, error) {
	if !utf8.Valid(b) {
		return nil, errs.ErrInvalidUTF8
	}

	return string(b), nil
}

func (stringCodec) Write(_ endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.(string)
	if !ok {
		return buf, errUnsupportedValue(String, value)
	}

	return append(buf, v...), nil
}
