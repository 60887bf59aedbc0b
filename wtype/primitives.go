package wtype

import (
	"math"

	"github.com/relstream/fudge/endian"
)

// indicatorCodec is the zero-payload "present but null" type.
type indicatorCodec struct{}

func (indicatorCodec) TypeID() TypeID   { return Indicator }
func (indicatorCodec) Kind() Kind       { return KindIndicator }
func (indicatorCodec) FixedWidth() bool { return true }
func (indicatorCodec) FixedSize() int   { return 0 }

func (indicatorCodec) Read(_ endian.EndianEngine, _ []byte) (any, error) { return nil, nil }
func (indicatorCodec) Write(_ endian.EndianEngine, buf []byte, _ any) ([]byte, error) {
	return buf, nil
}

type booleanCodec struct{}

func (booleanCodec) TypeID() TypeID   { return Boolean }
func (booleanCodec) Kind() Kind       { return KindScalar }
func (booleanCodec) FixedWidth() bool { return true }
func (booleanCodec) FixedSize() int   { return 1 }

func (booleanCodec) Read(_ endian.EndianEngine, b []byte) (any, error) {
	if len(b) != 1 {
		return nil, errShortBuffer(Boolean, 1, len(b))
	}

	return b[0] != 0, nil
}

func (booleanCodec) Write(_ endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.(bool)
	if !ok {
		return buf, errUnsupportedValue(Boolean, value)
	}

	if v {
		return append(buf, 1), nil
	}

	return append(buf, 0), nil
}

type byteCodec struct{}

func (byteCodec) TypeID() TypeID   { return Byte }
func (byteCodec) Kind() Kind       { return KindScalar }
func (byteCodec) FixedWidth() bool { return true }
func (byteCodec) FixedSize() int   { return 1 }

func (byteCodec) Read(_ endian.EndianEngine, b []byte) (any, error) {
	if len(b) != 1 {
		return nil, errShortBuffer(Byte, 1, len(b))
	}

	return int8(b[0]), nil
}

func (byteCodec) Write(_ endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := asInt64(value)
	if !ok {
		return buf, errUnsupportedValue(Byte, value)
	}

	return append(buf, byte(int8(v))), nil
}

type shortCodec struct{}

func (shortCodec) TypeID() TypeID   { return Short }
func (shortCodec) Kind() Kind       { return KindScalar }
func (shortCodec) FixedWidth() bool { return true }
func (shortCodec) FixedSize() int   { return 2 }

func (shortCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b) != 2 {
		return nil, errShortBuffer(Short, 2, len(b))
	}

	return int16(engine.Uint16(b)), nil
}

func (shortCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := asInt64(value)
	if !ok {
		return buf, errUnsupportedValue(Short, value)
	}

	return engine.AppendUint16(buf, uint16(int16(v))), nil
}

type intCodec struct{}

func (intCodec) TypeID() TypeID   { return Int }
func (intCodec) Kind() Kind       { return KindScalar }
func (intCodec) FixedWidth() bool { return true }
func (intCodec) FixedSize() int   { return 4 }

func (intCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b) != 4 {
		return nil, errShortBuffer(Int, 4, len(b))
	}

	return int32(engine.Uint32(b)), nil
}

func (intCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := asInt64(value)
	if !ok {
		return buf, errUnsupportedValue(Int, value)
	}

	return engine.AppendUint32(buf, uint32(int32(v))), nil
}

type longCodec struct{}

func (longCodec) TypeID() TypeID   { return Long }
func (longCodec) Kind() Kind       { return KindScalar }
func (longCodec) FixedWidth() bool { return true }
func (longCodec) FixedSize() int   { return 8 }

func (longCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b) != 8 {
		return nil, errShortBuffer(Long, 8, len(b))
	}

	return int64(engine.Uint64(b)), nil
}

func (longCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := asInt64(value)
	if !ok {
		return buf, errUnsupportedValue(Long, value)
	}

	return engine.AppendUint64(buf, uint64(v)), nil
}

type floatCodec struct{}

func (floatCodec) TypeID() TypeID   { return Float }
func (floatCodec) Kind() Kind       { return KindScalar }
func (floatCodec) FixedWidth() bool { return true }
func (floatCodec) FixedSize() int   { return 4 }

func (floatCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b) != 4 {
		return nil, errShortBuffer(Float, 4, len(b))
	}

	return math.Float32frombits(engine.Uint32(b)), nil
}

func (floatCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := asFloat64(value)
	if !ok {
		return buf, errUnsupportedValue(Float, value)
	}

	return engine.AppendUint32(buf, math.Float32bits(float32(v))), nil
}

type doubleCodec struct{}

func (doubleCodec) TypeID() TypeID   { return Double }
func (doubleCodec) Kind() Kind       { return KindScalar }
func (doubleCodec) FixedWidth() bool { return true }
func (doubleCodec) FixedSize() int   { return 8 }

func (doubleCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b) != 8 {
		return nil, errShortBuffer(Double, 8, len(b))
	}

	return math.Float64frombits(engine.Uint64(b)), nil
}

func (doubleCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := asFloat64(value)
	if !ok {
		return buf, errUnsupportedValue(Double, value)
	}

	return engine.AppendUint64(buf, math.Float64bits(v)), nil
}

// asInt64 widens Go's signed integer kinds and uint8/uint16/uint32 to int64,
// the way the in-memory tree's typed getters widen a narrower stored type on
// read. uint and uint64 are not accepted.
func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	default:
		return 0, false
	}
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
