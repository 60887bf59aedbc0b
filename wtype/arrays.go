package wtype

import (
	"math"

	"github.com/relstream/fudge/endian"
)

// Primitive arrays are variable-width: the payload is a back-to-back run of
// fixed-width elements, and the element count is implied by
// payloadLength/elementSize. This is what lets a JSON reader collapse a
// same-kind numeric array into one field (spec §4.4) and a writer expand it
// back into one without a separate count prefix.

type shortArrayCodec struct{}

func (shortArrayCodec) TypeID() TypeID   { return ShortArray }
func (shortArrayCodec) Kind() Kind       { return KindArray }
func (shortArrayCodec) FixedWidth() bool { return false }
func (shortArrayCodec) FixedSize() int   { return 0 }

func (shortArrayCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b)%2 != 0 {
		return nil, errShortBuffer(ShortArray, len(b)-len(b)%2, len(b))
	}

	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(engine.Uint16(b[i*2:]))
	}

	return out, nil
}

func (shortArrayCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.([]int16)
	if !ok {
		return buf, errUnsupportedValue(ShortArray, value)
	}

	for _, e := range v {
		buf = engine.AppendUint16(buf, uint16(e))
	}

	return buf, nil
}

type intArrayCodec struct{}

func (intArrayCodec) TypeID() TypeID   { return IntArray }
func (intArrayCodec) Kind() Kind       { return KindArray }
func (intArrayCodec) FixedWidth() bool { return false }
func (intArrayCodec) FixedSize() int   { return 0 }

func (intArrayCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b)%4 != 0 {
		return nil, errShortBuffer(IntArray, len(b)-len(b)%4, len(b))
	}

	out := make([]int32, len(b)/4)
	for i := range out {
		out[i] = int32(engine.Uint32(b[i*4:]))
	}

	return out, nil
}

func (intArrayCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.([]int32)
	if !ok {
		return buf, errUnsupportedValue(IntArray, value)
	}

	for _, e := range v {
		buf = engine.AppendUint32(buf, uint32(e))
	}

	return buf, nil
}

type longArrayCodec struct{}

func (longArrayCodec) TypeID() TypeID   { return LongArray }
func (longArrayCodec) Kind() Kind       { return KindArray }
func (longArrayCodec) FixedWidth() bool { return false }
func (longArrayCodec) FixedSize() int   { return 0 }

func (longArrayCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b)%8 != 0 {
		return nil, errShortBuffer(LongArray, len(b)-len(b)%8, len(b))
	}

	out := make([]int64, len(b)/8)
	for i := range out {
		out[i] = int64(engine.Uint64(b[i*8:]))
	}

	return out, nil
}

func (longArrayCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.([]int64)
	if !ok {
		return buf, errUnsupportedValue(LongArray, value)
	}

	for _, e := range v {
		buf = engine.AppendUint64(buf, uint64(e))
	}

	return buf, nil
}

type floatArrayCodec struct{}

func (floatArrayCodec) TypeID() TypeID   { return FloatArray }
func (floatArrayCodec) Kind() Kind       { return KindArray }
func (floatArrayCodec) FixedWidth() bool { return false }
func (floatArrayCodec) FixedSize() int   { return 0 }

func (floatArrayCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b)%4 != 0 {
		return nil, errShortBuffer(FloatArray, len(b)-len(b)%4, len(b))
	}

	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(engine.Uint32(b[i*4:]))
	}

	return out, nil
}

func (floatArrayCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.([]float32)
	if !ok {
		return buf, errUnsupportedValue(FloatArray, value)
	}

	for _, e := range v {
		buf = engine.AppendUint32(buf, math.Float32bits(e))
	}

	return buf, nil
}

type doubleArrayCodec struct{}

func (doubleArrayCodec) TypeID() TypeID   { return DoubleArray }
func (doubleArrayCodec) Kind() Kind       { return KindArray }
func (doubleArrayCodec) FixedWidth() bool { return false }
func (doubleArrayCodec) FixedSize() int   { return 0 }

func (doubleArrayCodec) Read(engine endian.EndianEngine, b []byte) (any, error) {
	if len(b)%8 != 0 {
		return nil, errShortBuffer(DoubleArray, len(b)-len(b)%8, len(b))
	}

	out := make([]float64, len(b)/8)
	for i := range out {
		out[i] = math.Float64frombits(engine.Uint64(b[i*8:]))
	}

	return out, nil
}

func (doubleArrayCodec) Write(engine endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.([]float64)
	if !ok {
		return buf, errUnsupportedValue(DoubleArray, value)
	}

	for _, e := range v {
		buf = engine.AppendUint64(buf, math.Float64bits(e))
	}

	return buf, nil
}
