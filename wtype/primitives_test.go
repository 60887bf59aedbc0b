package wtype

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relstream/fudge/endian"
)

func TestPrimitiveCodecsRoundTrip(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	dict := NewDictionary()

	cases := []struct {
		name  string
		id    TypeID
		value any
	}{
		{"boolean-true", Boolean, true},
		{"boolean-false", Boolean, false},
		{"byte", Byte, int8(-12)},
		{"short", Short, int16(-1234)},
		{"int", Int, int32(1234)},
		{"long", Long, int64(-9223372036854775808)},
		{"float", Float, float32(123.45)},
		{"double", Double, float64(-1234500.0)},
		{"string", String, "fred"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			codec := dict.Lookup(c.id)
			buf, err := codec.Write(engine, nil, c.value)
			require.NoError(t, err)

			if codec.FixedWidth() {
				require.Len(t, buf, codec.FixedSize())
			}

			got, err := codec.Read(engine, buf)
			require.NoError(t, err)
			require.Equal(t, c.value, got)
		})
	}
}

func TestIndicatorRoundTrip(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	codec := NewDictionary().Lookup(Indicator)

	buf, err := codec.Write(engine, nil, nil)
	require.NoError(t, err)
	require.Empty(t, buf)

	got, err := codec.Read(engine, buf)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFixedByteArrayRoundTrip(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	dict := NewDictionary()

	codec := dict.Lookup(FixedByteArray16)
	require.Equal(t, 16, codec.FixedSize())

	payload := make([]byte, 16)
	for i := range payload {
		payload[i] = byte(i)
	}

	buf, err := codec.Write(engine, nil, payload)
	require.NoError(t, err)
	require.Len(t, buf, 16)

	got, err := codec.Read(engine, buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestPrimitiveArraysRoundTrip(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	dict := NewDictionary()

	intArr := dict.Lookup(IntArray)
	buf, err := intArr.Write(engine, nil, []int32{1, 2, 4})
	require.NoError(t, err)

	got, err := intArr.Read(engine, buf)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 4}, got)
}

func TestUnknownTypePreservesOpaqueBytes(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	dict := NewDictionary()

	codec := dict.Lookup(TypeID(200))
	require.False(t, dict.IsKnown(TypeID(200)))
	require.False(t, codec.FixedWidth())

	original := []byte{1, 2, 3, 4, 5}
	got, err := codec.Read(engine, original)
	require.NoError(t, err)

	opaque, ok := got.(Opaque)
	require.True(t, ok)
	require.Equal(t, original, opaque.Bytes)

	buf, err := codec.Write(engine, nil, opaque)
	require.NoError(t, err)
	require.Equal(t, original, buf)
}
