package fudge

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/wireio"
	"github.com/relstream/fudge/wtype"
)

func TestEncodeDecodeBinaryRoundTrip(t *testing.T) {
	msg := msgtree.NewBuilder(1, 2, 7).Named("name", wtype.String, "ok").Build()

	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, msg))

	decoded, err := DecodeBinary(&buf)
	require.NoError(t, err)

	f, ok := decoded.First("name")
	require.True(t, ok)
	require.Equal(t, "ok", f.Value)
	require.Equal(t, int16(7), decoded.TaxonomyID)
}

func TestEncodeDecodeJSONRoundTrip(t *testing.T) {
	msg := msgtree.NewBuilder(0, 1, 0).Named("count", wtype.Int, int32(3)).Build()

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, msg))
	require.Contains(t, buf.String(), `"count": 3`)

	decoded, err := DecodeJSON(&buf)
	require.NoError(t, err)

	f, ok := decoded.First("count")
	require.True(t, ok)
	require.Equal(t, int32(3), f.Value)
}

type widget struct {
	Label string
	Count int32
}

func TestWriteReadObjectRoundTrip(t *testing.T) {
	tm := NewTypeMap()
	tm.RegisterType(reflect.TypeOf(widget{}), "fudge.test.widget")

	in := widget{Label: "gear", Count: 4}

	var buf bytes.Buffer
	require.NoError(t, WriteObject(&buf, tm, in, wireio.EnvelopeInfo{SchemaVersion: 1}))

	out, err := ReadObject(&buf, tm, reflect.TypeOf(widget{}))
	require.NoError(t, err)

	got, ok := out.(*widget)
	require.True(t, ok)
	require.Equal(t, "gear", got.Label)
	require.Equal(t, int32(4), got.Count)
}
