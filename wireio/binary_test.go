package wireio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relstream/fudge/envelope"
	"github.com/relstream/fudge/wtype"
)

func writeSampleMessage(t *testing.T, w *BinaryWriter, stringLen int) {
	t.Helper()

	require.NoError(t, w.StartMessage(EnvelopeInfo{ProcessingDirectives: 1, SchemaVersion: 0, TaxonomyID: 7}))
	require.NoError(t, w.WriteField(true, "active", false, 0, wtype.Boolean, true))
	require.NoError(t, w.WriteField(false, "", true, 5, wtype.Int, int32(42)))
	require.NoError(t, w.WriteField(true, "label", false, 0, wtype.String, strRepeat("x", stringLen)))

	require.NoError(t, w.StartSubMessage(true, "child", false, 0))
	require.NoError(t, w.WriteField(true, "inner", false, 0, wtype.Long, int64(-9)))
	require.NoError(t, w.EndSubMessage())

	require.NoError(t, w.EndMessage())
}

func strRepeat(s string, n int) string {
	b := make([]byte, 0, n)
	for len(b) < n {
		b = append(b, s...)
	}

	return string(b[:n])
}

func TestBinaryRoundTripSmall(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewBinaryWriter(&buf)
	require.NoError(t, err)

	writeSampleMessage(t, w, 3)

	r, err := NewBinaryReader(&buf)
	require.NoError(t, err)

	ev, err := r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, MessageStart, ev)
	require.Equal(t, int16(7), r.Current().Envelope.TaxonomyID)

	ev, err = r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, SimpleField, ev)
	require.Equal(t, "active", r.Current().Name)
	require.Equal(t, true, r.Current().Value)

	ev, err = r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, SimpleField, ev)
	require.Equal(t, int16(5), r.Current().Ordinal)
	require.Equal(t, int32(42), r.Current().Value)

	ev, err = r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, SimpleField, ev)
	require.Equal(t, "xxx", r.Current().Value)

	ev, err = r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, SubmessageFieldStart, ev)
	require.Equal(t, "child", r.Current().Name)

	ev, err = r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, SimpleField, ev)
	require.Equal(t, "inner", r.Current().Name)
	require.Equal(t, int64(-9), r.Current().Value)

	ev, err = r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, SubmessageFieldEnd, ev)

	ev, err = r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, MessageEnd, ev)

	require.False(t, r.HasNext())
}

func TestBinaryRoundTripVarSizeBoundaries(t *testing.T) {
	for _, n := range []int{0, 1, 255, 256, 65535, 65536} {
		n := n
		t.Run(string(rune('a'+n%26)), func(t *testing.T) {
			var buf bytes.Buffer

			w, err := NewBinaryWriter(&buf)
			require.NoError(t, err)
			writeSampleMessage(t, w, n)

			r, err := NewBinaryReader(&buf)
			require.NoError(t, err)

			var got string

			for r.HasNext() {
				ev, err := r.MoveNext()
				require.NoError(t, err)

				if ev == NoElement {
					break
				}

				if ev == SimpleField && r.Current().Name == "label" {
					got = r.Current().Value.(string)
				}
			}

			require.Len(t, got, n)
		})
	}
}

func TestBinaryWriterRejectsUnbalancedClose(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewBinaryWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.StartMessage(EnvelopeInfo{}))
	require.Error(t, w.EndSubMessage())
}

func TestBinaryReaderDetectsTruncatedStream(t *testing.T) {
	env := envelope.Envelope{Size: 100}
	r, err := NewBinaryReader(bytes.NewReader(env.Bytes()))
	require.NoError(t, err)

	_, err = r.MoveNext()
	require.NoError(t, err)

	_, err = r.MoveNext()
	require.Error(t, err)
}

func TestBinaryReaderWithTaxonomyResolver(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewBinaryWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.StartMessage(EnvelopeInfo{TaxonomyID: 3}))
	require.NoError(t, w.WriteField(false, "", true, 1, wtype.Int, int32(99)))
	require.NoError(t, w.EndMessage())

	tax := envelope.MapTaxonomy{1: "count"}
	r, err := NewBinaryReader(&buf, WithTaxonomyResolver(func(id int16) (envelope.Taxonomy, bool) {
		if id == 3 {
			return tax, true
		}

		return nil, false
	}))
	require.NoError(t, err)

	_, err = r.MoveNext()
	require.NoError(t, err)

	ev, err := r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, SimpleField, ev)
	require.True(t, r.Current().HasName)
	require.Equal(t, "count", r.Current().Name)
}
