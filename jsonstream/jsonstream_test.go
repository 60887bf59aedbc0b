package jsonstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relstream/fudge/wireio"
	"github.com/relstream/fudge/wtype"
)

func TestReaderParsesBasicObject(t *testing.T) {
	src := `{"active": true, "count": 42, "label": "hi", "nested": {"inner": -9}}`

	r, err := NewReader(strings.NewReader(src))
	require.NoError(t, err)

	ev, err := r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, wireio.MessageStart, ev)

	var sawNested, sawLabel bool

	for r.HasNext() {
		ev, err := r.MoveNext()
		require.NoError(t, err)

		el := r.Current()

		switch ev {
		case wireio.SimpleField:
			if el.Name == "label" {
				sawLabel = true
				require.Equal(t, "hi", el.Value)
			}
		case wireio.SubmessageFieldStart:
			if el.Name == "nested" {
				sawNested = true
			}
		case wireio.NoElement:
		}
	}

	require.True(t, sawNested)
	require.True(t, sawLabel)
}

func TestReaderCollapsesNumericArray(t *testing.T) {
	src := `{"nums": [1, 2, 3]}`

	r, err := NewReader(strings.NewReader(src))
	require.NoError(t, err)

	_, err = r.MoveNext()
	require.NoError(t, err)

	ev, err := r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, wireio.SimpleField, ev)
	require.Equal(t, wtype.IntArray, r.Current().Type)
	require.Equal(t, []int32{1, 2, 3}, r.Current().Value)
}

func TestReaderReplaysMixedArrayAsRepeatedFields(t *testing.T) {
	src := `{"tag": ["a", 1, true]}`

	r, err := NewReader(strings.NewReader(src))
	require.NoError(t, err)

	_, err = r.MoveNext()
	require.NoError(t, err)

	var values []any

	for r.HasNext() {
		ev, err := r.MoveNext()
		require.NoError(t, err)

		if ev == wireio.SimpleField {
			values = append(values, r.Current().Value)
		}
	}

	require.Equal(t, []any{"a", int32(1), true}, values)
}

func TestReaderNullBecomesIndicator(t *testing.T) {
	r, err := NewReader(strings.NewReader(`{"x": null}`))
	require.NoError(t, err)

	_, err = r.MoveNext()
	require.NoError(t, err)

	ev, err := r.MoveNext()
	require.NoError(t, err)
	require.Equal(t, wireio.SimpleField, ev)
	require.Equal(t, wtype.Indicator, r.Current().Type)
	require.Nil(t, r.Current().Value)
}

func TestWriterGroupsRepeatedFields(t *testing.T) {
	var sb strings.Builder

	w, err := NewWriter(&sb)
	require.NoError(t, err)

	require.NoError(t, w.StartMessage(wireio.EnvelopeInfo{}))
	require.NoError(t, w.WriteField(true, "tag", false, 0, wtype.String, "a"))
	require.NoError(t, w.WriteField(true, "tag", false, 0, wtype.String, "b"))
	require.NoError(t, w.EndMessage())

	require.Equal(t, `{"tag": ["a","b"]}`, sb.String())
}

func TestWriterRendersIndicatorAsNull(t *testing.T) {
	var sb strings.Builder

	w, err := NewWriter(&sb)
	require.NoError(t, err)

	require.NoError(t, w.StartMessage(wireio.EnvelopeInfo{}))
	require.NoError(t, w.WriteField(true, "x", false, 0, wtype.Indicator, nil))
	require.NoError(t, w.EndMessage())

	require.Equal(t, `{"x": null}`, sb.String())
}

func TestWriterSuppressesNilEnvelopeKey(t *testing.T) {
	var sb strings.Builder

	keys := EnvelopeKeys{
		ProcessingDirectives: nil,
		SchemaVersion:        envelopeKey("fudgeSchemaVersion"),
		TaxonomyID:           nil,
	}

	w, err := NewWriter(&sb, WithWriterEnvelopeKeys(keys))
	require.NoError(t, err)

	require.NoError(t, w.StartMessage(wireio.EnvelopeInfo{ProcessingDirectives: 1, SchemaVersion: 5, TaxonomyID: 9}))
	require.NoError(t, w.WriteField(true, "x", false, 0, wtype.Int, int32(1)))
	require.NoError(t, w.EndMessage())

	out := sb.String()
	require.Contains(t, out, `"fudgeSchemaVersion": 5`)
	require.NotContains(t, out, "fudgeProcessingDirectives")
	require.NotContains(t, out, "fudgeTaxonomy")
}

func TestReaderIgnoresSuppressedEnvelopeKeyAsOrdinaryField(t *testing.T) {
	keys := EnvelopeKeys{
		ProcessingDirectives: nil,
		SchemaVersion:        envelopeKey("fudgeSchemaVersion"),
		TaxonomyID:           nil,
	}

	src := `{"fudgeProcessingDirectives": 1, "fudgeSchemaVersion": 5}`

	r, err := NewReader(strings.NewReader(src), WithReaderEnvelopeKeys(keys))
	require.NoError(t, err)

	_, err = r.MoveNext()
	require.NoError(t, err)

	var sawField bool

	for r.HasNext() {
		ev, err := r.MoveNext()
		require.NoError(t, err)

		if ev == wireio.SimpleField && r.Current().Name == "fudgeProcessingDirectives" {
			sawField = true
		}
	}

	require.True(t, sawField, "a suppressed envelope key must be treated as an ordinary field")
}

func TestRoundTripJSONReaderToWriter(t *testing.T) {
	src := `{"active": true, "count": 7, "nums": [1, 2, 3]}`

	r, err := NewReader(strings.NewReader(src))
	require.NoError(t, err)

	var sb strings.Builder
	w, err := NewWriter(&sb)
	require.NoError(t, err)

	for r.HasNext() {
		ev, err := r.MoveNext()
		require.NoError(t, err)

		el := r.Current()

		switch ev {
		case wireio.MessageStart:
			require.NoError(t, w.StartMessage(el.Envelope))
		case wireio.SimpleField:
			require.NoError(t, w.WriteField(el.HasName, el.Name, el.HasOrdinal, el.Ordinal, el.Type, el.Value))
		case wireio.SubmessageFieldStart:
			require.NoError(t, w.StartSubMessage(el.HasName, el.Name, el.HasOrdinal, el.Ordinal))
		case wireio.SubmessageFieldEnd:
			require.NoError(t, w.EndSubMessage())
		case wireio.MessageEnd:
			require.NoError(t, w.EndMessage())
		}
	}

	require.Contains(t, sb.String(), `"active": true`)
	require.Contains(t, sb.String(), `"nums": [1,2,3]`)
}
