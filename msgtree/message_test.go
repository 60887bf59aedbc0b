package msgtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relstream/fudge/wireio"
	"github.com/relstream/fudge/wtype"
)

func buildSample() *Message {
	return NewBuilder(0, 1, 9).
		Named("active", wtype.Boolean, true).
		Ordinal(5, wtype.Int, int32(42)).
		SubMessage("child", 0, true, false, func(b *Builder) {
			b.Named("inner", wtype.Long, int64(-9))
		}).
		Build()
}

func TestBuilderAndGetters(t *testing.T) {
	m := buildSample()

	v, ok := m.GetBool("active")
	require.True(t, ok)
	require.True(t, v)

	f, ok := m.FirstByOrdinal(5)
	require.True(t, ok)
	i, ok := widenInt64(f.Value)
	require.True(t, ok)
	require.Equal(t, int64(42), i)

	child, ok := m.GetMessage("child")
	require.True(t, ok)

	inner, ok := child.GetInt64("inner")
	require.True(t, ok)
	require.Equal(t, int64(-9), inner)
}

func TestDuplicateFieldsPreserved(t *testing.T) {
	m := NewBuilder(0, 0, 0).
		Named("tag", wtype.String, "a").
		Named("tag", wtype.String, "b").
		Build()

	fs := m.ByName("tag")
	require.Len(t, fs, 2)
	require.Equal(t, "a", fs[0].Value)
	require.Equal(t, "b", fs[1].Value)
}

func TestContentHashStable(t *testing.T) {
	a := buildSample()
	b := buildSample()

	h1, err := a.ContentHash()
	require.NoError(t, err)

	h2, err := b.ContentHash()
	require.NoError(t, err)

	require.Equal(t, h1, h2)

	c := NewBuilder(0, 1, 9).Named("active", wtype.Boolean, false).Build()
	h3, err := c.ContentHash()
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)
}

func TestTreeReaderWriterRoundTrip(t *testing.T) {
	src := buildSample()

	tw := NewTreeWriter()
	r := NewTreeReader(src)

	for r.HasNext() {
		ev, err := r.MoveNext()
		require.NoError(t, err)

		el := r.Current()

		switch ev {
		case wireio.MessageStart:
			require.NoError(t, tw.StartMessage(el.Envelope))
		case wireio.SimpleField:
			require.NoError(t, tw.WriteField(el.HasName, el.Name, el.HasOrdinal, el.Ordinal, el.Type, el.Value))
		case wireio.SubmessageFieldStart:
			require.NoError(t, tw.StartSubMessage(el.HasName, el.Name, el.HasOrdinal, el.Ordinal))
		case wireio.SubmessageFieldEnd:
			require.NoError(t, tw.EndSubMessage())
		case wireio.MessageEnd:
			require.NoError(t, tw.EndMessage())
		}
	}

	got := tw.Root()
	require.NotNil(t, got)
	require.Equal(t, src.TaxonomyID, got.TaxonomyID)
	require.Equal(t, len(src.Fields()), len(got.Fields()))
}
