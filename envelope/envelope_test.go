package envelope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	e := Envelope{ProcessingDirectives: 1, SchemaVersion: 2, TaxonomyID: -7, Size: 123456}

	got, err := Parse(e.Bytes())
	require.NoError(t, err)
	require.Equal(t, e, got)
}

func TestParseRejectsShortHeader(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestMapTaxonomy(t *testing.T) {
	tax := MapTaxonomy{1: "a", 2: "b"}

	name, ok := tax.GetName(1)
	require.True(t, ok)
	require.Equal(t, "a", name)

	_, ok = tax.GetName(99)
	require.False(t, ok)
}
