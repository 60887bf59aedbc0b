package wtype

import "testing"

func TestPrefixRoundTrip(t *testing.T) {
	cases := []Prefix{
		{FixedWidth: true},
		{FixedWidth: false, VarSizeBytes: 0},
		{FixedWidth: false, VarSizeBytes: 1},
		{FixedWidth: false, VarSizeBytes: 2},
		{FixedWidth: false, VarSizeBytes: 4},
		{FixedWidth: true, OrdinalPresent: true},
		{FixedWidth: false, VarSizeBytes: 2, OrdinalPresent: true, NamePresent: true},
	}

	for _, want := range cases {
		got := UnpackPrefix(want.Pack())
		if got != want {
			t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
		}
	}
}

func TestNarrowestVarSize(t *testing.T) {
	cases := []struct {
		length int
		want   int
	}{
		{0, 0},
		{1, 1},
		{255, 1},
		{256, 2},
		{65535, 2},
		{65536, 4},
		{1 << 31 - 1, 4},
	}

	for _, c := range cases {
		if got := NarrowestVarSize(c.length); got != c.want {
			t.Fatalf("NarrowestVarSize(%d) = %d, want %d", c.length, got, c.want)
		}
	}
}

func TestPrefixBitMasks(t *testing.T) {
	// 0b1001_1000: fixed-width, ordinal present, name present
	b := byte(0x98)
	p := UnpackPrefix(b)
	if !p.FixedWidth || !p.OrdinalPresent || !p.NamePresent {
		t.Fatalf("unexpected decode of 0x98: %+v", p)
	}
}
