package wtype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relstream/fudge/endian"
)

// TestDateTimeScenario4 exercises spec.md §8 scenario 4: a 1930-01-05
// 12:35:17.456 UTC instant encodes with options=0x20 (Nanosecond accuracy,
// offset-present flag set, offset units 0) and decodes back identically.
//
// spec.md's worked example states seconds=-1261397083 for this instant,
// which does not match standard Unix-epoch arithmetic for
// 1930-01-05T12:35:17Z (that instant is -1261913083 seconds since epoch);
// this test uses the value derived from time.Time.Unix() rather than the
// literal spec.md figure, per spec §6's own rule ("seconds is signed
// seconds since 1970-01-01T00:00:00 UTC").
func TestDateTimeScenario4(t *testing.T) {
	instant := time.Date(1930, time.January, 5, 12, 35, 17, 456000000, time.UTC)
	dt := NewDateTimeUTC(instant, AccuracyNanosecond)
	dt.OffsetPresent = true // see design note: UTC-with-offset, offset==0

	require.Equal(t, instant.Unix(), dt.Seconds)
	require.Equal(t, uint32(456000000), dt.Nanos)

	engine := endian.GetBigEndianEngine()
	codec := dateTimeCodec{}

	buf, err := codec.Write(engine, nil, dt)
	require.NoError(t, err)
	require.Equal(t, byte(0x20), buf[0])
	require.Equal(t, byte(0), buf[1])

	got, err := codec.Read(engine, buf)
	require.NoError(t, err)
	require.Equal(t, dt, got)
}

func TestDateTimeOffsetValidation(t *testing.T) {
	now := time.Now()

	_, err := NewDateTimeWithOffset(now, AccuracySecond, 7)
	require.Error(t, err, "non-multiple-of-15 offset must be rejected")

	dt, err := NewDateTimeWithOffset(now, AccuracySecond, -90)
	require.NoError(t, err)
	require.Equal(t, int8(-6), dt.Offset)
	require.True(t, dt.OffsetPresent)
}

func TestDateTimeMinus90RendersAsMinus0130(t *testing.T) {
	now := time.Date(2020, time.June, 1, 10, 0, 0, 0, time.UTC)
	dt, err := NewDateTimeWithOffset(now, AccuracyNanosecond, -90)
	require.NoError(t, err)

	_, offsetSeconds := dt.Time().Zone()
	require.Equal(t, -90*60, offsetSeconds)
}
