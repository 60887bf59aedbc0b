package wtype

import (
	"time"

	"github.com/relstream/fudge/endian"
	"github.com/relstream/fudge/errs"
)

// Accuracy is the precision a DateTime value claims to carry, packed into
// the low 5 bits of the payload's options byte.
type Accuracy uint8

const (
	AccuracyNanosecond  Accuracy = 0
	AccuracyMicrosecond Accuracy = 1
	AccuracyMillisecond Accuracy = 2
	AccuracySecond      Accuracy = 3
	AccuracyMinute      Accuracy = 4
	AccuracyHour        Accuracy = 5
	AccuracyDay         Accuracy = 6
	AccuracyMonth       Accuracy = 7
	AccuracyYear        Accuracy = 8
	AccuracyCentury     Accuracy = 9
)

const (
	accuracyMask      = 0x1F
	offsetPresentMask = 0x20

	// dateTimePayloadSize is the on-wire byte count of options(1) + offset(1)
	// + seconds(8) + nanos(4). See the note on the DateTime type for why it
	// is 14, not the "12 bytes" label spec.md uses.
	dateTimePayloadSize = 14
)

// DateTime is the decoded form of the wire format's date/time payload:
// options(1) offset(1) seconds(8) nanos(4).
//
// Resolved inconsistency: spec.md labels this a "12-byte" payload but lists
// four fields (u8, i8, i64, u32) that total 14 bytes; its own worked example
// (§8 scenario 4) exercises all four fields with distinct values, so the
// field list is taken as authoritative and the payload is encoded/decoded
// as 14 bytes. See DESIGN.md.
//
// Design note (spec §9, open question): one construction path in the
// original system set the offset-present flag without ever clearing it for
// a supplied-zero offset, so "offset == 0 and flagged present" and
// "no offset, flag clear" are both reachable and distinct. OffsetPresent is
// therefore tracked explicitly here rather than inferred from Offset == 0.
type DateTime struct {
	Accuracy      Accuracy
	OffsetPresent bool
	// Offset is in 15-minute units, valid range [-96, 96]. Meaningful only
	// when OffsetPresent is true.
	Offset int8
	// Seconds is signed seconds since 1970-01-01T00:00:00 UTC.
	Seconds int64
	// Nanos is in [0, 1e9).
	Nanos uint32
}

// NewDateTimeUTC builds a DateTime with no UTC offset recorded (flag clear).
func NewDateTimeUTC(t time.Time, accuracy Accuracy) DateTime {
	return DateTime{
		Accuracy: accuracy,
		Seconds:  t.Unix(),
		Nanos:    uint32(t.Nanosecond()), //nolint:gosec
	}
}

// NewDateTimeWithOffset builds a DateTime that records an explicit UTC
// offset in 15-minute units. offsetMinutes must be a multiple of 15 in
// [-1440, 1440]; it is rejected otherwise (spec §8 boundary: "DateTime
// offset minutes must be a multiple of 15; non-multiples are rejected at
// construction").
func NewDateTimeWithOffset(t time.Time, accuracy Accuracy, offsetMinutes int) (DateTime, error) {
	if offsetMinutes%15 != 0 {
		return DateTime{}, errs.ErrInvalidDateTimeOffset
	}

	units := offsetMinutes / 15
	if units < -96 || units > 96 {
		return DateTime{}, errs.ErrInvalidDateTimeOffset
	}

	return DateTime{
		Accuracy:      accuracy,
		OffsetPresent: true,
		Offset:        int8(units),
		Seconds:       t.Unix(),
		Nanos:         uint32(t.Nanosecond()), //nolint:gosec
	}, nil
}

// Time reconstructs a time.Time from the DateTime, applying the recorded
// offset (if present) for display purposes; the instant itself is always
// stored as UTC seconds+nanos.
func (d DateTime) Time() time.Time {
	t := time.Unix(d.Seconds, int64(d.Nanos)).UTC()
	if d.OffsetPresent {
		loc := time.FixedZone("", int(d.Offset)*15*60)
		return t.In(loc)
	}

	return t
}

type dateTimeCodec struct{}

func (dateTimeCodec) TypeID() TypeID   { return DateTime }
func (dateTimeCodec) Kind() Kind       { return KindDateTime }
func (dateTimeCodec) FixedWidth() bool { return true }
func (dateTimeCodec) FixedSize() int   { return dateTimePayloadSize }

func (dateTimeCodec) Read(_ endian.EndianEngine, b []byte) (any, error) {
	if len(b) != dateTimePayloadSize {
		return nil, errShortBuffer(DateTime, dateTimePayloadSize, len(b))
	}

	options := b[0]

	return DateTime{
		Accuracy:      Accuracy(options & accuracyMask),
		OffsetPresent: options&offsetPresentMask != 0,
		Offset:        int8(b[1]),
		Seconds:       int64(beUint64(b[2:10])),
		Nanos:         beUint32(b[10:14]),
	}, nil
}

func (dateTimeCodec) Write(_ endian.EndianEngine, buf []byte, value any) ([]byte, error) {
	v, ok := value.(DateTime)
	if !ok {
		return buf, errUnsupportedValue(DateTime, value)
	}

	options := byte(v.Accuracy) & accuracyMask
	if v.OffsetPresent {
		options |= offsetPresentMask
	}

	buf = append(buf, options, byte(v.Offset))
	buf = appendBEUint64(buf, uint64(v.Seconds))
	buf = appendBEUint32(buf, v.Nanos)

	return buf, nil
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v
}

func beUint32(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}

	return v
}

func appendBEUint64(buf []byte, v uint64) []byte {
	return append(buf, byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendBEUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
