// Package envelope defines the fixed 8-byte framing that wraps every
// top-level message on the wire.
//
// The fixed-header Parse/Bytes shape is grounded on the teacher's
// section.NumericHeader: a small struct with a Parse([]byte) error and a
// Bytes() []byte method, reduced from mebo's 32-byte columnar header down
// to the spec's 8-byte envelope.
package envelope

import (
	"encoding/binary"

	"github.com/relstream/fudge/errs"
)

// HeaderSize is the fixed byte count of an envelope header, not including
// the payload.
const HeaderSize = 8

// Envelope is the framing around a single top-level message.
//
//	u8  ProcessingDirectives
//	u8  SchemaVersion
//	i16 TaxonomyID (big-endian)
//	u32 Size (big-endian) — total envelope byte count, header included
type Envelope struct {
	ProcessingDirectives uint8
	SchemaVersion        uint8
	TaxonomyID           int16
	Size                 uint32
}

// Parse decodes an 8-byte envelope header.
func Parse(data []byte) (Envelope, error) {
	if len(data) != HeaderSize {
		return Envelope{}, errs.ErrTruncatedStream
	}

	return Envelope{
		ProcessingDirectives: data[0],
		SchemaVersion:        data[1],
		TaxonomyID:           int16(binary.BigEndian.Uint16(data[2:4])), //nolint:gosec
		Size:                 binary.BigEndian.Uint32(data[4:8]),
	}, nil
}

// Bytes serializes the envelope header.
func (e Envelope) Bytes() []byte {
	b := make([]byte, HeaderSize)
	b[0] = e.ProcessingDirectives
	b[1] = e.SchemaVersion
	binary.BigEndian.PutUint16(b[2:4], uint16(e.TaxonomyID)) //nolint:gosec
	binary.BigEndian.PutUint32(b[4:8], e.Size)

	return b
}
