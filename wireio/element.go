package wireio

import "github.com/relstream/fudge/wtype"

// Element describes the field (or envelope) the reader last moved onto.
type Element struct {
	Name    string
	HasName bool

	Ordinal    int16
	HasOrdinal bool

	Type  wtype.TypeID
	Value any

	// Envelope is populated (in place of the other fields) when the
	// current event is MessageStart.
	Envelope EnvelopeInfo
}

// EnvelopeInfo carries the envelope header fields surfaced on
// MessageStart for the top-level message.
type EnvelopeInfo struct {
	ProcessingDirectives uint8
	SchemaVersion        uint8
	TaxonomyID           int16
}

// Reader is the pull side of the event model: HasNext/MoveNext drive a
// cursor through MessageStart, SimpleField, SubmessageFieldStart,
// SubmessageFieldEnd, MessageEnd, NoElement.
type Reader interface {
	// HasNext reports whether a call to MoveNext is expected to produce a
	// further event. It returns false at a graceful top-level EOF and after
	// an error.
	HasNext() bool

	// MoveNext advances the cursor and returns the event produced. A
	// non-nil error leaves the reader in a terminal state (spec §7:
	// "after an error the reader/writer is in a terminal state").
	MoveNext() (Event, error)

	// Current returns the element state associated with the most recent
	// MoveNext call. Only the fields relevant to the current event are
	// meaningful.
	Current() Element
}

// Writer is the push side of the event model, the exact dual of Reader.
type Writer interface {
	// StartMessage begins a new top-level envelope.
	StartMessage(info EnvelopeInfo) error

	// WriteField emits one simple (leaf) field. Name and ordinal are each
	// optional, and both may be absent (an anonymous field); the wire
	// format itself requires neither.
	WriteField(hasName bool, name string, hasOrdinal bool, ordinal int16, typ wtype.TypeID, value any) error

	// StartSubMessage opens a nested message field.
	StartSubMessage(hasName bool, name string, hasOrdinal bool, ordinal int16) error

	// EndSubMessage closes the most recently opened sub-message.
	EndSubMessage() error

	// EndMessage closes the top-level envelope opened by StartMessage.
	EndMessage() error
}
