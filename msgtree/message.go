package msgtree

import "github.com/relstream/fudge/wtype"

// Field is one entry of a Message's ordered field list. Value holds the
// decoded scalar/string/bytes/array/DateTime payload for a leaf field, or
// is nil when Sub is set (Type == wtype.FudgeMsg).
type Field struct {
	Name    string
	HasName bool

	Ordinal    int16
	HasOrdinal bool

	Type  wtype.TypeID
	Value any
	Sub   *Message
}

// Message is an ordered, duplicate-tolerant field list (spec §3:
// "duplicate names/ordinals are permitted"). Lookup maps are built lazily
// on first access rather than maintained on every Append, matching the
// teacher's indexMaps deferred-collision-map idiom.
type Message struct {
	ProcessingDirectives uint8
	SchemaVersion        uint8
	TaxonomyID           int16

	fields []Field

	byName    map[string][]int
	byOrdinal map[int16][]int
}

// New returns an empty Message with the given envelope header fields.
func New(processingDirectives, schemaVersion uint8, taxonomyID int16) *Message {
	return &Message{
		ProcessingDirectives: processingDirectives,
		SchemaVersion:        schemaVersion,
		TaxonomyID:           taxonomyID,
	}
}

// Fields returns the field list in wire order. The returned slice must not
// be mutated by the caller.
func (m *Message) Fields() []Field {
	return m.fields
}

// Len returns the number of fields at this level (not counting nested
// sub-message fields).
func (m *Message) Len() int {
	return len(m.fields)
}

// Append adds a field to the end of the list and invalidates the lookup
// indices, which are rebuilt lazily on next lookup.
func (m *Message) Append(f Field) {
	m.fields = append(m.fields, f)
	m.byName = nil
	m.byOrdinal = nil
}

func (m *Message) ensureIndices() {
	if m.byName != nil || m.byOrdinal != nil {
		return
	}

	m.byName = make(map[string][]int, len(m.fields))
	m.byOrdinal = make(map[int16][]int, len(m.fields))

	for i, f := range m.fields {
		if f.HasName {
			m.byName[f.Name] = append(m.byName[f.Name], i)
		}

		if f.HasOrdinal {
			m.byOrdinal[f.Ordinal] = append(m.byOrdinal[f.Ordinal], i)
		}
	}
}

// ByName returns every field registered under name, in wire order.
func (m *Message) ByName(name string) []Field {
	m.ensureIndices()

	idx := m.byName[name]
	out := make([]Field, 0, len(idx))

	for _, i := range idx {
		out = append(out, m.fields[i])
	}

	return out
}

// ByOrdinal returns every field registered under ordinal, in wire order.
func (m *Message) ByOrdinal(ordinal int16) []Field {
	m.ensureIndices()

	idx := m.byOrdinal[ordinal]
	out := make([]Field, 0, len(idx))

	for _, i := range idx {
		out = append(out, m.fields[i])
	}

	return out
}

// First returns the first field registered under name, if any.
func (m *Message) First(name string) (Field, bool) {
	fs := m.ByName(name)
	if len(fs) == 0 {
		return Field{}, false
	}

	return fs[0], true
}

// FirstByOrdinal returns the first field registered under ordinal, if any.
func (m *Message) FirstByOrdinal(ordinal int16) (Field, bool) {
	fs := m.ByOrdinal(ordinal)
	if len(fs) == 0 {
		return Field{}, false
	}

	return fs[0], true
}
