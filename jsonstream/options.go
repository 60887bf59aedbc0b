package jsonstream

import "github.com/relstream/fudge/internal/options"

// EnvelopeKeys names the reserved top-level JSON keys a Reader/Writer uses
// to carry the envelope header fields alongside a message's own fields.
// Each field is independently nullable (spec §6: "strings or null to
// suppress") — a nil field is never written and never matched on read, so
// that envelope value is carried only in the binary wire format, not JSON.
type EnvelopeKeys struct {
	ProcessingDirectives *string
	SchemaVersion        *string
	TaxonomyID           *string
}

func envelopeKey(name string) *string {
	return &name
}

// DefaultEnvelopeKeys is used when no WithReaderEnvelopeKeys or
// WithWriterEnvelopeKeys option is supplied.
var DefaultEnvelopeKeys = EnvelopeKeys{
	ProcessingDirectives: envelopeKey("fudgeProcessingDirectives"),
	SchemaVersion:        envelopeKey("fudgeSchemaVersion"),
	TaxonomyID:           envelopeKey("fudgeTaxonomy"),
}

// ReaderConfig controls how a Reader interprets JSON text.
type ReaderConfig struct {
	numbersAreOrdinals bool
	envelopeKeys       EnvelopeKeys
}

type ReaderOption = options.Option[*ReaderConfig]

// WithNumbersAreOrdinals controls whether a purely-numeric JSON key (spec
// §4.4: matching `^-?[0-9]+$`) is interpreted as a field ordinal rather
// than a literal field name. Default true.
func WithNumbersAreOrdinals(enabled bool) ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.numbersAreOrdinals = enabled })
}

// WithReaderEnvelopeKeys overrides the reserved envelope meta-key names.
func WithReaderEnvelopeKeys(keys EnvelopeKeys) ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.envelopeKeys = keys })
}

func newReaderConfig(opts ...ReaderOption) (*ReaderConfig, error) {
	cfg := &ReaderConfig{envelopeKeys: DefaultEnvelopeKeys, numbersAreOrdinals: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriterConfig controls how a Writer renders a message to JSON text.
type WriterConfig struct {
	// preferFieldNames breaks the tie when a field carries both a name and
	// an ordinal: true emits the name as the JSON key, false emits the
	// ordinal (spec §9 open question, resolved in DESIGN.md).
	preferFieldNames bool
	envelopeKeys     EnvelopeKeys
	indent           string
}

type WriterOption = options.Option[*WriterConfig]

// WithPreferFieldNames sets the tie-break used when a field has both a
// name and an ordinal. Default true.
func WithPreferFieldNames(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) { c.preferFieldNames = enabled })
}

// WithWriterEnvelopeKeys overrides the reserved envelope meta-key names.
func WithWriterEnvelopeKeys(keys EnvelopeKeys) WriterOption {
	return options.NoError(func(c *WriterConfig) { c.envelopeKeys = keys })
}

// WithIndent enables pretty-printing using the given per-level indent
// string (e.g. "  "). Empty (the default) produces compact output.
func WithIndent(indent string) WriterOption {
	return options.NoError(func(c *WriterConfig) { c.indent = indent })
}

func newWriterConfig(opts ...WriterOption) (*WriterConfig, error) {
	cfg := &WriterConfig{preferFieldNames: true, envelopeKeys: DefaultEnvelopeKeys}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
