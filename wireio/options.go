package wireio

import (
	"github.com/relstream/fudge/envelope"
	"github.com/relstream/fudge/internal/options"
	"github.com/relstream/fudge/wtype"
)

// ReaderConfig holds BinaryReader construction options.
type ReaderConfig struct {
	dict     *wtype.Dictionary
	resolver envelope.Resolver
}

// ReaderOption configures a BinaryReader at construction time.
type ReaderOption = options.Option[*ReaderConfig]

// WithReaderDictionary overrides the default built-in type dictionary.
func WithReaderDictionary(d *wtype.Dictionary) ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.dict = d })
}

// WithTaxonomyResolver configures the function used to resolve an envelope's
// taxonomy id to a Taxonomy, enabling name lookups for ordinal-only fields.
func WithTaxonomyResolver(r envelope.Resolver) ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.resolver = r })
}

func newReaderConfig(opts ...ReaderOption) (*ReaderConfig, error) {
	cfg := &ReaderConfig{dict: wtype.NewDictionary()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriterConfig holds BinaryWriter construction options.
type WriterConfig struct {
	dict      *wtype.Dictionary
	autoFlush bool
}

// WriterOption configures a BinaryWriter at construction time.
type WriterOption = options.Option[*WriterConfig]

// WithWriterDictionary overrides the default built-in type dictionary.
func WithWriterDictionary(d *wtype.Dictionary) WriterOption {
	return options.NoError(func(c *WriterConfig) { c.dict = d })
}

// WithAutoFlushOnMessageEnd controls whether the writer flushes its
// accumulated bytes to the underlying io.Writer as soon as EndMessage
// closes a top-level envelope (spec §6 "AutoFlushOnMessageEnd"). Default
// true.
func WithAutoFlushOnMessageEnd(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) { c.autoFlush = enabled })
}

func newWriterConfig(opts ...WriterOption) (*WriterConfig, error) {
	cfg := &WriterConfig{dict: wtype.NewDictionary(), autoFlush: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
