package jsonstream

import (
	"io"

	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/wireio"
)

// Reader parses a single top-level JSON object into a Message and then
// replays it as the standard event sequence via an embedded
// msgtree.TreeReader, so downstream code never has to special-case a JSON
// source versus a binary or in-memory one.
type Reader struct {
	tr *msgtree.TreeReader
}

// NewReader parses r's entire top-level JSON object eagerly (the array
// lookahead rule in spec §4.4 requires seeing every element before
// deciding how to emit the field, so true incremental streaming isn't
// possible at the object level) and returns a Reader ready to walk it.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	cfg, err := newReaderConfig(opts...)
	if err != nil {
		return nil, err
	}

	p := &parser{lex: NewLexer(r), cfg: cfg}

	root, err := p.parseTopLevel()
	if err != nil {
		return nil, err
	}

	return &Reader{tr: msgtree.NewTreeReader(root)}, nil
}

func (r *Reader) HasNext() bool {
	return r.tr.HasNext()
}

func (r *Reader) Current() wireio.Element {
	return r.tr.Current()
}

func (r *Reader) MoveNext() (wireio.Event, error) {
	return r.tr.MoveNext()
}
