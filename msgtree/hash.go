package msgtree

import (
	"bytes"
	"context"

	"github.com/relstream/fudge/internal/hash"
	"github.com/relstream/fudge/pipe"
	"github.com/relstream/fudge/wireio"
)

// ContentHash returns the xxHash64 of the message's canonical binary
// encoding (spec §3: "a message ... is content-addressed by its bytes").
// Two messages with the same fields in the same order hash identically
// regardless of how they were constructed.
func (m *Message) ContentHash() (uint64, error) {
	var buf bytes.Buffer

	w, err := wireio.NewBinaryWriter(&buf)
	if err != nil {
		return 0, err
	}

	if err := pipe.Pump(context.Background(), NewTreeReader(m), w, nil); err != nil {
		return 0, err
	}

	return hash.ID(buf.String()), nil
}
