// Package pipe connects any wireio.Reader to any wireio.Writer, forwarding
// events one-to-one so a binary stream, a JSON stream, and an in-memory
// tree can all interoperate without any of them knowing about the others.
//
// The shape is a deliberately small, single-file package: a pump loop with
// a cancellation flag, written against the wireio.Reader/Writer interfaces
// rather than any fixed pair of concrete types.
package pipe

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/relstream/fudge/wireio"
)

// Pump forwards every event from r to w until r has no further event, ctx
// is cancelled, or either side errors. onMessage, if non-nil, is invoked
// after each top-level message has fully drained.
func Pump(ctx context.Context, r wireio.Reader, w wireio.Writer, onMessage func()) error {
	p := &Pumper{onMessage: onMessage}
	return p.Run(ctx, r, w)
}

// Pumper supports cooperative cancellation mid-stream via Abort, beyond
// what a single Pump call offers.
type Pumper struct {
	onMessage func()
	aborted   atomic.Bool
}

// Abort requests that the pump stop at the next event boundary. Safe to
// call from a different goroutine than the one running Run.
func (p *Pumper) Abort() {
	p.aborted.Store(true)
}

// Run drives events from r to w until r has no further event, ctx is
// cancelled, Abort is called, or either side errors, invoking onMessage
// after each top-level message.
func (p *Pumper) Run(ctx context.Context, r wireio.Reader, w wireio.Writer) error {
	depth := 0

	for r.HasNext() {
		if p.aborted.Load() {
			return fmt.Errorf("pipe: aborted")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := r.MoveNext()
		if err != nil {
			return fmt.Errorf("pipe: read: %w", err)
		}

		el := r.Current()

		switch ev {
		case wireio.MessageStart:
			depth++
			if err := w.StartMessage(el.Envelope); err != nil {
				return fmt.Errorf("pipe: write MessageStart: %w", err)
			}
		case wireio.SimpleField:
			if err := w.WriteField(el.HasName, el.Name, el.HasOrdinal, el.Ordinal, el.Type, el.Value); err != nil {
				return fmt.Errorf("pipe: write field: %w", err)
			}
		case wireio.SubmessageFieldStart:
			if err := w.StartSubMessage(el.HasName, el.Name, el.HasOrdinal, el.Ordinal); err != nil {
				return fmt.Errorf("pipe: write SubmessageFieldStart: %w", err)
			}
		case wireio.SubmessageFieldEnd:
			if err := w.EndSubMessage(); err != nil {
				return fmt.Errorf("pipe: write SubmessageFieldEnd: %w", err)
			}
		case wireio.MessageEnd:
			if err := w.EndMessage(); err != nil {
				return fmt.Errorf("pipe: write MessageEnd: %w", err)
			}

			depth--
			if depth == 0 && p.onMessage != nil {
				p.onMessage()
			}
		case wireio.NoElement:
			return nil
		}
	}

	return nil
}
