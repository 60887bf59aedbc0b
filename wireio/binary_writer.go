package wireio

import (
	"fmt"
	"io"

	"github.com/relstream/fudge/endian"
	"github.com/relstream/fudge/envelope"
	"github.com/relstream/fudge/errs"
	"github.com/relstream/fudge/internal/pool"
	"github.com/relstream/fudge/wtype"
)

// placeholderVarSize is the width (in bytes) reserved up front for a
// sub-message's size field, before its actual content length is known.
// EndSubMessage narrows it down to the smallest width that fits (spec
// §4.3), shifting the buffered content left to close the gap.
const placeholderVarSize = 4

// wframe tracks one open frame on the writer side: where its reserved size
// field begins and where its content begins, mirroring the teacher's
// blob.NumericEncoder backpatch-by-index bookkeeping.
type wframe struct {
	sizeFieldOffset int
	contentStart    int
	prefixOffset    int // offset of the prefix byte that introduced this frame; unused for the top frame
	ordinalPresent  bool
	namePresent     bool
	isTop           bool
}

// BinaryWriter is a Writer over the binary wire format (spec §4.3).
type BinaryWriter struct {
	dst    io.Writer
	dict   *wtype.Dictionary
	engine endian.EndianEngine
	buf    *pool.ByteBuffer
	stack  []wframe

	autoFlush bool
}

// NewBinaryWriter returns a BinaryWriter pushing completed top-level
// messages to dst.
func NewBinaryWriter(dst io.Writer, opts ...WriterOption) (*BinaryWriter, error) {
	cfg, err := newWriterConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &BinaryWriter{
		dst:       dst,
		dict:      cfg.dict,
		engine:    endian.GetBigEndianEngine(),
		autoFlush: cfg.autoFlush,
	}, nil
}

// StartMessage begins a new top-level envelope. The prior message, if any,
// must already have been closed with EndMessage.
func (w *BinaryWriter) StartMessage(info EnvelopeInfo) error {
	if len(w.stack) != 0 {
		return fmt.Errorf("fudge: StartMessage called with %d frame(s) still open", len(w.stack))
	}

	w.buf = pool.GetBlobBuffer()
	w.buf.Reset()

	env := envelope.Envelope{
		ProcessingDirectives: info.ProcessingDirectives,
		SchemaVersion:        info.SchemaVersion,
		TaxonomyID:           info.TaxonomyID,
	}
	w.buf.MustWrite(env.Bytes())

	w.stack = append(w.stack, wframe{sizeFieldOffset: 4, contentStart: envelope.HeaderSize, isTop: true})

	return nil
}

// WriteField emits one simple (leaf) field. The payload is encoded to a
// scratch slice first so its exact length is known before anything is
// appended to the frame buffer, which avoids the backpatch dance needed for
// sub-messages.
func (w *BinaryWriter) WriteField(hasName bool, name string, hasOrdinal bool, ordinal int16, typ wtype.TypeID, value any) error {
	if len(w.stack) == 0 {
		return fmt.Errorf("fudge: WriteField called with no open message")
	}

	if hasName && len(name) > 0xFF {
		return errs.ErrNameTooLong
	}

	codec := w.dict.Lookup(typ)

	var payload []byte

	payload, err := codec.Write(w.engine, payload, value)
	if err != nil {
		return err
	}

	prefix := wtype.Prefix{
		FixedWidth:     codec.FixedWidth(),
		OrdinalPresent: hasOrdinal,
		NamePresent:    hasName,
	}

	if !prefix.FixedWidth {
		prefix.VarSizeBytes = wtype.NarrowestVarSize(len(payload))
	}

	w.buf.MustWrite([]byte{prefix.Pack(), byte(typ)})

	if hasOrdinal {
		w.buf.MustWrite(w.engine.AppendUint16(nil, uint16(ordinal))) //nolint:gosec
	}

	if hasName {
		w.buf.MustWrite([]byte{byte(len(name))})
		w.buf.MustWrite([]byte(name))
	}

	if !prefix.FixedWidth {
		w.buf.MustWrite(encodeVarSize(w.engine, prefix.VarSizeBytes, len(payload)))
	}

	w.buf.MustWrite(payload)

	return nil
}

// StartSubMessage opens a nested message field. The size field is reserved
// at its maximum width and narrowed once EndSubMessage knows the actual
// content length.
func (w *BinaryWriter) StartSubMessage(hasName bool, name string, hasOrdinal bool, ordinal int16) error {
	if len(w.stack) == 0 {
		return fmt.Errorf("fudge: StartSubMessage called with no open message")
	}

	if hasName && len(name) > 0xFF {
		return errs.ErrNameTooLong
	}

	prefix := wtype.Prefix{
		FixedWidth:     false,
		VarSizeBytes:   placeholderVarSize,
		OrdinalPresent: hasOrdinal,
		NamePresent:    hasName,
	}

	prefixOffset := w.buf.Len()
	w.buf.MustWrite([]byte{prefix.Pack(), byte(wtype.FudgeMsg)})

	if hasOrdinal {
		w.buf.MustWrite(w.engine.AppendUint16(nil, uint16(ordinal))) //nolint:gosec
	}

	if hasName {
		w.buf.MustWrite([]byte{byte(len(name))})
		w.buf.MustWrite([]byte(name))
	}

	sizeFieldOffset := w.buf.Len()
	w.buf.MustWrite(make([]byte, placeholderVarSize))

	w.stack = append(w.stack, wframe{
		sizeFieldOffset: sizeFieldOffset,
		contentStart:    w.buf.Len(),
		prefixOffset:    prefixOffset,
		ordinalPresent:  hasOrdinal,
		namePresent:     hasName,
	})

	return nil
}

// EndSubMessage closes the most recently opened sub-message, shrinking its
// reserved size field down to the narrowest width that fits the actual
// content and shifting that content left to close the resulting gap.
func (w *BinaryWriter) EndSubMessage() error {
	if len(w.stack) == 0 || w.stack[len(w.stack)-1].isTop {
		return fmt.Errorf("fudge: EndSubMessage called with no open sub-message")
	}

	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]

	contentLen := w.buf.Len() - top.contentStart
	width := wtype.NarrowestVarSize(contentLen)
	delta := placeholderVarSize - width

	if delta > 0 {
		newContentStart := top.sizeFieldOffset + width
		copy(w.buf.B[newContentStart:], w.buf.B[top.contentStart:w.buf.Len()])
		w.buf.SetLength(w.buf.Len() - delta)
	}

	if width > 0 {
		copy(w.buf.B[top.sizeFieldOffset:top.sizeFieldOffset+width], encodeVarSize(w.engine, width, contentLen))
	}

	patched := wtype.Prefix{
		FixedWidth:     false,
		VarSizeBytes:   width,
		OrdinalPresent: top.ordinalPresent,
		NamePresent:    top.namePresent,
	}
	w.buf.B[top.prefixOffset] = patched.Pack()

	return nil
}

// EndMessage closes the top-level envelope, backpatches its fixed 4-byte
// size field, and (unless auto-flush is disabled) writes the completed
// message to the underlying io.Writer.
func (w *BinaryWriter) EndMessage() error {
	if len(w.stack) != 1 || !w.stack[0].isTop {
		return fmt.Errorf("fudge: EndMessage called with sub-message(s) still open")
	}

	top := w.stack[0]
	w.stack = w.stack[:0]

	total := uint32(w.buf.Len()) //nolint:gosec
	w.engine.PutUint32(w.buf.B[top.sizeFieldOffset:top.sizeFieldOffset+4], total)

	if w.autoFlush {
		if _, err := w.buf.WriteTo(w.dst); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrIO, err)
		}

		pool.PutBlobBuffer(w.buf)
		w.buf = nil
	}

	return nil
}

// Flush writes any buffered, already-closed message bytes to the
// underlying writer. Only meaningful when auto-flush is disabled; a no-op
// otherwise since EndMessage already flushed.
func (w *BinaryWriter) Flush() error {
	if w.buf == nil || w.buf.Len() == 0 {
		return nil
	}

	if _, err := w.buf.WriteTo(w.dst); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	pool.PutBlobBuffer(w.buf)
	w.buf = nil

	return nil
}

// encodeVarSize returns the width-byte big-endian encoding of n. width must
// be one of 1, 2, 4 (0 is never encoded on the wire).
func encodeVarSize(engine endian.EndianEngine, width, n int) []byte {
	switch width {
	case 1:
		return []byte{byte(n)}
	case 2:
		return engine.AppendUint16(nil, uint16(n)) //nolint:gosec
	case 4:
		return engine.AppendUint32(nil, uint32(n)) //nolint:gosec
	default:
		return nil
	}
}
