package wireio

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/relstream/fudge/endian"
	"github.com/relstream/fudge/envelope"
	"github.com/relstream/fudge/errs"
	"github.com/relstream/fudge/wtype"
)

// frame tracks one open message (top-level envelope or sub-message),
// mirroring the teacher's blob.NumericDecoder section bookkeeping: a
// declared size and how much of it has been consumed so far.
type frame struct {
	size     uint32
	consumed uint32
	isTop    bool
}

// BinaryReader is a Reader over the binary wire format (spec §4.2).
type BinaryReader struct {
	src      *bufio.Reader
	dict     *wtype.Dictionary
	resolver envelope.Resolver
	engine   endian.EndianEngine

	stack      []frame
	current    Element
	started    bool
	done       bool
	err        error
	taxonomyID int16
}

// NewBinaryReader returns a BinaryReader pulling from r.
func NewBinaryReader(r io.Reader, opts ...ReaderOption) (*BinaryReader, error) {
	cfg, err := newReaderConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &BinaryReader{
		src:      bufio.NewReader(r),
		dict:     cfg.dict,
		resolver: cfg.resolver,
		engine:   endian.GetBigEndianEngine(),
	}, nil
}

// HasNext reports whether a further MoveNext call is expected to produce an
// event. At the top level (no open frames) it peeks a single byte so a
// graceful EOF between messages reports false instead of an error.
func (r *BinaryReader) HasNext() bool {
	if r.err != nil || r.done {
		return false
	}

	if len(r.stack) > 0 {
		return true
	}

	_, err := r.src.Peek(1)
	return err == nil
}

// Current returns the element populated by the most recent MoveNext call.
func (r *BinaryReader) Current() Element {
	return r.current
}

// MoveNext advances the reader by one event.
func (r *BinaryReader) MoveNext() (Event, error) {
	if r.err != nil {
		return NoElement, r.err
	}

	if r.done {
		return NoElement, nil
	}

	ev, err := r.step()
	if err != nil {
		r.err = err
		return NoElement, err
	}

	return ev, nil
}

func (r *BinaryReader) step() (Event, error) {
	if len(r.stack) == 0 {
		return r.startTopMessage()
	}

	top := &r.stack[len(r.stack)-1]
	if top.consumed > top.size {
		return NoElement, fmt.Errorf("%w: consumed %d exceeds declared size %d", errs.ErrFrameOverrun, top.consumed, top.size)
	}

	if top.consumed == top.size {
		return r.popFrame()
	}

	return r.readField()
}

func (r *BinaryReader) startTopMessage() (Event, error) {
	hdr := make([]byte, envelope.HeaderSize)
	if _, err := io.ReadFull(r.src, hdr); err != nil {
		return NoElement, fmt.Errorf("%w: %v", errs.ErrTruncatedStream, err)
	}

	env, err := envelope.Parse(hdr)
	if err != nil {
		return NoElement, err
	}

	if env.Size < envelope.HeaderSize {
		return NoElement, fmt.Errorf("%w: envelope size %d smaller than header", errs.ErrEnvelopeSizeMismatch, env.Size)
	}

	r.stack = append(r.stack, frame{size: env.Size, consumed: envelope.HeaderSize, isTop: true})
	r.current = Element{
		Envelope: EnvelopeInfo{
			ProcessingDirectives: env.ProcessingDirectives,
			SchemaVersion:        env.SchemaVersion,
			TaxonomyID:           env.TaxonomyID,
		},
	}

	r.started = true
	r.taxonomyID = env.TaxonomyID

	return MessageStart, nil
}

func (r *BinaryReader) popFrame() (Event, error) {
	closed := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]

	if len(r.stack) > 0 {
		parent := &r.stack[len(r.stack)-1]
		parent.consumed += closed.consumed
		r.current = Element{}

		return SubmessageFieldEnd, nil
	}

	r.current = Element{}

	return MessageEnd, nil
}

// readField decodes one field prefix and its payload, charging every byte
// consumed (header overhead plus payload) against the current top frame.
func (r *BinaryReader) readField() (Event, error) {
	top := &r.stack[len(r.stack)-1]

	prefixByte, err := r.readByte()
	if err != nil {
		return NoElement, err
	}

	prefix := wtype.UnpackPrefix(prefixByte)
	overhead := uint32(1) // prefix byte

	typeIDByte, err := r.readByte()
	if err != nil {
		return NoElement, err
	}

	typeID := wtype.TypeID(typeIDByte)
	overhead++

	var ordinal int16
	if prefix.OrdinalPresent {
		ob, err := r.readN(2)
		if err != nil {
			return NoElement, err
		}

		ordinal = int16(r.engine.Uint16(ob)) //nolint:gosec
		overhead += 2
	}

	var (
		name    string
		hasName bool
	)

	if prefix.NamePresent {
		nameLen, err := r.readByte()
		if err != nil {
			return NoElement, err
		}

		overhead++

		nb, err := r.readN(int(nameLen))
		if err != nil {
			return NoElement, err
		}

		overhead += uint32(nameLen)

		if !utf8.Valid(nb) {
			return NoElement, errs.ErrInvalidUTF8
		}

		name = string(nb)
		hasName = true
	}

	if !hasName && r.resolver != nil && prefix.OrdinalPresent {
		if tax, ok := r.resolver(r.taxonomyID); ok {
			if n, ok := tax.GetName(ordinal); ok {
				name, hasName = n, true
			}
		}
	}

	codec := r.dict.Lookup(typeID)

	if codec.Kind() == wtype.KindUnknown && prefix.FixedWidth {
		return NoElement, fmt.Errorf("%w: id %d", errs.ErrUnknownFixedType, typeID)
	}

	var varSize uint32

	if typeID == wtype.FudgeMsg || !prefix.FixedWidth {
		switch prefix.VarSizeBytes {
		case 0:
			varSize = 0
		case 1:
			b, err := r.readByte()
			if err != nil {
				return NoElement, err
			}

			overhead++
			varSize = uint32(b)
		case 2:
			b, err := r.readN(2)
			if err != nil {
				return NoElement, err
			}

			overhead += 2
			varSize = uint32(r.engine.Uint16(b))
		case 4:
			b, err := r.readN(4)
			if err != nil {
				return NoElement, err
			}

			overhead += 4
			varSize = r.engine.Uint32(b)
		}
	}

	if top.consumed+overhead > top.size {
		return NoElement, fmt.Errorf("%w: field header extends beyond frame", errs.ErrVarSizeOutOfFrame)
	}

	top.consumed += overhead

	if typeID == wtype.FudgeMsg {
		if top.consumed+varSize > top.size {
			return NoElement, errs.ErrVarSizeOutOfFrame
		}

		r.stack = append(r.stack, frame{size: varSize, consumed: 0})
		r.current = Element{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: prefix.OrdinalPresent, Type: typeID}

		return SubmessageFieldStart, nil
	}

	payloadSize := varSize
	if prefix.FixedWidth {
		payloadSize = uint32(codec.FixedSize())
	}

	if top.consumed+payloadSize > top.size {
		return NoElement, errs.ErrVarSizeOutOfFrame
	}

	payload, err := r.readN(int(payloadSize))
	if err != nil {
		return NoElement, err
	}

	top.consumed += payloadSize

	value, err := codec.Read(r.engine, payload)
	if err != nil {
		return NoElement, err
	}

	r.current = Element{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: prefix.OrdinalPresent, Type: typeID, Value: value}

	return SimpleField, nil
}

func (r *BinaryReader) readByte() (byte, error) {
	b, err := r.src.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrTruncatedStream, err)
	}

	return b, nil
}

func (r *BinaryReader) readN(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrTruncatedStream, err)
	}

	return buf, nil
}
