package jsonstream

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/relstream/fudge/errs"
	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/wtype"
)

// ordinalKeyPattern matches a JSON object key that should be interpreted as
// a field ordinal rather than a literal name (spec §4.4).
var ordinalKeyPattern = regexp.MustCompile(`^-?[0-9]+$`)

type parser struct {
	lex *Lexer
	cfg *ReaderConfig
}

// parseTopLevel consumes one top-level JSON object and returns it as a
// Message. Reserved envelope keys are extracted into the envelope fields;
// every other key becomes a regular field.
func (p *parser) parseTopLevel() (*msgtree.Message, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}

	if tok.Kind != TokenBeginObject {
		return nil, fmt.Errorf("%w: top-level JSON value must be an object", errs.ErrUnexpectedToken)
	}

	msg := msgtree.New(0, 0, 0)

	return msg, p.parseObjectBody(msg, true)
}

// parseObjectBody consumes object members up to the matching '}', which it
// also consumes. isTopLevel controls whether reserved envelope keys are
// recognized and stripped out of the regular field list.
func (p *parser) parseObjectBody(msg *msgtree.Message, isTopLevel bool) error {
	first := true

	for {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}

		if tok.Kind == TokenEndObject {
			return nil
		}

		if !first {
			if tok.Kind != TokenValueSeparator {
				return fmt.Errorf("%w: expected ',' between object members", errs.ErrUnexpectedToken)
			}

			tok, err = p.lex.Next()
			if err != nil {
				return err
			}
		}
		first = false

		if tok.Kind != TokenString {
			return fmt.Errorf("%w: expected string key", errs.ErrUnexpectedToken)
		}

		key := tok.Value.(string)

		sep, err := p.lex.Next()
		if err != nil {
			return err
		}

		if sep.Kind != TokenNameSeparator {
			return fmt.Errorf("%w: expected ':' after object key", errs.ErrUnexpectedToken)
		}

		if isTopLevel {
			if handled, err := p.tryEnvelopeKey(msg, key); err != nil {
				return err
			} else if handled {
				continue
			}
		}

		if err := p.parseFieldValue(msg, key); err != nil {
			return err
		}
	}
}

// isEnvelopeKey reports whether key matches a non-suppressed reserved
// envelope key. A suppressed field (nil key) never matches, so a blank or
// coincidentally-named JSON key is treated as an ordinary field instead.
func isEnvelopeKey(key string, reserved *string) bool {
	return reserved != nil && key == *reserved
}

func (p *parser) tryEnvelopeKey(msg *msgtree.Message, key string) (bool, error) {
	keys := p.cfg.envelopeKeys

	switch {
	case isEnvelopeKey(key, keys.ProcessingDirectives):
		v, err := p.readIntScalar()
		if err != nil {
			return true, err
		}

		msg.ProcessingDirectives = uint8(v) //nolint:gosec

		return true, nil
	case isEnvelopeKey(key, keys.SchemaVersion):
		v, err := p.readIntScalar()
		if err != nil {
			return true, err
		}

		msg.SchemaVersion = uint8(v) //nolint:gosec

		return true, nil
	case isEnvelopeKey(key, keys.TaxonomyID):
		v, err := p.readIntScalar()
		if err != nil {
			return true, err
		}

		msg.TaxonomyID = int16(v) //nolint:gosec

		return true, nil
	default:
		return false, nil
	}
}

func (p *parser) readIntScalar() (int64, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return 0, err
	}

	switch tok.Kind {
	case TokenInteger:
		return int64(tok.Value.(int32)), nil
	case TokenLong:
		return tok.Value.(int64), nil
	default:
		return 0, fmt.Errorf("%w: expected integer envelope value", errs.ErrUnexpectedToken)
	}
}

// fieldKey resolves a JSON key into a (name, ordinal) pair per the
// NumbersAreOrdinals option.
func (p *parser) fieldKey(key string) (name string, hasName bool, ordinal int16, hasOrdinal bool) {
	if p.cfg.numbersAreOrdinals && ordinalKeyPattern.MatchString(key) {
		n, err := strconv.ParseInt(key, 10, 16)
		if err == nil {
			return "", false, int16(n), true
		}
	}

	return key, true, 0, false
}

func (p *parser) parseFieldValue(msg *msgtree.Message, key string) error {
	name, hasName, ordinal, hasOrdinal := p.fieldKey(key)

	tok, err := p.lex.Next()
	if err != nil {
		return err
	}

	switch tok.Kind {
	case TokenBeginArray:
		return p.parseArrayField(msg, name, hasName, ordinal, hasOrdinal)
	case TokenBeginObject:
		sub := msgtree.New(0, 0, 0)
		if err := p.parseObjectBody(sub, false); err != nil {
			return err
		}

		msg.Append(msgtree.Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: wtype.FudgeMsg, Sub: sub})

		return nil
	default:
		typ, value, err := scalarFromToken(tok)
		if err != nil {
			return err
		}

		msg.Append(msgtree.Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: typ, Value: value})

		return nil
	}
}

func scalarFromToken(tok Token) (wtype.TypeID, any, error) {
	switch tok.Kind {
	case TokenNull:
		return wtype.Indicator, nil, nil
	case TokenString:
		return wtype.String, tok.Value.(string), nil
	case TokenBoolean:
		return wtype.Boolean, tok.Value.(bool), nil
	case TokenInteger:
		return wtype.Int, tok.Value.(int32), nil
	case TokenLong:
		return wtype.Long, tok.Value.(int64), nil
	case TokenDouble:
		return wtype.Double, tok.Value.(float64), nil
	default:
		return 0, nil, fmt.Errorf("%w: unexpected value token %s", errs.ErrUnexpectedToken, tok.Kind)
	}
}

// parseArrayField implements spec §4.4's array lookahead: collects every
// element first, then either emits one primitive-array field (all elements
// the same numeric kind, widening integer to long to double) or replays
// the elements as repeated fields sharing the same name/ordinal.
func (p *parser) parseArrayField(msg *msgtree.Message, name string, hasName bool, ordinal int16, hasOrdinal bool) error {
	elements, err := p.collectArrayTokens()
	if err != nil {
		return err
	}

	if typ, value, ok := numericArrayValue(elements); ok {
		msg.Append(msgtree.Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: typ, Value: value})
		return nil
	}

	for _, el := range elements {
		if el.isObject {
			msg.Append(msgtree.Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: wtype.FudgeMsg, Sub: el.sub})
			continue
		}

		typ, value, err := scalarFromToken(el.tok)
		if err != nil {
			return err
		}

		msg.Append(msgtree.Field{Name: name, HasName: hasName, Ordinal: ordinal, HasOrdinal: hasOrdinal, Type: typ, Value: value})
	}

	return nil
}

// arrayElement is either a scalar token or a nested object parsed during
// array lookahead.
type arrayElement struct {
	tok      Token
	isObject bool
	sub      *msgtree.Message
}

func (p *parser) collectArrayTokens() ([]arrayElement, error) {
	var elements []arrayElement

	first := true

	for {
		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == TokenEndArray {
			return elements, nil
		}

		if !first {
			if tok.Kind != TokenValueSeparator {
				return nil, fmt.Errorf("%w: expected ',' between array elements", errs.ErrUnexpectedToken)
			}

			tok, err = p.lex.Next()
			if err != nil {
				return nil, err
			}
		}
		first = false

		if tok.Kind == TokenBeginObject {
			sub := msgtree.New(0, 0, 0)
			if err := p.parseObjectBody(sub, false); err != nil {
				return nil, err
			}

			elements = append(elements, arrayElement{isObject: true, sub: sub})

			continue
		}

		elements = append(elements, arrayElement{tok: tok})
	}
}

// numericArrayValue reports whether every element is a number, and if so
// returns the widened array type and value.
func numericArrayValue(elements []arrayElement) (wtype.TypeID, any, bool) {
	hasDouble, hasLong := false, false

	for _, el := range elements {
		if el.isObject {
			return 0, nil, false
		}

		switch el.tok.Kind {
		case TokenInteger:
		case TokenLong:
			hasLong = true
		case TokenDouble:
			hasDouble = true
		default:
			return 0, nil, false
		}
	}

	switch {
	case hasDouble:
		out := make([]float64, len(elements))
		for i, el := range elements {
			out[i] = numberAsFloat64(el.tok)
		}

		return wtype.DoubleArray, out, true
	case hasLong:
		out := make([]int64, len(elements))
		for i, el := range elements {
			out[i] = numberAsInt64(el.tok)
		}

		return wtype.LongArray, out, true
	default:
		out := make([]int32, len(elements))
		for i, el := range elements {
			out[i] = el.tok.Value.(int32)
		}

		return wtype.IntArray, out, true
	}
}

func numberAsInt64(tok Token) int64 {
	switch v := tok.Value.(type) {
	case int32:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

func numberAsFloat64(tok Token) float64 {
	switch v := tok.Value.(type) {
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}
