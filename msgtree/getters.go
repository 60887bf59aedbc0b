package msgtree

import (
	"github.com/relstream/fudge/wtype"
)

// GetBool returns the first named field's value widened to bool.
func (m *Message) GetBool(name string) (bool, bool) {
	f, ok := m.First(name)
	if !ok {
		return false, false
	}

	v, ok := f.Value.(bool)
	return v, ok
}

// GetInt64 returns the first named field's value widened to int64,
// covering every narrower fixed-width integer codec's decoded Go type
// (int8/int16/int32/int64), the same widening a typed getter performs
// against a wtype.Dictionary-decoded value.
func (m *Message) GetInt64(name string) (int64, bool) {
	f, ok := m.First(name)
	if !ok {
		return 0, false
	}

	return widenInt64(f.Value)
}

// GetFloat64 returns the first named field's value widened to float64.
func (m *Message) GetFloat64(name string) (float64, bool) {
	f, ok := m.First(name)
	if !ok {
		return 0, false
	}

	return widenFloat64(f.Value)
}

// GetString returns the first named field's string value.
func (m *Message) GetString(name string) (string, bool) {
	f, ok := m.First(name)
	if !ok {
		return "", false
	}

	v, ok := f.Value.(string)
	return v, ok
}

// GetBytes returns the first named field's byte-array value.
func (m *Message) GetBytes(name string) ([]byte, bool) {
	f, ok := m.First(name)
	if !ok {
		return nil, false
	}

	v, ok := f.Value.([]byte)
	return v, ok
}

// GetDateTime returns the first named field's DateTime value.
func (m *Message) GetDateTime(name string) (wtype.DateTime, bool) {
	f, ok := m.First(name)
	if !ok {
		return wtype.DateTime{}, false
	}

	v, ok := f.Value.(wtype.DateTime)
	return v, ok
}

// GetMessage returns the first named sub-message field.
func (m *Message) GetMessage(name string) (*Message, bool) {
	f, ok := m.First(name)
	if !ok || f.Sub == nil {
		return nil, false
	}

	return f.Sub, true
}

func widenInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func widenFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
