package jsonstream

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/wireio"
	"github.com/relstream/fudge/wtype"
)

func encodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Writer buffers an incoming event sequence into a Message (via an
// embedded msgtree.TreeWriter) and renders it to JSON text as soon as the
// top-level message closes. Rendering needs the whole message at once
// because consecutive same-name fields collapse into a single JSON array
// (spec §4.4) and that can't be decided until every field has arrived.
type Writer struct {
	dst io.Writer
	cfg *WriterConfig
	tw  *msgtree.TreeWriter
}

// NewWriter returns a Writer rendering completed messages to dst.
func NewWriter(dst io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg, err := newWriterConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Writer{dst: dst, cfg: cfg, tw: msgtree.NewTreeWriter()}, nil
}

func (w *Writer) StartMessage(info wireio.EnvelopeInfo) error {
	w.tw = msgtree.NewTreeWriter()
	return w.tw.StartMessage(info)
}

func (w *Writer) WriteField(hasName bool, name string, hasOrdinal bool, ordinal int16, typ wtype.TypeID, value any) error {
	return w.tw.WriteField(hasName, name, hasOrdinal, ordinal, typ, value)
}

func (w *Writer) StartSubMessage(hasName bool, name string, hasOrdinal bool, ordinal int16) error {
	return w.tw.StartSubMessage(hasName, name, hasOrdinal, ordinal)
}

func (w *Writer) EndSubMessage() error {
	return w.tw.EndSubMessage()
}

func (w *Writer) EndMessage() error {
	if err := w.tw.EndMessage(); err != nil {
		return err
	}

	root := w.tw.Root()

	var sb strings.Builder

	rend := &renderer{cfg: w.cfg, sb: &sb}
	rend.renderMessage(root, 0, true)

	_, err := io.WriteString(w.dst, sb.String())

	return err
}

type renderer struct {
	cfg *WriterConfig
	sb  *strings.Builder
}

func (r *renderer) newline(depth int) {
	if r.cfg.indent == "" {
		return
	}

	r.sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		r.sb.WriteString(r.cfg.indent)
	}
}

// fieldGroup is a run of one-or-more consecutive fields sharing the same
// JSON key; len(fields) > 1 renders as a JSON array (spec §4.4: "successive
// fields with identical name become a JSON array").
type fieldGroup struct {
	key    string
	fields []msgtree.Field
}

func (r *renderer) groupFields(fields []msgtree.Field) []fieldGroup {
	var groups []fieldGroup

	for _, f := range fields {
		key := r.keyFor(f)

		if n := len(groups); n > 0 && groups[n-1].key == key {
			groups[n-1].fields = append(groups[n-1].fields, f)
			continue
		}

		groups = append(groups, fieldGroup{key: key, fields: []msgtree.Field{f}})
	}

	return groups
}

func (r *renderer) keyFor(f msgtree.Field) string {
	switch {
	case f.HasName && f.HasOrdinal:
		if r.cfg.preferFieldNames {
			return f.Name
		}

		return strconv.Itoa(int(f.Ordinal))
	case f.HasName:
		return f.Name
	case f.HasOrdinal:
		return strconv.Itoa(int(f.Ordinal))
	default:
		return ""
	}
}

func (r *renderer) renderMessage(msg *msgtree.Message, depth int, topLevel bool) {
	r.sb.WriteByte('{')

	wroteAny := false

	if topLevel {
		wroteAny = r.writeEnvelopeKeys(msg, depth+1)
	}

	groups := r.groupFields(msg.Fields())

	for _, g := range groups {
		if wroteAny {
			r.sb.WriteByte(',')
		}

		r.newline(depth + 1)
		writeJSONString(r.sb, g.key)
		r.sb.WriteString(": ")
		r.renderGroup(g, depth+1)

		wroteAny = true
	}

	if wroteAny {
		r.newline(depth)
	}

	r.sb.WriteByte('}')
}

// envelopeKV pairs a reserved JSON key with the envelope value it carries;
// key is nil when that field is suppressed (spec §6: "strings or null to
// suppress").
type envelopeKV struct {
	key   *string
	value int64
}

func (r *renderer) envelopeCandidates(msg *msgtree.Message) []envelopeKV {
	keys := r.cfg.envelopeKeys

	return []envelopeKV{
		{keys.ProcessingDirectives, int64(msg.ProcessingDirectives)},
		{keys.SchemaVersion, int64(msg.SchemaVersion)},
		{keys.TaxonomyID, int64(msg.TaxonomyID)},
	}
}

// writeEnvelopeKeys renders every non-suppressed envelope field, zero or
// not, once at least one of them carries a non-zero value, and reports
// whether anything was written. A field whose key is nil is skipped
// regardless of its value.
func (r *renderer) writeEnvelopeKeys(msg *msgtree.Message, depth int) bool {
	candidates := r.envelopeCandidates(msg)

	anyNonZero := false

	for _, c := range candidates {
		if c.key != nil && c.value != 0 {
			anyNonZero = true
			break
		}
	}

	if !anyNonZero {
		return false
	}

	first := true

	for _, c := range candidates {
		if c.key == nil {
			continue
		}

		if !first {
			r.sb.WriteByte(',')
		}

		first = false
		r.newline(depth)
		writeJSONString(r.sb, *c.key)
		r.sb.WriteString(": ")
		r.sb.WriteString(strconv.FormatInt(c.value, 10))
	}

	return true
}

func (r *renderer) renderGroup(g fieldGroup, depth int) {
	if len(g.fields) == 1 {
		r.renderFieldValue(g.fields[0], depth)
		return
	}

	r.sb.WriteByte('[')

	for i, f := range g.fields {
		if i > 0 {
			r.sb.WriteByte(',')
		}

		r.newline(depth + 1)
		r.renderFieldValue(f, depth+1)
	}

	if len(g.fields) > 0 {
		r.newline(depth)
	}

	r.sb.WriteByte(']')
}

func (r *renderer) renderFieldValue(f msgtree.Field, depth int) {
	if f.Sub != nil {
		r.renderMessage(f.Sub, depth, false)
		return
	}

	switch f.Type {
	case wtype.Indicator:
		r.sb.WriteString("null")
	case wtype.DateTime:
		dt := f.Value.(wtype.DateTime)
		writeJSONString(r.sb, dt.Time().Format(rfc3339Nano))
	case wtype.ShortArray, wtype.IntArray, wtype.LongArray, wtype.FloatArray, wtype.DoubleArray:
		r.renderNumericSlice(f.Value)
	default:
		r.renderScalar(f.Value)
	}
}

func (r *renderer) renderNumericSlice(value any) {
	r.sb.WriteByte('[')

	writeOne := func(i int, s string) {
		if i > 0 {
			r.sb.WriteByte(',')
		}

		r.sb.WriteString(s)
	}

	switch v := value.(type) {
	case []int16:
		for i, n := range v {
			writeOne(i, strconv.FormatInt(int64(n), 10))
		}
	case []int32:
		for i, n := range v {
			writeOne(i, strconv.FormatInt(int64(n), 10))
		}
	case []int64:
		for i, n := range v {
			writeOne(i, strconv.FormatInt(n, 10))
		}
	case []float32:
		for i, n := range v {
			writeOne(i, formatFloat(float64(n)))
		}
	case []float64:
		for i, n := range v {
			writeOne(i, formatFloat(n))
		}
	}

	r.sb.WriteByte(']')
}

func (r *renderer) renderScalar(value any) {
	switch v := value.(type) {
	case nil:
		r.sb.WriteString("null")
	case bool:
		if v {
			r.sb.WriteString("true")
		} else {
			r.sb.WriteString("false")
		}
	case string:
		writeJSONString(r.sb, v)
	case int8:
		r.sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		r.sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		r.sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		r.sb.WriteString(strconv.FormatInt(v, 10))
	case float32:
		r.sb.WriteString(formatFloat(float64(v)))
	case float64:
		r.sb.WriteString(formatFloat(v))
	case []byte:
		writeJSONString(r.sb, encodeBase64(v))
	default:
		r.sb.WriteString(fmt.Sprintf("%v", v))
	}
}

// formatFloat renders a round-trip IEEE-754-2008 representation (spec
// §4.4 example: "2.375E+15") using Go's shortest round-trip formatter with
// an uppercase exponent marker.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'G', -1, 64)
}

const rfc3339Nano = "2006-01-02T15:04:05.999999999Z07:00"

func writeJSONString(sb *strings.Builder, s string) {
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')
}
