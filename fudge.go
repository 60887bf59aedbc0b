// Package fudge provides convenient top-level wrappers around the
// wireio, msgtree, jsonstream, and objgraph packages for the handful of
// operations most callers need: encode/decode a message tree to or from
// the binary or JSON wire format, and marshal/unmarshal a Go value
// through one in a single call. For fine-grained control — custom
// dictionaries, streaming pipelines, cooperative pump cancellation,
// building a tree field by field — use those packages directly.
//
// # Basic usage
//
// Building and encoding a message tree directly:
//
//	msg := msgtree.NewBuilder(0, 1, 7).Named("name", wtype.String, "ok").Build()
//
//	var buf bytes.Buffer
//	if err := fudge.EncodeBinary(&buf, msg); err != nil {
//	    log.Fatal(err)
//	}
//
//	decoded, err := fudge.DecodeBinary(&buf)
//
// Marshaling a Go value through the object graph serializer:
//
//	tm := fudge.NewTypeMap()
//	tm.RegisterType(reflect.TypeOf(Account{}), "myapp.Account")
//
//	var buf bytes.Buffer
//	err := fudge.WriteObject(&buf, tm, account, wireio.EnvelopeInfo{SchemaVersion: 1})
//
//	out, err := fudge.ReadObject(&buf, tm, reflect.TypeOf(Account{}))
//	account := out.(*Account)
package fudge

import (
	"context"
	"io"
	"reflect"

	"github.com/relstream/fudge/jsonstream"
	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/objgraph"
	"github.com/relstream/fudge/pipe"
	"github.com/relstream/fudge/wireio"
	"github.com/relstream/fudge/wtype"
)

// NewTypeMap returns a TypeMap with all five built-in surrogates
// registered in their fixed selection order (user hook, classic info,
// list, dictionary, bean), ready for RegisterType calls.
func NewTypeMap() *objgraph.TypeMap {
	return objgraph.NewDefaultTypeMap()
}

// NewDictionary returns a type dictionary with every built-in wtype codec
// registered — the same default wireio.NewBinaryReader/NewBinaryWriter
// fall back to when no WithReaderDictionary/WithWriterDictionary option
// is supplied.
func NewDictionary() *wtype.Dictionary {
	return wtype.NewDictionary()
}

// EncodeBinary writes msg to dst in the binary wire format (spec §4.3).
func EncodeBinary(dst io.Writer, msg *msgtree.Message, opts ...wireio.WriterOption) error {
	w, err := wireio.NewBinaryWriter(dst, opts...)
	if err != nil {
		return err
	}

	return pipe.Pump(context.Background(), msgtree.NewTreeReader(msg), w, nil)
}

// DecodeBinary reads one top-level message from src in the binary wire
// format and returns it as a Message.
func DecodeBinary(src io.Reader, opts ...wireio.ReaderOption) (*msgtree.Message, error) {
	r, err := wireio.NewBinaryReader(src, opts...)
	if err != nil {
		return nil, err
	}

	tw := msgtree.NewTreeWriter()

	// Cancelling after the first top-level message stops the pump there.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := pipe.Pump(ctx, r, tw, stop); err != nil && ctx.Err() == nil {
		return nil, err
	}

	return tw.Root(), nil
}

// EncodeJSON writes msg to dst as JSON text (spec §4.4).
func EncodeJSON(dst io.Writer, msg *msgtree.Message, opts ...jsonstream.WriterOption) error {
	w, err := jsonstream.NewWriter(dst, opts...)
	if err != nil {
		return err
	}

	return pipe.Pump(context.Background(), msgtree.NewTreeReader(msg), w, nil)
}

// DecodeJSON reads one top-level JSON object from src and returns it as a
// Message.
func DecodeJSON(src io.Reader, opts ...jsonstream.ReaderOption) (*msgtree.Message, error) {
	r, err := jsonstream.NewReader(src, opts...)
	if err != nil {
		return nil, err
	}

	tw := msgtree.NewTreeWriter()
	if err := pipe.Pump(context.Background(), r, tw, nil); err != nil {
		return nil, err
	}

	return tw.Root(), nil
}

// WriteObject marshals obj through tm and writes the result to dst in the
// binary wire format, combining objgraph.Marshal and EncodeBinary into a
// single call for the common case of a fresh default dictionary.
func WriteObject(dst io.Writer, tm *objgraph.TypeMap, obj any, info wireio.EnvelopeInfo, opts ...wireio.WriterOption) error {
	msg, err := objgraph.Marshal(tm, wtype.NewDictionary(), obj, info)
	if err != nil {
		return err
	}

	return EncodeBinary(dst, msg, opts...)
}

// ReadObject reads one top-level message from src in the binary wire
// format and rebuilds its root object through tm, combining DecodeBinary
// and objgraph.Unmarshal into a single call.
func ReadObject(src io.Reader, tm *objgraph.TypeMap, hintType reflect.Type, opts ...wireio.ReaderOption) (any, error) {
	msg, err := DecodeBinary(src, opts...)
	if err != nil {
		return nil, err
	}

	return objgraph.Unmarshal(tm, msg, hintType)
}
