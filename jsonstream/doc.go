// Package jsonstream implements the JSON-text mapping of the event model
// (spec §4.4): a hand-rolled tokenizer plus a Reader/Writer pair that
// translate between JSON object/array syntax and the same MessageStart/
// SimpleField/SubmessageFieldStart/SubmessageFieldEnd/MessageEnd event
// sequence the binary wireio package produces, so a jsonstream.Reader can
// feed a wireio.BinaryWriter (and vice versa) through pipe.Pump without
// either side special-casing the other.
//
// The byte-at-a-time scanning style is grounded in the low-level decoder
// loops the pack's binary wire-format readers use (bufio.Reader plus
// explicit rune/byte dispatch); no pack example implements a streaming
// JSON tokenizer, so this part is stdlib by necessity — see DESIGN.md.
package jsonstream
