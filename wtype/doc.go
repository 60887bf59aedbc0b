// Package wtype implements the built-in type dictionary, per-type value
// codecs, and the field prefix byte layout of the wire format.
//
// # Type dictionary
//
// Every field on the wire carries an explicit one-byte type id. The
// dictionary maps that id to a Codec, which knows how to read and write a
// value of that type and whether the type has a fixed or variable payload
// width. Unknown ids are not an error by themselves: a reader preserves the
// opaque bytes of an unrecognized variable-width type so the field can be
// copied through unmodified; an unknown fixed-width type is fatal unless the
// caller supplies an out-of-band recovery size.
//
// # Field prefix byte
//
//	bit:    7        6 5           4         3        2 1 0
//	        fixed?    varSizeBits   ordinal?  name?    reserved
//
// bit 7 (0x80) is set when the type has a fixed payload width. When clear,
// bits 6-5 select how many bytes encode the variable payload size: 0 -> 0
// bytes, 1 -> 1 byte, 2 -> 2 bytes, 3 -> 4 bytes. Bit 4 (0x10) marks an
// ordinal present, bit 3 (0x08) marks a name present. Bits 2-0 are reserved
// and always written as 0.
package wtype
