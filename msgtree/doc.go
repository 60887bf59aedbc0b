// Package msgtree implements the in-memory message tree: an ordered field
// list with by-name/by-ordinal lookup maps, typed getters, a fluent
// builder, and both ends of the wireio event contract so a Message can
// stand in for either a Reader or a Writer when piped against a binary or
// JSON stream.
//
// The dual by-id/by-name index is grounded on the teacher's
// blob.indexMaps[T]: a message keeps its fields in a plain slice for
// ordering and iteration, and builds name/ordinal maps lazily the first
// time a lookup by that key is requested.
package msgtree
