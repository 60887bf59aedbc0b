// Package objgraph is a reflection-driven layer over the event stream that
// maps arbitrary Go values (including cyclic/shared object graphs) to and
// from messages.
//
// A TypeMap resolves a runtime type to a Surrogate in a fixed selection
// order (user-hook, classic-info, list, dictionary, bean), grounded on the
// registry-of-adapters shape in weaveworks-libgitops' serializer package
// and the reflection-driven encode/decode dispatch in jhump/protoreflect's
// codec package. WriteContext and ReadContext drive serialization and
// deserialization respectively, assigning and chasing the relative
// reference ids that let shared and cyclic references round-trip through
// the same ordinal -1 type-id convention every sub-message carries.
package objgraph
