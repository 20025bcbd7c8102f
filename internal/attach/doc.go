// Package attach implements the typed attachment store.
//
// Every host object instance (a Holder) owns an attachment container. The
// store keeps its own data in a single compound under RootKey inside that
// container and exposes typed get/set/has/remove accessors keyed by string.
//
// # Read semantics
//
// Reads never fail. A missing root, a missing key, or an entry of a
// different kind than requested all resolve to the caller's fallback.
// Malformed composites (for example an unparseable dimension id) are logged
// as warnings and treated as absent. Reads never create the root.
//
// # Write semantics
//
// Writes create the root on first use and overwrite any previous entry
// regardless of its kind. Composite and list values are copied on the way
// in and on the way out so callers cannot alias stored state.
//
// # Codecs
//
// Values outside the built-in helpers go through a Codec. Encode failures
// abort the write; decode failures fall back; partial decodes are logged and
// returned. Nothing is ever written back on a failed read.
//
// The store is not safe for concurrent use on the same Holder; the host is
// expected to serialize access per instance.
package attach
