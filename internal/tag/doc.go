// Package tag provides the hierarchical tag primitive that attachment data
// is stored in.
//
// A Tag is a recursive, kind-tagged value: integers, doubles, booleans,
// strings, UUIDs, ordered lists and compounds (string-keyed mappings).
// This package owns the in-memory model plus three serialized forms:
//   - Binary: big-endian named tag stream, optionally gzip-compressed
//   - Text: stringified tags (SNBT) for operators and fixtures
//   - Canonical JSON: deterministic form used for content hashing
//
// The package imports nothing internal.
package tag
