// Package store persists attachment instances in SQLite.
//
// Each instance is one row of the instances table: its UUID, the binary
// tag form of its attachment compound, the content hash of that tree and a
// revision counter. Saving an instance whose content hash matches the
// stored one is a no-op; any other save bumps the revision.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Loaded attachments are cached by ID. The cache holds private deep
// copies, so callers may mutate what Load returns without affecting the
// cache or the database until they Save.
package store
