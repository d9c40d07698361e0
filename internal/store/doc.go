// Package store provides SQLite-backed history for shell sessions.
//
// The history is an append-only log with:
//   - Sessions: one row per shell run
//   - Cells: each executed query with its type, transaction and outcome
//
// # Ordering
//
// Cells are ordered by their per-session seq (a logical counter), never by
// timestamps. All cell queries include ORDER BY seq ASC, id ASC COLLATE BINARY.
// Session IDs are UUIDv7, so ordering sessions by ID orders them by start.
//
// # Identity
//
// Cell IDs are content-addressed: SHA-256 over a domain prefix, the session
// ID, the seq and the NFC-normalised query text. Writing the same cell
// twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
