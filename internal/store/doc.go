// Package store provides SQLite-backed history of cleaning runs.
//
// History is optional and append-only. Each run records:
//   - Runs: paths, byte counts and totals for one invocation
//   - Applications: per-mapping replacement counts, in plan order
//   - Discoveries: unresolved runs left in the output, in buffer order
//
// Run ids are UUIDv7, so they sort by creation time; ordering within the
// database uses the seq column, never timestamps.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
