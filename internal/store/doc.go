// Package store provides the SQLite-backed generation cache.
//
// Every file tinyflags writes is recorded as a generation: the output path,
// the spec hash of the schema it was generated from, the content hash of the
// bytes written, and the generator version. Before regenerating, the CLI asks
// UpToDate whether the latest record still matches; if it does, the write is
// skipped.
//
// # Logical Time
//
// Records are ordered by seq, a logical clock (MAX(seq)+1), never by wall
// time. Queries order by seq with id as a tie breaker so results are stable.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One open connection: SQLite has a single writer
//
// Spec and content hashes come from internal/ir/hash.go.
package store
