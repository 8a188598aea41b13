// Package store provides SQLite-backed durable storage for benchmark
// runs.
//
// The store holds three tables:
//   - tasks: content-addressed task payloads
//   - methods: content-addressed method payloads
//   - runs: an append-only log of completed runs
//
// # Invariants
//
// Content-addressed entities
//   - A task or method id is the domain-separated SHA-256 of its
//     canonical payload (see the plain package)
//   - Re-inserting an existing id is a no-op (ON CONFLICT DO NOTHING)
//
// Append-only runs
//   - A run row is written once, in one transaction with its entity
//     rows, and never updated
//   - Failed runs are never written at all
//
// Ordering
//   - Insertion order means seq ASC (logical clock), never wall time
//   - Listings are deterministic: ORDER BY seq ASC, id ASC COLLATE
//     BINARY
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: run rows reference real entity rows
//
// The store speaks raw rows; decoding payloads through the registry is
// the engine's job.
package store
