// Package engine executes benchmark runs against a Bench and persists
// the outcomes.
//
// The engine owns the interaction between three layers: the registry
// (what types exist and how instances encode), the run callback (how a
// method is applied to a task), and the store (what happened, durably).
//
// # Execution model
//
// Run invokes the callback synchronously. On success it writes exactly
// one run record, together with its task and method rows, in a single
// transaction. On failure (error or panic) it writes nothing and
// returns an ExecutionError wrapping the cause. There are no partial
// records and no failure records.
//
// # Identity
//
// Tasks and methods are content-addressed: their id is a hash of the
// type identifier plus the canonical payload. Creating or running the
// same instance twice therefore persists one entity row, while each
// successful run appends a fresh record with a generated id and the
// next logical sequence number.
//
// # Evaluation
//
// EvaluateRun decodes the stored task and result and recomputes metric
// values on demand. Nothing derived is persisted, so metric
// definitions can change without invalidating existing records.
package engine
