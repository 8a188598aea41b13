// Package benchkit is a framework for benchmarking methods against
// tasks.
//
// A benchmark is defined by a Bench: three independent type registries
// (tasks, methods, results) and one run callback. Users describe their
// domain as type descriptors with ordered constructor parameters,
// install a callback that applies a method to a task, and hand the
// Bench to the engine package for execution and persistence or to the
// cli package for a command-line front end.
//
// Identity model:
//
// Every entity encodes to a plain-data payload (package plain). Tasks
// and methods are content-addressed: the id is a domain-separated hash
// of the canonical encoding, so equal payloads are the same entity
// across processes and restarts. Run records are append-only and
// immutable; a run that fails leaves no record at all.
//
// Evaluation model:
//
// Tasks declare metrics (package metric) and derive metric values from
// a run's result on demand. Nothing derived is persisted, so metric
// definitions can evolve without invalidating recorded runs.
package benchkit
