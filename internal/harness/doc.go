// Package harness runs YAML scenario files against the fixture bench.
//
// A scenario declares a batch of task/method runs and the state they
// must leave behind: how many records, which metrics each record
// evaluates to, and whether the batch fails. Every scenario gets a
// fresh in-memory engine with a fixed clock and sequential run ids, so
// outcomes are byte-stable and can be pinned with golden files.
//
// Scenario files live in testdata/scenarios; golden reports in
// testdata/golden.
package harness
