// Package plan loads and executes declarative run plans.
//
// A plan is a CUE file naming a batch of benchmark runs:
//
//	plan: {
//		name: "smoke"
//		runs: [{
//			task: {type: "Cubic", args: {a: 1.0, b: 0.0, c: -1.0, d: 0.0}}
//			method: {type: "NewtonSolver", args: {x_0: 0.5, eps: 0.01}}
//			repeat: 3
//		}]
//	}
//
// Load compiles a plan file into a Plan; Execute drives the runs
// through an engine. Argument numbers keep their CUE kind: integer
// literals arrive as plain.Int, float literals as plain.Float, so a
// float parameter can be written either way while an int parameter
// rejects "1.0".
//
// Execution is fail-fast: the first entry that cannot be constructed
// or run aborts the plan, and the report covers only what completed.
package plan
