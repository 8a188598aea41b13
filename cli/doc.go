// Package cli provides the command-line front end for a benchmark.
//
// A user's main mounts the tree over their Bench:
//
//	func main() {
//		os.Exit(cli.Execute(buildBench()))
//	}
//
// The tree offers run, plan, list, eval, types and delete over the
// bench's engine. Persistent flags select the database (--db), an
// optional YAML config file (--config), the output format (--format
// json|text) and log verbosity (--verbose). Config file values fill in
// flags the command line left untouched; explicit flags always win.
//
// Successful JSON output is a single {"status": "ok", "data": ...}
// document on stdout. Errors go to stderr and map to exit codes:
// 0 success, 1 runtime failure (execution, storage, evaluation),
// 2 usage error (unknown types, bad arguments, bad flags).
package cli
