package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/engine"
	"github.com/benchkit/benchkit/internal/testutil"
	"github.com/benchkit/benchkit/metric"
	"github.com/benchkit/benchkit/plain"
)

// scenarioNow is the fixed clock every scenario engine runs on, so
// stored timestamps never vary between runs.
var scenarioNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// Result is the outcome of one scenario: the records it left behind,
// their evaluations, the first run failure if any, and the expectation
// mismatches.
type Result struct {
	Scenario    string
	Records     []*benchkit.RunRecord
	Evaluations [][]engine.Evaluation
	RunErr      error
	Failures    []string
}

// Pass reports whether every expectation held.
func (r *Result) Pass() bool { return len(r.Failures) == 0 }

// Run executes a scenario against a fresh in-memory engine over the
// fixture bench. Steps run in order and stop at the first failure;
// records persisted before the failure are still listed and evaluated.
//
// The returned error covers harness breakage (engine construction,
// listing, evaluation). Expectation mismatches are not errors; they
// land in Result.Failures.
func Run(sc *Scenario) (*Result, error) {
	eng, err := engine.New(testutil.NewBench(),
		engine.WithDatabase(":memory:"),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithRunIDs(&testutil.SequenceIDs{Prefix: "run"}),
		engine.WithNow(func() time.Time { return scenarioNow }),
	)
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}
	defer eng.Close()

	ctx := context.Background()
	result := &Result{Scenario: sc.Name}

	for i, step := range sc.Runs {
		if err := runStep(ctx, eng, step); err != nil {
			result.RunErr = fmt.Errorf("runs[%d]: %w", i, err)
			break
		}
	}

	records, err := eng.ListRuns(ctx, engine.RunFilter{})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	result.Records = records

	for _, rec := range records {
		evals, err := engine.Evaluate(rec)
		if err != nil {
			return nil, fmt.Errorf("evaluate run %s: %w", rec.ID, err)
		}
		result.Evaluations = append(result.Evaluations, evals)
	}

	result.Failures = check(sc, result)
	return result, nil
}

func runStep(ctx context.Context, eng *engine.Engine, step RunStep) error {
	taskArgs, err := plainArgs(step.Task.Args)
	if err != nil {
		return fmt.Errorf("task args: %w", err)
	}
	methodArgs, err := plainArgs(step.Method.Args)
	if err != nil {
		return fmt.Errorf("method args: %w", err)
	}

	task, _, err := eng.CreateTask(ctx, step.Task.Type, taskArgs)
	if err != nil {
		return err
	}
	method, _, err := eng.CreateMethod(ctx, step.Method.Type, methodArgs)
	if err != nil {
		return err
	}

	repeat := step.Repeat
	if repeat == 0 {
		repeat = 1
	}
	_, err = eng.RunN(ctx, task, method, repeat)
	return err
}

// plainArgs converts decoded YAML arguments to plain values. YAML
// keeps integer and float literals apart, so int params round-trip
// exactly.
func plainArgs(args map[string]any) (map[string]plain.Value, error) {
	out := make(map[string]plain.Value, len(args))
	for k, v := range args {
		pv, err := plain.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = pv
	}
	return out, nil
}

// check compares the scenario outcome against its expectations.
func check(sc *Scenario, result *Result) []string {
	var failures []string

	if got := len(result.Records); got != sc.Expect.Records {
		failures = append(failures,
			fmt.Sprintf("expected %d records, got %d", sc.Expect.Records, got))
	}

	switch {
	case sc.Expect.Error == "" && result.RunErr != nil:
		failures = append(failures,
			fmt.Sprintf("unexpected failure: %v", result.RunErr))
	case sc.Expect.Error != "" && result.RunErr == nil:
		failures = append(failures,
			fmt.Sprintf("expected %s failure, every run succeeded", sc.Expect.Error))
	case sc.Expect.Error != "" && errorKind(result.RunErr) != sc.Expect.Error:
		failures = append(failures,
			fmt.Sprintf("expected %s failure, got %s: %v",
				sc.Expect.Error, errorKind(result.RunErr), result.RunErr))
	}

	if len(sc.Expect.Metrics) > 0 {
		for i, evals := range result.Evaluations {
			names := make([]string, len(evals))
			for j, ev := range evals {
				names[j] = ev.Metric.MetricName()
			}
			if !slices.Equal(names, sc.Expect.Metrics) {
				failures = append(failures,
					fmt.Sprintf("run %s: metrics %v, expected %v",
						result.Records[i].ID, names, sc.Expect.Metrics))
			}
		}
	}

	return failures
}

// errorKind names the taxonomy bucket a run failure belongs to,
// matching the vocabulary scenarios use in expect.error.
func errorKind(err error) string {
	switch {
	case benchkit.IsExecution(err):
		return "execution"
	case benchkit.IsConfiguration(err):
		return "configuration"
	case benchkit.IsUnknownType(err):
		return "unknown_type"
	case benchkit.IsDecode(err):
		return "decode"
	case benchkit.IsStorage(err):
		return "storage"
	case metric.IsEvaluation(err):
		return "evaluation"
	default:
		return "error"
	}
}
