package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/benchkit/benchkit/engine"
	"github.com/benchkit/benchkit/metric"
	"github.com/benchkit/benchkit/plain"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <run-id>",
		Short: "Evaluate a run's metrics",
		Long: `Load a run record, decode its task and result, and recompute the
task's metrics in declaration order. Nothing derived is stored, so eval
on the same record always reflects the task's current metric
definitions.

Graph metrics print a point count; pass --verbose for the full series,
or --format json for machine-readable output.

Example:
  rootfind eval 0198c5b1-7e3a-7c9f-a0d2-4f6e8a1b2c3d
  rootfind eval 0198c5b1-7e3a-7c9f-a0d2-4f6e8a1b2c3d --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, cmd, args[0])
		},
	}

	return cmd
}

func runEval(opts *EvalOptions, cmd *cobra.Command, runID string) error {
	eng, err := opts.openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	rec, err := eng.GetRun(cmd.Context(), runID)
	if err != nil {
		return commandError("load run", err)
	}
	evals, err := engine.Evaluate(rec)
	if err != nil {
		return commandError("evaluate run", err)
	}

	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(evalData(rec.ID, rec.TaskType, rec.MethodType, evals))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run %s  task=%s  method=%s\n", rec.ID, rec.TaskType, rec.MethodType)
	for _, ev := range evals {
		fmt.Fprintf(w, "%s (%s)\n", ev.Metric.MetricName(), ev.Metric.MetricKind())
		writeMetricValue(w, ev.Value, f.Verbose)
	}
	return nil
}

func writeMetricValue(w io.Writer, v metric.Value, verbose bool) {
	switch val := v.(type) {
	case metric.TimeValue:
		for _, k := range slices.Sorted(maps.Keys(val)) {
			fmt.Fprintf(w, "  %s = %s\n", k, val[k])
		}
	case metric.TableValue:
		for _, k := range slices.Sorted(maps.Keys(val)) {
			fmt.Fprintf(w, "  %s = %s\n", k, cellString(val[k]))
		}
	case metric.SeriesValue:
		fmt.Fprintf(w, "  %d points\n", len(val.Xs))
		if !verbose {
			return
		}
		for i := range val.Xs {
			fmt.Fprintf(w, "  %s %s\n", formatPoint(val.Xs[i]), formatPoint(val.Ys[i]))
		}
	}
}

// cellString renders a table cell the way it would appear in JSON, so
// strings stay quoted and numbers stay exact.
func cellString(v plain.Value) string {
	b, err := plain.Marshal(v)
	if err != nil {
		return fmt.Sprintf("!%v", err)
	}
	return string(b)
}

func formatPoint(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// evalEntry is the JSON shape of one evaluated metric.
type evalEntry struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// evalReport is the JSON payload of the eval command.
type evalReport struct {
	Run        string      `json:"run"`
	TaskType   string      `json:"task_type"`
	MethodType string      `json:"method_type"`
	Metrics    []evalEntry `json:"metrics"`
}

func evalData(runID, taskType, methodType string, evals []engine.Evaluation) evalReport {
	report := evalReport{
		Run:        runID,
		TaskType:   taskType,
		MethodType: methodType,
		Metrics:    make([]evalEntry, 0, len(evals)),
	}
	for _, ev := range evals {
		report.Metrics = append(report.Metrics, evalEntry{
			Name:  ev.Metric.MetricName(),
			Kind:  string(ev.Metric.MetricKind()),
			Value: metricValueData(ev.Value),
		})
	}
	return report
}

func metricValueData(v metric.Value) any {
	switch val := v.(type) {
	case metric.TimeValue:
		out := make(map[string]string, len(val))
		for k, d := range val {
			out[k] = d.String()
		}
		return out
	case metric.TableValue:
		return val
	case metric.SeriesValue:
		return map[string][]float64{"xs": val.Xs, "ys": val.Ys}
	default:
		return nil
	}
}
