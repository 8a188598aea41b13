package engine

import (
	"context"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/metric"
)

// Evaluation pairs one declared metric with its computed value.
type Evaluation struct {
	Metric metric.Metric
	Value  metric.Value
}

// EvaluateRun loads a run record and recomputes its task's metrics from
// the stored result. Evaluations come back in the task's declared
// metric order. Nothing derived is persisted, so a changed metric
// definition applies to old runs the next time they are evaluated.
func (e *Engine) EvaluateRun(ctx context.Context, runID string) ([]Evaluation, error) {
	rec, err := e.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return Evaluate(rec)
}

// Evaluate recomputes the metrics of an already-loaded record. Every
// declared metric must be produced and fit its descriptor; values
// under undeclared keys are ignored.
func Evaluate(rec *benchkit.RunRecord) ([]Evaluation, error) {
	values, err := rec.Task.Evaluate(rec.Result)
	if err != nil {
		return nil, err
	}

	metrics := rec.Task.Metrics()
	evals := make([]Evaluation, 0, len(metrics))
	for _, m := range metrics {
		v, ok := values[m.MetricName()]
		if !ok {
			return nil, &metric.EvaluationError{
				Metric: m.MetricName(),
				Reason: "not produced by evaluation",
			}
		}
		if err := metric.Validate(m, v); err != nil {
			return nil, err
		}
		evals = append(evals, Evaluation{Metric: m, Value: v})
	}
	return evals, nil
}
