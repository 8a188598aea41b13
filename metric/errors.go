package metric

import (
	"errors"
	"fmt"
)

// EvaluationError reports a failure to produce or validate a metric
// value: a result field the evaluation needed is absent, or a produced
// value does not fit its descriptor. Evaluation never substitutes a
// default for missing data.
type EvaluationError struct {
	// Metric is the name of the affected metric.
	Metric string

	// Key is the missing or offending result field, when one is known.
	Key string

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("evaluate metric %q: key %q: %s", e.Metric, e.Key, e.Reason)
	}
	return fmt.Sprintf("evaluate metric %q: %s", e.Metric, e.Reason)
}

// MissingKey builds the EvaluationError for a result that lacks a
// field the metric needs.
func MissingKey(metric, key string) *EvaluationError {
	return &EvaluationError{
		Metric: metric,
		Key:    key,
		Reason: "missing from result",
	}
}

// IsEvaluation reports whether err is (or wraps) an EvaluationError.
func IsEvaluation(err error) bool {
	var ee *EvaluationError
	return errors.As(err, &ee)
}
