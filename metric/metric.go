// Package metric defines the metric descriptors a task can declare and
// the value shapes an evaluation produces.
//
// A metric descriptor is pure description: name plus kind plus any
// display hints. It computes nothing. Tasks declare their metrics via
// Metrics() and produce the matching values in Evaluate(); Validate
// checks that a produced value fits its descriptor. Evaluation is
// recomputed on demand and never stored, so a metric definition can
// change without invalidating persisted runs.
package metric

import (
	"fmt"
	"time"

	"github.com/benchkit/benchkit/plain"
)

// Kind identifies the shape of a metric's evaluation value.
type Kind string

const (
	// KindTime is a set of labeled durations.
	KindTime Kind = "time"

	// KindTable is a set of labeled scalar cells.
	KindTable Kind = "table"

	// KindGraph is a pair of equal-length coordinate sequences.
	KindGraph Kind = "graph"
)

// Metric describes one measurement a task exposes. The three concrete
// descriptors are Time, Table and Graph.
type Metric interface {
	// MetricName identifies the metric within its task. Evaluate
	// returns its values keyed by this name.
	MetricName() string

	// MetricKind reports which value shape the metric carries.
	MetricKind() Kind
}

// Time declares a duration metric: one or more labeled wall-clock (or
// CPU) durations per run.
type Time struct {
	Name string
}

func (m Time) MetricName() string { return m.Name }
func (m Time) MetricKind() Kind   { return KindTime }

// Table declares a scalar-table metric: labeled cells, one scalar per
// label.
type Table struct {
	Name string
}

func (m Table) MetricName() string { return m.Name }
func (m Table) MetricKind() Kind   { return KindTable }

// Graph declares a series metric: paired x/y coordinate sequences.
// XKey and YKey name the result fields holding the sequences; Title
// and the axis labels are display hints.
type Graph struct {
	Name   string
	XKey   string
	YKey   string
	Title  string
	XLabel string
	YLabel string
}

func (m Graph) MetricName() string { return m.Name }
func (m Graph) MetricKind() Kind   { return KindGraph }

// Value is a sealed interface over the evaluation value shapes. Only
// TimeValue, TableValue and SeriesValue implement it.
type Value interface {
	metricValue() // sealed
}

// TimeValue carries labeled durations for a Time metric.
type TimeValue map[string]time.Duration

func (TimeValue) metricValue() {}

// TableValue carries labeled scalar cells for a Table metric.
type TableValue map[string]plain.Value

func (TableValue) metricValue() {}

// SeriesValue carries paired coordinates for a Graph metric. Xs and Ys
// must have equal length.
type SeriesValue struct {
	Xs []float64
	Ys []float64
}

func (SeriesValue) metricValue() {}

// Validate checks that an evaluation value fits its metric descriptor:
// the shape matches the kind, table cells are scalars, series lengths
// agree. Violations are reported as *EvaluationError.
func Validate(m Metric, v Value) error {
	name := m.MetricName()
	if v == nil {
		return &EvaluationError{
			Metric: name,
			Reason: "no value produced",
		}
	}

	switch m.MetricKind() {
	case KindTime:
		if _, ok := v.(TimeValue); !ok {
			return shapeMismatch(name, KindTime, v)
		}
	case KindTable:
		tv, ok := v.(TableValue)
		if !ok {
			return shapeMismatch(name, KindTable, v)
		}
		for label, cell := range tv {
			if cell == nil || !plain.IsScalar(cell) {
				return &EvaluationError{
					Metric: name,
					Key:    label,
					Reason: "table cells must be scalar",
				}
			}
		}
	case KindGraph:
		sv, ok := v.(SeriesValue)
		if !ok {
			return shapeMismatch(name, KindGraph, v)
		}
		if len(sv.Xs) != len(sv.Ys) {
			return &EvaluationError{
				Metric: name,
				Reason: fmt.Sprintf("series length mismatch: %d x values, %d y values", len(sv.Xs), len(sv.Ys)),
			}
		}
	default:
		return &EvaluationError{
			Metric: name,
			Reason: fmt.Sprintf("unknown metric kind %q", m.MetricKind()),
		}
	}
	return nil
}

func shapeMismatch(name string, want Kind, got Value) *EvaluationError {
	return &EvaluationError{
		Metric: name,
		Reason: fmt.Sprintf("value shape %T does not fit kind %q", got, want),
	}
}
