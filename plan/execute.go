package plan

import (
	"context"
	"fmt"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/plain"
)

// Runner is the engine surface a plan needs: construct entities and
// run pairs. *engine.Engine satisfies it.
type Runner interface {
	CreateTask(ctx context.Context, typeName string, args map[string]plain.Value) (benchkit.Task, string, error)
	CreateMethod(ctx context.Context, typeName string, args map[string]plain.Value) (benchkit.Method, string, error)
	RunN(ctx context.Context, task benchkit.Task, method benchkit.Method, n int) ([]*benchkit.RunRecord, error)
}

// Report summarizes a plan execution: one entry per plan run, with the
// ids of the records it appended.
type Report struct {
	Plan    string
	Entries []EntryReport
}

// EntryReport covers one RunSpec. When the plan aborted mid-entry,
// RunIDs holds the records persisted before the failure.
type EntryReport struct {
	TaskType   string
	MethodType string
	Repeat     int
	RunIDs     []string
}

// Records returns the total number of run records the plan appended.
func (r *Report) Records() int {
	total := 0
	for _, e := range r.Entries {
		total += len(e.RunIDs)
	}
	return total
}

// Execute drives the plan's runs through an engine, in order.
// Unknown types, bad arguments and failed runs abort the plan at the
// first error; the returned report covers everything persisted up to
// that point (partial on error, complete on success).
func (p *Plan) Execute(ctx context.Context, r Runner) (*Report, error) {
	report := &Report{Plan: p.Name}

	for i, spec := range p.Runs {
		task, _, err := r.CreateTask(ctx, spec.TaskType, spec.TaskArgs)
		if err != nil {
			return report, fmt.Errorf("plan %s runs[%d]: %w", p.Name, i, err)
		}
		method, _, err := r.CreateMethod(ctx, spec.MethodType, spec.MethodArgs)
		if err != nil {
			return report, fmt.Errorf("plan %s runs[%d]: %w", p.Name, i, err)
		}

		records, err := r.RunN(ctx, task, method, spec.Repeat)

		entry := EntryReport{
			TaskType:   spec.TaskType,
			MethodType: spec.MethodType,
			Repeat:     spec.Repeat,
		}
		for _, rec := range records {
			entry.RunIDs = append(entry.RunIDs, rec.ID)
		}
		report.Entries = append(report.Entries, entry)

		if err != nil {
			return report, fmt.Errorf("plan %s runs[%d]: %w", p.Name, i, err)
		}
	}

	return report, nil
}
