package plan

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/engine"
	"github.com/benchkit/benchkit/internal/testutil"
)

func newPlanEngine(t *testing.T) *engine.Engine {
	t.Helper()

	eng, err := engine.New(testutil.NewBench(),
		engine.WithDatabase(":memory:"),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithRunIDs(&testutil.SequenceIDs{Prefix: "run"}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestExecute_AppendsAllRecords(t *testing.T) {
	eng := newPlanEngine(t)
	ctx := context.Background()

	p, err := Load(filepath.Join("testdata", "smoke.cue"))
	require.NoError(t, err)

	report, err := p.Execute(ctx, eng)
	require.NoError(t, err)

	assert.Equal(t, "smoke", report.Plan)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, []string{"run-0001", "run-0002"}, report.Entries[0].RunIDs)
	assert.Equal(t, []string{"run-0003"}, report.Entries[1].RunIDs)
	assert.Equal(t, 3, report.Records())

	records, err := eng.ListRuns(ctx, engine.RunFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	sums, err := eng.ListRuns(ctx, engine.RunFilter{TaskType: "sum", MethodType: "exact"})
	require.NoError(t, err)
	assert.Len(t, sums, 2)
}

func TestExecute_UnknownTaskTypeAborts(t *testing.T) {
	eng := newPlanEngine(t)
	ctx := context.Background()

	p := &Plan{
		Name: "bad",
		Runs: []RunSpec{
			{TaskType: "fib", MethodType: "exact", Repeat: 1},
		},
	}

	report, err := p.Execute(ctx, eng)
	require.Error(t, err)
	assert.True(t, benchkit.IsUnknownType(err))
	assert.Contains(t, err.Error(), "plan bad runs[0]")
	assert.Equal(t, 0, report.Records())

	records, err := eng.ListRuns(ctx, engine.RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExecute_FailingRunKeepsEarlierRecords(t *testing.T) {
	eng := newPlanEngine(t)
	ctx := context.Background()

	p, err := compileString(t, `
plan: {
	name: "partial"
	runs: [
		{
			task: {type: "sum", args: {a: 1.0, b: 2.0}}
			method: {type: "exact"}
		},
		{
			task: {type: "sum", args: {a: 1.0, b: 2.0}}
			method: {type: "fail", args: {message: "designed to fail"}}
		},
	]
}
`)
	require.NoError(t, err)

	report, execErr := p.Execute(ctx, eng)
	require.Error(t, execErr)
	assert.True(t, benchkit.IsExecution(execErr))
	assert.Contains(t, execErr.Error(), "runs[1]")

	// The first entry's record survives the second entry's failure.
	require.Len(t, report.Entries, 2)
	assert.Len(t, report.Entries[0].RunIDs, 1)
	assert.Empty(t, report.Entries[1].RunIDs)
	assert.Equal(t, 1, report.Records())

	records, err := eng.ListRuns(ctx, engine.RunFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
