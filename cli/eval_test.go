package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchkit/benchkit/internal/testutil"
)

func TestEvalCommand_Table(t *testing.T) {
	opts := newTestOptions(t)
	records := seedRuns(t, opts,
		seedPair{testutil.SumTask{A: 1.5, B: 2}, testutil.ExactMethod{}},
	)

	out, err := execute(t, NewEvalCommand(opts), records[0].ID)
	require.NoError(t, err)

	assert.Contains(t, out, "run seed-0001  task=sum  method=exact")
	assert.Contains(t, out, "time (time)")
	assert.Contains(t, out, "total = 500ms")
	assert.Contains(t, out, "answer (table)")
	assert.Contains(t, out, "value = 3.5")
}

func TestEvalCommand_Graph(t *testing.T) {
	opts := newTestOptions(t)
	records := seedRuns(t, opts,
		seedPair{testutil.ProductTask{Base: 2, Count: 3}, testutil.ExactMethod{}},
	)

	out, err := execute(t, NewEvalCommand(opts), records[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "trace (graph)")
	assert.Contains(t, out, "3 points")
	assert.NotContains(t, out, "  1 2\n", "points stay hidden without --verbose")

	opts.Verbose = true
	out, err = execute(t, NewEvalCommand(opts), records[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "  1 2\n")
	assert.Contains(t, out, "  2 4\n")
	assert.Contains(t, out, "  3 8\n")
}

func TestEvalCommand_JSON(t *testing.T) {
	opts := newTestOptions(t)
	opts.Format = "json"
	records := seedRuns(t, opts,
		seedPair{testutil.ProductTask{Base: 2, Count: 3}, testutil.OffsetMethod{Offset: 0.25}},
	)

	out, err := execute(t, NewEvalCommand(opts), records[0].ID)
	require.NoError(t, err)

	var report struct {
		Run        string `json:"run"`
		TaskType   string `json:"task_type"`
		MethodType string `json:"method_type"`
		Metrics    []struct {
			Name  string `json:"name"`
			Kind  string `json:"kind"`
			Value struct {
				Xs []float64 `json:"xs"`
				Ys []float64 `json:"ys"`
			} `json:"value"`
		} `json:"metrics"`
	}
	decodeEnvelope(t, out, &report)

	assert.Equal(t, records[0].ID, report.Run)
	assert.Equal(t, "product", report.TaskType)
	assert.Equal(t, "offset", report.MethodType)
	require.Len(t, report.Metrics, 2)
	assert.Equal(t, "time", report.Metrics[0].Name)
	assert.Equal(t, "time", report.Metrics[0].Kind)
	assert.Equal(t, "trace", report.Metrics[1].Name)
	assert.Equal(t, "graph", report.Metrics[1].Kind)
	assert.Equal(t, []float64{1, 2, 3}, report.Metrics[1].Value.Xs)
	assert.Equal(t, []float64{2.25, 4.25, 8.25}, report.Metrics[1].Value.Ys)
}

func TestEvalCommand_UnknownRun(t *testing.T) {
	opts := newTestOptions(t)

	_, err := execute(t, NewEvalCommand(opts), "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no-such-run")
}
