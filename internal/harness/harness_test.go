package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AllScenariosPass(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := Run(sc)
			require.NoError(t, err)
			assert.True(t, result.Pass(), "failures: %v", result.Failures)
		})
	}
}

func TestRun_RecordCountMismatch(t *testing.T) {
	sc := &Scenario{
		Name: "wrong-count",
		Runs: []RunStep{{
			Task:   EntityRef{Type: "sum", Args: map[string]any{"a": 1.0, "b": 2.0}},
			Method: EntityRef{Type: "exact"},
		}},
		Expect: Expect{Records: 3},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "expected 3 records, got 1")
}

func TestRun_UnexpectedFailureReported(t *testing.T) {
	sc := &Scenario{
		Name: "surprise",
		Runs: []RunStep{{
			Task:   EntityRef{Type: "sum", Args: map[string]any{"a": 1.0, "b": 2.0}},
			Method: EntityRef{Type: "fail", Args: map[string]any{"message": "boom"}},
		}},
		Expect: Expect{Records: 0},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "unexpected failure")
}

func TestRun_ExpectedFailureMissing(t *testing.T) {
	sc := &Scenario{
		Name: "too-healthy",
		Runs: []RunStep{{
			Task:   EntityRef{Type: "sum", Args: map[string]any{"a": 1.0, "b": 2.0}},
			Method: EntityRef{Type: "exact"},
		}},
		Expect: Expect{Records: 1, Error: "execution"},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "expected execution failure")
}

func TestRun_WrongErrorKind(t *testing.T) {
	sc := &Scenario{
		Name: "wrong-kind",
		Runs: []RunStep{{
			Task:   EntityRef{Type: "nope", Args: map[string]any{}},
			Method: EntityRef{Type: "exact"},
		}},
		Expect: Expect{Records: 0, Error: "execution"},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "got unknown_type")
}

func TestRun_MetricNamesChecked(t *testing.T) {
	sc := &Scenario{
		Name: "wrong-metrics",
		Runs: []RunStep{{
			Task:   EntityRef{Type: "sum", Args: map[string]any{"a": 1.0, "b": 2.0}},
			Method: EntityRef{Type: "exact"},
		}},
		Expect: Expect{Records: 1, Metrics: []string{"time", "trace"}},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "metrics [time answer]")
}

func TestRun_StopsAtFirstFailingStep(t *testing.T) {
	sc := &Scenario{
		Name: "halts",
		Runs: []RunStep{
			{
				Task:   EntityRef{Type: "sum", Args: map[string]any{"a": 1.0, "b": 2.0}},
				Method: EntityRef{Type: "exact"},
			},
			{
				Task:   EntityRef{Type: "sum", Args: map[string]any{"a": 1.0, "b": 2.0}},
				Method: EntityRef{Type: "fail", Args: map[string]any{"message": "boom"}},
			},
			{
				Task:   EntityRef{Type: "sum", Args: map[string]any{"a": 3.0, "b": 4.0}},
				Method: EntityRef{Type: "exact"},
			},
		},
		Expect: Expect{Records: 1, Error: "execution"},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, result.Pass(), "failures: %v", result.Failures)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "run-0001", result.Records[0].ID)
	assert.Contains(t, result.RunErr.Error(), "runs[1]")
}

func TestRun_DeterministicReport(t *testing.T) {
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", "sum-exact.yaml"))
	require.NoError(t, err)

	first, err := Run(sc)
	require.NoError(t, err)
	second, err := Run(sc)
	require.NoError(t, err)

	assert.Equal(t, string(first.Report()), string(second.Report()))
}
