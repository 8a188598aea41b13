package harness

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/benchkit/benchkit/metric"
	"github.com/benchkit/benchkit/plain"
)

// Report renders the outcome as a text document: record headers in
// insertion order, each with its metric values in declaration order.
// Everything the fixture bench produces is deterministic, so the
// report is byte-stable across runs.
func (r *Result) Report() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "scenario: %s\n", r.Scenario)
	fmt.Fprintf(&buf, "records: %d\n", len(r.Records))
	if r.RunErr != nil {
		fmt.Fprintf(&buf, "error: %s: %v\n", errorKind(r.RunErr), r.RunErr)
	}

	for i, rec := range r.Records {
		fmt.Fprintf(&buf, "\nrun %s seq=%d task=%s method=%s result=%s\n",
			rec.ID, rec.Seq, rec.TaskType, rec.MethodType, rec.ResultType)
		for _, ev := range r.Evaluations[i] {
			fmt.Fprintf(&buf, "  %s: %s\n", ev.Metric.MetricName(), renderValue(ev.Value))
		}
	}

	return buf.Bytes()
}

// RunWithGolden executes a scenario, fails the test on expectation
// mismatches, and compares the rendered report against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) *Result {
	t.Helper()

	result, err := Run(sc)
	require.NoError(t, err)
	for _, failure := range result.Failures {
		t.Error(failure)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, result.Report())
	return result
}

func renderValue(v metric.Value) string {
	switch val := v.(type) {
	case metric.TimeValue:
		parts := make([]string, 0, len(val))
		for _, k := range slices.Sorted(maps.Keys(val)) {
			parts = append(parts, fmt.Sprintf("%s=%s", k, val[k]))
		}
		return strings.Join(parts, " ")
	case metric.TableValue:
		parts := make([]string, 0, len(val))
		for _, k := range slices.Sorted(maps.Keys(val)) {
			parts = append(parts, fmt.Sprintf("%s=%s", k, cellString(val[k])))
		}
		return strings.Join(parts, " ")
	case metric.SeriesValue:
		pairs := make([]string, len(val.Xs))
		for i := range val.Xs {
			pairs[i] = fmt.Sprintf("(%s, %s)", formatFloat(val.Xs[i]), formatFloat(val.Ys[i]))
		}
		return strings.Join(pairs, " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// cellString renders a table cell as its canonical JSON, keeping
// strings quoted and numbers exact.
func cellString(v plain.Value) string {
	b, err := plain.Marshal(v)
	if err != nil {
		return fmt.Sprintf("!%v", err)
	}
	return string(b)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
