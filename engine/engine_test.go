package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/internal/testutil"
	"github.com/benchkit/benchkit/plain"
)

// fixedNow is the wall-clock every test engine reports.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine builds an in-memory engine over the fixture bench with
// deterministic ids and clock.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return newTestEngineWith(t, testutil.NewBench())
}

func newTestEngineWith(t *testing.T, b *benchkit.Bench) *Engine {
	t.Helper()

	eng, err := New(b,
		WithDatabase(":memory:"),
		WithLogger(discardLogger()),
		WithRunIDs(&testutil.SequenceIDs{Prefix: "run"}),
		WithNow(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

// newTestEngineAt opens an engine on a database file, for tests that
// close and reopen. Each engine needs its own id prefix so reopened
// engines do not reissue existing run ids.
func newTestEngineAt(t *testing.T, path, idPrefix string) *Engine {
	t.Helper()

	eng, err := New(testutil.NewBench(),
		WithDatabase(path),
		WithLogger(discardLogger()),
		WithRunIDs(&testutil.SequenceIDs{Prefix: idPrefix}),
		WithNow(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestNew_NilBench(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, benchkit.IsConfiguration(err))
}

func TestNew_DefaultDatabasePath(t *testing.T) {
	t.Chdir(t.TempDir())

	eng, err := New(testutil.NewBench(), WithLogger(discardLogger()))
	require.NoError(t, err)
	defer eng.Close()

	assert.Equal(t, filepath.Join(".benchkit", "arith.db"), eng.DatabasePath())

	gitignore, err := os.ReadFile(filepath.Join(".benchkit", ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*\n", string(gitignore))
}

func TestNew_ExplicitPathSkipsDataDir(t *testing.T) {
	t.Chdir(t.TempDir())

	eng, err := New(testutil.NewBench(),
		WithDatabase("custom.db"),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)
	defer eng.Close()

	_, err = os.Stat(".benchkit")
	assert.True(t, os.IsNotExist(err))
}

func TestCreateTask_DeterministicID(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	args := map[string]plain.Value{"a": plain.Float(1.5), "b": plain.Float(2)}

	task, id, err := eng.CreateTask(ctx, "sum", args)
	require.NoError(t, err)
	assert.Equal(t, testutil.SumTask{A: 1.5, B: 2}, task)

	want := plain.MustTaskID("sum", plain.Object{"a": plain.Float(1.5), "b": plain.Float(2)})
	assert.Equal(t, want, id)

	// Creating the identical task yields the same id and one stored row.
	_, again, err := eng.CreateTask(ctx, "sum", args)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	tasks, err := eng.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCreateTask_IntArgWidensForFloatParam(t *testing.T) {
	eng := newTestEngine(t)

	task, _, err := eng.CreateTask(context.Background(), "sum", map[string]plain.Value{
		"a": plain.Int(1),
		"b": plain.Int(2),
	})
	require.NoError(t, err)
	assert.Equal(t, testutil.SumTask{A: 1, B: 2}, task)
}

func TestCreateTask_UnknownType(t *testing.T) {
	eng := newTestEngine(t)

	_, _, err := eng.CreateTask(context.Background(), "fib", nil)
	require.Error(t, err)
	assert.True(t, benchkit.IsUnknownType(err))
}

func TestCreateTask_BadArgs(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		name string
		args map[string]plain.Value
	}{
		{"missing argument", map[string]plain.Value{"a": plain.Float(1)}},
		{"unknown argument", map[string]plain.Value{
			"a": plain.Float(1), "b": plain.Float(2), "c": plain.Float(3),
		}},
		{"type mismatch", map[string]plain.Value{
			"a": plain.String("one"), "b": plain.Float(2),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := eng.CreateTask(ctx, "sum", tc.args)
			require.Error(t, err)
			assert.True(t, benchkit.IsConfiguration(err))
		})
	}
}

func TestCreateTask_ConstructorError(t *testing.T) {
	eng := newTestEngine(t)

	_, _, err := eng.CreateTask(context.Background(), "product", map[string]plain.Value{
		"base":  plain.Float(2),
		"count": plain.Int(0),
	})
	require.Error(t, err)
	assert.True(t, benchkit.IsConfiguration(err))
	assert.Contains(t, err.Error(), "construct product")
}

func TestCreateMethod_NoParams(t *testing.T) {
	eng := newTestEngine(t)

	method, id, err := eng.CreateMethod(context.Background(), "exact", nil)
	require.NoError(t, err)
	assert.Equal(t, testutil.ExactMethod{}, method)
	assert.Equal(t, plain.MustMethodID("exact", plain.Object{}), id)
}
