package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchkit/benchkit/internal/testutil"
	"github.com/benchkit/benchkit/plain"
)

func TestListRuns_Filters(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.Run(ctx, testutil.SumTask{A: 1, B: 2}, testutil.ExactMethod{})
	require.NoError(t, err)
	_, err = eng.Run(ctx, testutil.SumTask{A: 1, B: 2}, testutil.OffsetMethod{Offset: 0.25})
	require.NoError(t, err)
	_, err = eng.Run(ctx, testutil.ProductTask{Base: 2, Count: 2}, testutil.ExactMethod{})
	require.NoError(t, err)

	all, err := eng.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].Seq)
	assert.Equal(t, int64(2), all[1].Seq)
	assert.Equal(t, int64(3), all[2].Seq)

	sums, err := eng.ListRuns(ctx, RunFilter{TaskType: "sum"})
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "exact", sums[0].MethodType)
	assert.Equal(t, "offset", sums[1].MethodType)

	exacts, err := eng.ListRuns(ctx, RunFilter{MethodType: "exact"})
	require.NoError(t, err)
	require.Len(t, exacts, 2)
	assert.Equal(t, "sum", exacts[0].TaskType)
	assert.Equal(t, "product", exacts[1].TaskType)

	both, err := eng.ListRuns(ctx, RunFilter{TaskType: "sum", MethodType: "exact"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, int64(1), both[0].Seq)

	none, err := eng.ListRuns(ctx, RunFilter{TaskType: "product", MethodType: "offset"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDeleteRuns_RemovesOnlyListed(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	records, err := eng.RunN(ctx, testutil.SumTask{A: 1, B: 2}, testutil.ExactMethod{}, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	deleted, err := eng.DeleteRuns(ctx, []string{records[0].ID, records[2].ID, "no-such-run"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	left, err := eng.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, records[1].ID, left[0].ID)

	// Entity rows survive deletion of the runs referencing them.
	tasks, err := eng.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTasksAndMethods_ListStoredEntities(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	sum, sumID, err := eng.CreateTask(ctx, "sum", map[string]plain.Value{
		"a": plain.Float(1.5), "b": plain.Float(2),
	})
	require.NoError(t, err)
	_, _, err = eng.CreateTask(ctx, "product", map[string]plain.Value{
		"base": plain.Float(2), "count": plain.Int(3),
	})
	require.NoError(t, err)
	_, exactID, err := eng.CreateMethod(ctx, "exact", nil)
	require.NoError(t, err)

	tasks, err := eng.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, sumID, tasks[0].ID)
	assert.Equal(t, "sum", tasks[0].Type)
	assert.Equal(t, sum, tasks[0].Task)
	assert.Equal(t, "product", tasks[1].Type)

	methods, err := eng.Methods(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, exactID, methods[0].ID)
	assert.Equal(t, testutil.ExactMethod{}, methods[0].Method)
}

func TestEngine_ReopenContinuesSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arith.db")
	ctx := context.Background()

	first := newTestEngineAt(t, path, "run")
	_, err := first.RunN(ctx, testutil.SumTask{A: 1, B: 2}, testutil.ExactMethod{}, 2)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := newTestEngineAt(t, path, "more")
	rec, err := second.Run(ctx, testutil.SumTask{A: 1, B: 2}, testutil.ExactMethod{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Seq)

	all, err := second.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetRun_DecodesFromStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arith.db")
	ctx := context.Background()

	first := newTestEngineAt(t, path, "run")
	rec, err := first.Run(ctx, testutil.SumTask{A: 1.5, B: 2}, testutil.OffsetMethod{Offset: 0.25})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// A fresh engine holds no decoded instances, so everything below
	// comes back through the type decoders.
	second := newTestEngineAt(t, path, "more")
	got, err := second.GetRun(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Seq, got.Seq)
	assert.Equal(t, rec.TaskID, got.TaskID)
	assert.Equal(t, rec.MethodID, got.MethodID)
	assert.Equal(t, testutil.SumTask{A: 1.5, B: 2}, got.Task)
	assert.Equal(t, testutil.OffsetMethod{Offset: 0.25}, got.Method)
	assert.Equal(t, rec.Result, got.Result)
	assert.True(t, got.CreatedAt.Equal(rec.CreatedAt))
}

func TestGetRun_UnknownID(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
