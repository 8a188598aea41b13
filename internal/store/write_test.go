package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestPutTask_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	task := testTask("task-1", "TaskA")
	if err := s.PutTask(ctx, task); err != nil {
		t.Fatalf("first PutTask() failed: %v", err)
	}
	if err := s.PutTask(ctx, task); err != nil {
		t.Fatalf("second PutTask() failed: %v", err)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected 1 task after duplicate put, got %d", len(tasks))
	}
}

func TestPutMethod_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	method := testMethod("method-1", "MethodX")
	if err := s.PutMethod(ctx, method); err != nil {
		t.Fatalf("first PutMethod() failed: %v", err)
	}
	if err := s.PutMethod(ctx, method); err != nil {
		t.Fatalf("second PutMethod() failed: %v", err)
	}

	methods, err := s.ListMethods(ctx)
	if err != nil {
		t.Fatalf("ListMethods() failed: %v", err)
	}
	if len(methods) != 1 {
		t.Errorf("expected 1 method after duplicate put, got %d", len(methods))
	}
}

func TestAppendRun_PersistsAllRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	task := testTask("task-1", "TaskA")
	method := testMethod("method-1", "MethodX")
	written := appendTestRun(t, s, "run-1", task, method)

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	if got.ID != written.ID || got.Seq != written.Seq {
		t.Errorf("run identity mismatch: got (%s, %d), expected (%s, %d)",
			got.ID, got.Seq, written.ID, written.Seq)
	}
	if got.TaskID != task.ID || got.MethodID != method.ID {
		t.Errorf("run references mismatch: got (%s, %s)", got.TaskID, got.MethodID)
	}
	if got.ResultType != written.ResultType || got.Result != written.Result {
		t.Errorf("run payload mismatch: got (%s, %s)", got.ResultType, got.Result)
	}
	if !got.CreatedAt.Equal(written.CreatedAt) {
		t.Errorf("created_at mismatch: got %v, expected %v", got.CreatedAt, written.CreatedAt)
	}

	gotTask, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask() failed: %v", err)
	}
	if gotTask != task {
		t.Errorf("task row mismatch: got %+v, expected %+v", gotTask, task)
	}

	gotMethod, err := s.GetMethod(ctx, method.ID)
	if err != nil {
		t.Fatalf("GetMethod() failed: %v", err)
	}
	if gotMethod != method {
		t.Errorf("method row mismatch: got %+v, expected %+v", gotMethod, method)
	}
}

func TestAppendRun_DuplicateIDRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	task := testTask("task-1", "TaskA")
	method := testMethod("method-1", "MethodX")
	appendTestRun(t, s, "run-1", task, method)

	// Same run id with an unseen task: the insert must fail and the
	// new task row must not survive the rollback.
	otherTask := testTask("task-2", "TaskB")
	dup := RunRow{
		ID:         "run-1",
		Seq:        s.NextSeq(),
		TaskID:     otherTask.ID,
		MethodID:   method.ID,
		ResultType: "PlainResult",
		Result:     `{}`,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.AppendRun(ctx, otherTask, method, dup); err == nil {
		t.Fatal("expected error appending duplicate run id, got nil")
	}

	runs, err := s.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run after failed append, got %d", len(runs))
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected rollback to drop task-2, got %d tasks", len(tasks))
	}
}

func TestDeleteRuns_RemovesAndIgnoresUnknown(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	task := testTask("task-1", "TaskA")
	method := testMethod("method-1", "MethodX")
	appendTestRun(t, s, "run-1", task, method)
	appendTestRun(t, s, "run-2", task, method)
	appendTestRun(t, s, "run-3", task, method)

	deleted, err := s.DeleteRuns(ctx, []string{"run-1", "run-3", "no-such-run"})
	if err != nil {
		t.Fatalf("DeleteRuns() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteRuns() = %d, expected 2", deleted)
	}

	runs, err := s.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-2" {
		t.Errorf("expected only run-2 to remain, got %+v", runs)
	}
}

func TestDeleteRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	deleted, err := s.DeleteRuns(context.Background(), nil)
	if err != nil {
		t.Fatalf("DeleteRuns(nil) failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("DeleteRuns(nil) = %d, expected 0", deleted)
	}
}

func TestDeleteRuns_CrossesChunkBoundary(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	task := testTask("task-1", "TaskA")
	method := testMethod("method-1", "MethodX")

	count := deleteChunkSize + 2
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("run-%04d", i)
		appendTestRun(t, s, id, task, method)
		ids = append(ids, id)
	}

	deleted, err := s.DeleteRuns(ctx, ids)
	if err != nil {
		t.Fatalf("DeleteRuns() failed: %v", err)
	}
	if deleted != int64(count) {
		t.Errorf("DeleteRuns() = %d, expected %d", deleted, count)
	}

	runs, err := s.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs to remain, got %d", len(runs))
	}
}
