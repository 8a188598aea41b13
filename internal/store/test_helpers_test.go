package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates a file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testTask builds a task row with a synthetic content id.
func testTask(id, typ string) TaskRow {
	return TaskRow{ID: id, Type: typ, Data: fmt.Sprintf(`{"task":%q}`, id)}
}

// testMethod builds a method row with a synthetic content id.
func testMethod(id, typ string) MethodRow {
	return MethodRow{ID: id, Type: typ, Data: fmt.Sprintf(`{"method":%q}`, id)}
}

// appendTestRun appends one run for the given entities and returns the
// row as written.
func appendTestRun(t *testing.T, s *Store, id string, task TaskRow, method MethodRow) RunRow {
	t.Helper()
	run := RunRow{
		ID:         id,
		Seq:        s.NextSeq(),
		TaskID:     task.ID,
		MethodID:   method.ID,
		ResultType: "PlainResult",
		Result:     `{"seconds":0.5}`,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.AppendRun(context.Background(), task, method, run); err != nil {
		t.Fatalf("AppendRun(%s) failed: %v", id, err)
	}
	return run
}
