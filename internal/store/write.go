package store

import (
	"context"
	"strings"
	"time"

	"github.com/benchkit/benchkit"
)

// PutTask inserts a task row.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a content-hash id
// maps to exactly one payload, so re-inserting an existing entity is
// silently ignored.
func (s *Store) PutTask(ctx context.Context, row TaskRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, type, data)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, row.ID, row.Type, row.Data)
	if err != nil {
		return &benchkit.StorageError{Op: "put task", Err: err}
	}
	return nil
}

// PutMethod inserts a method row. Same contract as PutTask.
func (s *Store) PutMethod(ctx context.Context, row MethodRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO methods (id, type, data)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, row.ID, row.Type, row.Data)
	if err != nil {
		return &benchkit.StorageError{Op: "put method", Err: err}
	}
	return nil
}

// AppendRun persists one completed run: task row, method row and run
// row in a single transaction. A failed append leaves nothing behind.
//
// The run's Seq must come from NextSeq. Entity rows use ON CONFLICT DO
// NOTHING, so appending another run of a known task/method pair only
// adds the run row.
func (s *Store) AppendRun(ctx context.Context, task TaskRow, method MethodRow, run RunRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &benchkit.StorageError{Op: "append run: begin tx", Err: err}
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, type, data)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, task.ID, task.Type, task.Data)
	if err != nil {
		return &benchkit.StorageError{Op: "append run: task", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO methods (id, type, data)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, method.ID, method.Type, method.Data)
	if err != nil {
		return &benchkit.StorageError{Op: "append run: method", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, task_id, method_id, result_type, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.TaskID,
		run.MethodID,
		run.ResultType,
		run.Result,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return &benchkit.StorageError{Op: "append run", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &benchkit.StorageError{Op: "append run: commit", Err: err}
	}
	return nil
}

// deleteChunkSize bounds the number of ids per DELETE statement, well
// under SQLite's default host-parameter limit.
const deleteChunkSize = 128

// DeleteRuns removes run records by id. Unknown ids are ignored.
// Deletion is atomic: either every listed record that exists is
// removed, or none are. Returns the number of records removed.
func (s *Store) DeleteRuns(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &benchkit.StorageError{Op: "delete runs: begin tx", Err: err}
	}
	defer tx.Rollback()

	var deleted int64
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(ids))
		chunk := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		res, err := tx.ExecContext(ctx,
			"DELETE FROM runs WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			return 0, &benchkit.StorageError{Op: "delete runs", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, &benchkit.StorageError{Op: "delete runs: rows affected", Err: err}
		}
		deleted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, &benchkit.StorageError{Op: "delete runs: commit", Err: err}
	}
	return deleted, nil
}
