package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benchkit/benchkit"
)

// GetTask retrieves a task row by content-hash id.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) GetTask(ctx context.Context, id string) (TaskRow, error) {
	var row TaskRow
	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, data FROM tasks WHERE id = ?
	`, id).Scan(&row.ID, &row.Type, &row.Data)
	if err != nil {
		return TaskRow{}, &benchkit.StorageError{Op: "get task", Err: err}
	}
	return row, nil
}

// GetMethod retrieves a method row by content-hash id.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) GetMethod(ctx context.Context, id string) (MethodRow, error) {
	var row MethodRow
	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, data FROM methods WHERE id = ?
	`, id).Scan(&row.ID, &row.Type, &row.Data)
	if err != nil {
		return MethodRow{}, &benchkit.StorageError{Op: "get method", Err: err}
	}
	return row, nil
}

// GetRun retrieves a run record by id.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) GetRun(ctx context.Context, id string) (RunRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, task_id, method_id, result_type, result, created_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		return RunRow{}, &benchkit.StorageError{Op: "get run", Err: err}
	}
	return run, nil
}

// ListRuns returns run records matching the filter in insertion order:
// ORDER BY seq ASC, id ASC. Zero-value filter fields do not filter.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]RunRow, error) {
	query := `
		SELECT r.id, r.seq, r.task_id, r.method_id, r.result_type, r.result, r.created_at
		FROM runs r
		JOIN tasks t ON r.task_id = t.id
		JOIN methods m ON r.method_id = m.id
	`
	var conds []string
	var args []any
	if filter.TaskType != "" {
		conds = append(conds, "t.type = ?")
		args = append(args, filter.TaskType)
	}
	if filter.MethodType != "" {
		conds = append(conds, "m.type = ?")
		args = append(args, filter.MethodType)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY r.seq ASC, r.id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &benchkit.StorageError{Op: "list runs", Err: err}
	}
	defer rows.Close()

	runs := []RunRow{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, &benchkit.StorageError{Op: "list runs: scan", Err: err}
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, &benchkit.StorageError{Op: "list runs: iterate", Err: err}
	}

	return runs, nil
}

// ListTasks returns all task rows in insertion order.
// Returns an empty slice (not nil) when the table is empty.
func (s *Store) ListTasks(ctx context.Context) ([]TaskRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, data FROM tasks ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, &benchkit.StorageError{Op: "list tasks", Err: err}
	}
	defer rows.Close()

	tasks := []TaskRow{}
	for rows.Next() {
		var row TaskRow
		if err := rows.Scan(&row.ID, &row.Type, &row.Data); err != nil {
			return nil, &benchkit.StorageError{Op: "list tasks: scan", Err: err}
		}
		tasks = append(tasks, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &benchkit.StorageError{Op: "list tasks: iterate", Err: err}
	}

	return tasks, nil
}

// ListMethods returns all method rows in insertion order.
// Returns an empty slice (not nil) when the table is empty.
func (s *Store) ListMethods(ctx context.Context) ([]MethodRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, data FROM methods ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, &benchkit.StorageError{Op: "list methods", Err: err}
	}
	defer rows.Close()

	methods := []MethodRow{}
	for rows.Next() {
		var row MethodRow
		if err := rows.Scan(&row.ID, &row.Type, &row.Data); err != nil {
			return nil, &benchkit.StorageError{Op: "list methods: scan", Err: err}
		}
		methods = append(methods, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &benchkit.StorageError{Op: "list methods: iterate", Err: err}
	}

	return methods, nil
}

// scanner abstracts sql.Row and sql.Rows for the shared scan helper.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun reads one run row, parsing the stored RFC3339 timestamp.
func scanRun(sc scanner) (RunRow, error) {
	var (
		run       RunRow
		createdAt string
	)
	err := sc.Scan(
		&run.ID,
		&run.Seq,
		&run.TaskID,
		&run.MethodID,
		&run.ResultType,
		&run.Result,
		&createdAt,
	)
	if err != nil {
		return RunRow{}, err
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return RunRow{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return run, nil
}

// IsNotFound reports whether err is a lookup miss rather than an I/O
// failure.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
