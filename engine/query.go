package engine

import (
	"context"
	"fmt"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/internal/store"
	"github.com/benchkit/benchkit/plain"
)

// RunFilter narrows ListRuns. Zero-value fields do not filter; both set
// combine conjunctively.
type RunFilter struct {
	TaskType   string
	MethodType string
}

// StoredTask pairs a persisted task instance with its identity.
type StoredTask struct {
	ID   string
	Type string
	Task benchkit.Task
}

// StoredMethod pairs a persisted method instance with its identity.
type StoredMethod struct {
	ID     string
	Type   string
	Method benchkit.Method
}

// GetRun loads one run record by id, decoding its task, method and
// result through the registry. Returns ErrRunNotFound (wrapped) when no
// record carries the id.
func (e *Engine) GetRun(ctx context.Context, runID string) (*benchkit.RunRecord, error) {
	row, err := e.store.GetRun(ctx, runID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	return e.assembleRecord(ctx, row)
}

// ListRuns returns the records matching the filter in insertion order.
// The result is empty, not nil, when nothing matches.
func (e *Engine) ListRuns(ctx context.Context, filter RunFilter) ([]*benchkit.RunRecord, error) {
	rows, err := e.store.ListRuns(ctx, store.RunFilter{
		TaskType:   filter.TaskType,
		MethodType: filter.MethodType,
	})
	if err != nil {
		return nil, err
	}

	records := make([]*benchkit.RunRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := e.assembleRecord(ctx, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Tasks returns every persisted task in insertion order.
func (e *Engine) Tasks(ctx context.Context) ([]StoredTask, error) {
	rows, err := e.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StoredTask, 0, len(rows))
	for _, row := range rows {
		task, err := e.decodeTaskRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, StoredTask{ID: row.ID, Type: row.Type, Task: task})
	}
	return out, nil
}

// Methods returns every persisted method in insertion order.
func (e *Engine) Methods(ctx context.Context) ([]StoredMethod, error) {
	rows, err := e.store.ListMethods(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StoredMethod, 0, len(rows))
	for _, row := range rows {
		method, err := e.decodeMethodRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, StoredMethod{ID: row.ID, Type: row.Type, Method: method})
	}
	return out, nil
}

// DeleteRuns removes run records by id, ignoring unknown ids, and
// returns how many were removed. Task and method rows stay put; other
// runs may still reference them.
func (e *Engine) DeleteRuns(ctx context.Context, ids []string) (int64, error) {
	return e.store.DeleteRuns(ctx, ids)
}

// assembleRecord turns a stored row into a full record with decoded
// instances.
func (e *Engine) assembleRecord(ctx context.Context, row store.RunRow) (*benchkit.RunRecord, error) {
	task, taskType, err := e.loadTask(ctx, row.TaskID)
	if err != nil {
		return nil, err
	}
	method, methodType, err := e.loadMethod(ctx, row.MethodID)
	if err != nil {
		return nil, err
	}
	result, err := e.decodeResult(row.ResultType, row.Result)
	if err != nil {
		return nil, err
	}

	return &benchkit.RunRecord{
		ID:         row.ID,
		Seq:        row.Seq,
		TaskID:     row.TaskID,
		MethodID:   row.MethodID,
		TaskType:   taskType,
		MethodType: methodType,
		ResultType: row.ResultType,
		CreatedAt:  row.CreatedAt,
		Task:       task,
		Method:     method,
		Result:     result,
	}, nil
}

// loadTask returns the decoded task for a content id, from cache or
// storage.
func (e *Engine) loadTask(ctx context.Context, id string) (benchkit.Task, string, error) {
	e.mu.Lock()
	entry, ok := e.tasks[id]
	e.mu.Unlock()
	if ok {
		return entry.task, entry.typ, nil
	}

	row, err := e.store.GetTask(ctx, id)
	if err != nil {
		return nil, "", err
	}
	task, err := e.decodeTaskRow(row)
	if err != nil {
		return nil, "", err
	}
	return task, row.Type, nil
}

// loadMethod mirrors loadTask over the method registry.
func (e *Engine) loadMethod(ctx context.Context, id string) (benchkit.Method, string, error) {
	e.mu.Lock()
	entry, ok := e.methods[id]
	e.mu.Unlock()
	if ok {
		return entry.method, entry.typ, nil
	}

	row, err := e.store.GetMethod(ctx, id)
	if err != nil {
		return nil, "", err
	}
	method, err := e.decodeMethodRow(row)
	if err != nil {
		return nil, "", err
	}
	return method, row.Type, nil
}

// decodeTaskRow decodes a task row through its registered type and
// caches the instance.
func (e *Engine) decodeTaskRow(row store.TaskRow) (benchkit.Task, error) {
	e.mu.Lock()
	entry, ok := e.tasks[row.ID]
	e.mu.Unlock()
	if ok {
		return entry.task, nil
	}

	tt, err := e.bench.TaskType(row.Type)
	if err != nil {
		return nil, err
	}
	payload, err := plain.Unmarshal([]byte(row.Data))
	if err != nil {
		return nil, &benchkit.DecodeError{Category: benchkit.CategoryTask, Name: row.Type, Err: err}
	}
	task, err := tt.Decode(payload)
	if err != nil {
		return nil, &benchkit.DecodeError{Category: benchkit.CategoryTask, Name: row.Type, Err: err}
	}

	e.mu.Lock()
	e.tasks[row.ID] = taskEntry{task: task, typ: row.Type}
	e.mu.Unlock()

	return task, nil
}

// decodeMethodRow mirrors decodeTaskRow over the method registry.
func (e *Engine) decodeMethodRow(row store.MethodRow) (benchkit.Method, error) {
	e.mu.Lock()
	entry, ok := e.methods[row.ID]
	e.mu.Unlock()
	if ok {
		return entry.method, nil
	}

	mt, err := e.bench.MethodType(row.Type)
	if err != nil {
		return nil, err
	}
	payload, err := plain.Unmarshal([]byte(row.Data))
	if err != nil {
		return nil, &benchkit.DecodeError{Category: benchkit.CategoryMethod, Name: row.Type, Err: err}
	}
	method, err := mt.Decode(payload)
	if err != nil {
		return nil, &benchkit.DecodeError{Category: benchkit.CategoryMethod, Name: row.Type, Err: err}
	}

	e.mu.Lock()
	e.methods[row.ID] = methodEntry{method: method, typ: row.Type}
	e.mu.Unlock()

	return method, nil
}

// decodeResult decodes a stored result payload through its registered
// type. Results are not cached; payloads differ per run.
func (e *Engine) decodeResult(typeName, data string) (benchkit.Result, error) {
	rt, err := e.bench.ResultType(typeName)
	if err != nil {
		return nil, err
	}
	payload, err := plain.Unmarshal([]byte(data))
	if err != nil {
		return nil, &benchkit.DecodeError{Category: benchkit.CategoryResult, Name: typeName, Err: err}
	}
	result, err := rt.Decode(payload)
	if err != nil {
		return nil, &benchkit.DecodeError{Category: benchkit.CategoryResult, Name: typeName, Err: err}
	}
	return result, nil
}
