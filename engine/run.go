package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/internal/store"
	"github.com/benchkit/benchkit/plain"
)

// Run applies method to task through the bench callback. On success it
// persists exactly one run record and returns it. On failure (callback
// error, panic, or nil result) nothing is persisted and the cause comes
// back wrapped in *benchkit.ExecutionError.
//
// Task and method instances need not have been created through
// CreateTask/CreateMethod; any instance that decodes through a
// registered type is accepted and persisted alongside the record.
func (e *Engine) Run(ctx context.Context, task benchkit.Task, method benchkit.Method) (*benchkit.RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handler, err := e.bench.Handler()
	if err != nil {
		return nil, err
	}

	taskType, taskID, taskData, err := e.resolveTask(task)
	if err != nil {
		return nil, err
	}
	methodType, methodID, methodData, err := e.resolveMethod(method)
	if err != nil {
		return nil, err
	}

	result, err := invoke(ctx, handler, task, method)
	if err != nil {
		e.log.Error("run failed", "task", taskType, "method", methodType, "error", err)
		return nil, &benchkit.ExecutionError{TaskType: taskType, MethodType: methodType, Err: err}
	}

	resultType, resultData, err := e.resolveResult(result)
	if err != nil {
		return nil, err
	}

	rec := &benchkit.RunRecord{
		ID:         e.ids.Generate(),
		Seq:        e.store.NextSeq(),
		TaskID:     taskID,
		MethodID:   methodID,
		TaskType:   taskType,
		MethodType: methodType,
		ResultType: resultType,
		CreatedAt:  e.now().UTC(),
		Task:       task,
		Method:     method,
		Result:     result,
	}

	err = e.store.AppendRun(ctx,
		store.TaskRow{ID: taskID, Type: taskType, Data: taskData},
		store.MethodRow{ID: methodID, Type: methodType, Data: methodData},
		store.RunRow{
			ID:         rec.ID,
			Seq:        rec.Seq,
			TaskID:     taskID,
			MethodID:   methodID,
			ResultType: resultType,
			Result:     resultData,
			CreatedAt:  rec.CreatedAt,
		},
	)
	if err != nil {
		return nil, err
	}

	e.log.Info("run complete", "task", taskType, "method", methodType, "run", rec.ID, "seq", rec.Seq)
	return rec, nil
}

// RunN executes the same pair n times sequentially. It stops at the
// first failure, returning the records persisted so far together with
// the error.
func (e *Engine) RunN(ctx context.Context, task benchkit.Task, method benchkit.Method, n int) ([]*benchkit.RunRecord, error) {
	if n < 1 {
		return nil, &benchkit.ConfigurationError{
			Reason: fmt.Sprintf("run count %d, want at least 1", n),
		}
	}

	records := make([]*benchkit.RunRecord, 0, n)
	for i := 0; i < n; i++ {
		rec, err := e.Run(ctx, task, method)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// invoke calls the callback with panic recovery. A recovered panic and
// a nil result both surface as errors, so the caller has a single
// failure path.
func invoke(ctx context.Context, fn benchkit.RunFunc, task benchkit.Task, method benchkit.Method) (res benchkit.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("callback panic: %v", r)
		}
	}()

	res, err = fn(ctx, task, method)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New("callback returned nil result")
	}
	return res, nil
}

// resolveTask determines which registered task type an instance belongs
// to. Instances implementing benchkit.Typed name their type directly;
// everything else is attributed to the first registered type that
// round-trips its payload. Returns the type name, content id and
// canonical payload.
func (e *Engine) resolveTask(task benchkit.Task) (string, string, string, error) {
	canonical, err := plain.Marshal(task.Encode())
	if err != nil {
		return "", "", "", &benchkit.ConfigurationError{
			Reason: fmt.Sprintf("encode task: %v", err),
		}
	}

	var name string
	if typed, ok := task.(benchkit.Typed); ok {
		name = typed.TypeName()
		tt, err := e.bench.TaskType(name)
		if err != nil {
			return "", "", "", err
		}
		if err := benchkit.CheckTask(tt, task); err != nil {
			return "", "", "", err
		}
	} else {
		for _, tt := range e.bench.TaskTypes() {
			if benchkit.CheckTask(tt, task) == nil {
				name = tt.Name
				break
			}
		}
		if name == "" {
			return "", "", "", &benchkit.ConfigurationError{
				Reason: "task instance does not decode through any registered task type",
			}
		}
	}

	id, err := plain.TaskID(name, task.Encode())
	if err != nil {
		return "", "", "", &benchkit.DecodeError{Category: benchkit.CategoryTask, Name: name, Err: err}
	}

	e.mu.Lock()
	e.tasks[id] = taskEntry{task: task, typ: name}
	e.mu.Unlock()

	return name, id, string(canonical), nil
}

// resolveMethod mirrors resolveTask over the method registry.
func (e *Engine) resolveMethod(method benchkit.Method) (string, string, string, error) {
	canonical, err := plain.Marshal(method.Encode())
	if err != nil {
		return "", "", "", &benchkit.ConfigurationError{
			Reason: fmt.Sprintf("encode method: %v", err),
		}
	}

	var name string
	if typed, ok := method.(benchkit.Typed); ok {
		name = typed.TypeName()
		mt, err := e.bench.MethodType(name)
		if err != nil {
			return "", "", "", err
		}
		if err := benchkit.CheckMethod(mt, method); err != nil {
			return "", "", "", err
		}
	} else {
		for _, mt := range e.bench.MethodTypes() {
			if benchkit.CheckMethod(mt, method) == nil {
				name = mt.Name
				break
			}
		}
		if name == "" {
			return "", "", "", &benchkit.ConfigurationError{
				Reason: "method instance does not decode through any registered method type",
			}
		}
	}

	id, err := plain.MethodID(name, method.Encode())
	if err != nil {
		return "", "", "", &benchkit.DecodeError{Category: benchkit.CategoryMethod, Name: name, Err: err}
	}

	e.mu.Lock()
	e.methods[id] = methodEntry{method: method, typ: name}
	e.mu.Unlock()

	return name, id, string(canonical), nil
}

// resolveResult determines which registered result type produced an
// instance. PlainResult decodes any object, so among non-Typed results
// it is tried last rather than shadowing custom result types.
func (e *Engine) resolveResult(result benchkit.Result) (string, string, error) {
	canonical, err := plain.Marshal(result.Encode())
	if err != nil {
		return "", "", &benchkit.ConfigurationError{
			Reason: fmt.Sprintf("encode result: %v", err),
		}
	}

	if typed, ok := result.(benchkit.Typed); ok {
		name := typed.TypeName()
		rt, err := e.bench.ResultType(name)
		if err != nil {
			return "", "", err
		}
		if err := benchkit.CheckResult(rt, result); err != nil {
			return "", "", err
		}
		return name, string(canonical), nil
	}

	var fallback benchkit.ResultType
	var haveFallback bool
	for _, rt := range e.bench.ResultTypes() {
		if rt.Name == benchkit.PlainResultName {
			fallback, haveFallback = rt, true
			continue
		}
		if benchkit.CheckResult(rt, result) == nil {
			return rt.Name, string(canonical), nil
		}
	}
	if haveFallback && benchkit.CheckResult(fallback, result) == nil {
		return fallback.Name, string(canonical), nil
	}
	return "", "", &benchkit.ConfigurationError{
		Reason: "result instance does not decode through any registered result type",
	}
}
