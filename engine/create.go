package engine

import (
	"context"
	"fmt"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/internal/store"
	"github.com/benchkit/benchkit/plain"
)

// CreateTask builds a task instance of a registered type from
// constructor arguments, verifies it survives a round trip, and
// persists it. Returns the instance and its content id.
//
// Creating the same task twice yields the same id; the stored row is
// written once.
func (e *Engine) CreateTask(ctx context.Context, typeName string, args map[string]plain.Value) (benchkit.Task, string, error) {
	tt, err := e.bench.TaskType(typeName)
	if err != nil {
		return nil, "", err
	}
	normalized, err := benchkit.ValidateArgs(tt.Params, args)
	if err != nil {
		return nil, "", err
	}
	task, err := tt.New(normalized)
	if err != nil {
		return nil, "", &benchkit.ConfigurationError{
			Reason: fmt.Sprintf("construct %s: %v", typeName, err),
		}
	}
	if err := benchkit.CheckTask(tt, task); err != nil {
		return nil, "", err
	}

	id, canonical, err := taskIdentity(typeName, task)
	if err != nil {
		return nil, "", err
	}
	if err := e.store.PutTask(ctx, store.TaskRow{ID: id, Type: typeName, Data: canonical}); err != nil {
		return nil, "", err
	}

	e.mu.Lock()
	e.tasks[id] = taskEntry{task: task, typ: typeName}
	e.mu.Unlock()

	e.log.Debug("task created", "type", typeName, "id", id)
	return task, id, nil
}

// CreateMethod is CreateTask over the method registry.
func (e *Engine) CreateMethod(ctx context.Context, typeName string, args map[string]plain.Value) (benchkit.Method, string, error) {
	mt, err := e.bench.MethodType(typeName)
	if err != nil {
		return nil, "", err
	}
	normalized, err := benchkit.ValidateArgs(mt.Params, args)
	if err != nil {
		return nil, "", err
	}
	method, err := mt.New(normalized)
	if err != nil {
		return nil, "", &benchkit.ConfigurationError{
			Reason: fmt.Sprintf("construct %s: %v", typeName, err),
		}
	}
	if err := benchkit.CheckMethod(mt, method); err != nil {
		return nil, "", err
	}

	id, canonical, err := methodIdentity(typeName, method)
	if err != nil {
		return nil, "", err
	}
	if err := e.store.PutMethod(ctx, store.MethodRow{ID: id, Type: typeName, Data: canonical}); err != nil {
		return nil, "", err
	}

	e.mu.Lock()
	e.methods[id] = methodEntry{method: method, typ: typeName}
	e.mu.Unlock()

	e.log.Debug("method created", "type", typeName, "id", id)
	return method, id, nil
}

// taskIdentity computes a task's canonical payload and content id.
// CheckTask has already proven the payload marshals, so failures here
// indicate a task that mutated between check and write.
func taskIdentity(typeName string, task benchkit.Task) (string, string, error) {
	payload := task.Encode()
	canonical, err := plain.Marshal(payload)
	if err != nil {
		return "", "", &benchkit.DecodeError{Category: benchkit.CategoryTask, Name: typeName, Err: err}
	}
	id, err := plain.TaskID(typeName, payload)
	if err != nil {
		return "", "", &benchkit.DecodeError{Category: benchkit.CategoryTask, Name: typeName, Err: err}
	}
	return id, string(canonical), nil
}

// methodIdentity mirrors taskIdentity under the method hash domain.
func methodIdentity(typeName string, method benchkit.Method) (string, string, error) {
	payload := method.Encode()
	canonical, err := plain.Marshal(payload)
	if err != nil {
		return "", "", &benchkit.DecodeError{Category: benchkit.CategoryMethod, Name: typeName, Err: err}
	}
	id, err := plain.MethodID(typeName, payload)
	if err != nil {
		return "", "", &benchkit.DecodeError{Category: benchkit.CategoryMethod, Name: typeName, Err: err}
	}
	return id, string(canonical), nil
}
