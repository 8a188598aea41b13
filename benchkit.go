package benchkit

import (
	"context"
	"fmt"
	"sync"
)

// RunFunc executes one benchmark run: apply method to task, return the
// result. The framework invokes it synchronously; implementations
// should honor ctx cancellation in long computations.
type RunFunc func(ctx context.Context, task Task, method Method) (Result, error)

// Bench is the registry a benchmark is defined against: three
// independent type registries (tasks, methods, results) plus the run
// callback.
//
// Identifiers are unique per category; the same identifier may appear
// in different categories. Enumerations preserve registration order.
//
// A Bench is safe for concurrent use. Typical setups register
// everything up front and only read afterwards.
type Bench struct {
	name string

	mu          sync.RWMutex
	tasks       map[string]TaskType
	taskOrder   []string
	methods     map[string]MethodType
	methodOrder []string
	results     map[string]ResultType
	resultOrder []string
	run         RunFunc
}

// New creates an empty Bench. The name identifies the benchmark in
// display output and names its default database. An empty name
// defaults to "bench".
//
// PlainResult is pre-registered in every Bench.
func New(name string) *Bench {
	if name == "" {
		name = "bench"
	}
	b := &Bench{
		name:    name,
		tasks:   make(map[string]TaskType),
		methods: make(map[string]MethodType),
		results: make(map[string]ResultType),
	}
	// Cannot collide or carry a bad descriptor.
	_ = b.RegisterResults(ResultType{
		Name:   PlainResultName,
		Decode: decodePlainResult,
	})
	return b
}

// Name returns the bench name.
func (b *Bench) Name() string { return b.name }

// RegisterTasks adds task type descriptors. Registration is fail-fast:
// the first invalid or duplicate descriptor aborts the call and later
// descriptors are not registered. An identifier already present among
// task types is rejected with *DuplicateTypeError.
func (b *Bench) RegisterTasks(tts ...TaskType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, tt := range tts {
		if err := checkDescriptor(CategoryTask, tt.Name, tt.Params, tt.New == nil, tt.Decode == nil); err != nil {
			return err
		}
		if _, exists := b.tasks[tt.Name]; exists {
			return &DuplicateTypeError{Category: CategoryTask, Name: tt.Name}
		}
		if tt.Label == "" {
			tt.Label = tt.Name
		}
		b.tasks[tt.Name] = tt
		b.taskOrder = append(b.taskOrder, tt.Name)
	}
	return nil
}

// RegisterMethods adds method type descriptors. Same contract as
// RegisterTasks over the method registry.
func (b *Bench) RegisterMethods(mts ...MethodType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, mt := range mts {
		if err := checkDescriptor(CategoryMethod, mt.Name, mt.Params, mt.New == nil, mt.Decode == nil); err != nil {
			return err
		}
		if _, exists := b.methods[mt.Name]; exists {
			return &DuplicateTypeError{Category: CategoryMethod, Name: mt.Name}
		}
		if mt.Label == "" {
			mt.Label = mt.Name
		}
		b.methods[mt.Name] = mt
		b.methodOrder = append(b.methodOrder, mt.Name)
	}
	return nil
}

// RegisterResults adds result type descriptors. Results carry no
// constructor parameters; only identity and Decode are checked.
func (b *Bench) RegisterResults(rts ...ResultType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, rt := range rts {
		if rt.Name == "" {
			return &ConfigurationError{Reason: "result type has empty name"}
		}
		if rt.Decode == nil {
			return &ConfigurationError{
				Reason: fmt.Sprintf("result type %q has nil Decode", rt.Name),
			}
		}
		if _, exists := b.results[rt.Name]; exists {
			return &DuplicateTypeError{Category: CategoryResult, Name: rt.Name}
		}
		b.results[rt.Name] = rt
		b.resultOrder = append(b.resultOrder, rt.Name)
	}
	return nil
}

// TaskType resolves a task type by identifier.
func (b *Bench) TaskType(name string) (TaskType, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	tt, ok := b.tasks[name]
	if !ok {
		return TaskType{}, &UnknownTypeError{Category: CategoryTask, Name: name}
	}
	return tt, nil
}

// MethodType resolves a method type by identifier.
func (b *Bench) MethodType(name string) (MethodType, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	mt, ok := b.methods[name]
	if !ok {
		return MethodType{}, &UnknownTypeError{Category: CategoryMethod, Name: name}
	}
	return mt, nil
}

// ResultType resolves a result type by identifier.
func (b *Bench) ResultType(name string) (ResultType, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rt, ok := b.results[name]
	if !ok {
		return ResultType{}, &UnknownTypeError{Category: CategoryResult, Name: name}
	}
	return rt, nil
}

// TaskTypes enumerates the registered task types in registration
// order.
func (b *Bench) TaskTypes() []TaskType {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]TaskType, 0, len(b.taskOrder))
	for _, name := range b.taskOrder {
		out = append(out, b.tasks[name])
	}
	return out
}

// MethodTypes enumerates the registered method types in registration
// order.
func (b *Bench) MethodTypes() []MethodType {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]MethodType, 0, len(b.methodOrder))
	for _, name := range b.methodOrder {
		out = append(out, b.methods[name])
	}
	return out
}

// ResultTypes enumerates the registered result types in registration
// order.
func (b *Bench) ResultTypes() []ResultType {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ResultType, 0, len(b.resultOrder))
	for _, name := range b.resultOrder {
		out = append(out, b.results[name])
	}
	return out
}

// OnRun installs the run callback, replacing any previous one. A nil
// callback is rejected with *ConfigurationError.
func (b *Bench) OnRun(fn RunFunc) error {
	if fn == nil {
		return &ConfigurationError{Reason: "run callback is nil"}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.run = fn
	return nil
}

// Handler returns the installed run callback, or *ConfigurationError
// when none is set.
func (b *Bench) Handler() (RunFunc, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.run == nil {
		return nil, &ConfigurationError{Reason: "no run callback installed"}
	}
	return b.run, nil
}

// checkDescriptor validates the shared parts of a task or method
// descriptor before registration.
func checkDescriptor(cat Category, name string, params []Param, nilNew, nilDecode bool) error {
	if name == "" {
		return &ConfigurationError{Reason: fmt.Sprintf("%s type has empty name", cat)}
	}
	if nilNew {
		return &ConfigurationError{
			Reason: fmt.Sprintf("%s type %q has nil New", cat, name),
		}
	}
	if nilDecode {
		return &ConfigurationError{
			Reason: fmt.Sprintf("%s type %q has nil Decode", cat, name),
		}
	}

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "" {
			return &ConfigurationError{
				Reason: fmt.Sprintf("%s type %q has a parameter with empty name", cat, name),
			}
		}
		if seen[p.Name] {
			return &ConfigurationError{
				Reason: fmt.Sprintf("%s type %q declares parameter %q twice", cat, name, p.Name),
			}
		}
		seen[p.Name] = true

		switch p.Type {
		case BoolParam, IntParam, FloatParam, StringParam:
		default:
			return &ConfigurationError{
				Reason: fmt.Sprintf("%s type %q parameter %q has invalid type %q", cat, name, p.Name, p.Type),
			}
		}

		for _, opt := range p.Options {
			if _, err := p.Normalize(opt); err != nil {
				return &ConfigurationError{
					Reason: fmt.Sprintf("%s type %q parameter %q has an option outside its type: %v", cat, name, p.Name, err),
				}
			}
		}
	}
	return nil
}
