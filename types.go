package benchkit

import (
	"fmt"
	"time"

	"github.com/benchkit/benchkit/metric"
	"github.com/benchkit/benchkit/plain"
)

// Task is a problem instance to benchmark. A task owns its metric
// declarations and knows how to evaluate a result against them.
type Task interface {
	// Encode returns the task's persistent payload. Two tasks with
	// equal payloads are the same task.
	Encode() plain.Value

	// Metrics declares the measurements this task exposes, in display
	// order.
	Metrics() []metric.Metric

	// Evaluate derives metric values from a run result, keyed by
	// metric name. It must not mutate the task or the result, and it
	// must return an error rather than substitute defaults for
	// missing result fields.
	Evaluate(Result) (map[string]metric.Value, error)
}

// Method is a technique applied to a task during a run.
type Method interface {
	// Encode returns the method's persistent payload. Two methods with
	// equal payloads are the same method.
	Encode() plain.Value
}

// Result is the output of applying a method to a task.
type Result interface {
	// Encode returns the result's persistent payload.
	Encode() plain.Value
}

// Labeler is an optional capability: entities implementing it supply
// per-instance display text.
type Labeler interface {
	Label() string
}

// Typed is an optional capability: instances reporting their registered
// type name skip resolve-by-decode. Implement it when two registered
// types share a payload shape, where decoding alone cannot tell the
// instances apart.
type Typed interface {
	TypeName() string
}

// Describer is an optional capability: entities implementing it supply
// a per-instance description sentence.
type Describer interface {
	Description() string
}

// ParamType is the value type of a constructor parameter.
type ParamType string

const (
	BoolParam   ParamType = "bool"
	IntParam    ParamType = "int"
	FloatParam  ParamType = "float"
	StringParam ParamType = "string"
)

// Param describes one ordered constructor parameter of a task or
// method type.
type Param struct {
	// Name identifies the parameter within its type.
	Name string

	// Type is the expected value type.
	Type ParamType

	// Options, when non-empty, is the finite set of allowed values.
	Options []plain.Value
}

// Normalize checks v against the parameter's declared type and returns
// it in canonical form. Integer literals are accepted for float
// parameters and widened, so constructors can assert plain.Float
// unconditionally.
func (p Param) Normalize(v plain.Value) (plain.Value, error) {
	switch p.Type {
	case BoolParam:
		if b, ok := v.(plain.Bool); ok {
			return b, nil
		}
	case IntParam:
		if i, ok := v.(plain.Int); ok {
			return i, nil
		}
	case FloatParam:
		switch n := v.(type) {
		case plain.Float:
			return n, nil
		case plain.Int:
			return plain.Float(n), nil
		}
	case StringParam:
		if s, ok := v.(plain.String); ok {
			return s, nil
		}
	default:
		return nil, fmt.Errorf("parameter %q has invalid type %q", p.Name, p.Type)
	}
	return nil, fmt.Errorf("parameter %q expects %s, got %T", p.Name, p.Type, v)
}

// ValidateArgs checks a constructor argument map against an ordered
// parameter list. Every declared parameter is required; unknown
// arguments, type mismatches and values outside a parameter's Options
// are rejected with *ConfigurationError. The returned map carries the
// normalized values.
func ValidateArgs(params []Param, args map[string]plain.Value) (map[string]plain.Value, error) {
	declared := make(map[string]bool, len(params))
	normalized := make(map[string]plain.Value, len(params))

	for _, p := range params {
		declared[p.Name] = true

		v, ok := args[p.Name]
		if !ok {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("missing argument %q", p.Name),
			}
		}
		nv, err := p.Normalize(v)
		if err != nil {
			return nil, &ConfigurationError{Reason: err.Error()}
		}
		if len(p.Options) > 0 && !p.optionAllowed(nv) {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("argument %q not among allowed options", p.Name),
			}
		}
		normalized[p.Name] = nv
	}

	for name := range args {
		if !declared[name] {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("unknown argument %q", name),
			}
		}
	}
	return normalized, nil
}

// optionAllowed compares against options normalized through the same
// widening as arguments, so Options: [Int(1)] admits Float(1) on a
// float parameter.
func (p Param) optionAllowed(v plain.Value) bool {
	for _, opt := range p.Options {
		nopt, err := p.Normalize(opt)
		if err != nil {
			continue
		}
		if plain.Equal(nopt, v) {
			return true
		}
	}
	return false
}

// TaskType describes a registered task type: identity, display text,
// constructor parameters, and the two ways to build an instance.
type TaskType struct {
	// Name is the type identifier, unique among task types.
	Name string

	// Label is the display name. Defaults to Name at registration.
	Label string

	// Description is an optional sentence for display layers.
	Description string

	// Params are the ordered constructor parameters.
	Params []Param

	// New constructs an instance from validated parameter values.
	New func(args map[string]plain.Value) (Task, error)

	// Decode reconstructs an instance from a persisted payload.
	Decode func(data plain.Value) (Task, error)
}

// MethodType describes a registered method type. Same shape as
// TaskType over the Method contract.
type MethodType struct {
	Name        string
	Label       string
	Description string
	Params      []Param

	New    func(args map[string]plain.Value) (Method, error)
	Decode func(data plain.Value) (Method, error)
}

// ResultType describes a registered result type. Results are never
// built from parameters, so the descriptor carries only identity and
// Decode.
type ResultType struct {
	Name   string
	Decode func(data plain.Value) (Result, error)
}

// RunRecord is one durable record of a completed run. Records are
// immutable once persisted; re-running the same task/method pair
// appends a new record.
type RunRecord struct {
	// ID is the record's unique id.
	ID string

	// Seq is the record's position in insertion order.
	Seq int64

	// TaskID and MethodID are the content-hash ids of the entities.
	TaskID   string
	MethodID string

	// TaskType, MethodType and ResultType are the identifiers the
	// payloads decode through.
	TaskType   string
	MethodType string
	ResultType string

	// CreatedAt is the wall-clock creation time.
	CreatedAt time.Time

	// Task, Method and Result are the decoded instances.
	Task   Task
	Method Method
	Result Result
}
