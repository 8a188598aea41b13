// Package testutil provides deterministic fixtures shared by tests: a
// small arithmetic bench with known tasks, methods and a run callback,
// plus an id generator producing readable sequential ids.
//
// The bench computes sums and products, so every expected value in a
// test can be derived by hand. The callback stamps FixedSeconds instead
// of measuring, which keeps stored results byte-stable for golden
// files.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/metric"
	"github.com/benchkit/benchkit/plain"
)

// FixedSeconds is the wall-clock stand-in every fixture run reports.
// Half a second is exactly representable, so goldens and duration
// assertions never chase rounding.
const FixedSeconds = 0.5

// Seconds converts a fractional second count to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SumTask asks for the sum of two operands.
type SumTask struct {
	A float64
	B float64
}

func (t SumTask) Encode() plain.Value {
	return plain.Object{"a": plain.Float(t.A), "b": plain.Float(t.B)}
}

func (t SumTask) Metrics() []metric.Metric {
	return []metric.Metric{
		metric.Time{Name: "time"},
		metric.Table{Name: "answer"},
	}
}

func (t SumTask) Evaluate(r benchkit.Result) (map[string]metric.Value, error) {
	pr, ok := r.(benchkit.PlainResult)
	if !ok {
		return nil, fmt.Errorf("result is %T, want PlainResult", r)
	}
	seconds, ok := pr.Float("seconds")
	if !ok {
		return nil, metric.MissingKey("time", "seconds")
	}
	value, ok := pr.Float("value")
	if !ok {
		return nil, metric.MissingKey("answer", "value")
	}
	return map[string]metric.Value{
		"time":   metric.TimeValue{"total": Seconds(seconds)},
		"answer": metric.TableValue{"value": plain.Float(value)},
	}, nil
}

// SumTaskType returns the descriptor registered as "sum".
func SumTaskType() benchkit.TaskType {
	return benchkit.TaskType{
		Name:        "sum",
		Label:       "Sum",
		Description: "Adds two operands.",
		Params: []benchkit.Param{
			{Name: "a", Type: benchkit.FloatParam},
			{Name: "b", Type: benchkit.FloatParam},
		},
		New: func(args map[string]plain.Value) (benchkit.Task, error) {
			return SumTask{
				A: float64(args["a"].(plain.Float)),
				B: float64(args["b"].(plain.Float)),
			}, nil
		},
		Decode: decodeSumTask,
	}
}

func decodeSumTask(data plain.Value) (benchkit.Task, error) {
	obj, err := fields(data, "a", "b")
	if err != nil {
		return nil, err
	}
	a, err := floatField(obj, "a")
	if err != nil {
		return nil, err
	}
	b, err := floatField(obj, "b")
	if err != nil {
		return nil, err
	}
	return SumTask{A: a, B: b}, nil
}

// ProductTask asks for base raised to the count-th power, tracking the
// partial products along the way.
type ProductTask struct {
	Base  float64
	Count int
}

func (t ProductTask) Encode() plain.Value {
	return plain.Object{"base": plain.Float(t.Base), "count": plain.Int(t.Count)}
}

func (t ProductTask) Metrics() []metric.Metric {
	return []metric.Metric{
		metric.Time{Name: "time"},
		metric.Graph{
			Name:   "trace",
			XKey:   "xs",
			YKey:   "ys",
			Title:  "Partial products",
			XLabel: "step",
			YLabel: "product",
		},
	}
}

func (t ProductTask) Evaluate(r benchkit.Result) (map[string]metric.Value, error) {
	pr, ok := r.(benchkit.PlainResult)
	if !ok {
		return nil, fmt.Errorf("result is %T, want PlainResult", r)
	}
	seconds, ok := pr.Float("seconds")
	if !ok {
		return nil, metric.MissingKey("time", "seconds")
	}
	xs, err := floatsField(pr, "trace", "xs")
	if err != nil {
		return nil, err
	}
	ys, err := floatsField(pr, "trace", "ys")
	if err != nil {
		return nil, err
	}
	return map[string]metric.Value{
		"time":  metric.TimeValue{"total": Seconds(seconds)},
		"trace": metric.SeriesValue{Xs: xs, Ys: ys},
	}, nil
}

// ProductTaskType returns the descriptor registered as "product".
func ProductTaskType() benchkit.TaskType {
	return benchkit.TaskType{
		Name:        "product",
		Label:       "Product",
		Description: "Raises a base to a power, step by step.",
		Params: []benchkit.Param{
			{Name: "base", Type: benchkit.FloatParam},
			{Name: "count", Type: benchkit.IntParam},
		},
		New: func(args map[string]plain.Value) (benchkit.Task, error) {
			count := int64(args["count"].(plain.Int))
			if count < 1 {
				return nil, fmt.Errorf("count %d, want at least 1", count)
			}
			return ProductTask{
				Base:  float64(args["base"].(plain.Float)),
				Count: int(count),
			}, nil
		},
		Decode: decodeProductTask,
	}
}

func decodeProductTask(data plain.Value) (benchkit.Task, error) {
	obj, err := fields(data, "base", "count")
	if err != nil {
		return nil, err
	}
	base, err := floatField(obj, "base")
	if err != nil {
		return nil, err
	}
	count, ok := obj["count"].(plain.Int)
	if !ok {
		return nil, fmt.Errorf("field %q is %T, want integer", "count", obj["count"])
	}
	return ProductTask{Base: base, Count: int(count)}, nil
}

// ExactMethod computes the true answer.
type ExactMethod struct{}

func (ExactMethod) Encode() plain.Value { return plain.Object{} }

// ExactMethodType returns the descriptor registered as "exact".
func ExactMethodType() benchkit.MethodType {
	return benchkit.MethodType{
		Name:  "exact",
		Label: "Exact",
		New: func(args map[string]plain.Value) (benchkit.Method, error) {
			return ExactMethod{}, nil
		},
		Decode: func(data plain.Value) (benchkit.Method, error) {
			if _, err := fields(data); err != nil {
				return nil, err
			}
			return ExactMethod{}, nil
		},
	}
}

// OffsetMethod computes the true answer plus a constant bias.
type OffsetMethod struct {
	Offset float64
}

func (m OffsetMethod) Encode() plain.Value {
	return plain.Object{"offset": plain.Float(m.Offset)}
}

// OffsetMethodType returns the descriptor registered as "offset".
func OffsetMethodType() benchkit.MethodType {
	return benchkit.MethodType{
		Name:  "offset",
		Label: "Offset",
		Params: []benchkit.Param{
			{Name: "offset", Type: benchkit.FloatParam},
		},
		New: func(args map[string]plain.Value) (benchkit.Method, error) {
			return OffsetMethod{Offset: float64(args["offset"].(plain.Float))}, nil
		},
		Decode: func(data plain.Value) (benchkit.Method, error) {
			obj, err := fields(data, "offset")
			if err != nil {
				return nil, err
			}
			offset, err := floatField(obj, "offset")
			if err != nil {
				return nil, err
			}
			return OffsetMethod{Offset: offset}, nil
		},
	}
}

// FailMethod makes the callback return an error carrying Message.
type FailMethod struct {
	Message string
}

func (m FailMethod) Encode() plain.Value {
	return plain.Object{"message": plain.String(m.Message)}
}

// FailMethodType returns the descriptor registered as "fail".
func FailMethodType() benchkit.MethodType {
	return benchkit.MethodType{
		Name:  "fail",
		Label: "Fail",
		Params: []benchkit.Param{
			{Name: "message", Type: benchkit.StringParam},
		},
		New: func(args map[string]plain.Value) (benchkit.Method, error) {
			return FailMethod{Message: string(args["message"].(plain.String))}, nil
		},
		Decode: func(data plain.Value) (benchkit.Method, error) {
			obj, err := fields(data, "message")
			if err != nil {
				return nil, err
			}
			msg, ok := obj["message"].(plain.String)
			if !ok {
				return nil, fmt.Errorf("field %q is %T, want string", "message", obj["message"])
			}
			return FailMethod{Message: string(msg)}, nil
		},
	}
}

// PanicMethod makes the callback panic. It encodes the same empty
// payload as ExactMethod; TypeName tells the two apart.
type PanicMethod struct{}

func (PanicMethod) Encode() plain.Value { return plain.Object{} }

func (PanicMethod) TypeName() string { return "panic" }

// PanicMethodType returns the descriptor registered as "panic".
func PanicMethodType() benchkit.MethodType {
	return benchkit.MethodType{
		Name:  "panic",
		Label: "Panic",
		New: func(args map[string]plain.Value) (benchkit.Method, error) {
			return PanicMethod{}, nil
		},
		Decode: func(data plain.Value) (benchkit.Method, error) {
			if _, err := fields(data); err != nil {
				return nil, err
			}
			return PanicMethod{}, nil
		},
	}
}

// Callback is the fixture run callback. It computes the method's answer
// for the task and stamps FixedSeconds, the way a real callback stamps
// measured time.
func Callback(ctx context.Context, task benchkit.Task, method benchkit.Method) (benchkit.Result, error) {
	switch m := method.(type) {
	case FailMethod:
		return nil, errors.New(m.Message)
	case PanicMethod:
		panic("fixture callback asked to panic")
	}

	offset := 0.0
	if m, ok := method.(OffsetMethod); ok {
		offset = m.Offset
	}

	var answer map[string]plain.Value
	switch t := task.(type) {
	case SumTask:
		answer = map[string]plain.Value{
			"value": plain.Float(t.A + t.B + offset),
		}
	case ProductTask:
		xs := make([]float64, t.Count)
		ys := make([]float64, t.Count)
		product := 1.0
		for i := 0; i < t.Count; i++ {
			product *= t.Base
			xs[i] = float64(i + 1)
			ys[i] = product + offset
		}
		answer = map[string]plain.Value{
			"value": plain.Float(product + offset),
			"xs":    plain.Floats(xs),
			"ys":    plain.Floats(ys),
		}
	default:
		return nil, fmt.Errorf("no fixture answer for task %T", task)
	}

	result := benchkit.NewPlainResult(answer)
	return result.Set("seconds", plain.Float(FixedSeconds)), nil
}

// NewBench builds the fixture bench with every type registered and the
// callback installed. Panics on registration failure; the fixtures are
// known-good.
func NewBench() *benchkit.Bench {
	b := benchkit.New("arith")
	must(b.RegisterTasks(SumTaskType(), ProductTaskType()))
	must(b.RegisterMethods(
		ExactMethodType(),
		OffsetMethodType(),
		FailMethodType(),
		PanicMethodType(),
	))
	must(b.OnRun(Callback))
	return b
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// fields asserts data is an object with exactly the given keys.
func fields(data plain.Value, names ...string) (plain.Object, error) {
	obj, ok := data.(plain.Object)
	if !ok {
		return nil, fmt.Errorf("payload is %T, want object", data)
	}
	if len(obj) != len(names) {
		return nil, fmt.Errorf("payload has %d fields, want %d", len(obj), len(names))
	}
	for _, name := range names {
		if _, ok := obj[name]; !ok {
			return nil, fmt.Errorf("payload missing field %q", name)
		}
	}
	return obj, nil
}

func floatField(obj plain.Object, name string) (float64, error) {
	f, ok := plain.AsFloat(obj[name])
	if !ok {
		return 0, fmt.Errorf("field %q is %T, want number", name, obj[name])
	}
	return f, nil
}

// floatsField extracts a result field as a float slice, reporting a
// missing field as the metric's EvaluationError.
func floatsField(pr benchkit.PlainResult, metricName, key string) ([]float64, error) {
	v, ok := pr.Get(key)
	if !ok {
		return nil, metric.MissingKey(metricName, key)
	}
	arr, ok := v.(plain.Array)
	if !ok {
		return nil, fmt.Errorf("field %q is %T, want array", key, v)
	}
	out := make([]float64, len(arr))
	for i, elem := range arr {
		f, ok := plain.AsFloat(elem)
		if !ok {
			return nil, fmt.Errorf("field %q[%d] is %T, want number", key, i, elem)
		}
		out[i] = f
	}
	return out, nil
}
