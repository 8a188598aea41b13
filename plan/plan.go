package plan

import (
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/benchkit/benchkit/plain"
)

// Plan is a compiled run plan: a named batch of task/method pairings.
type Plan struct {
	Name string
	Runs []RunSpec
}

// RunSpec is one plan entry: which task to build, which method to
// apply, and how many times to run the pair.
type RunSpec struct {
	TaskType   string
	TaskArgs   map[string]plain.Value
	MethodType string
	MethodArgs map[string]plain.Value
	Repeat     int
}

// Compile parses a CUE value holding a "plan" struct into a Plan.
// The value is what a plan file evaluates to:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`plan: {name: "smoke", runs: [...]}`)
//	p, err := plan.Compile(v)
//
// A plan needs a name and at least one run; each run needs a task and
// a method with a registered type name; repeat defaults to 1 and must
// be positive.
func Compile(v cue.Value) (*Plan, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	planVal := v.LookupPath(cue.ParsePath("plan"))
	if !planVal.Exists() {
		return nil, &CompileError{
			Field:   "plan",
			Message: "plan is required",
			Pos:     v.Pos(),
		}
	}

	p := &Plan{}

	nameVal := planVal.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "plan.name",
			Message: "name is required",
			Pos:     planVal.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	p.Name = name

	runsVal := planVal.LookupPath(cue.ParsePath("runs"))
	if !runsVal.Exists() {
		return nil, &CompileError{
			Field:   "plan.runs",
			Message: "at least one run is required",
			Pos:     planVal.Pos(),
		}
	}
	iter, err := runsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		spec, err := compileRun(iter.Value())
		if err != nil {
			return nil, err
		}
		p.Runs = append(p.Runs, *spec)
	}
	if len(p.Runs) == 0 {
		return nil, &CompileError{
			Field:   "plan.runs",
			Message: "at least one run is required",
			Pos:     runsVal.Pos(),
		}
	}

	return p, nil
}

// compileRun parses one element of the runs list.
func compileRun(v cue.Value) (*RunSpec, error) {
	spec := &RunSpec{Repeat: 1}

	var err error
	spec.TaskType, spec.TaskArgs, err = compileEntity(v, "task")
	if err != nil {
		return nil, err
	}
	spec.MethodType, spec.MethodArgs, err = compileEntity(v, "method")
	if err != nil {
		return nil, err
	}

	repeatVal := v.LookupPath(cue.ParsePath("repeat"))
	if repeatVal.Exists() {
		n, err := repeatVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if n < 1 {
			return nil, &CompileError{
				Field:   "repeat",
				Message: fmt.Sprintf("repeat %d, want at least 1", n),
				Pos:     repeatVal.Pos(),
			}
		}
		spec.Repeat = int(n)
	}

	return spec, nil
}

// compileEntity parses a task or method reference: a struct with a
// required type name and optional args.
func compileEntity(v cue.Value, field string) (string, map[string]plain.Value, error) {
	entVal := v.LookupPath(cue.ParsePath(field))
	if !entVal.Exists() {
		return "", nil, &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}

	typeVal := entVal.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return "", nil, &CompileError{
			Field:   field + ".type",
			Message: "type is required",
			Pos:     entVal.Pos(),
		}
	}
	typeName, err := typeVal.String()
	if err != nil {
		return "", nil, formatCUEError(err)
	}

	args := map[string]plain.Value{}
	argsVal := entVal.LookupPath(cue.ParsePath("args"))
	if argsVal.Exists() {
		iter, err := argsVal.Fields()
		if err != nil {
			return "", nil, formatCUEError(err)
		}
		for iter.Next() {
			pv, err := compileValue(iter.Value())
			if err != nil {
				return "", nil, err
			}
			args[iter.Label()] = pv
		}
	}

	return typeName, args, nil
}

// compileValue converts a concrete CUE value into a plain value. CUE
// distinguishes integer from float literals, and that distinction is
// preserved: 1 arrives as plain.Int, 1.0 as plain.Float.
func compileValue(v cue.Value) (plain.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return plain.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return plain.Bool(b), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return plain.Int(i), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return plain.Float(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return plain.String(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		arr := plain.Array{}
		for iter.Next() {
			elem, err := compileValue(iter.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		obj := plain.Object{}
		for iter.Next() {
			elem, err := compileValue(iter.Value())
			if err != nil {
				return nil, err
			}
			obj[iter.Label()] = elem
		}
		return obj, nil
	default:
		return nil, &CompileError{
			Field:   "args",
			Message: fmt.Sprintf("value is not a concrete plain value (kind %v)", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileError reports a malformed plan with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE's own errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
