package benchkit

import (
	"bytes"
	"fmt"

	"github.com/benchkit/benchkit/plain"
)

// CheckTask verifies that a task instance survives persistence:
// encode, canonicalize, decode through the descriptor, re-encode, and
// compare canonical bytes. Any step failure or byte mismatch is a
// *DecodeError. The engine runs this check before persisting anything,
// so an entity that cannot be restored is rejected up front rather
// than discovered on load.
func CheckTask(tt TaskType, task Task) error {
	return roundTrip(CategoryTask, tt.Name, task.Encode(), func(v plain.Value) (plain.Value, error) {
		decoded, err := tt.Decode(v)
		if err != nil {
			return nil, err
		}
		return decoded.Encode(), nil
	})
}

// CheckMethod is CheckTask over the method contract.
func CheckMethod(mt MethodType, m Method) error {
	return roundTrip(CategoryMethod, mt.Name, m.Encode(), func(v plain.Value) (plain.Value, error) {
		decoded, err := mt.Decode(v)
		if err != nil {
			return nil, err
		}
		return decoded.Encode(), nil
	})
}

// CheckResult is CheckTask over the result contract.
func CheckResult(rt ResultType, r Result) error {
	return roundTrip(CategoryResult, rt.Name, r.Encode(), func(v plain.Value) (plain.Value, error) {
		decoded, err := rt.Decode(v)
		if err != nil {
			return nil, err
		}
		return decoded.Encode(), nil
	})
}

func roundTrip(cat Category, name string, encoded plain.Value, reencode func(plain.Value) (plain.Value, error)) error {
	fail := func(err error) error {
		return &DecodeError{Category: cat, Name: name, Err: err}
	}

	c1, err := plain.Marshal(encoded)
	if err != nil {
		return fail(err)
	}
	v, err := plain.Unmarshal(c1)
	if err != nil {
		return fail(err)
	}
	second, err := reencode(v)
	if err != nil {
		return fail(err)
	}
	c2, err := plain.Marshal(second)
	if err != nil {
		return fail(err)
	}
	if !bytes.Equal(c1, c2) {
		return fail(fmt.Errorf("round trip mismatch: %s re-encodes as %s", c1, c2))
	}
	return nil
}
