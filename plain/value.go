package plain

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the plain-data value types.
// Only Null, Bool, Int, Float, String, Array, and Object implement it.
// A Value is exactly what the persistence format can carry: string,
// number, boolean, null, ordered sequence, string-keyed mapping.
type Value interface {
	plainValue() // sealed
}

// Null represents a JSON null.
// An explicit type rather than a nil Value, so every well-formed
// payload is a non-nil Value.
type Null struct{}

func (Null) plainValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) plainValue() {}

// Int represents an integer value. Always int64 on the wire; a number
// literal without fraction or exponent decodes as Int.
type Int int64

func (Int) plainValue() {}

// Float represents a floating-point value. NaN and infinities have no
// JSON form and are rejected at marshal time.
type Float float64

func (Float) plainValue() {}

// String represents a string value.
type String string

func (String) plainValue() {}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) plainValue() {}

// Object represents a string-keyed mapping of values.
// Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) plainValue() {}

// SortedKeys returns the object's keys in canonical order (UTF-16 code
// units, per RFC 8785). Go's sort.Strings compares UTF-8 bytes, which
// produces a different order for strings outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units, the ordering
// RFC 8785 requires for canonical object keys. unicode/utf16 handles
// surrogate pairs; byte-wise comparison does not.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// Equal reports structural equality of two values. Int and Float never
// compare equal, even when numerically identical; identity over the
// wire is judged on canonical bytes, not on Equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AsFloat extracts a numeric value as float64. Both Int and Float
// qualify; everything else does not.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	default:
		return 0, false
	}
}

// IsScalar reports whether v is a leaf value (string, number, bool).
// Null, arrays and objects are not scalars.
func IsScalar(v Value) bool {
	switch v.(type) {
	case String, Int, Float, Bool:
		return true
	default:
		return false
	}
}

// Floats builds an Array of Float values from a float64 slice.
func Floats(xs []float64) Array {
	arr := make(Array, len(xs))
	for i, x := range xs {
		arr[i] = Float(x)
	}
	return arr
}

// FromGo converts a native Go value into a Value. Supported inputs are
// nil, bool, string, the integer and float kinds, []any,
// map[string]any, and Value itself. Anything else is an error, as are
// uint64 values beyond int64 range and non-finite floats.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("plain: uint %d out of int64 range", val)
		}
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("plain: uint64 %d out of int64 range", val)
		}
		return Int(val), nil
	case float32:
		return floatValue(float64(val))
	case float64:
		return floatValue(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			pv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = pv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			pv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = pv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("plain: unsupported type %T", v)
	}
}

func floatValue(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("plain: non-finite float %v has no plain form", f)
	}
	return Float(f), nil
}
