package benchkit

import (
	"fmt"

	"github.com/benchkit/benchkit/plain"
)

// PlainResultName is the identifier PlainResult is registered under in
// every Bench.
const PlainResultName = "PlainResult"

// PlainResult is the built-in ad hoc result: a string-keyed bag of
// plain values. Run callbacks that have no richer result type stamp
// whatever they measured into one of these.
//
// PlainResult has value semantics. Set returns an extended copy, so a
// result handed to the framework is never mutated afterwards.
type PlainResult struct {
	fields plain.Object
}

// NewPlainResult builds a result from a field map. The map is copied.
func NewPlainResult(fields map[string]plain.Value) PlainResult {
	obj := make(plain.Object, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return PlainResult{fields: obj}
}

// TypeName reports the registered type identifier. PlainResult decodes
// any object payload, so it names its type explicitly instead of
// relying on resolve-by-decode.
func (r PlainResult) TypeName() string {
	return PlainResultName
}

// Encode returns the result's persistent payload.
func (r PlainResult) Encode() plain.Value {
	obj := make(plain.Object, len(r.fields))
	for k, v := range r.fields {
		obj[k] = v
	}
	return obj
}

// Set returns a copy of the result with key set to v.
func (r PlainResult) Set(key string, v plain.Value) PlainResult {
	obj := make(plain.Object, len(r.fields)+1)
	for k, w := range r.fields {
		obj[k] = w
	}
	obj[key] = v
	return PlainResult{fields: obj}
}

// Get returns the raw value under key.
func (r PlainResult) Get(key string) (plain.Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Float returns the value under key as a float64. Int values widen.
func (r PlainResult) Float(key string) (float64, bool) {
	v, ok := r.fields[key]
	if !ok {
		return 0, false
	}
	return plain.AsFloat(v)
}

// Int returns the value under key as an int64.
func (r PlainResult) Int(key string) (int64, bool) {
	v, ok := r.fields[key]
	if !ok {
		return 0, false
	}
	i, ok := v.(plain.Int)
	return int64(i), ok
}

// String returns the value under key as a string.
func (r PlainResult) String(key string) (string, bool) {
	v, ok := r.fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(plain.String)
	return string(s), ok
}

// Keys returns the result's field names in canonical order.
func (r PlainResult) Keys() []string {
	return r.fields.SortedKeys()
}

// Len returns the number of fields.
func (r PlainResult) Len() int {
	return len(r.fields)
}

func decodePlainResult(data plain.Value) (Result, error) {
	obj, ok := data.(plain.Object)
	if !ok {
		return nil, fmt.Errorf("payload is %T, want object", data)
	}
	return NewPlainResult(obj), nil
}
