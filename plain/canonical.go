package plain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Marshal produces canonical JSON for v. Canonical bytes are the only
// serialization used for content-addressed identity and for storage.
//
// Properties, following RFC 8785:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes).
//  2. No HTML escaping (<, >, & pass through raw).
//  3. Strings are NFC normalized.
//  4. Minimal string escaping: the two-character JSON escapes plus
//     lowercase \u00xx for remaining control characters.
//  5. Integers in plain base 10; floats in Go shortest form, with
//     NaN and infinities rejected and negative zero folded to 0.
//
// Equal values always marshal to equal bytes.
func Marshal(v Value) ([]byte, error) {
	return appendValue(make([]byte, 0, 64), v)
}

func appendValue(dst []byte, v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("plain: cannot marshal nil Value (use Null)")
	case Null:
		return append(dst, "null"...), nil
	case Bool:
		if val {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case Int:
		return strconv.AppendInt(dst, int64(val), 10), nil
	case Float:
		return appendFloat(dst, float64(val))
	case String:
		return appendString(dst, string(val)), nil
	case Array:
		return appendArray(dst, val)
	case Object:
		return appendObject(dst, val)
	default:
		return nil, fmt.Errorf("plain: unknown Value type %T", v)
	}
}

func appendFloat(dst []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("plain: non-finite float %v has no JSON form", f)
	}
	if f == 0 {
		// Folds -0 as well; JSON has no signed zero.
		return append(dst, '0'), nil
	}
	return strconv.AppendFloat(dst, f, 'g', -1, 64), nil
}

// appendString writes a canonical JSON string: NFC-normalized, minimal
// escaping, no HTML escaping. U+2028 and U+2029 pass through raw
// (encoding/json escapes them for JavaScript embedding, which is why
// this does not go through json.Marshal).
func appendString(dst []byte, s string) []byte {
	s = norm.NFC.String(s)

	dst = append(dst, '"')
	for _, r := range s {
		switch r {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if r < 0x20 {
				dst = append(dst, fmt.Sprintf(`\u%04x`, r)...)
			} else {
				dst = utf8.AppendRune(dst, r)
			}
		}
	}
	return append(dst, '"')
}

func appendArray(dst []byte, arr Array) ([]byte, error) {
	dst = append(dst, '[')
	var err error
	for i, elem := range arr {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst, err = appendValue(dst, elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	return append(dst, ']'), nil
}

func appendObject(dst []byte, obj Object) ([]byte, error) {
	dst = append(dst, '{')
	var err error
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendString(dst, k)
		dst = append(dst, ':')
		dst, err = appendValue(dst, obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	return append(dst, '}'), nil
}

// Unmarshal decodes JSON into a Value. Number literals without a
// fraction or exponent become Int; all others become Float. Trailing
// data after the first value is an error.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("plain: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("plain: trailing data after JSON value")
	}

	return fromJSON(raw)
}

func fromJSON(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return numberValue(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			pv, err := fromJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = pv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			pv, err := fromJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = pv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("plain: unsupported JSON type %T", v)
	}
}

func numberValue(n json.Number) (Value, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
		// Integer literal beyond int64: carried as Float, same as
		// encoding/json's default decoding would.
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("plain: malformed number %q: %w", s, err)
	}
	return floatValue(f)
}

// MarshalJSON implementations delegate to the canonical encoder, so a
// Value embedded in any json.Marshal output is rendered in canonical
// form.

func (v Null) MarshalJSON() ([]byte, error)   { return Marshal(v) }
func (v Bool) MarshalJSON() ([]byte, error)   { return Marshal(v) }
func (v Int) MarshalJSON() ([]byte, error)    { return Marshal(v) }
func (v Float) MarshalJSON() ([]byte, error)  { return Marshal(v) }
func (v String) MarshalJSON() ([]byte, error) { return Marshal(v) }
func (v Array) MarshalJSON() ([]byte, error)  { return Marshal(v) }
func (v Object) MarshalJSON() ([]byte, error) { return Marshal(v) }
