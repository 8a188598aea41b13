package benchkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchkit/benchkit/plain"
)

func TestPlainResultAccessors(t *testing.T) {
	r := NewPlainResult(map[string]plain.Value{
		"seconds": plain.Float(0.25),
		"calls":   plain.Int(42),
		"status":  plain.String("converged"),
		"trace":   plain.Array{plain.Float(1), plain.Float(0.5)},
	})

	secs, ok := r.Float("seconds")
	assert.True(t, ok)
	assert.Equal(t, 0.25, secs)

	// Int widens through Float.
	calls, ok := r.Float("calls")
	assert.True(t, ok)
	assert.Equal(t, 42.0, calls)

	n, ok := r.Int("calls")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	s, ok := r.String("status")
	assert.True(t, ok)
	assert.Equal(t, "converged", s)

	v, ok := r.Get("trace")
	assert.True(t, ok)
	assert.Equal(t, plain.Array{plain.Float(1), plain.Float(0.5)}, v)

	_, ok = r.Float("missing")
	assert.False(t, ok)
	_, ok = r.Int("seconds")
	assert.False(t, ok)
	_, ok = r.String("calls")
	assert.False(t, ok)
}

func TestPlainResultSetCopies(t *testing.T) {
	base := NewPlainResult(map[string]plain.Value{"a": plain.Int(1)})
	extended := base.Set("b", plain.Int(2))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())

	_, ok := base.Get("b")
	assert.False(t, ok)
	v, ok := extended.Get("b")
	assert.True(t, ok)
	assert.Equal(t, plain.Int(2), v)
}

func TestPlainResultConstructorCopies(t *testing.T) {
	fields := map[string]plain.Value{"a": plain.Int(1)}
	r := NewPlainResult(fields)

	fields["a"] = plain.Int(99)
	fields["b"] = plain.Int(2)

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, plain.Int(1), v)
	assert.Equal(t, 1, r.Len())
}

func TestPlainResultKeysSorted(t *testing.T) {
	r := NewPlainResult(map[string]plain.Value{
		"zeta":  plain.Int(1),
		"alpha": plain.Int(2),
		"mid":   plain.Int(3),
	})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Keys())
}

func TestPlainResultEncodeDecode(t *testing.T) {
	r := NewPlainResult(map[string]plain.Value{
		"seconds": plain.Float(0.5),
		"x":       plain.Float(-1),
	})

	decoded, err := decodePlainResult(r.Encode())
	require.NoError(t, err)

	pr, ok := decoded.(PlainResult)
	require.True(t, ok)
	secs, ok := pr.Float("seconds")
	assert.True(t, ok)
	assert.Equal(t, 0.5, secs)
}

func TestDecodePlainResultRejectsNonObject(t *testing.T) {
	_, err := decodePlainResult(plain.Array{plain.Int(1)})
	require.Error(t, err)

	_, err = decodePlainResult(plain.String("no"))
	require.Error(t, err)
}
