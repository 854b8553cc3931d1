package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalPrimitives(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
		{"empty object", map[string]any{}, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	obj := map[string]any{"zeta": 1, "alpha": 2, "mid": 3}
	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mid":3,"zeta":1}`, string(got))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("a < b & c > d")
	require.NoError(t, err)
	assert.Equal(t, `"a < b & c > d"`, string(got))
}

func TestMarshalCanonicalForbidsFloats(t *testing.T) {
	_, err := MarshalCanonical(3.14)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": 1.0})
	assert.Error(t, err)
}

func TestMarshalCanonicalForbidsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": nil})
	assert.Error(t, err)
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "é" as combining sequence (U+0065 U+0301) normalizes to U+00E9.
	combining := "é"
	precomposed := "é"

	a, err := MarshalCanonical(combining)
	require.NoError(t, err)
	b, err := MarshalCanonical(precomposed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	// U+2028 must appear literally, not as  .
	got, err := MarshalCanonical("a b")
	require.NoError(t, err)
	assert.Equal(t, "\"a b\"", string(got))

	// A literal backslash followed by the text "u2028" must stay escaped.
	got, err = MarshalCanonical(`a b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got))
}

func TestMarshalCanonicalDeterministic(t *testing.T) {
	obj := map[string]any{
		"regions": []any{
			map[string]any{"name": "Menu", "exits": []string{"rm_start_0[100390]"}},
		},
		"count": 1,
	}

	first, err := MarshalCanonical(obj)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := MarshalCanonical(obj)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}
