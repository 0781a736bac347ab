package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedString string

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  ExclusionSet
	}{
		{name: "nil", input: nil, want: ExclusionSet{}},
		{name: "string", input: "not-an-array", want: ExclusionSet{}},
		{name: "bool", input: true, want: ExclusionSet{}},
		{name: "int", input: 7, want: ExclusionSet{}},
		{name: "map", input: map[string]any{"0": "core/list"}, want: ExclusionSet{}},
		{name: "struct", input: struct{ A string }{"x"}, want: ExclusionSet{}},
		{name: "string slice", input: []string{"a", "b"}, want: ExclusionSet{"a", "b"}},
		{name: "empty slice", input: []string{}, want: ExclusionSet{}},
		{name: "any slice", input: []any{"a", 1, nil, "b", true}, want: ExclusionSet{"a", "b"}},
		{name: "array", input: [2]string{"x", "y"}, want: ExclusionSet{"x", "y"}},
		{name: "named string slice", input: []namedString{"n/one"}, want: ExclusionSet{"n/one"}},
		{name: "identifier slice", input: []BlockIdentifier{"core/list"}, want: ExclusionSet{"core/list"}},
		{name: "duplicates kept", input: []string{"a", "a"}, want: ExclusionSet{"a", "a"}},
		{name: "int slice", input: []int{1, 2}, want: ExclusionSet{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ExclusionSet
			require.NotPanics(t, func() { got = Sanitize(tt.input) })
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_DecodedJSON(t *testing.T) {
	for _, raw := range []string{`"not-an-array"`, `null`, `42`, `{"a":"b"}`, `false`} {
		var v any
		require.NoError(t, json.Unmarshal([]byte(raw), &v))
		assert.Equal(t, ExclusionSet{}, Sanitize(v), raw)
		assert.False(t, IsSequence(v), raw)
	}

	var v any
	require.NoError(t, json.Unmarshal([]byte(`["core/list","acf/card"]`), &v))
	assert.Equal(t, ExclusionSet{"core/list", "acf/card"}, Sanitize(v))
	assert.True(t, IsSequence(v))
}

func TestSanitize_CopiesInput(t *testing.T) {
	in := []BlockIdentifier{"a"}
	out := Sanitize(in)
	out[0] = "changed"
	assert.Equal(t, BlockIdentifier("a"), in[0])
}

func TestExclusionSet_With(t *testing.T) {
	stored := ExclusionSet{"b", "a"}
	fixed := ExclusionSet{"a", "c", "c"}

	got := stored.With(fixed)
	assert.Equal(t, ExclusionSet{"b", "a", "c"}, got)
	assert.Equal(t, ExclusionSet{"b", "a"}, stored)
	assert.Equal(t, ExclusionSet{}, ExclusionSet(nil).With(nil))
}

func TestExclusionSet_Without(t *testing.T) {
	got := ExclusionSet{"a", "b", "c", "b"}.Without(ExclusionSet{"b"})
	assert.Equal(t, ExclusionSet{"a", "c"}, got)
	assert.Equal(t, ExclusionSet{}, ExclusionSet(nil).Without(ExclusionSet{"a"}))
}
