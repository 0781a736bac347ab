package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequested(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		wantKind RequestedKind
		want     []BlockIdentifier
	}{
		{name: "true sentinel", input: true, wantKind: RequestAllowAll},
		{name: "false sentinel", input: false, wantKind: RequestAllowAll},
		{name: "nil", input: nil, wantKind: RequestAllowAll},
		{name: "string", input: "core/list", wantKind: RequestAllowAll},
		{name: "empty list", input: []string{}, wantKind: RequestAllowAll},
		{name: "list without strings", input: []any{1, 2}, wantKind: RequestAllowAll},
		{name: "list", input: []string{"core/list", "core/image"}, wantKind: RequestSpecific, want: Identifiers("core/list", "core/image")},
		{name: "already parsed", input: Specific("acf/card"), wantKind: RequestSpecific, want: Identifiers("acf/card")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRequested(tt.input)
			assert.Equal(t, tt.wantKind, got.Kind())
			assert.Equal(t, tt.wantKind == RequestAllowAll, got.IsAllowAll())
			assert.Equal(t, tt.want, got.blocks)
		})
	}
}

func TestSpecific_EmptyIsAllowAll(t *testing.T) {
	assert.True(t, Specific().IsAllowAll())
	assert.Nil(t, Specific().blocks)
}

func TestRequestedKind_String(t *testing.T) {
	assert.Equal(t, "allow-all", RequestAllowAll.String())
	assert.Equal(t, "specific", RequestSpecific.String())
	assert.Equal(t, "RequestedKind(9)", RequestedKind(9).String())
}

func TestRequested_JSON(t *testing.T) {
	var payload struct {
		Allowed Requested `json:"allowed_block_types"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"allowed_block_types": ["a/b", 3, "c/d"]}`), &payload))
	assert.Equal(t, Identifiers("a/b", "c/d"), payload.Allowed.blocks)

	require.NoError(t, json.Unmarshal([]byte(`{"allowed_block_types": true}`), &payload))
	assert.True(t, payload.Allowed.IsAllowAll())

	var empty struct {
		Allowed Requested `json:"allowed_block_types"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.Allowed.IsAllowAll(), "zero value is AllowAll")
}
