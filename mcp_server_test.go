package main

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToolRequest(name string, arguments map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = arguments
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestNewMCPServer(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.NotNil(t, newMCPServer(cfg, quietLogger()))
}

func TestHandleDescribeRestrictions(t *testing.T) {
	ctx := context.Background()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	path := writeSampleScript(t)

	t.Run("default_format", func(t *testing.T) {
		request := newToolRequest("describe_restrictions", map[string]any{"path": path})
		result, err := handleDescribeRestrictions(ctx, request, cfg, quietLogger())
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "Table: samples")
	})

	t.Run("json_format", func(t *testing.T) {
		request := newToolRequest("describe_restrictions", map[string]any{"path": path, "format": "json"})
		result, err := handleDescribeRestrictions(ctx, request, cfg, quietLogger())
		require.NoError(t, err)
		assert.Contains(t, resultText(t, result), `"max_length": 10`)
	})

	t.Run("missing_path", func(t *testing.T) {
		request := newToolRequest("describe_restrictions", map[string]any{})
		result, err := handleDescribeRestrictions(ctx, request, cfg, quietLogger())
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "path parameter is required", resultText(t, result))
	})

	t.Run("unreadable_path", func(t *testing.T) {
		request := newToolRequest("describe_restrictions", map[string]any{"path": "/path/that/does/not/exist"})
		result, err := handleDescribeRestrictions(ctx, request, cfg, quietLogger())
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "script path does not exist")
	})
}

func TestHandleCheckValue(t *testing.T) {
	ctx := context.Background()
	path := writeSampleScript(t)

	tests := []struct {
		name      string
		arguments map[string]any
		wantError bool
		wantText  string
	}{
		{
			name:      "valid_value",
			arguments: map[string]any{"path": path, "table": "samples", "column": "kind", "value": "X"},
			wantText:  "value of column samples.kind is valid\n",
		},
		{
			name:      "not_allowed",
			arguments: map[string]any{"path": path, "table": "samples", "column": "kind", "value": "Y"},
			wantError: true,
			wantText:  `check failed: value "Y" of column samples.kind is not one of the allowed values [X]`,
		},
		{
			name:      "null_rejected",
			arguments: map[string]any{"path": path, "table": "samples", "column": "code", "null": true},
			wantError: true,
			wantText:  "check failed: column samples.code must not be null",
		},
		{
			name:      "missing_value",
			arguments: map[string]any{"path": path, "table": "samples", "column": "code"},
			wantError: true,
			wantText:  "value parameter is required unless null is set",
		},
		{
			name:      "missing_table",
			arguments: map[string]any{"path": path, "column": "code", "value": "A"},
			wantError: true,
			wantText:  "table parameter is required",
		},
		{
			name:      "unknown_table",
			arguments: map[string]any{"path": path, "table": "missing", "column": "code", "value": "A"},
			wantError: true,
			wantText:  "check failed: usage error: unknown table missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleCheckValue(ctx, newToolRequest("check_value", tt.arguments), quietLogger())
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, result.IsError)
			assert.Equal(t, tt.wantText, resultText(t, result))
		})
	}
}
