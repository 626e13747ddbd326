package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StartMCPServer serves the restriction tools over stdio
func StartMCPServer(cfg *Config, logger *slog.Logger) error {
	s := newMCPServer(cfg, logger)
	logger.Info("starting dbrestrict mcp server")
	return server.ServeStdio(s)
}

func newMCPServer(cfg *Config, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"dbrestrict",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	describeTool := mcp.NewTool("describe_restrictions",
		mcp.WithDescription("Describe the column restrictions of a DDL script, migration directory or snapshot"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a .sql file, a migration directory or a .db snapshot"),
		),
		mcp.WithString("format",
			mcp.Description("Output format (default: "+cfg.Output.Format+")"),
			mcp.Enum("info", "json", "sql"),
		),
	)

	s.AddTool(describeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDescribeRestrictions(ctx, request, cfg, logger)
	})

	checkTool := mcp.NewTool("check_value",
		mcp.WithDescription("Check a value against the restrictions of a table column"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a .sql file, a migration directory or a .db snapshot"),
		),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("Table name"),
		),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Column name"),
		),
		mcp.WithString("value",
			mcp.Description("Value to check"),
		),
		mcp.WithBoolean("null",
			mcp.Description("Check SQL NULL instead of value"),
		),
	)

	s.AddTool(checkTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCheckValue(ctx, request, logger)
	})

	return s
}

// handleDescribeRestrictions processes the describe_restrictions tool request
func handleDescribeRestrictions(ctx context.Context, request mcp.CallToolRequest, cfg *Config, logger *slog.Logger) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	format := request.GetString("format", cfg.Output.Format)

	output, err := describeCore(ctx, path, format, NewFileScriptReader(), logger)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(output), nil
}

// handleCheckValue processes the check_value tool request. A violation is a
// tool error carrying the violation message.
func handleCheckValue(ctx context.Context, request mcp.CallToolRequest, logger *slog.Logger) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	table, err := request.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError("table parameter is required"), nil
	}
	column, err := request.RequireString("column")
	if err != nil {
		return mcp.NewToolResultError("column parameter is required"), nil
	}

	var value *string
	if !request.GetBool("null", false) {
		v, err := request.RequireString("value")
		if err != nil {
			return mcp.NewToolResultError("value parameter is required unless null is set"), nil
		}
		value = &v
	}

	output, err := checkCore(ctx, path, table, column, value, NewFileScriptReader(), logger)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %s", err)), nil
	}
	return mcp.NewToolResultText(output), nil
}
