// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the quality gate MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, runner contract.CommandRunner) *server.MCPServer {
	s := server.NewMCPServer(
		"Quality Gate Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		runner:  runner,
	}

	// --- 1. Tool: run_quality_gate ---
	s.AddTool(mcp.NewTool("run_quality_gate",
		mcp.WithDescription("Run the documentation format and lint checks and return the quality report."),
		mcp.WithString("dir", mcp.Description("Directory to check (defaults to the configured directory).")),
		mcp.WithString("checks", mcp.Description("Comma-separated check names to run (defaults to all configured checks).")),
		mcp.WithString("timeout", mcp.Description("Time budget per check (e.g., '90s', '2 minutes').")),
		mcp.WithString("format", mcp.Description("Response format. Defaults to 'markdown'."), mcp.Enum("markdown", "json")),
	), h.handleRunQualityGate)

	// --- 2. Tool: render_report ---
	s.AddTool(mcp.NewTool("render_report",
		mcp.WithDescription("Render a Markdown quality report from a JSON array of check results."),
		mcp.WithString("results", mcp.Description("JSON array of check results with name, title, passed, detail and issue_codes."), mcp.Required()),
	), h.handleRenderReport)

	// --- 3. Tool: list_checks ---
	s.AddTool(mcp.NewTool("list_checks",
		mcp.WithDescription("List the configured checks and the commands they run."),
	), h.handleListChecks)

	return s
}

// StartMCPServer starts the quality gate MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, runner contract.CommandRunner) error {
	s := NewMCPServer(baseCfg, runner)
	return server.ServeStdio(s)
}
