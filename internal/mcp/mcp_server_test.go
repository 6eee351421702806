package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/qualitygate/internal/contract"
	mcp_internal "github.com/huangsam/qualitygate/internal/mcp"
	"github.com/huangsam/qualitygate/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Dir:           t.TempDir(),
		Timeout:       time.Second,
		Output:        schema.MarkdownOut,
		MaxIssueCodes: schema.DefaultMaxIssueCodes,
		Checks:        schema.DefaultChecks(),
		Help:          schema.DefaultHelp(),
	}
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "first content item should be text")
	return text.Text
}

func request(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPServer_ToolsRegistered(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(t), new(contract.MockCommandRunner))

	for _, name := range []string{"run_quality_gate", "render_report", "list_checks"} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestMCPServerHandlers_RunQualityGate(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig(t)
	format, _ := cfg.CheckByName(schema.FormatCheck)
	lint, _ := cfg.CheckByName(schema.LintCheck)

	runner := new(contract.MockCommandRunner)
	runner.On("Run", mock.Anything, cfg.Dir, format.Command).Return([]byte{}, 0, nil)
	runner.On("Run", mock.Anything, cfg.Dir, lint.Command).Return([]byte("a.md:3 MD041/first-line-heading"), 1, nil)

	s := mcp_internal.NewMCPServer(cfg, runner)
	tool := s.GetTool("run_quality_gate")
	require.NotNil(t, tool)

	t.Run("markdown", func(t *testing.T) {
		res, err := tool.Handler(ctx, request("run_quality_gate", map[string]any{}))
		require.NoError(t, err)
		assert.False(t, res.IsError)

		text := textOf(t, res)
		assert.Contains(t, text, "## 📋 Markdown Quality Report: ❌ FAILED")
		assert.Contains(t, text, "`MD041`")
	})

	t.Run("json with check filter", func(t *testing.T) {
		res, err := tool.Handler(ctx, request("run_quality_gate", map[string]any{
			"checks": "format",
			"format": "json",
		}))
		require.NoError(t, err)
		assert.False(t, res.IsError)

		var decoded struct {
			Report   schema.QualityReport `json:"report"`
			Markdown string               `json:"markdown"`
			ExitCode int                  `json:"exit_code"`
		}
		require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &decoded))
		assert.True(t, decoded.Report.OverallPassed)
		require.Len(t, decoded.Report.Results, 1)
		assert.Equal(t, schema.FormatCheck, decoded.Report.Results[0].Name)
		assert.Equal(t, 0, decoded.ExitCode)
		assert.Contains(t, decoded.Markdown, "✅ PASSED")
	})

	t.Run("does not modify base config", func(t *testing.T) {
		assert.Len(t, cfg.Checks, 2)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	runner := new(contract.MockCommandRunner)
	s := mcp_internal.NewMCPServer(baseConfig(t), runner)

	t.Run("run_quality_gate unknown check", func(t *testing.T) {
		tool := s.GetTool("run_quality_gate")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, request("run_quality_gate", map[string]any{"checks": "spelling"}))
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, textOf(t, res), "unknown check 'spelling'")
	})

	t.Run("run_quality_gate missing dir", func(t *testing.T) {
		tool := s.GetTool("run_quality_gate")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, request("run_quality_gate", map[string]any{"dir": "/definitely/not/here"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, textOf(t, res), "cannot access directory")
	})

	t.Run("render_report invalid JSON", func(t *testing.T) {
		tool := s.GetTool("render_report")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, request("render_report", map[string]any{"results": "{not json"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, textOf(t, res), "invalid results JSON")
	})

	t.Run("render_report missing name", func(t *testing.T) {
		tool := s.GetTool("render_report")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, request("render_report", map[string]any{"results": `[{"passed":true}]`}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, textOf(t, res), "results[0] is missing a name")
	})

	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestMCPServerHandlers_RenderReport(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(t), new(contract.MockCommandRunner))
	tool := s.GetTool("render_report")
	require.NotNil(t, tool)

	results := `[
		{"name":"format","title":"Formatting","passed":true,"detail":"All files are properly formatted"},
		{"name":"lint","title":"Linting","passed":false,"detail":"Found markdown issues that need manual fixes","issue_codes":["MD013"]}
	]`
	res, err := tool.Handler(context.Background(), request("render_report", map[string]any{"results": results}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := textOf(t, res)
	assert.Contains(t, text, "❌ FAILED")
	assert.Contains(t, text, "### ✅ Formatting (`format`)")
	assert.Contains(t, text, "### ❌ Linting (`lint`)")
	assert.Contains(t, text, "Issue codes: `MD013`")
}

func TestMCPServerHandlers_ListChecks(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(t), new(contract.MockCommandRunner))
	tool := s.GetTool("list_checks")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), request("list_checks", nil))
	require.NoError(t, err)

	var checks []schema.CheckSpec
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &checks))
	require.Len(t, checks, 2)
	assert.Equal(t, schema.FormatCheck, checks[0].Name)
	assert.Equal(t, schema.LintCheck, checks[1].Name)
}
