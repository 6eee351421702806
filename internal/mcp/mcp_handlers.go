package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/qualitygate/core"
	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	runner  contract.CommandRunner
}

// runResponse is the JSON form of a run_quality_gate response.
type runResponse struct {
	Report   schema.QualityReport `json:"report"`
	Markdown string               `json:"markdown"`
	ExitCode int                  `json:"exit_code"`
	Warnings []string             `json:"warnings,omitempty"`
}

func (h *toolHandler) handleRunQualityGate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	var checks []string
	if c := request.GetString("checks", ""); c != "" {
		checks = strings.Split(c, ",")
	}
	if err := contract.RevalidateRun(cfg, request.GetString("dir", ""), request.GetString("timeout", ""), checks); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid run parameters: %v", err)), nil
	}

	// Warnings go into the response; stdout belongs to the protocol.
	var warnings []string
	builder := core.NewCheckRunBuilder(ctx, cfg, core.Dependencies{
		Runner: h.runner,
		Warn: func(msg string, err error) {
			warnings = append(warnings, fmt.Sprintf("%s: %v", msg, err))
		},
	}).RunChecks().BuildReport().RenderReport()

	report := builder.GetReport()
	if request.GetString("format", "markdown") == "json" {
		jsonData, _ := json.MarshalIndent(runResponse{
			Report:   report,
			Markdown: builder.GetMarkdown(),
			ExitCode: core.ExitCode(report),
			Warnings: warnings,
		}, "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}
	return mcp.NewToolResultText(builder.GetMarkdown()), nil
}

func (h *toolHandler) handleRenderReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("results", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("results is required"), nil
	}

	var results []schema.CheckResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid results JSON: %v", err)), nil
	}
	for i, r := range results {
		if r.Name == "" {
			return mcp.NewToolResultError(fmt.Sprintf("results[%d] is missing a name", i)), nil
		}
	}

	report := core.Evaluate(results, core.WithHelp(h.baseCfg.Help))
	return mcp.NewToolResultText(core.Render(report)), nil
}

func (h *toolHandler) handleListChecks(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(h.baseCfg.Checks, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
