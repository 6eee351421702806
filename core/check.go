package core

import (
	"context"
	"time"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
)

// ExecuteQualityGate runs the check pipeline for CI gating: run checks,
// evaluate, render, emit to every sink. It returns the report and the exit
// code the process should end with.
func ExecuteQualityGate(ctx context.Context, cfg *contract.Config, deps Dependencies) (schema.QualityReport, int) {
	start := time.Now()

	builder := NewCheckRunBuilder(ctx, cfg, deps).
		RunChecks().
		BuildReport().
		RenderReport().
		EmitReport()

	report := builder.GetReport()
	printCheckSummary(report, time.Since(start))
	return report, ExitCode(report)
}

// printCheckSummary prints a one-line verdict on stderr so it never mixes
// with a report written to stdout.
func printCheckSummary(report schema.QualityReport, duration time.Duration) {
	if report.OverallPassed {
		contract.LogInfo("✅ %d check(s) passed in %v", len(report.Results), duration.Round(time.Millisecond))
		return
	}
	contract.LogInfo("❌ %d of %d check(s) failed in %v", report.FailedCount(), len(report.Results), duration.Round(time.Millisecond))
}
