package core

import (
	"context"
	"fmt"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
)

// Dependencies are the collaborators a quality gate run needs.
type Dependencies struct {
	Runner   contract.CommandRunner
	Progress contract.ProgressManager
	Sinks    []contract.Sink
	Warn     func(msg string, err error)
}

// CheckRunBuilder builds one quality gate run using a builder pattern.
type CheckRunBuilder struct {
	ctx      context.Context
	cfg      *contract.Config
	deps     Dependencies
	gate     *QualityGate
	results  []schema.CheckResult
	report   schema.QualityReport
	markdown string
	emitErrs []error
}

// NewCheckRunBuilder creates a new builder for a quality gate run.
func NewCheckRunBuilder(ctx context.Context, cfg *contract.Config, deps Dependencies) *CheckRunBuilder {
	if deps.Runner == nil {
		deps.Runner = contract.NewLocalCommandRunner()
	}
	if deps.Warn == nil {
		deps.Warn = contract.LogWarn
	}
	gate := NewQualityGate(deps.Runner,
		WithDir(cfg.Dir),
		WithTimeout(cfg.Timeout),
		WithMaxIssueCodes(cfg.MaxIssueCodes),
		WithProgress(deps.Progress),
		WithWarnFunc(deps.Warn),
	)
	return &CheckRunBuilder{
		ctx:  ctx,
		cfg:  cfg,
		deps: deps,
		gate: gate,
	}
}

// RunChecks executes the configured checks in order.
func (b *CheckRunBuilder) RunChecks() *CheckRunBuilder {
	b.results = b.gate.RunChecks(b.ctx, b.cfg.Checks)
	return b
}

// BuildReport aggregates the results into a report.
func (b *CheckRunBuilder) BuildReport() *CheckRunBuilder {
	b.report = Evaluate(b.results, WithHelp(b.cfg.Help))
	return b
}

// RenderReport renders the Markdown report.
func (b *CheckRunBuilder) RenderReport() *CheckRunBuilder {
	b.markdown = Render(b.report)
	return b
}

// EmitReport hands the finished report to every sink. Sink failures are
// reported as warnings and never change the verdict.
func (b *CheckRunBuilder) EmitReport() *CheckRunBuilder {
	for i, sink := range b.deps.Sinks {
		if err := sink.Emit(b.ctx, b.report, b.markdown); err != nil {
			b.emitErrs = append(b.emitErrs, err)
			b.deps.Warn(fmt.Sprintf("report output %d of %d failed", i+1, len(b.deps.Sinks)), err)
		}
	}
	return b
}

// GetReport returns the built report.
func (b *CheckRunBuilder) GetReport() schema.QualityReport {
	return b.report
}

// GetMarkdown returns the rendered report.
func (b *CheckRunBuilder) GetMarkdown() string {
	return b.markdown
}

// GetEmitErrors returns the errors of sinks that failed.
func (b *CheckRunBuilder) GetEmitErrors() []error {
	return b.emitErrs
}
