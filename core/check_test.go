package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		Dir:           "/docs",
		Timeout:       time.Second,
		Output:        schema.MarkdownOut,
		MaxIssueCodes: schema.DefaultMaxIssueCodes,
		Checks:        schema.DefaultChecks(),
		Help:          schema.DefaultHelp(),
	}
}

func TestExecuteQualityGate_AllPass(t *testing.T) {
	cfg := testConfig()
	runner := new(contract.MockCommandRunner)
	runner.On("Run", mock.Anything, "/docs", mock.Anything).Return([]byte{}, 0, nil).Twice()

	sink := new(contract.MockSink)
	sink.On("Emit", mock.Anything, mock.MatchedBy(func(r schema.QualityReport) bool {
		return r.OverallPassed && len(r.Results) == 2
	}), readGolden(t, "report_passed.golden.md")).Return(nil).Once()

	report, code := ExecuteQualityGate(context.Background(), cfg, Dependencies{
		Runner: runner,
		Sinks:  []contract.Sink{sink},
		Warn:   (&warnRecorder{}).warn,
	})

	assert.True(t, report.OverallPassed)
	assert.Equal(t, 0, code)
	runner.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestExecuteQualityGate_LintFails(t *testing.T) {
	cfg := testConfig()
	format, _ := cfg.CheckByName(schema.FormatCheck)
	lint, _ := cfg.CheckByName(schema.LintCheck)

	runner := new(contract.MockCommandRunner)
	runner.On("Run", mock.Anything, "/docs", format.Command).Return([]byte{}, 0, nil).Once()
	runner.On("Run", mock.Anything, "/docs", lint.Command).
		Return([]byte("a.md:1 MD013/line-length\nb.md:2 MD033/no-inline-html\n"), 1, nil).Once()

	sink := new(contract.MockSink)
	sink.On("Emit", mock.Anything, mock.Anything, readGolden(t, "report_failed.golden.md")).Return(nil).Once()

	report, code := ExecuteQualityGate(context.Background(), cfg, Dependencies{
		Runner: runner,
		Sinks:  []contract.Sink{sink},
		Warn:   (&warnRecorder{}).warn,
	})

	assert.False(t, report.OverallPassed)
	assert.Equal(t, 1, code)
	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Passed)
	assert.False(t, report.Results[1].Passed)
	sink.AssertExpectations(t)
}

func TestExecuteQualityGate_NoChecks(t *testing.T) {
	cfg := testConfig()
	cfg.Checks = nil
	runner := new(contract.MockCommandRunner)

	report, code := ExecuteQualityGate(context.Background(), cfg, Dependencies{Runner: runner})

	assert.True(t, report.OverallPassed)
	assert.Equal(t, 0, code)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckRunBuilder_SinkFailureKeepsVerdict(t *testing.T) {
	cfg := testConfig()
	runner := new(contract.MockCommandRunner)
	runner.On("Run", mock.Anything, "/docs", mock.Anything).Return([]byte{}, 0, nil)

	broken := new(contract.MockSink)
	broken.On("Emit", mock.Anything, mock.Anything, mock.Anything).
		Return(contract.WrapCommentError(errors.New("401 Bad credentials"))).Once()
	working := new(contract.MockSink)
	working.On("Emit", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	w := &warnRecorder{}
	builder := NewCheckRunBuilder(context.Background(), cfg, Dependencies{
		Runner: runner,
		Sinks:  []contract.Sink{broken, working},
		Warn:   w.warn,
	}).RunChecks().BuildReport().RenderReport().EmitReport()

	assert.True(t, builder.GetReport().OverallPassed)
	assert.Equal(t, 0, ExitCode(builder.GetReport()))
	assert.NotEmpty(t, builder.GetMarkdown())
	require.Len(t, builder.GetEmitErrors(), 1)
	require.Len(t, w.msgs, 1)
	assert.Contains(t, w.msgs[0], "report output 1 of 2 failed")
	working.AssertExpectations(t)
}

func TestCheckRunBuilder_UsesConfiguredHelp(t *testing.T) {
	cfg := testConfig()
	cfg.Checks = nil
	cfg.Help = schema.HelpBlock{Commands: []string{"make fix-docs"}, Link: "https://example.com/rules"}

	builder := NewCheckRunBuilder(context.Background(), cfg, Dependencies{
		Runner: new(contract.MockCommandRunner),
	}).RunChecks().BuildReport().RenderReport()

	assert.Equal(t, cfg.Help, builder.GetReport().Help)
	assert.Contains(t, builder.GetMarkdown(), "make fix-docs")
	assert.Contains(t, builder.GetMarkdown(), "(https://example.com/rules)")
}
