package cmd

import (
	"context"

	"github.com/huangsam/qualitygate/core"
	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/internal/outwriter"
	"github.com/huangsam/qualitygate/internal/prcomment"
	"github.com/huangsam/qualitygate/internal/progress"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Run the format and lint checks (fails build on violations)",
	Long: `Run every configured check inside dir, print the Markdown report and
exit with 0 when all checks passed or 1 when any failed.

A check that cannot start or runs past --timeout fails like any other
check; the gate itself never crashes on tool problems.

Use cases:
- Pull request gates - block merges of badly formatted docs
- Local pre-push runs - see the same report CI would post
- Sticky PR feedback - keep one report comment up to date with --comment-update

Examples:
  # Check the current directory
  qualitygate check

  # Check docs/ with a longer budget and a table on the terminal
  qualitygate check docs --timeout "2 minutes" --output text

  # In GitHub Actions: post the report on the pull request
  GITHUB_TOKEN=... qualitygate check --comment --comment-update`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runQualityGate()
	},
}

// runQualityGate executes the gate with the validated config and exits with its verdict.
func runQualityGate() {
	pm := progress.NewManager(cfg.Progress)
	_, code := core.ExecuteQualityGate(rootCtx, cfg, core.Dependencies{
		Runner:   contract.NewLocalCommandRunner(),
		Progress: pm,
		Sinks:    buildSinks(rootCtx, cfg),
	})
	pm.Close()
	exitFunc(code)
}

// buildSinks returns the report outputs for cfg. A comment setup that is
// incomplete is skipped with a warning so it cannot block the report.
func buildSinks(ctx context.Context, cfg *contract.Config) []contract.Sink {
	sinks := []contract.Sink{outwriter.NewReportSink(cfg)}
	if !cfg.Comment.Enabled {
		return sinks
	}

	target, err := contract.ResolveCommentTarget(cfg.Comment)
	if err != nil {
		contract.LogWarn("Skipping pull request comment", err)
		return sinks
	}
	poster := prcomment.NewClient(ctx, cfg.Comment.APIURL, cfg.Comment.Token,
		prcomment.WithUpdate(cfg.Comment.Update))
	return append(sinks, outwriter.NewCommentSink(poster, target))
}
