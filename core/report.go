package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/qualitygate/schema"
)

// ReportOption customizes a QualityReport built by Evaluate.
type ReportOption func(*schema.QualityReport)

// WithHelp replaces the default help block of the report.
func WithHelp(help schema.HelpBlock) ReportOption {
	return func(r *schema.QualityReport) {
		r.Help = schema.HelpBlock{
			Commands: slices.Clone(help.Commands),
			Link:     help.Link,
		}
	}
}

// Evaluate aggregates check results into a report. An empty result list passes.
func Evaluate(results []schema.CheckResult, opts ...ReportOption) schema.QualityReport {
	passed := true
	for _, r := range results {
		if !r.Passed {
			passed = false
			break
		}
	}

	report := schema.QualityReport{
		OverallPassed: passed,
		Results:       slices.Clone(results),
		ActionMessage: schema.FailedActionMessage,
		Help:          schema.DefaultHelp(),
	}
	if passed {
		report.ActionMessage = schema.PassedActionMessage
	}
	for _, opt := range opts {
		opt(&report)
	}
	return report
}

// ExitCode returns 0 when the report passed and 1 otherwise.
func ExitCode(report schema.QualityReport) int {
	if report.OverallPassed {
		return 0
	}
	return 1
}

// Render produces the Markdown report. The output depends only on the report
// fields, so equal reports render to identical bytes.
func Render(report schema.QualityReport) string {
	var sb strings.Builder

	status := schema.FailedStatus
	if report.OverallPassed {
		status = schema.PassedStatus
	}
	fmt.Fprintf(&sb, "## %s: %s\n\n", schema.ReportTitle, status)

	for _, r := range report.Results {
		glyph := schema.FailedGlyph
		if r.Passed {
			glyph = schema.PassedGlyph
		}
		fmt.Fprintf(&sb, "### %s %s (`%s`)\n\n", glyph, checkTitle(r), r.Name)
		fmt.Fprintf(&sb, "%s\n", r.Detail)
		if len(r.IssueCodes) > 0 {
			codes := make([]string, len(r.IssueCodes))
			for i, code := range r.IssueCodes {
				codes[i] = "`" + code + "`"
			}
			fmt.Fprintf(&sb, "\nIssue codes: %s\n", strings.Join(codes, ", "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "%s\n\n", report.ActionMessage)

	sb.WriteString("<details>\n")
	sb.WriteString("<summary>🛠️ How to fix</summary>\n\n")
	sb.WriteString("```bash\n")
	for _, cmd := range report.Help.Commands {
		fmt.Fprintf(&sb, "%s\n", cmd)
	}
	sb.WriteString("```\n")
	if report.Help.Link != "" {
		fmt.Fprintf(&sb, "\nSee [the rule reference](%s) for details on each issue code.\n", report.Help.Link)
	}
	sb.WriteString("</details>\n")

	return sb.String()
}

// checkTitle falls back to the check name when no title was set.
func checkTitle(r schema.CheckResult) string {
	if r.Title != "" {
		return r.Title
	}
	return string(r.Name)
}
