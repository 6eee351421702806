package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// CheckName identifies a configured check (e.g. "format" or "lint").
	CheckName string

	// Outcome records how a check run ended.
	Outcome string
)

// All output modes supported.
const (
	MarkdownOut OutputMode = "markdown" // default
	TextOut     OutputMode = "text"
	JSONOut     OutputMode = "json"
	CSVOut      OutputMode = "csv"
	HTMLOut     OutputMode = "html"
	ParquetOut  OutputMode = "parquet"
)

// Built-in checks, in the order they run.
const (
	FormatCheck CheckName = "format"
	LintCheck   CheckName = "lint"
)

// All outcomes a check can end with.
const (
	OutcomePassed      Outcome = "passed"
	OutcomeFailed      Outcome = "failed"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeLaunchError Outcome = "launch_error"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	MarkdownOut: {},
	TextOut:     {},
	JSONOut:     {},
	CSVOut:      {},
	HTMLOut:     {},
	ParquetOut:  {},
}

// Fixed report strings. These are part of the rendered report and must not
// change between releases without a reason.
const (
	ReportTitle = "📋 Markdown Quality Report"

	PassedStatus = "✅ PASSED"
	FailedStatus = "❌ FAILED"

	PassedGlyph = "✅"
	FailedGlyph = "❌"

	PassedActionMessage = "🎉 All quality checks passed! The documentation is ready for review."
	FailedActionMessage = "⚠️ Some quality checks failed. Run `npm run format` to fix formatting automatically, then fix the remaining lint issues by hand and push again."

	GenericFailDetail = "check failed — inspect logs"
	TimeoutDetail     = "check timed out"

	// CountPlaceholder is replaced with the number of distinct issues in IssuesDetail.
	CountPlaceholder = "{count}"
)

// Defaults for tunable values.
const (
	DefaultTimeout       = 60 * time.Second
	DefaultMaxIssueCodes = 5
	DefaultHelpLink      = "https://github.com/DavidAnson/markdownlint/blob/main/doc/Rules.md"
)

// DefaultFixCommands are the remediation commands listed in the help block.
var DefaultFixCommands = []string{
	"npm run format",
	"npm run lint",
}
