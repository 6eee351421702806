package schema

import "slices"

// DefaultChecks returns the built-in check pipeline: format first, then lint.
func DefaultChecks() []CheckSpec {
	return []CheckSpec{
		{
			Name:         FormatCheck,
			Title:        "Formatting",
			Command:      `npx prettier --check "**/*.md"`,
			IssuePattern: `(?m)^\[warn\] (\S+\.mdx?)\s*$`,
			PassDetail:   "All files are properly formatted",
			IssuesDetail: "Found " + CountPlaceholder + " file(s) that need formatting",
			FailDetail:   GenericFailDetail,
		},
		{
			Name:         LintCheck,
			Title:        "Linting",
			Command:      `npx markdownlint-cli2 "**/*.md"`,
			IssuePattern: `MD\d{3}`,
			PassDetail:   "All markdown files pass linting",
			IssuesDetail: "Found markdown issues that need manual fixes",
			FailDetail:   GenericFailDetail,
		},
	}
}

// DefaultHelp returns the help block shown when nothing else is configured.
func DefaultHelp() HelpBlock {
	return HelpBlock{
		Commands: slices.Clone(DefaultFixCommands),
		Link:     DefaultHelpLink,
	}
}

// MergeCheckSpec overlays the non-empty fields of override onto base.
func MergeCheckSpec(base, override CheckSpec) CheckSpec {
	merged := base
	if override.Title != "" {
		merged.Title = override.Title
	}
	if override.Command != "" {
		merged.Command = override.Command
	}
	if override.IssuePattern != "" {
		merged.IssuePattern = override.IssuePattern
	}
	if override.PassDetail != "" {
		merged.PassDetail = override.PassDetail
	}
	if override.IssuesDetail != "" {
		merged.IssuesDetail = override.IssuesDetail
	}
	if override.FailDetail != "" {
		merged.FailDetail = override.FailDetail
	}
	return merged
}
