package schema

import "time"

// CheckSpec describes one external check to run.
type CheckSpec struct {
	Name         CheckName `json:"name" yaml:"name" validate:"required"`
	Title        string    `json:"title" yaml:"title"`
	Command      string    `json:"command" yaml:"command" validate:"required"`
	IssuePattern string    `json:"issue_pattern,omitempty" yaml:"issue-pattern,omitempty"`
	PassDetail   string    `json:"pass_detail" yaml:"pass-detail"`
	IssuesDetail string    `json:"issues_detail" yaml:"issues-detail"`
	FailDetail   string    `json:"fail_detail" yaml:"fail-detail"`
}

// DisplayTitle returns the title used in reports, falling back to the name.
func (s CheckSpec) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return string(s.Name)
}

// CheckResult holds the outcome of a single check run.
// Detail never carries raw tool output, only fixed phrases and issue codes.
type CheckResult struct {
	Name       CheckName     `json:"name"`
	Title      string        `json:"title"`
	Passed     bool          `json:"passed"`
	Detail     string        `json:"detail"`
	IssueCodes []string      `json:"issue_codes,omitempty"`
	Outcome    Outcome       `json:"outcome"`
	Duration   time.Duration `json:"duration_ns"`
}

// HelpBlock is the collapsible remediation section at the end of a report.
type HelpBlock struct {
	Commands []string `json:"commands"`
	Link     string   `json:"link"`
}

// QualityReport is the aggregate of all check results from one run.
type QualityReport struct {
	OverallPassed bool          `json:"overall_passed"`
	Results       []CheckResult `json:"results"`
	ActionMessage string        `json:"action_message"`
	Help          HelpBlock     `json:"help"`
}

// FailedCount returns the number of checks that did not pass.
func (r QualityReport) FailedCount() int {
	count := 0
	for _, res := range r.Results {
		if !res.Passed {
			count++
		}
	}
	return count
}
