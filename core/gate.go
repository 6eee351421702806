package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
)

// Shell exit codes for "found but not executable" and "not found".
const (
	exitNotExecutable = 126
	exitNotFound      = 127
)

// QualityGate runs external checks and turns their exit status into results.
type QualityGate struct {
	runner        contract.CommandRunner
	dir           string
	timeout       time.Duration
	maxIssueCodes int
	progress      contract.ProgressManager
	warn          func(msg string, err error)
}

// GateOption customizes a QualityGate.
type GateOption func(*QualityGate)

// WithDir sets the working directory for every check.
func WithDir(dir string) GateOption {
	return func(g *QualityGate) { g.dir = dir }
}

// WithTimeout bounds how long a single check may run.
func WithTimeout(timeout time.Duration) GateOption {
	return func(g *QualityGate) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithMaxIssueCodes caps how many distinct issue codes a result keeps.
func WithMaxIssueCodes(n int) GateOption {
	return func(g *QualityGate) {
		if n >= 0 {
			g.maxIssueCodes = n
		}
	}
}

// WithProgress shows a task per check while it runs.
func WithProgress(pm contract.ProgressManager) GateOption {
	return func(g *QualityGate) {
		if pm != nil {
			g.progress = pm
		}
	}
}

// WithWarnFunc replaces the function used to report recovered tool failures.
func WithWarnFunc(warn func(msg string, err error)) GateOption {
	return func(g *QualityGate) {
		if warn != nil {
			g.warn = warn
		}
	}
}

// NewQualityGate creates a gate backed by the given runner.
func NewQualityGate(runner contract.CommandRunner, opts ...GateOption) *QualityGate {
	g := &QualityGate{
		runner:        runner,
		dir:           ".",
		timeout:       schema.DefaultTimeout,
		maxIssueCodes: schema.DefaultMaxIssueCodes,
		progress:      noopProgress{},
		warn:          contract.LogWarn,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RunCheck executes a single check to completion and interprets the outcome.
// It never returns an error: launch failures and timeouts become failing results.
func (g *QualityGate) RunCheck(ctx context.Context, spec schema.CheckSpec) schema.CheckResult {
	task := g.progress.StartTask(spec.DisplayTitle())
	start := time.Now()

	result := g.runCheck(ctx, spec)
	result.Duration = time.Since(start)

	task.Complete(result.Passed)
	return result
}

// RunChecks runs every check in order, one at a time.
func (g *QualityGate) RunChecks(ctx context.Context, specs []schema.CheckSpec) []schema.CheckResult {
	results := make([]schema.CheckResult, 0, len(specs))
	for _, spec := range specs {
		results = append(results, g.RunCheck(ctx, spec))
	}
	return results
}

func (g *QualityGate) runCheck(ctx context.Context, spec schema.CheckSpec) schema.CheckResult {
	result := schema.CheckResult{
		Name:  spec.Name,
		Title: spec.DisplayTitle(),
	}

	runCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, exitCode, err := g.runner.Run(runCtx, g.dir, spec.Command)

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		result.Outcome = schema.OutcomeTimeout
		result.Detail = schema.TimeoutDetail
		g.warn(fmt.Sprintf("check %q timed out after %v", spec.Name, g.timeout), contract.WrapTimeoutError(runCtx.Err()))
		return result
	case err != nil:
		result.Outcome = schema.OutcomeLaunchError
		result.Detail = failDetail(spec)
		g.warn(fmt.Sprintf("check %q could not run", spec.Name), contract.WrapLaunchError(err))
		return result
	case exitCode == 0:
		result.Passed = true
		result.Outcome = schema.OutcomePassed
		result.Detail = spec.PassDetail
		return result
	case exitCode == exitNotFound || exitCode == exitNotExecutable:
		result.Outcome = schema.OutcomeLaunchError
		result.Detail = failDetail(spec)
		g.warn(fmt.Sprintf("check %q could not run", spec.Name),
			contract.WrapLaunchError(fmt.Errorf("command %q exited with %d (tool missing or not executable)", spec.Command, exitCode)))
		return result
	}

	result.Outcome = schema.OutcomeFailed
	codes, total := ExtractIssueCodes(spec.IssuePattern, out, g.maxIssueCodes)
	if total == 0 {
		result.Detail = failDetail(spec)
		return result
	}
	result.IssueCodes = codes
	result.Detail = strings.ReplaceAll(spec.IssuesDetail, schema.CountPlaceholder, strconv.Itoa(total))
	return result
}

// ExtractIssueCodes returns the distinct matches of pattern in output, in
// first-seen order and capped at limit, along with the total number of
// distinct matches. When the pattern has a capture group its first group is
// used instead of the whole match. Invalid or empty patterns match nothing.
func ExtractIssueCodes(pattern string, output []byte, limit int) ([]string, int) {
	if pattern == "" || len(output) == 0 {
		return nil, 0
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, 0
	}

	seen := make(map[string]struct{})
	var codes []string
	for _, match := range re.FindAllSubmatch(output, -1) {
		code := match[0]
		if len(match) > 1 && len(match[1]) > 0 {
			code = match[1]
		}
		key := string(code)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if len(codes) < limit {
			codes = append(codes, key)
		}
	}
	return codes, len(seen)
}

// failDetail returns the generic failure detail for a check.
func failDetail(spec schema.CheckSpec) string {
	if spec.FailDetail != "" {
		return spec.FailDetail
	}
	return schema.GenericFailDetail
}

// noopProgress is used when no progress manager is configured.
type noopProgress struct{}

func (noopProgress) StartTask(string) contract.TaskProgress { return noopTask{} }
func (noopProgress) IsInteractive() bool                    { return false }
func (noopProgress) Close()                                 {}

type noopTask struct{}

func (noopTask) Complete(bool) {}
