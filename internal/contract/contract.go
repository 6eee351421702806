// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/qualitygate/schema"
)

// CommandRunner executes external check commands.
// This allows the gate logic to be tested without spawning real tools.
type CommandRunner interface {
	// Run executes command inside dir and blocks until it exits or ctx is done.
	// It returns the combined stdout/stderr and the process exit code. A non-nil
	// error means the command could not be started or did not run to completion;
	// a nonzero exit code on its own is not an error.
	Run(ctx context.Context, dir string, command string) ([]byte, int, error)
}

// CommentTarget identifies the discussion thread a report is posted to.
type CommentTarget struct {
	Repo   string // owner/name
	Number int    // pull request or issue number
}

// CommentPoster publishes a rendered report on a pull request.
// Authentication and transport are owned by the implementation.
type CommentPoster interface {
	Post(ctx context.Context, target CommentTarget, markdown string) error
}

// Sink receives the finished report. Every output destination (console,
// file, pull request comment) is a sink passed in explicitly by the caller.
type Sink interface {
	Emit(ctx context.Context, report schema.QualityReport, markdown string) error
}

// ProgressManager shows feedback while checks run.
type ProgressManager interface {
	StartTask(description string) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks a single running check.
type TaskProgress interface {
	Complete(passed bool)
}
