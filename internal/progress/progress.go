// Package progress shows a spinner per running check on interactive terminals.
package progress

import (
	"io"
	"os"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ciEnvVars are set by common CI providers. Spinners only add noise to CI logs.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE", "JENKINS_URL"}

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI.
func IsInteractiveEnvironment() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return false
		}
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Manager implements contract.ProgressManager with progressbar spinners.
type Manager struct {
	writer io.Writer
	tasks  []*progressbar.ProgressBar
}

// NewManager creates a progress manager based on environment.
func NewManager(enabled bool) contract.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return newManager(os.Stderr)
	}
	return &NoOpManager{}
}

func newManager(w io.Writer) *Manager {
	return &Manager{writer: w}
}

// StartTask starts a spinner labelled with the check title.
func (pm *Manager) StartTask(description string) contract.TaskProgress {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.RenderBlank()
	pm.tasks = append(pm.tasks, bar)
	return &task{bar: bar, writer: pm.writer, description: description}
}

// IsInteractive returns true if spinners should be shown.
func (pm *Manager) IsInteractive() bool {
	return true
}

// Close finishes any spinner that is still running.
func (pm *Manager) Close() {
	for _, bar := range pm.tasks {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
	pm.tasks = nil
}

type task struct {
	bar         *progressbar.ProgressBar
	writer      io.Writer
	description string
}

// Complete stops the spinner and leaves a one-line verdict behind.
func (t *task) Complete(passed bool) {
	_ = t.bar.Finish()
	label := contract.PassColor.Sprint(contract.PassValue)
	if !passed {
		label = contract.FailColor.Sprint(contract.FailValue)
	}
	_, _ = io.WriteString(t.writer, label+" "+t.description+"\n")
}

// NoOpManager implements contract.ProgressManager with no-op methods.
type NoOpManager struct{}

// StartTask returns a no-op task.
func (pm *NoOpManager) StartTask(string) contract.TaskProgress { return noOpTask{} }

// IsInteractive returns false for the no-op manager.
func (pm *NoOpManager) IsInteractive() bool { return false }

// Close is a no-op.
func (pm *NoOpManager) Close() {}

type noOpTask struct{}

func (noOpTask) Complete(bool) {}
