package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// waitDelay bounds how long Run waits for pipes to close after the process
// was killed. Package managers like npx leave children holding stdout open.
const waitDelay = 2 * time.Second

// LocalCommandRunner implements the CommandRunner interface by executing
// commands through the local shell.
type LocalCommandRunner struct {
	shell []string
}

var _ CommandRunner = &LocalCommandRunner{} // Compile-time check

// NewLocalCommandRunner creates a runner that uses "sh -c" (or "cmd /C" on Windows).
func NewLocalCommandRunner() *LocalCommandRunner {
	if runtime.GOOS == "windows" {
		return &LocalCommandRunner{shell: []string{"cmd", "/C"}}
	}
	return &LocalCommandRunner{shell: []string{"sh", "-c"}}
}

// Run executes a command and returns its combined stdout/stderr output and exit code.
func (r *LocalCommandRunner) Run(ctx context.Context, dir string, command string) ([]byte, int, error) {
	args := append(append([]string{}, r.shell[1:]...), command)
	cmd := exec.CommandContext(ctx, r.shell[0], args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	out, err := cmd.CombinedOutput()
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.DeadlineExceeded) {
		return out, -1, WrapTimeoutError(fmt.Errorf("command %q exceeded its deadline: %w", command, ctxErr))
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() < 0 {
			// Killed by a signal rather than exiting on its own
			return out, -1, WrapLaunchError(fmt.Errorf("command %q did not exit normally: %w", command, err))
		}
		return out, exitErr.ExitCode(), nil
	} else if err != nil {
		return out, -1, WrapLaunchError(fmt.Errorf("command %q could not run in %q: %w. Ensure %s is installed and available on your PATH", command, dir, err, r.shell[0]))
	}
	return out, 0, nil
}
