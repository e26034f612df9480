package verification

import (
	"context"
	"errors"
	"os/exec"
)

// ProcessRunner runs an external command and returns its exit code and combined output.
// err is only set when the process could not be run at all.
type ProcessRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (exitCode int, output string, err error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// NewExecRunner creates the default process runner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (int, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), string(output), nil
		}
		return -1, string(output), err
	}
	return 0, string(output), nil
}
