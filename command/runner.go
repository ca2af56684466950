// Package command provides process invocation for the gitstatus engine.
//
// The Runner executes an external command with a bounded timeout and reports
// everything the caller needs to interpret the outcome in a single Result.
// A non-zero exit code is a normal result, not an error: the engine treats
// "git status exited 128" as a fact about the repository, not a failure of
// the runner. Only launch problems (missing executable, spawn error) come
// back as errors.
package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

const (
	// DefaultTimeout bounds invocations whose caller passes no timeout.
	DefaultTimeout = 2 * time.Minute

	// MaxTimeout is the maximum allowed timeout.
	MaxTimeout = 10 * time.Minute
)

// Result carries the outcome of one completed invocation.
type Result struct {
	// ExitCode is the process exit code. -1 when the process was killed.
	ExitCode int

	// TimedOut is true when the process exceeded its deadline and was
	// forcibly terminated.
	TimedOut bool

	// Stdout is the captured standard output as text.
	Stdout string
}

// Runner executes external commands. The interface exists so the engine can
// be driven by a scripted runner in tests.
type Runner interface {
	// Run executes name with args in dir, bounded by timeout, and returns
	// the completed Result. The returned error is non-nil only for launch
	// failures; command failures are expressed through Result.
	Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (Result, error)
}

// ProcessRunner is the production Runner backed by an Executor.
type ProcessRunner struct {
	executor Executor
}

// NewRunner creates a ProcessRunner with the real os/exec Executor.
func NewRunner() *ProcessRunner {
	return NewRunnerWithExecutor(&RealExecutor{})
}

// NewRunnerWithExecutor creates a ProcessRunner with a custom Executor.
func NewRunnerWithExecutor(exec Executor) *ProcessRunner {
	return &ProcessRunner{executor: exec}
}

// Run implements Runner.
func (r *ProcessRunner) Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := r.executor.CommandContext(runCtx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	res := Result{Stdout: stdout.String()}

	if err == nil {
		res.ExitCode = 0
		return res, nil
	}

	// Deadline expiry kills the process; report it as the timed-out outcome
	// rather than an error.
	if runCtx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	// Anything else is a launch failure (executable not found, permission
	// denied, bad working directory).
	return res, err
}
