package command

import (
	"context"
	"os/exec"
)

// Executor creates the exec.Cmd instances the runner launches for status
// polls, fetches, and metadata discovery. The indirection exists for tests
// that substitute a scripted git (a stub binary on PATH, or a command that
// sleeps past its deadline) without touching the runner itself.
type Executor interface {
	// CommandContext creates a context-aware exec.Cmd. The runner derives the
	// context from its timeout, so the command is killed when it expires.
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealExecutor backs Executor with os/exec.
type RealExecutor struct{}

// CommandContext creates a standard context-aware exec.Cmd.
func (e *RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
