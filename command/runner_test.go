package command

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor ignores the requested command and runs a canned one, the way
// a test substitutes git with a script.
type stubExecutor struct {
	script string
}

func (e *stubExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", e.script)
}

func TestRunCapturesStdout(t *testing.T) {
	runner := NewRunner()

	res, err := runner.Run(context.Background(), "", time.Second, "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	runner := NewRunner()

	res, err := runner.Run(context.Background(), "", time.Second, "sh", "-c", "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.TimedOut)
}

func TestRunTimeout(t *testing.T) {
	runner := NewRunner()

	start := time.Now()
	res, err := runner.Run(context.Background(), "", 100*time.Millisecond, "sleep", "5")
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunSpawnFailure(t *testing.T) {
	runner := NewRunner()

	_, err := runner.Run(context.Background(), "", time.Second, "definitely-not-a-real-binary-xyz")
	assert.Error(t, err)
}

func TestRunWithStubbedExecutor(t *testing.T) {
	runner := NewRunnerWithExecutor(&stubExecutor{script: "echo scripted"})

	res, err := runner.Run(context.Background(), "", time.Second, "git", "status")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "scripted\n", res.Stdout)
}

func TestRunWorkingDirectory(t *testing.T) {
	runner := NewRunner()
	dir := t.TempDir()

	// Resolve symlinks so the comparison survives macOS /var -> /private/var.
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), dir, time.Second, "pwd")
	require.NoError(t, err)
	assert.Equal(t, resolved, strings.TrimSpace(res.Stdout))
}
