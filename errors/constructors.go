package errors

import (
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *StatusError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *StatusError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// CommandTimeout creates an error for a command killed by its deadline
func CommandTimeout(cmd string, timeoutMs int) *StatusError {
	return New(ErrCodeCommandTimeout,
		fmt.Sprintf("command '%s' exceeded %dms and was terminated", cmd, timeoutMs)).
		WithDetail("command", cmd).
		WithDetail("timeoutMs", timeoutMs)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *StatusError {
	statusErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		statusErr = statusErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return statusErr
}

// SpawnFailed creates an error for a command that could not be launched at all
func SpawnFailed(cmd string, err error) *StatusError {
	return Wrap(err, ErrCodeCommandNotFound, fmt.Sprintf("could not launch '%s'", cmd)).
		WithDetail("command", cmd)
}

// NotARepository creates an error for a path outside any git work tree
func NotARepository(dir string) *StatusError {
	return New(ErrCodeNotARepository, fmt.Sprintf("not a git repository: %s", dir)).
		WithDetail("dir", dir)
}

// WatchFailed creates an error for a failed filesystem subscription
func WatchFailed(path string, err error) *StatusError {
	return Wrap(err, ErrCodeWatchFailed, fmt.Sprintf("could not watch %s", path)).
		WithDetail("path", path)
}

// DaemonAlreadyRunning creates an error for a duplicate daemon start
func DaemonAlreadyRunning(pid int) *StatusError {
	return New(ErrCodeDaemonRunning, fmt.Sprintf("daemon already running with PID %d", pid)).
		WithDetail("pid", pid)
}
