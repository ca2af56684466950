// Package process provides liveness checks for daemon processes.
package process

import (
	"os"
	"syscall"
)

// IsAlive checks if a process with the given PID is still running.
// It uses signal 0, which works across Unix-like systems (macOS, Linux).
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	// os.FindProcess never fails on Unix, even for dead PIDs.
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 probes for existence without delivering anything.
	// ESRCH means the process is gone; EPERM means it exists but is
	// owned by someone else, which still counts as alive.
	err = proc.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}
