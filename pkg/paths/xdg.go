// Package paths provides XDG-compliant path resolution for gitstatus.
//
// Resolution order:
// 1. GITSTATUS_HOME (portable root) → $GITSTATUS_HOME/{config,state,cache}
// 2. XDG env vars → $XDG_*_HOME/gitstatus
// 3. Platform defaults → ~/.config/gitstatus, ~/.local/state/gitstatus, etc.
package paths

import (
	"os"
	"path/filepath"
)

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("GITSTATUS_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("GITSTATUS_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// getCacheHome returns the base cache home directory.
func getCacheHome() string {
	if home := os.Getenv("GITSTATUS_HOME"); home != "" {
		return filepath.Join(home, "cache")
	}
	if xdgCacheHome := os.Getenv("XDG_CACHE_HOME"); xdgCacheHome != "" {
		return xdgCacheHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".cache")
	}
	return ""
}

// ConfigDir returns the gitstatus configuration directory.
// Used for gitstatus.yml / gitstatus.toml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "gitstatus")
}

// StateDir returns the gitstatus state directory.
// Used for the daemon pidfile and log files.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "gitstatus")
}

// CacheDir returns the gitstatus cache directory.
func CacheDir() string {
	base := getCacheHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "gitstatus")
}

// RuntimeDir returns the runtime directory for sockets and pipes.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if home := os.Getenv("GITSTATUS_HOME"); home != "" {
		return filepath.Join(home, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "gitstatus")
	}
	// Fallback: use state dir for socket on macOS/systems without XDG_RUNTIME_DIR
	return StateDir()
}

// SocketPath returns the path to the daemon unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "gitstatusd.sock")
}

// PidFilePath returns the path to the daemon PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "gitstatusd.pid")
}

// EnsureDirs creates all gitstatus directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		StateDir(),
		CacheDir(),
		RuntimeDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
