// Package logging provides the diagnostic channel for the gitstatus engine.
//
// Loggers are logrus entries configured from the `logging` section of the
// gitstatus config file plus GITSTATUS_* environment overrides. By default
// output goes to a date-stamped file under the XDG state directory; stderr
// only receives structured logs in debug mode or when not attached to an
// interactive terminal, so a statusline consumer never sees log noise.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/gitstatus/config"
	"github.com/grovetools/gitstatus/pkg/paths"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()

	// Load the logging section from the gitstatus config file
	var logCfg Config
	debugEnabled := false
	if cfg, err := config.LoadDefault(); err == nil {
		debugEnabled = cfg.Debug
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	// Configure Level. GITSTATUS_LOG_LEVEL wins, then the logging section;
	// the top-level `debug` flag raises whatever came out to at least debug.
	levelStr := "info"
	if os.Getenv("GITSTATUS_LOG_LEVEL") != "" {
		levelStr = os.Getenv("GITSTATUS_LOG_LEVEL")
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	if debugEnabled && level < logrus.DebugLevel && os.Getenv("GITSTATUS_LOG_LEVEL") == "" {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv("GITSTATUS_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	// Configure Formatter
	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	// Configure Output Sinks
	var writers []io.Writer

	// File sink: explicit path wins, otherwise date-stamped file in the state dir
	var logFilePath string
	if logCfg.File.Enabled && logCfg.File.Path != "" {
		logFilePath = expandPath(logCfg.File.Path)
	} else if stateDir := paths.StateDir(); stateDir != "" {
		dateStr := time.Now().Format("2006-01-02")
		logFilePath = filepath.Join(stateDir, "logs", fmt.Sprintf("%s-%s.log", component, dateStr))
	}

	if logFilePath != "" {
		dir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			// Don't warn about default log dir creation failures
			if logCfg.File.Enabled {
				logger.Warnf("Failed to create log directory %s: %v", dir, err)
			}
		} else {
			file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err == nil {
				writers = append(writers, file)
			} else if logCfg.File.Enabled {
				logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
			}
		}
	}

	// Determine if we should write structured logs to stderr
	shouldLogToStderr := false
	stderrMode := "auto"
	if logCfg.Format.StructuredToStderr != "" {
		stderrMode = logCfg.Format.StructuredToStderr
	}

	switch stderrMode {
	case "always":
		shouldLogToStderr = true
	case "never":
		shouldLogToStderr = false
	case "auto":
		// Log to stderr if debug is enabled, or when output is piped/CI.
		// Interactive terminals stay quiet so the statusline isn't disturbed.
		isDebug := os.Getenv("GITSTATUS_DEBUG") == "1" || logger.GetLevel() == logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		if isDebug || !isInteractive {
			shouldLogToStderr = true
		}
	}

	if shouldLogToStderr {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		// Intentional in auto mode on interactive terminals
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
