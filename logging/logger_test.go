package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// writeHomeConfig plants a gitstatus.yml under a scratch GITSTATUS_HOME so
// NewLogger picks it up through the default config search path.
func writeHomeConfig(t *testing.T, content string) {
	t.Helper()

	home := t.TempDir()
	cfgDir := filepath.Join(home, "config", "gitstatus")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "gitstatus.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GITSTATUS_HOME", home)
	t.Setenv("GITSTATUS_LOG_LEVEL", "")
}

func TestDebugConfigRaisesLevel(t *testing.T) {
	writeHomeConfig(t, "debug: true\n")

	logger := NewLogger("debug-flag-check")
	if logger.Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level with debug: true, got %s", logger.Logger.GetLevel())
	}
}

func TestDebugConfigDefaultsOff(t *testing.T) {
	writeHomeConfig(t, "cooldown_ms: 500\n")

	logger := NewLogger("debug-flag-off-check")
	if logger.Logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level without debug flag, got %s", logger.Logger.GetLevel())
	}
}

func TestLogLevelEnvWinsOverDebugConfig(t *testing.T) {
	writeHomeConfig(t, "debug: true\n")
	t.Setenv("GITSTATUS_LOG_LEVEL", "warn")

	logger := NewLogger("debug-env-precedence-check")
	if logger.Logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("expected explicit env level to win, got %s", logger.Logger.GetLevel())
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	// Verify it's a logrus.Entry with the component field
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}
}

func TestNewLoggerSingleton(t *testing.T) {
	a := NewLogger("singleton-check")
	b := NewLogger("singleton-check")
	if a != b {
		t.Error("Expected the same entry for repeated NewLogger calls")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})

	entry := logger.WithField("component", "test")
	entry.Info("Test message")

	output := buf.String()

	if !strings.Contains(output, "[INFO]") {
		t.Errorf("Expected output to contain [INFO], got: %s", output)
	}
	if !strings.Contains(output, "test") {
		t.Errorf("Expected output to contain component name, got: %s", output)
	}
	if !strings.Contains(output, "Test message") {
		t.Errorf("Expected output to contain 'Test message', got: %s", output)
	}
}

func TestFormatterWarnLevelShortened(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{DisableTimestamp: true}})

	logger.WithField("component", "test").Warn("careful")

	if !strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("Expected [WARN], got: %s", buf.String())
	}
}
