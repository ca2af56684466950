package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/gitstatus/errors"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultAutoFetchIntervalMs, cfg.AutoFetchIntervalMs)
	assert.Equal(t, DefaultStatusTimeoutMs, cfg.StatusTimeoutMs)
	assert.Equal(t, DefaultCooldownMs, cfg.CooldownMs)
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.AutoFetchEnabled())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gitstatus.yml", `
auto_fetch_interval_ms: 60000
status_timeout_ms: 2000
debug: true
watch_ignore:
  - "*.lock"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60000, cfg.AutoFetchIntervalMs)
	assert.Equal(t, 2000, cfg.StatusTimeoutMs)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"*.lock"}, cfg.WatchIgnore)
	// Absent fields keep their defaults
	assert.Equal(t, DefaultCooldownMs, cfg.CooldownMs)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gitstatus.toml", `
auto_fetch_interval_ms = 45000
debug = true

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45000, cfg.AutoFetchIntervalMs)
	assert.True(t, cfg.Debug)

	// Unknown top-level keys land in Extensions
	_, ok := cfg.Extensions["logging"]
	assert.True(t, ok)
}

func TestLoadClampsIntervals(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gitstatus.yml", "auto_fetch_interval_ms: 250\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MinAutoFetchIntervalMs, cfg.AutoFetchIntervalMs)
}

func TestAutoFetchDisabled(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gitstatus.yml", "auto_fetch_interval_ms: -1\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.AutoFetchEnabled())
	// Disabled values are not clamped up
	assert.Equal(t, -1, cfg.AutoFetchIntervalMs)
}

func TestLoadRejectsWrongType(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gitstatus.yml", "debug: 42\n")

	_, err := Load(path)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gitstatus.yml"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "gitstatus.yml", `
auto_fetch_interval_ms: 60000
status_timeout_ms: 2000
`)
	writeConfig(t, dir, "gitstatus.override.yml", `
status_timeout_ms: 5000
debug: true
`)

	cfg, err := LoadWithOverrides(base)
	require.NoError(t, err)
	assert.Equal(t, 60000, cfg.AutoFetchIntervalMs, "base value survives")
	assert.Equal(t, 5000, cfg.StatusTimeoutMs, "override wins")
	assert.True(t, cfg.Debug)
}

func TestUnmarshalExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gitstatus.yml", `
logging:
  level: debug
  report_caller: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	var logCfg struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	// Missing key leaves the target zero-valued
	var other struct {
		Name string `yaml:"name"`
	}
	require.NoError(t, cfg.UnmarshalExtension("nope", &other))
	assert.Empty(t, other.Name)
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), "auto_fetch_interval_ms")
	assert.Contains(t, string(data), "watch_ignore")
}
