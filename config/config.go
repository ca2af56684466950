// Package config loads and validates the gitstatus configuration.
//
// Configuration lives in gitstatus.yml (or gitstatus.toml) in the XDG config
// directory. All fields have explicit defaults so the engine runs with no
// config file at all. Unknown top-level keys are captured as extensions and
// can be decoded into typed structs with UnmarshalExtension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/gitstatus/errors"
	"github.com/grovetools/gitstatus/pkg/paths"
)

const (
	// DefaultAutoFetchIntervalMs is the default delay between background fetches.
	DefaultAutoFetchIntervalMs = 30000

	// MinAutoFetchIntervalMs is the lower clamp applied when auto-fetch is enabled.
	MinAutoFetchIntervalMs = 1000

	// DefaultStatusTimeoutMs bounds a single git status invocation.
	DefaultStatusTimeoutMs = 1000

	// DefaultCooldownMs is the quiet period after a status poll completes.
	DefaultCooldownMs = 1000
)

// Config holds the engine configuration.
type Config struct {
	// AutoFetchIntervalMs is the interval between background `git fetch` runs,
	// in milliseconds. Values <= 0 disable auto-fetch entirely; enabled values
	// below MinAutoFetchIntervalMs are clamped up. Use -1 in an override file
	// to disable a value inherited from the base config.
	AutoFetchIntervalMs int `yaml:"auto_fetch_interval_ms" toml:"auto_fetch_interval_ms" json:"auto_fetch_interval_ms" jsonschema:"description=Interval between background git fetch runs in milliseconds; <=0 disables"`

	// StatusTimeoutMs bounds each `git status` invocation in milliseconds.
	StatusTimeoutMs int `yaml:"status_timeout_ms" toml:"status_timeout_ms" json:"status_timeout_ms" jsonschema:"description=Timeout for a single git status invocation in milliseconds"`

	// CooldownMs is the hard quiet window after a status poll completes during
	// which further refresh requests are dropped.
	CooldownMs int `yaml:"cooldown_ms" toml:"cooldown_ms" json:"cooldown_ms" jsonschema:"description=Quiet window after a poll completes in milliseconds"`

	// Debug enables debug-level diagnostics.
	Debug bool `yaml:"debug" toml:"debug" json:"debug" jsonschema:"description=Enable debug-level diagnostics"`

	// WatchIgnore lists patterns (patternmatcher syntax) for metadata-directory
	// paths whose change events should not trigger a refresh.
	WatchIgnore []string `yaml:"watch_ignore" toml:"watch_ignore" json:"watch_ignore" jsonschema:"description=Patterns of metadata-directory paths whose changes are ignored"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		AutoFetchIntervalMs: DefaultAutoFetchIntervalMs,
		StatusTimeoutMs:     DefaultStatusTimeoutMs,
		CooldownMs:          DefaultCooldownMs,
		Debug:               false,
		WatchIgnore:         []string{"*.lock", "objects/*"},
	}
}

// Normalize applies the documented clamps. It is called after loading and
// after merging overrides, so derived values cannot escape their bounds.
func (c *Config) Normalize() {
	if c.AutoFetchIntervalMs > 0 && c.AutoFetchIntervalMs < MinAutoFetchIntervalMs {
		c.AutoFetchIntervalMs = MinAutoFetchIntervalMs
	}
	if c.StatusTimeoutMs <= 0 {
		c.StatusTimeoutMs = DefaultStatusTimeoutMs
	}
	if c.CooldownMs <= 0 {
		c.CooldownMs = DefaultCooldownMs
	}
}

// AutoFetchEnabled reports whether the background fetch timer should run.
func (c *Config) AutoFetchEnabled() bool {
	return c.AutoFetchIntervalMs > 0
}

// Load reads the config file at path, applies defaults for absent fields,
// validates the result against the embedded schema, and normalizes it.
// Both YAML (.yml/.yaml) and TOML (.toml) files are supported.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if strings.HasSuffix(path, ".toml") {
		if err := unmarshalTOML(data, cfg); err != nil {
			return nil, errors.ConfigInvalid(err.Error())
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.ConfigInvalid(err.Error())
		}
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	cfg.Normalize()
	return cfg, nil
}

// LoadDefault loads the configuration from the standard location, falling
// back to pure defaults when no config file exists.
func LoadDefault() (*Config, error) {
	path, err := FindConfigFile()
	if err != nil {
		cfg := Default()
		cfg.Normalize()
		return cfg, nil
	}
	return LoadWithOverrides(path)
}

// FindConfigFile locates the config file in the XDG config directory.
func FindConfigFile() (string, error) {
	dir := paths.ConfigDir()
	if dir == "" {
		return "", fmt.Errorf("no config directory available")
	}
	for _, name := range []string{"gitstatus.yml", "gitstatus.yaml", "gitstatus.toml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no gitstatus config file in %s", dir)
}

// UnmarshalExtension decodes a named extension section into a typed struct.
// A missing key is not an error; the target simply stays zero-valued.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	// Decode the generic map into the strongly-typed target, honoring the
	// same yaml tags the file format uses.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// unmarshalTOML decodes TOML data into cfg, routing unknown top-level keys
// into Extensions (go-toml has no inline capture, so the split is manual).
func unmarshalTOML(data []byte, cfg *Config) error {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := map[string]struct{}{
		"auto_fetch_interval_ms": {},
		"status_timeout_ms":      {},
		"cooldown_ms":            {},
		"debug":                  {},
		"watch_ignore":           {},
	}

	typed := make(map[string]interface{})
	for k, v := range raw {
		if _, ok := known[k]; ok {
			typed[k] = v
			continue
		}
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]interface{})
		}
		cfg.Extensions[k] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  cfg,
		TagName: "toml",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(typed)
}
