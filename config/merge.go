package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadWithOverrides loads configuration with override files.
//
// Override files live next to the base config and follow the base file's
// naming with an ".override" infix. They are merged field-by-field: only
// values explicitly set in the override replace the base.
func LoadWithOverrides(baseFile string) (*Config, error) {
	config, err := Load(baseFile)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(baseFile)
	overrides := []string{
		filepath.Join(dir, "gitstatus.override.yml"),
		filepath.Join(dir, "gitstatus.override.yaml"),
		filepath.Join(dir, "gitstatus.override.toml"),
	}

	for _, overrideFile := range overrides {
		if _, err := os.Stat(overrideFile); err != nil {
			continue
		}

		data, err := os.ReadFile(overrideFile)
		if err != nil {
			return nil, fmt.Errorf("read override %s: %w", overrideFile, err)
		}

		// Expand environment variables before parsing
		expanded := os.ExpandEnv(string(data))

		var override Config
		if strings.HasSuffix(overrideFile, ".toml") {
			if err := toml.Unmarshal([]byte(expanded), &override); err != nil {
				return nil, fmt.Errorf("parse override %s: %w", overrideFile, err)
			}
		} else {
			if err := yaml.Unmarshal([]byte(expanded), &override); err != nil {
				return nil, fmt.Errorf("parse override %s: %w", overrideFile, err)
			}
		}

		config = mergeConfigs(config, &override)
	}

	config.Normalize()
	return config, nil
}

// mergeConfigs merges override configuration into base.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.AutoFetchIntervalMs != 0 {
		result.AutoFetchIntervalMs = override.AutoFetchIntervalMs
	}
	if override.StatusTimeoutMs != 0 {
		result.StatusTimeoutMs = override.StatusTimeoutMs
	}
	if override.CooldownMs != 0 {
		result.CooldownMs = override.CooldownMs
	}
	if override.Debug {
		result.Debug = true
	}
	if len(override.WatchIgnore) > 0 {
		result.WatchIgnore = override.WatchIgnore
	}

	if len(override.Extensions) > 0 {
		if result.Extensions == nil {
			result.Extensions = make(map[string]interface{})
		}
		for k, v := range override.Extensions {
			result.Extensions[k] = v
		}
	}

	return &result
}
