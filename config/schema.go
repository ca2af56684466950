package config

//go:generate sh -c "cd .. && go run ./tools/config-schema-generator/"

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for the gitstatus configuration.
// It reflects the Config struct but excludes the Extensions field, which by
// definition accepts arbitrary keys.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Extensions are allowed at the top level, so additional properties
		// stay permitted in the emitted schema (see below).
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref for a cleaner schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// A schema-only mirror of Config without the Extensions field.
	type BaseConfig struct {
		AutoFetchIntervalMs int      `yaml:"auto_fetch_interval_ms,omitempty" jsonschema:"description=Interval between background git fetch runs in milliseconds; <=0 disables"`
		StatusTimeoutMs     int      `yaml:"status_timeout_ms,omitempty" jsonschema:"description=Timeout for a single git status invocation in milliseconds"`
		CooldownMs          int      `yaml:"cooldown_ms,omitempty" jsonschema:"description=Quiet window after a poll completes in milliseconds"`
		Debug               bool     `yaml:"debug,omitempty" jsonschema:"description=Enable debug-level diagnostics"`
		WatchIgnore         []string `yaml:"watch_ignore,omitempty" jsonschema:"description=Patterns of metadata-directory paths whose changes are ignored"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Gitstatus Configuration"
	schema.Description = "Schema for gitstatus.yml / gitstatus.toml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
