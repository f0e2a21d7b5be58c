// Package config loads cmd/pion's optional --config file: a small set of
// CLI defaults a user might otherwise have to repeat as flags every
// invocation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the shape of a pion config file.
type Config struct {
	// Color forces diagnostic coloring on or off, overriding the
	// terminal-detection default. Nil means "detect".
	Color *bool `yaml:"color"`
	// UnfoldFix overrides, for both `check` and `eval`, whether a fully
	// applied `fix` unfolds during evaluation. Nil keeps the defaults:
	// `eval` unfolds it, `check` does not.
	UnfoldFix *bool `yaml:"unfold_fix"`
}

// Load reads and parses a config file at path. A missing file is not an
// error — callers pass the default path and silently fall back to zero
// Config when nothing is there; only a malformed file that does exist is
// reported.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return &cfg, nil
}
