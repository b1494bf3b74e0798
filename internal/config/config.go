// Package config loads the optional YAML configuration file.
//
// Example .clean-encoding.yaml:
//
//	mappings: tables/mappings.txt
//	context: 40
//	history: .clean-encoding.db
//	color: auto
//	hints:
//	  - windows-1252
//	  - ISO-8859-15
//
// Every field is optional; command-line flags override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alphagov/character-encoding-cleaner/internal/hint"
	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = ".clean-encoding.yaml"

// DefaultContext is the number of bytes shown on each side of a match.
const DefaultContext = 30

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings for a run.
type Config struct {
	// Mappings is the table file path.
	Mappings string `yaml:"mappings"`

	// Context is the report context width in bytes.
	Context int `yaml:"context"`

	// History is the SQLite run history path. Empty disables history.
	History string `yaml:"history,omitempty"`

	// Color is one of auto, always, never.
	Color string `yaml:"color"`

	// Hints lists IANA encoding names used to suggest replacements for
	// discovered runs. Empty means hint.DefaultEncodings.
	Hints []string `yaml:"hints,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Mappings: mapping.DefaultPath,
		Context:  DefaultContext,
		Color:    ColorAuto,
	}
}

// Load reads the file at path over the defaults. When optional is true a
// missing file yields the defaults.
func Load(path string, optional bool) (Config, error) {
	data, err := os.ReadFile(path)
	if optional && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// fields are rejected so typos do not silently fall back to defaults.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.Mappings == "" {
		return fmt.Errorf("mappings path must not be empty")
	}
	if c.Context < 0 {
		return fmt.Errorf("context must be >= 0, got %d", c.Context)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of %s, %s, %s; got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	for _, name := range c.Hints {
		if _, err := hint.Lookup(name); err != nil {
			return fmt.Errorf("hints: %w", err)
		}
	}
	return nil
}
