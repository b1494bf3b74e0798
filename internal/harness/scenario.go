package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Scenario is one end-to-end cleaning case.
// The table is loaded, the input is cleaned, remaining runs are discovered
// and the table is written back, all in memory.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Table holds the persisted table lines the run starts from.
	// Lines are in the on-disk format and are not unescaped.
	Table []string `yaml:"table,omitempty"`

	// Input is the buffer to clean. \xHH escapes become raw bytes,
	// \n a newline and \\ a backslash.
	Input string `yaml:"input"`

	// Expect describes the outcome. Omitted parts are not checked.
	Expect Expect `yaml:"expect"`
}

// Expect is the expected outcome of a scenario.
type Expect struct {
	// Output is the cleaned buffer, escaped like Scenario.Input.
	Output *string `yaml:"output,omitempty"`

	// Applied maps mapping id to replacement count. Mappings that
	// replaced nothing are left out.
	Applied map[int]int `yaml:"applied,omitempty"`

	// Discovered lists the remaining bad sequences in buffer order.
	Discovered []string `yaml:"discovered,omitempty"`

	// Table lists the persisted lines after the run.
	Table []string `yaml:"table,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and well formed.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := DecodeEscapes(s.Input); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if s.Expect.Output != nil {
		if _, err := DecodeEscapes(*s.Expect.Output); err != nil {
			return fmt.Errorf("expect.output: %w", err)
		}
	}

	for i, seq := range s.Expect.Discovered {
		if _, err := mapping.ParseSequence(seq); err != nil {
			return fmt.Errorf("expect.discovered[%d]: %w", i, err)
		}
	}
	for id, count := range s.Expect.Applied {
		if id < 1 {
			return fmt.Errorf("expect.applied: mapping id must be positive, got %d", id)
		}
		if count < 1 {
			return fmt.Errorf("expect.applied[%d]: count must be positive, got %d", id, count)
		}
	}
	return nil
}
