// Package seed supplies the default model price list used when nothing has
// been persisted yet, or after a reset.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultYAML []byte

// Entry is one seed row. Prices are per 1,000 tokens.
type Entry struct {
	ModelName   string  `yaml:"model"`
	InputPrice  float64 `yaml:"input"`
	OutputPrice float64 `yaml:"output"`
}

// Default returns the built-in seed list in display order.
func Default() ([]Entry, error) {
	return Parse(defaultYAML)
}

// Parse decodes a YAML sequence of entries.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing seed data: %w", err)
	}
	for i, e := range entries {
		if e.InputPrice < 0 || e.OutputPrice < 0 {
			return nil, fmt.Errorf("seed entry %d (%q): prices must be non-negative", i, e.ModelName)
		}
	}
	return entries, nil
}

// Load returns the entries in path, or the built-in list when path is empty.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Marshal encodes entries in the format Parse reads.
func Marshal(entries []Entry) ([]byte, error) {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding seed data: %w", err)
	}
	return data, nil
}
