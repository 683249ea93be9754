// Package mapping loads an optional YAML file assigning case IDs to
// executions whose names cannot carry the "Qase:<id>" token.
package mapping

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of the overrides file.
type File struct {
	Overrides []Override `yaml:"overrides"`
}

// Override binds one exact execution name to a tracked case.
type Override struct {
	Name string `yaml:"name"`
	Case int64  `yaml:"case"`
}

// Load reads and validates an overrides file, returning a lookup from
// execution name to case ID. An empty path yields an empty map.
func Load(path string, logger log.Logger) (map[string]int64, error) {
	if path == "" {
		return map[string]int64{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %q: %w", path, err)
	}

	overrides := make(map[string]int64, len(f.Overrides))
	for i, o := range f.Overrides {
		if o.Name == "" {
			return nil, fmt.Errorf("mapping entry %d: name is required", i)
		}
		if o.Case <= 0 {
			return nil, fmt.Errorf("mapping entry %d (%q): case must be a positive integer", i, o.Name)
		}
		if prev, dup := overrides[o.Name]; dup && prev != o.Case {
			return nil, fmt.Errorf("mapping entry %d (%q): conflicts with earlier entry for case %d", i, o.Name, prev)
		}
		overrides[o.Name] = o.Case
	}

	logger.Debug("Mapping overrides loaded", "path", path, "len(overrides)", len(overrides))
	return overrides, nil
}
