package record

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a release record file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the configured record path
	if err != nil {
		return nil, fmt.Errorf("reading release record: %w", err)
	}
	return Parse(data)
}

// Parse parses release record content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing release record YAML: %w", err)
	}
	return &f, nil
}

// Save writes the record to disk, creating its directory.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling release record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // record dir sits inside the workspace
		return fmt.Errorf("creating release record dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // record needs to be readable
		return fmt.Errorf("writing release record: %w", err)
	}
	return nil
}
