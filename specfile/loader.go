package specfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, and validates a route-spec document from the
// given path.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("spec file path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("spec file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to stat spec file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("spec path is a directory, not a file: %s", path)
	}

	// G304: path is validated above via os.Stat and comes from trusted configuration
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	return Parse(data)
}

// Parse parses and validates a route-spec document from raw YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML spec: %w", err)
	}
	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}
