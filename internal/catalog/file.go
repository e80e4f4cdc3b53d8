package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Programs []Program `yaml:"programs"`
}

// ParseFile decodes a YAML catalog document.
func ParseFile(data []byte) ([]Program, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Programs) == 0 {
		return nil, fmt.Errorf("parsing catalog: no programs defined")
	}
	for _, p := range f.Programs {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("parsing catalog: %w", err)
		}
	}
	return f.Programs, nil
}

// LoadFile reads a YAML catalog and merges its programs into r. Programs
// with a built-in id replace the built-in definition.
func LoadFile(r *Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog file: %w", err)
	}
	programs, err := ParseFile(data)
	if err != nil {
		return err
	}
	for _, p := range programs {
		if err := r.Add(p); err != nil {
			return err
		}
	}
	return nil
}
