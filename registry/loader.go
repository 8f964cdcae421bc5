package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML registry file and compiles it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return r, nil
}

// Parse compiles a registry from YAML bytes.
func Parse(data []byte) (*Registry, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalid, err)
	}
	return New(spec)
}

// Marshal renders a Spec as YAML, in the format Load accepts.
func Marshal(spec Spec) ([]byte, error) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal registry: %w", err)
	}
	return data, nil
}
