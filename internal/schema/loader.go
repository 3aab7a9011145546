package schema

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed checklist.yaml
var defaultChecklist []byte

// Load parses and validates a checklist from YAML bytes.
func Load(data []byte) (*Checklist, error) {
	var c Checklist
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &SchemaError{Detail: fmt.Sprintf("parsing checklist: %v", err)}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile loads a checklist from a YAML file on disk.
func LoadFile(path string) (*Checklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checklist %s: %w", path, err)
	}
	return Load(data)
}

// Default returns the built-in Human Research Ethics Committee checklist.
// It is embedded at build time and validated like any external file.
func Default() (*Checklist, error) {
	return Load(defaultChecklist)
}
