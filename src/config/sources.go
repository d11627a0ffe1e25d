package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceSpec is one entry of a sources manifest.
type SourceSpec struct {
	Name  string `yaml:"name"`
	Table string `yaml:"table"`
	Title string `yaml:"title"`
	Out   string `yaml:"out"`
}

// Manifest describes a whole run: the list of sources to chart.
type Manifest struct {
	Sources []SourceSpec `yaml:"sources"`
}

// LoadSources reads and validates a YAML sources manifest.
func LoadSources(path string) ([]SourceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Sources) == 0 {
		return nil, fmt.Errorf("manifest %s lists no sources", path)
	}
	for i, s := range m.Sources {
		if s.Table == "" {
			return nil, fmt.Errorf("manifest %s: source %d missing table path", path, i+1)
		}
	}
	return m.Sources, nil
}
