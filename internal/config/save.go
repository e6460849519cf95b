package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveTo writes the config to path, creating its directory if needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
