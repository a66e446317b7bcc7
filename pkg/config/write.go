package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// WriteYAML encodes the configuration as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	err := enc.Encode(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("flush config: %w", err)
	}

	return nil
}
