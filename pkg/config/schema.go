package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrSchemaViolation is returned when a config file does not match the schema.
var ErrSchemaViolation = errors.New("config does not match schema")

//go:embed schema.json
var schemaJSON []byte

// Schema returns the embedded JSON schema for config files.
func Schema() []byte { return schemaJSON }

// ValidateFile checks a YAML or JSON config file against the schema.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	return ValidateBytes(data)
}

// ValidateBytes checks YAML (or JSON) config content against the schema.
// Every violation is listed in the returned error.
func ValidateBytes(data []byte) error {
	var doc any

	decodeErr := yaml.Unmarshal(data, &doc)
	if decodeErr != nil {
		return fmt.Errorf("decode config: %w", decodeErr)
	}

	// An empty file decodes to nil.
	if doc == nil {
		doc = map[string]any{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(problems, "; "))
}
