package cmd

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const configSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"log_level": {"type": "string", "enum": ["", "error", "notice", "info", "debug"]},
		"extension": {"type": "string", "pattern": "^\\.?[^/\\\\]+$"},
		"consolidated_name": {"type": "string", "pattern": "^[^/\\\\]*$"},
		"ignore_patterns": {"type": "array", "items": {"type": "string"}},
		"history_file": {"type": "string"},
		"watch": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"debounce_ms": {"type": "integer", "minimum": 0},
				"max_wait_ms": {"type": "integer", "minimum": 0}
			}
		}
	}
}`

// ValidationError lists every schema violation found in a config document
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration:\n  " + strings.Join(e.Errors, "\n  ")
}

// ValidateConfig checks a YAML config document against the config schema.
// An empty document is valid.
func ValidateConfig(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if doc == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, e := range result.Errors() {
		verr.Errors = append(verr.Errors, e.String())
	}
	return verr
}
