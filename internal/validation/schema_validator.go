// Package validation checks indexer payloads against embedded JSON schemas
// before they are decoded.
package validation

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names, one per indexer endpoint
const (
	SchemaFarms     = "farms"
	SchemaPlots     = "plots"
	SchemaInventory = "inventory"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrSchemaViolation is wrapped by every validation failure
var ErrSchemaViolation = errors.New("schema validation failed")

// SchemaValidator validates JSON data against named schemas
type SchemaValidator interface {
	ValidateBytes(data []byte, schemaName string) error
}

type validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidator compiles every embedded schema
func NewSchemaValidator() (SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	v := &validator{schemas: make(map[string]*jsonschema.Schema)}

	for _, name := range []string{SchemaFarms, SchemaPlots, SchemaInventory} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}

		var doc interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
		}

		url := schemaURL(name)
		if err := compiler.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

var (
	defaultOnce      sync.Once
	defaultValidator SchemaValidator
)

// Default returns a shared validator. The schemas are embedded, so a compile
// failure is a build defect and panics.
func Default() SchemaValidator {
	defaultOnce.Do(func() {
		v, err := NewSchemaValidator()
		if err != nil {
			panic(err)
		}
		defaultValidator = v
	})
	return defaultValidator
}

func schemaURL(name string) string {
	return "https://farmclock.local/schemas/" + name + ".json"
}

// ValidateBytes validates JSON data bytes against the named schema
func (v *validator) ValidateBytes(data []byte, schemaName string) error {
	schema, ok := v.schemas[schemaName]
	if !ok {
		return fmt.Errorf("unknown schema %q", schemaName)
	}

	var jsonData interface{}
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrSchemaViolation, err)
	}

	if err := schema.Validate(jsonData); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError flattens the error tree into one line per failure
func formatValidationError(err error) error {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		var msgs []string
		collectErrors(validationErr, &msgs)
		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
}

// collectErrors recursively collects leaf validation errors
func collectErrors(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		*msgs = append(*msgs, formatError(err))
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, msgs)
	}
}

// formatError formats a single validation error
func formatError(err *jsonschema.ValidationError) string {
	location := "/" + strings.Join(err.InstanceLocation, "/")

	keywords := ""
	if err.ErrorKind != nil {
		keywords = strings.Join(err.ErrorKind.KeywordPath(), ".")
	}
	if keywords == "" {
		return fmt.Sprintf("at %s: validation failed", location)
	}
	return fmt.Sprintf("at %s: %s validation failed", location, keywords)
}
