// Package schemas validates request documents against embedded JSON Schemas before
// they are decoded, so batch input files fail with field paths instead of decode errors.
package schemas

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed generate_request.schema.json
var generateRequestSchema string

var (
	compileOnce   sync.Once
	compiled      *gojsonschema.Schema
	compileFailed error
)

// FieldError is a single validation failure at a field path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Source string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Source != "" {
		sb.WriteString(ve.Source)
		sb.WriteString(": ")
	}
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError reports a schema that could not be compiled.
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema: %s: %v", e.Message, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func generateSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileFailed = gojsonschema.NewSchema(gojsonschema.NewStringLoader(generateRequestSchema))
		if compileFailed != nil {
			compileFailed = &SchemaLoadError{Message: "generate request schema", Cause: compileFailed}
		}
	})
	return compiled, compileFailed
}

// ValidateGenerateRequest checks a generate-schedules request document.
func ValidateGenerateRequest(doc []byte) error {
	return validate("", doc)
}

// ValidateGenerateRequestFile reads path and checks it as a generate-schedules request.
func ValidateGenerateRequestFile(path string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read request file: %w", err)
	}
	return validate(path, doc)
}

func validate(source string, doc []byte) error {
	schema, err := generateSchema()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("parse request document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Source: source,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return validationErr
}
