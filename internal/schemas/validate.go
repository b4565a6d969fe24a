// Package schemas validates inbound request bodies against embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed prospect_request.schema.json
var prospectRequestSchema string

// ValidationError lists every schema violation of one document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// SchemaLoadError is returned when a schema or document cannot be loaded.
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// DocumentError is returned when the document itself is not valid JSON.
type DocumentError struct {
	Cause error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document is not valid JSON: %v", e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

var (
	prospectOnce   sync.Once
	prospectSchema *gojsonschema.Schema
	prospectErr    error
)

// ValidateProspectRequest checks a POST body of the prospect endpoint.
// An empty body is valid and means "use the defaults".
func ValidateProspectRequest(body []byte) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	prospectOnce.Do(func() {
		prospectSchema, prospectErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(prospectRequestSchema))
	})
	if prospectErr != nil {
		return &SchemaLoadError{Name: "prospect_request", Message: "invalid schema", Cause: prospectErr}
	}
	return validate(prospectSchema, gojsonschema.NewBytesLoader(body))
}

func validate(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return &DocumentError{Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
