package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError describes one schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating a document against a schema.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidateJSON validates a JSON document against a JSON Schema. The schema
// is given as a raw JSON string; the document as raw bytes.
func ValidateJSON(document []byte, schema string) (*Result, error) {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	res, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &Result{Valid: res.Valid()}
	for _, e := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
		})
	}
	return out, nil
}
