// internal/services/llm/schema.go
package llm

import (
	"fmt"

	"card-advisor/internal/common/validation"
)

// extractionSchema validates the extraction API response before it is
// trusted. A payload that fails here is treated as an extraction failure,
// not silently coerced.
const extractionSchema = `{
  "type": "object",
  "required": ["goals", "riskTolerance", "timeHorizon"],
  "properties": {
    "goals": {
      "type": "array",
      "items": {"type": "string"}
    },
    "riskTolerance": {"type": "string"},
    "timeHorizon": {"type": "string"},
    "jurisdiction": {"type": "string"},
    "constraints": {
      "type": "array",
      "items": {"type": "string"}
    },
    "confidence": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    }
  }
}`

func validateExtraction(payload []byte) error {
	result, err := validation.ValidateJSON(payload, extractionSchema)
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}
	if !result.Valid {
		return fmt.Errorf("invalid extraction payload: %s", result.Errors[0].Message)
	}
	return nil
}
