package evaluator

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// scoreSchema constrains the model's scoring output: a dimensions object
// whose entries each carry a 0..5 score and a rationale.
const scoreSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["dimensions"],
  "properties": {
    "dimensions": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["score", "rationale"],
        "properties": {
          "score": {"type": "number", "minimum": 0, "maximum": 5},
          "rationale": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// validateScorePayload checks a raw model response against the scoring
// schema before it is parsed into domain types.
func validateScorePayload(jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(scoreSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("score payload is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	return fmt.Errorf("score payload failed validation at %s: %s (%d problems)",
		first.Field(), first.Description(), len(result.Errors()))
}
