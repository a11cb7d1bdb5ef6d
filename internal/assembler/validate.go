package assembler

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/xeipuuv/gojsonschema"
)

const responseSchemaJSON = `{
  "type": "object",
  "required": ["request_id", "intent", "input", "warnings", "errors", "audit", "timestamp"],
  "properties": {
    "request_id": {"type": "string", "minLength": 1},
    "intent": {"type": "string", "minLength": 1},
    "input": {"type": "string"},
    "calculations": {
      "type": "object",
      "additionalProperties": {"type": "number"}
    },
    "recommendations": {"type": "array"},
    "evidence": {"type": "array"},
    "warnings": {"type": "array", "items": {"type": "string"}},
    "errors": {"type": "array", "items": {"type": "string"}},
    "audit": {
      "type": "object",
      "required": ["timestamp"],
      "properties": {
        "model_version": {"type": "string"},
        "llm_model": {"type": "string"},
        "prompt_id": {"type": "string"},
        "timestamp": {"type": "string"}
      }
    },
    "timestamp": {"type": "string"}
  }
}`

var responseSchema = mustSchema(responseSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a response against the external contract: schema shape,
// externally supported intent, and finite calculation values. NaN and
// Infinity never leave the process.
func (a *implAssembler) Validate(resp StructuredResponse) ValidationResult {
	var issues []string

	for key, v := range resp.Calculations {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			issues = append(issues, fmt.Sprintf("calculation %q is not a finite number", key))
		}
	}
	if !externallySupported[resp.Intent] {
		issues = append(issues, fmt.Sprintf("intent %q is not externally supported", resp.Intent))
	}
	if len(issues) > 0 {
		return ValidationResult{Valid: false, Issues: issues}
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return ValidationResult{Valid: false, Issues: []string{"response not serializable: " + err.Error()}}
	}
	result, err := responseSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return ValidationResult{Valid: false, Issues: []string{"schema validation failed: " + err.Error()}}
	}
	for _, e := range result.Errors() {
		issues = append(issues, e.String())
	}

	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}
