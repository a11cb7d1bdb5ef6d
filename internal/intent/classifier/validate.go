package classifier

import (
	"fmt"

	"financial-query-pipeline/internal/intent"
)

// Validate checks a classification against the taxonomy and confidence
// bounds. Low-confidence results are flagged for clarification, not
// rejected.
func (c *implClassifier) Validate(cl intent.Classification) intent.ValidationResult {
	var issues []string

	if !cl.Intent.Valid() {
		issues = append(issues, fmt.Sprintf("Invalid intent: %s", cl.Intent))
	}
	if cl.Confidence < 0 || cl.Confidence > 1 {
		issues = append(issues, fmt.Sprintf("confidence %v out of range [0,1]", cl.Confidence))
	}
	for name, slot := range cl.Slots {
		if slot.Confidence < 0 || slot.Confidence > 1 {
			issues = append(issues, fmt.Sprintf("slot %s confidence out of range", name))
		}
	}

	return intent.ValidationResult{
		Valid:                 len(issues) == 0,
		Issues:                issues,
		RequiresClarification: cl.Confidence < 0.5,
	}
}
