package retriever

import (
	"fmt"

	"financial-query-pipeline/internal/grounding"
)

// ValidateGrounding decides whether gc carries enough signal to answer
// from. Insufficient grounding routes the query to the deterministic
// reasoner rather than failing it.
func (r *implRetriever) ValidateGrounding(gc grounding.Context, minEvidence int) grounding.Validation {
	if minEvidence <= 0 {
		minEvidence = defaultMinEvidence
	}

	var reasons []string
	if len(gc.Evidence) < minEvidence {
		reasons = append(reasons, fmt.Sprintf("only %d evidence documents, need %d", len(gc.Evidence), minEvidence))
	}
	if gc.Confidence < lowConfidenceThreshold {
		reasons = append(reasons, fmt.Sprintf("grounding confidence %.2f below %.2f", gc.Confidence, lowConfidenceThreshold))
	}
	if gc.ModelState == nil {
		reasons = append(reasons, "no completed model run for organization")
	}

	return grounding.Validation{
		Sufficient: len(reasons) == 0,
		Reasons:    reasons,
	}
}
