package assembler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"financial-query-pipeline/internal/planner"
	pkgLog "financial-query-pipeline/pkg/log"
)

type implAssembler struct {
	l pkgLog.Logger
}

var _ Assembler = (*implAssembler)(nil)

func New(l pkgLog.Logger) Assembler {
	return &implAssembler{l: l}
}

// Assemble merges stage outputs into one audit-stamped response. The
// request id is fresh per invocation; the prompt id is derived from it
// deterministically so persisted prompt records can be joined later.
func (a *implAssembler) Assemble(_ context.Context, input Input) StructuredResponse {
	requestID := uuid.NewString()
	now := time.Now().UTC()

	warnings := append([]string{}, input.Planner.Validation.Warnings...)
	if input.Classification.Confidence < lowIntentConfidence {
		warnings = append(warnings, fmt.Sprintf(
			"intent confidence %.2f below %.2f, interpretation may be off",
			input.Classification.Confidence, lowIntentConfidence,
		))
	}
	if input.Grounding.Confidence < lowGroundingConfidence {
		warnings = append(warnings, fmt.Sprintf(
			"grounding confidence %.2f below %.2f, answer is weakly grounded",
			input.Grounding.Confidence, lowGroundingConfidence,
		))
	}

	errs := input.Errors
	if errs == nil {
		errs = []string{}
	}

	return StructuredResponse{
		RequestID:       requestID,
		Intent:          input.Classification.Intent,
		Input:           input.Classification.OriginalInput,
		Validation:      input.Planner.Validation,
		Calculations:    flattenCalculations(input.Executions),
		Recommendations: input.Recommendations,
		Evidence:        input.Grounding.Evidence,
		Warnings:        warnings,
		Errors:          errs,
		Audit: Audit{
			ModelVersion: input.ModelVersion,
			LLMModel:     input.LLMModel,
			PromptID:     PromptID(requestID),
			Timestamp:    now,
		},
		Timestamp: now,
	}
}

// PromptID derives the audit join key from a request id. Same request id,
// same prompt id.
func PromptID(requestID string) string {
	return "prompt-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(requestID)).String()
}

// flattenCalculations normalizes heterogeneous execution results into a
// flat numeric map keyed both by generic category and raw operation name.
func flattenCalculations(execs []planner.ExecutionResult) map[string]float64 {
	if len(execs) == 0 {
		return nil
	}
	out := make(map[string]float64)
	for _, e := range execs {
		fields, ok := e.Result.(map[string]any)
		if !ok {
			continue
		}
		if mapping, known := categoryByOp[e.Operation]; known {
			if v, ok := numericField(fields, mapping.field); ok {
				out[mapping.category] = v
				out[e.Operation] = v
				continue
			}
		}
		// Unmapped operations expose every numeric field under a
		// namespaced key so nothing is silently dropped.
		for name, raw := range fields {
			if v, ok := toFloat(raw); ok {
				out[e.Operation+"."+name] = v
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func numericField(fields map[string]any, name string) (float64, bool) {
	return toFloat(fields[name])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
