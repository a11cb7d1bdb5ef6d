package assembler

import (
	"time"

	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/planner"
)

// Audit stamps a response with what produced it. PromptID is the join
// key back to any persisted prompt record.
type Audit struct {
	ModelVersion string    `json:"model_version"`
	LLMModel     string    `json:"llm_model,omitempty"`
	PromptID     string    `json:"prompt_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// StructuredResponse is the externally visible, versioned answer contract.
type StructuredResponse struct {
	RequestID       string                         `json:"request_id"`
	Intent          intent.Intent                  `json:"intent"`
	Input           string                         `json:"input"`
	Validation      planner.Validation             `json:"validation"`
	Calculations    map[string]float64             `json:"calculations,omitempty"`
	Recommendations []model.Recommendation         `json:"recommendations,omitempty"`
	Evidence        []grounding.EvidenceDocument   `json:"evidence,omitempty"`
	Warnings        []string                       `json:"warnings"`
	Errors          []string                       `json:"errors"`
	Audit           Audit                          `json:"audit"`
	Timestamp       time.Time                      `json:"timestamp"`
}

// Input bundles every stage output Assemble merges.
type Input struct {
	Classification  intent.Classification
	Grounding       grounding.Context
	Planner         planner.Result
	Executions      []planner.ExecutionResult
	Recommendations []model.Recommendation
	Errors          []string
	ModelVersion    string
	LLMModel        string
}

// ValidationResult reports whether a response honors the external contract.
type ValidationResult struct {
	Valid  bool
	Issues []string
}
