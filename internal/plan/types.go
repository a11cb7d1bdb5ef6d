package plan

import (
	"time"

	"financial-query-pipeline/internal/assembler"
)

// Status is the plan record lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Record is a persisted plan: the goal or query it answers and the
// structured response that answers it.
type Record struct {
	ID         string
	OrgID      string
	UserID     string
	Goal       string
	Status     Status
	ModelRunID string
	Response   *assembler.StructuredResponse
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AgentTrace is the richer narration returned by the agentic entry point.
type AgentTrace struct {
	Thoughts    []string `json:"thoughts"`
	DataSources []string `json:"data_sources"`
	FollowUps   []string `json:"follow_ups"`
}

// GeneratePlanInput is the caller-facing plan request.
type GeneratePlanInput struct {
	Goal        string
	ModelRunID  string
	Constraints map[string]any
}

// ListInput pages an org's plan history.
type ListInput struct {
	Limit  int
	Offset int
}

// ListOutput is one page of plans plus the total count.
type ListOutput struct {
	Plans  []Record
	Total  int
	Limit  int
	Offset int
}
