package grounding

import (
	"time"

	"financial-query-pipeline/internal/model"
)

// DocType categorizes where a piece of evidence came from.
type DocType string

const (
	DocModelAssumption DocType = "model_assumption"
	DocHistorical      DocType = "historical"
	DocPolicy          DocType = "policy"
	DocRecommendation  DocType = "recommendation"
	DocAuditLog        DocType = "audit_log"
	DocTemplate        DocType = "template"
)

// EvidenceDocument is a read-only snapshot of one piece of supporting
// evidence. Not persisted beyond the grounding cache.
type EvidenceDocument struct {
	ID             string         `json:"id"`
	DocType        DocType        `json:"doc_type"`
	Content        string         `json:"content"`
	RelevanceScore float64        `json:"relevance_score"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// PlanSummary is the slim view of a recommendation plan used as evidence.
type PlanSummary struct {
	ID        string    `json:"id"`
	Goal      string    `json:"goal"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Context is the evidence set assembled for one (org, intent) pair.
type Context struct {
	Evidence              []EvidenceDocument `json:"evidence"`
	ModelState            *model.ModelRun    `json:"model_state,omitempty"`
	RecentRecommendations []PlanSummary      `json:"recent_recommendations,omitempty"`
	Confidence            float64            `json:"confidence"`
}

// Validation reports whether a grounding context is strong enough to
// answer from, with the specific reasons when it is not.
type Validation struct {
	Sufficient bool
	Reasons    []string
}
