package pipeline

import (
	"context"

	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/model"
)

// Stage names, in pipeline order.
const (
	StageClassify  = "classify"
	StageProbes    = "data_probes"
	StageGrounding = "grounding"
	StagePlanning  = "planning"
	StageExecution = "execution"
	StageAssembly  = "assembly"
)

// Answer paths for metrics and the caller-facing trace.
const (
	PathAI       = "ai"
	PathFallback = "fallback"
	PathMeta     = "meta"
)

// StageResult records one stage's outcome. Failed stages carry the
// degradation reason instead of aborting the pipeline.
type StageResult struct {
	Stage    string `json:"stage"`
	OK       bool   `json:"ok"`
	Degraded string `json:"degraded,omitempty"`
}

// QueryInput is one natural-language query with its acting scope.
type QueryInput struct {
	Scope      model.Scope
	Query      string
	ModelRunID string
}

// QueryOutput is the full pipeline result: the external response plus
// the per-stage trace.
type QueryOutput struct {
	Response assembler.StructuredResponse `json:"response"`
	Stages   []StageResult                `json:"stages"`
	Path     string                       `json:"path"`
}

// Controller runs the query pipeline end to end.
type Controller interface {
	Process(ctx context.Context, input QueryInput) (QueryOutput, error)
}

// DataProbes is the read surface for the concurrent fan-out issued
// alongside classification.
type DataProbes interface {
	ConnectorStatuses(ctx context.Context, orgID string) ([]model.ConnectorStatus, error)
	TransactionCount(ctx context.Context, orgID string) (int, error)
	Overview(ctx context.Context, orgID string) (*model.OverviewMetrics, error)
}
