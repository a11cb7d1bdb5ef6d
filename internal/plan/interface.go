package plan

import (
	"context"

	"financial-query-pipeline/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// GeneratePlan runs the pipeline for a stated goal and persists the
	// result as a plan record.
	GeneratePlan(ctx context.Context, sc model.Scope, input GeneratePlanInput) (Record, error)

	// ProcessAgenticQuery answers a free-text query, returning the same
	// persisted shape plus the agent trace.
	ProcessAgenticQuery(ctx context.Context, sc model.Scope, query string) (Record, AgentTrace, error)

	Detail(ctx context.Context, sc model.Scope, id string) (Record, error)
	List(ctx context.Context, sc model.Scope, input ListInput) (ListOutput, error)
}
