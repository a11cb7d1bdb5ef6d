package repository

import (
	"context"

	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/internal/plan"
	"financial-query-pipeline/internal/planner"
)

// Repository is the composed data store for the plan domain. The same
// postgres implementation also backs the grounding probes, the planner's
// state reads and the controller fan-out, so one connection pool serves
// the whole pipeline.
type Repository interface {
	PlanRepository
	AuditRepository

	grounding.Store
	planner.StateReader
	pipeline.DataProbes
}

// PlanRepository defines data access for plan records.
type PlanRepository interface {
	CreatePlan(ctx context.Context, opt CreatePlanOptions) (plan.Record, error)
	GetOnePlan(ctx context.Context, opt GetOnePlanOptions) (plan.Record, error)
	ListPlans(ctx context.Context, opt ListPlansOptions) ([]plan.Record, int, error)
	UpdatePlan(ctx context.Context, opt UpdatePlanOptions) (plan.Record, error)
}

// AuditRepository appends to the immutable audit log.
type AuditRepository interface {
	AppendAudit(ctx context.Context, entry model.AuditEntry) error
}
