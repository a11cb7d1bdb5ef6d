package planner

import (
	"context"

	"financial-query-pipeline/internal/model"
)

// UseCase plans and executes deterministic financial actions.
type UseCase interface {
	// Plan is pure: it reads current financial state and routes the
	// intent to candidate actions without side effects.
	Plan(ctx context.Context, input PlanInput) (Result, error)

	// Execute runs actions that are not approval-gated. Any action still
	// flagged requires_approval aborts the whole call with
	// ErrApprovalRequired.
	Execute(ctx context.Context, input ExecuteInput) ([]ExecutionResult, error)
}

// StateReader loads the financial state planning computes against.
type StateReader interface {
	LatestModelRun(ctx context.Context, orgID string) (*model.FinancialModel, *model.ModelRun, error)
	ModelRunByID(ctx context.Context, orgID, runID string) (*model.ModelRun, error)
}
