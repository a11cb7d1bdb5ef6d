package grounding

import (
	"context"

	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
)

// Retriever assembles the evidence context for a query.
type Retriever interface {
	// Retrieve gathers evidence for (orgID, intent), returning the top-K
	// documents by boosted relevance. topK <= 0 uses the default of 5.
	Retrieve(ctx context.Context, orgID string, it intent.Intent, slots map[string]intent.Slot, topK int) (Context, error)

	// ValidateGrounding checks whether gc can support an answer.
	// minEvidence <= 0 uses the default of 2.
	ValidateGrounding(gc Context, minEvidence int) Validation
}

// Store is the narrow persistence surface the data probes read from.
type Store interface {
	// LatestModelRun returns the org's latest model and its most recent
	// completed run. A missing run is (model, nil, nil).
	LatestModelRun(ctx context.Context, orgID string) (*model.FinancialModel, *model.ModelRun, error)

	// RecentPlans returns the org's newest recommendation plans.
	RecentPlans(ctx context.Context, orgID string, limit int) ([]PlanSummary, error)

	// RecentAuditEntries returns the newest audit entries whose action
	// relates to the given intent.
	RecentAuditEntries(ctx context.Context, orgID, action string, limit int) ([]model.AuditEntry, error)

	// TransactionAggregates returns yearly transaction summaries.
	TransactionAggregates(ctx context.Context, orgID string, years []int) ([]model.TransactionAggregate, error)
}
