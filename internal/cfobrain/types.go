package cfobrain

import (
	"context"

	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
)

// State is the numeric context every recommendation is assembled from.
// HasRealData distinguishes a connected org's numbers from the industry
// baseline; baseline figures must never be presented as real.
type State struct {
	CashBalance     float64 `json:"cash_balance"`
	BurnRate        float64 `json:"burn_rate"`
	RunwayMonths    float64 `json:"runway_months"`
	Revenue         float64 `json:"revenue"`
	RevenueGrowth   float64 `json:"revenue_growth"`
	TopExpense      string  `json:"top_expense"`
	TopExpenseValue float64 `json:"top_expense_value"`
	HasRealData     bool    `json:"has_real_data"`
}

// Reasoner is the deterministic fallback: always answers, never calls out.
type Reasoner interface {
	// LoadState builds the reasoning context from a completed model run,
	// or the industry baseline when run is nil.
	LoadState(run *model.ModelRun) State

	// Generate returns at least three deduplicated recommendations, the
	// first keyed to the intent family.
	Generate(ctx context.Context, goal string, constraints map[string]any, state State, it intent.Intent) []model.Recommendation

	// Explain renders a natural-language narrative from the same numbers.
	Explain(state State, recs []model.Recommendation) string
}
