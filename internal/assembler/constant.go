package assembler

import "financial-query-pipeline/internal/intent"

const (
	lowIntentConfidence    = 0.85
	lowGroundingConfidence = 0.6
)

// categoryByOp maps raw operation names to the generic calculation
// category and the numeric field that carries its value. Consumers may
// key by either style.
var categoryByOp = map[string]struct {
	category string
	field    string
}{
	"calculate_runway":         {"runway", "runway_months"},
	"edit_burn_assumption":     {"runway", "runway_months"},
	"calculate_burn_rate":      {"burnRate", "monthly_burn"},
	"forecast_revenue":         {"futureRevenue", "future_revenue"},
	"calculate_headcount_cost": {"monthlyCost", "monthly_cost"},
}

// externallySupported is the reduced intent set the external contract
// promises; everything else is answerable but not schema-guaranteed.
var externallySupported = map[intent.Intent]bool{
	intent.RunwayCalculation:      true,
	intent.BurnRateCalculation:    true,
	intent.ScenarioPlanning:       true,
	intent.MonteCarloSimulation:   true,
	intent.RevenueForecast:        true,
	intent.AssumptionEdit:         true,
	intent.HiringPlanning:         true,
	intent.HeadcountCost:          true,
	intent.FundraisingPlanning:    true,
	intent.CostOptimization:       true,
	intent.CashFlowAnalysis:       true,
	intent.UnitEconomics:          true,
	intent.StrategyRecommendation: true,
}
