package intent

// Intent is the closed taxonomy of financial query types.
type Intent string

const (
	MonteCarloSimulation   Intent = "monte_carlo_simulation"
	ScenarioPlanning       Intent = "scenario_planning"
	AssumptionEdit         Intent = "assumption_edit"
	RevenueForecast        Intent = "revenue_forecast"
	RunwayCalculation      Intent = "runway_calculation"
	BurnRateCalculation    Intent = "burn_rate_calculation"
	FundraisingPlanning    Intent = "fundraising_planning"
	FundraisingTiming      Intent = "fundraising_timing"
	CostOptimization       Intent = "cost_optimization"
	MarginImprovement      Intent = "margin_improvement"
	HiringPlanning         Intent = "hiring_planning"
	HeadcountCost          Intent = "headcount_cost"
	CashFlowAnalysis       Intent = "cash_flow_analysis"
	UnitEconomics          Intent = "unit_economics"
	PricingStrategy        Intent = "pricing_strategy"
	BudgetVariance         Intent = "budget_variance"
	ExpenseCategorization  Intent = "expense_categorization"
	BenchmarkComparison    Intent = "benchmark_comparison"
	GrowthAnalysis         Intent = "growth_analysis"
	WorkingCapital         Intent = "working_capital"
	DebtFinancing          Intent = "debt_financing"
	EquityDilution         Intent = "equity_dilution"
	TaxPlanning            Intent = "tax_planning"
	ModelComparison        Intent = "model_comparison"
	DataConnection         Intent = "data_connection"
	StrategyRecommendation Intent = "strategy_recommendation"
)

// All lists every member of the taxonomy.
var All = []Intent{
	MonteCarloSimulation, ScenarioPlanning, AssumptionEdit, RevenueForecast,
	RunwayCalculation, BurnRateCalculation, FundraisingPlanning, FundraisingTiming,
	CostOptimization, MarginImprovement, HiringPlanning, HeadcountCost,
	CashFlowAnalysis, UnitEconomics, PricingStrategy, BudgetVariance,
	ExpenseCategorization, BenchmarkComparison, GrowthAnalysis, WorkingCapital,
	DebtFinancing, EquityDilution, TaxPlanning, ModelComparison,
	DataConnection, StrategyRecommendation,
}

// Valid reports whether i is a member of the taxonomy.
func (i Intent) Valid() bool {
	for _, v := range All {
		if i == v {
			return true
		}
	}
	return false
}

// Slot names recognized by the extractors.
const (
	SlotCash          = "cash"
	SlotBurnRate      = "burn_rate"
	SlotRunwayMonths  = "runway_months"
	SlotRevenueGrowth = "revenue_growth"
	SlotBaseRevenue   = "base_revenue"
	SlotHorizonMonths = "horizon_months"
	SlotHireCount     = "hire_count"
	SlotAnnualSalary  = "annual_salary"
)

// Slot is one normalized entity extracted from the query text.
type Slot struct {
	RawValue        string  `json:"raw_value"`
	NormalizedValue float64 `json:"normalized_value"`
	Currency        string  `json:"currency,omitempty"`
	Confidence      float64 `json:"confidence"`
	Unit            string  `json:"unit,omitempty"`
}

// Classification is the immutable result of classifying one query.
type Classification struct {
	Intent        Intent          `json:"intent"`
	Confidence    float64         `json:"confidence"`
	Slots         map[string]Slot `json:"slots"`
	UsedFallback  bool            `json:"used_fallback"`
	ModelUsed     string          `json:"model_used"`
	OriginalInput string          `json:"original_input"`
}

// ValidationResult reports structural problems with a classification.
type ValidationResult struct {
	Valid                 bool
	Issues                []string
	RequiresClarification bool
}
