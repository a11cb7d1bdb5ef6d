package cfobrain

// Industry-default baseline for orgs with no completed model run. These
// values are only ever reported with HasRealData=false.
const (
	baselineCash            = 500000.0
	baselineBurn            = 45000.0
	baselineRevenue         = 80000.0
	baselineRevenueGrowth   = 8.0
	baselineTopExpense      = "payroll"
	baselineTopExpenseValue = 30000.0
)

const (
	minRecommendations = 3

	// burnTrimFraction sizes the default cost-cutting proposal.
	burnTrimFraction = 0.10

	// fundraiseRunwayMonths is the conventional raise-readiness floor.
	fundraiseRunwayMonths = 12.0

	deterministicConfidence = 0.75

	sourceModelRun = "model_run"
	sourceBaseline = "industry_baseline"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)
