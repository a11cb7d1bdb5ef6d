package classifier

import "financial-query-pipeline/internal/intent"

// rule binds an indicator set to an intent with its confidence policy.
// Rules are evaluated in order, most specific first; the first rule with
// at least one matched indicator wins (after the explicit precedence
// checks in fallback.go).
type rule struct {
	intent     intent.Intent
	indicators []string
	floor      float64  // starting confidence once an indicator fires
	cap        float64  // upper clamp for this intent class
	slots      []string // slot names that raise confidence when extracted
}

// High-signal intents floor at 0.90 so the pattern fallback is usable
// without clarification for the common cases. Ambiguous classes floor
// lower and never exceed 0.90.
var rules = []rule{
	{
		intent:     intent.MonteCarloSimulation,
		indicators: []string{"monte carlo", "probability distribution", "probabilistic forecast", "simulate outcomes"},
		floor:      0.90, cap: 0.98,
		slots: []string{intent.SlotHorizonMonths},
	},
	{
		intent:     intent.ScenarioPlanning,
		indicators: []string{"scenario", "what if", "what-if", "if we hire", "if i hire", "if we raise", "if i raise", "if we cut"},
		floor:      0.90, cap: 0.98,
		slots: []string{intent.SlotHireCount, intent.SlotHorizonMonths, intent.SlotAnnualSalary},
	},
	{
		intent:     intent.AssumptionEdit,
		indicators: []string{"change assumption", "update assumption", "edit assumption", "set burn to", "set growth to", "change the model", "adjust the model"},
		floor:      0.80, cap: 0.95,
		slots: []string{intent.SlotBurnRate, intent.SlotRevenueGrowth},
	},
	{
		intent:     intent.RevenueForecast,
		indicators: []string{"revenue forecast", "forecast revenue", "project revenue", "revenue projection", "future revenue", "projected revenue"},
		floor:      0.90, cap: 0.98,
		slots: []string{intent.SlotBaseRevenue, intent.SlotRevenueGrowth, intent.SlotHorizonMonths},
	},
	{
		intent:     intent.RunwayCalculation,
		indicators: []string{"runway", "months of cash", "how long will our cash last", "when do we run out of money", "out of cash"},
		floor:      0.90, cap: 0.98,
		slots: []string{intent.SlotCash, intent.SlotBurnRate},
	},
	{
		intent:     intent.BurnRateCalculation,
		indicators: []string{"burn rate", "monthly burn", "burn", "spending per month", "monthly spend"},
		floor:      0.90, cap: 0.98,
		slots: []string{intent.SlotCash, intent.SlotRunwayMonths},
	},
	{
		intent:     intent.FundraisingTiming,
		indicators: []string{"when should we raise", "when to raise", "timing of the raise", "raise timing"},
		floor:      0.80, cap: 0.95,
		slots: []string{intent.SlotCash, intent.SlotBurnRate},
	},
	{
		intent:     intent.FundraisingPlanning,
		indicators: []string{"fundraise", "fundraising", "raise a round", "funding round", "series a", "series b", "seed round", "investors", "how much should we raise"},
		floor:      0.90, cap: 0.98,
		slots: []string{intent.SlotCash, intent.SlotBurnRate, intent.SlotHorizonMonths},
	},
	{
		intent:     intent.CostOptimization,
		indicators: []string{"cut costs", "reduce costs", "cost optimization", "reduce spend", "lower our spend", "cost cutting", "trim expenses"},
		floor:      0.90, cap: 0.98,
		slots: []string{intent.SlotBurnRate},
	},
	{
		intent:     intent.MarginImprovement,
		indicators: []string{"gross margin", "improve margins", "margin improvement", "margin", "profitability"},
		floor:      0.90, cap: 0.98,
		slots: []string{intent.SlotBaseRevenue},
	},
	{
		intent:     intent.HeadcountCost,
		indicators: []string{"payroll", "salary costs", "cost of headcount", "compensation spend"},
		floor:      0.70, cap: 0.90,
		slots: []string{intent.SlotHireCount, intent.SlotAnnualSalary},
	},
	{
		intent:     intent.HiringPlanning,
		indicators: []string{"hire", "hiring", "headcount", "recruit", "new engineers", "grow the team"},
		floor:      0.70, cap: 0.90,
		slots: []string{intent.SlotHireCount, intent.SlotAnnualSalary},
	},
	{
		intent:     intent.CashFlowAnalysis,
		indicators: []string{"cash flow", "cashflow", "inflows", "outflows", "cash in and out"},
		floor:      0.70, cap: 0.90,
		slots: []string{intent.SlotCash},
	},
	{
		intent:     intent.UnitEconomics,
		indicators: []string{"unit economics", "cac", "ltv", "payback period", "contribution margin"},
		floor:      0.70, cap: 0.90,
	},
	{
		intent:     intent.PricingStrategy,
		indicators: []string{"pricing", "price increase", "raise prices", "reprice"},
		floor:      0.65, cap: 0.90,
	},
	{
		intent:     intent.BudgetVariance,
		indicators: []string{"budget variance", "over budget", "under budget", "versus budget", "vs budget"},
		floor:      0.65, cap: 0.90,
	},
	{
		intent:     intent.ExpenseCategorization,
		indicators: []string{"categorize expenses", "expense categories", "classify transactions", "uncategorized"},
		floor:      0.65, cap: 0.90,
	},
	{
		intent:     intent.BenchmarkComparison,
		indicators: []string{"benchmark", "industry average", "compare to peers", "how do we compare"},
		floor:      0.60, cap: 0.90,
	},
	{
		intent:     intent.WorkingCapital,
		indicators: []string{"working capital", "receivables", "payables", "accounts receivable", "accounts payable"},
		floor:      0.65, cap: 0.90,
	},
	{
		intent:     intent.DebtFinancing,
		indicators: []string{"venture debt", "credit line", "take on debt", "loan"},
		floor:      0.65, cap: 0.90,
	},
	{
		intent:     intent.EquityDilution,
		indicators: []string{"dilution", "cap table", "equity split", "option pool"},
		floor:      0.65, cap: 0.90,
	},
	{
		intent:     intent.TaxPlanning,
		indicators: []string{"tax", "taxes", "r&d credit", "tax credit"},
		floor:      0.60, cap: 0.90,
	},
	{
		intent:     intent.ModelComparison,
		indicators: []string{"compare models", "compare scenarios", "side by side", "which model"},
		floor:      0.60, cap: 0.90,
	},
	{
		intent:     intent.DataConnection,
		indicators: []string{"connect my bank", "connect quickbooks", "connect xero", "sync transactions", "import data"},
		floor:      0.60, cap: 0.90,
	},
	{
		intent:     intent.GrowthAnalysis,
		indicators: []string{"growth rate", "growing month over month", "mom growth", "yoy growth"},
		floor:      0.60, cap: 0.90,
		slots: []string{intent.SlotRevenueGrowth},
	},
}

// defaultRule catches everything the table misses.
var defaultRule = rule{
	intent: intent.StrategyRecommendation,
	floor:  0.50, cap: 0.90,
}

const (
	perIndicatorBoost = 0.02
	perSlotBoost      = 0.02
)
