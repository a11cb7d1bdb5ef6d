package cfobrain

import (
	"context"
	"fmt"

	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/pkg/finmath"
	pkgLog "financial-query-pipeline/pkg/log"
)

type implReasoner struct {
	l pkgLog.Logger
}

var _ Reasoner = (*implReasoner)(nil)

func New(l pkgLog.Logger) Reasoner {
	return &implReasoner{l: l}
}

func (r *implReasoner) LoadState(run *model.ModelRun) State {
	if run == nil || run.Status != model.RunCompleted {
		return State{
			CashBalance:     baselineCash,
			BurnRate:        baselineBurn,
			RunwayMonths:    finmath.Runway(baselineCash, baselineBurn),
			Revenue:         baselineRevenue,
			RevenueGrowth:   baselineRevenueGrowth,
			TopExpense:      baselineTopExpense,
			TopExpenseValue: baselineTopExpenseValue,
			HasRealData:     false,
		}
	}

	runway := run.RunwayMonths
	if runway == 0 {
		runway = finmath.Runway(run.CashBalance, run.MonthlyBurn)
	}
	return State{
		CashBalance:     run.CashBalance,
		BurnRate:        run.MonthlyBurn,
		RunwayMonths:    runway,
		Revenue:         run.MonthlyRevenue,
		RevenueGrowth:   run.RevenueGrowthPct,
		TopExpense:      run.TopExpenseCategory,
		TopExpenseValue: run.TopExpenseValue,
		HasRealData:     true,
	}
}

// Generate produces the primary recommendation for the intent family,
// tops the list up to three items with fixed supplements, then
// deduplicates. The dedup always runs: the AI path shares this contract
// and does produce duplicates.
func (r *implReasoner) Generate(ctx context.Context, goal string, constraints map[string]any, state State, it intent.Intent) []model.Recommendation {
	recs := []model.Recommendation{r.primary(goal, state, it)}

	for _, supplement := range r.supplements(state) {
		if len(recs) >= minRecommendations {
			break
		}
		if missingType(recs, supplement.Type) {
			recs = append(recs, supplement)
		}
	}

	deduped := dedupe(recs)
	r.l.Debugf(ctx, "cfobrain: generated %d recommendations for %s (real data: %v)",
		len(deduped), it, state.HasRealData)
	return deduped
}

func (r *implReasoner) primary(goal string, state State, it intent.Intent) model.Recommendation {
	ds := sourceModelRun
	if !state.HasRealData {
		ds = sourceBaseline
	}
	base := model.Recommendation{
		Priority:    PriorityHigh,
		Confidence:  deterministicConfidence,
		DataSources: []string{ds},
	}
	if goal != "" {
		base.Evidence = append(base.Evidence, "goal: "+goal)
	}

	switch it {
	case intent.RunwayCalculation, intent.CashFlowAnalysis, intent.WorkingCapital:
		trimmed := state.BurnRate * (1 - burnTrimFraction)
		base.Type = "runway_extension"
		base.Category = "finance"
		base.Title = "Extend runway by trimming burn"
		base.Summary = fmt.Sprintf(
			"Current runway is %.1f months (%.0f cash at %.0f monthly burn). A %.0f%% burn reduction extends it to %.1f months.",
			state.RunwayMonths, state.CashBalance, state.BurnRate,
			burnTrimFraction*100, finmath.Runway(state.CashBalance, trimmed),
		)
		base.Impact = map[string]float64{
			"runway_delta_months": finmath.Runway(state.CashBalance, trimmed) - state.RunwayMonths,
			"monthly_savings":     state.BurnRate * burnTrimFraction,
		}

	case intent.BurnRateCalculation, intent.ExpenseCategorization, intent.BudgetVariance:
		base.Type = "burn_reduction"
		base.Category = "cost"
		base.Title = "Review the largest expense line"
		base.Summary = fmt.Sprintf(
			"Monthly burn is %.0f; the largest category is %s at %.0f. Start reduction there.",
			state.BurnRate, state.TopExpense, state.TopExpenseValue,
		)
		base.Impact = map[string]float64{
			"monthly_savings": state.TopExpenseValue * burnTrimFraction,
		}

	case intent.FundraisingPlanning, intent.FundraisingTiming, intent.EquityDilution, intent.DebtFinancing:
		base.Type = "fundraising_prep"
		base.Category = "fundraising"
		base.Title = "Prepare the raise before runway forces it"
		base.Summary = fmt.Sprintf(
			"With %.1f months of runway, start fundraising while at least %.0f months remain; a raise typically takes 3-6 months.",
			state.RunwayMonths, fundraiseRunwayMonths/2,
		)
		base.Impact = map[string]float64{
			"target_runway_months": fundraiseRunwayMonths,
		}

	case intent.RevenueForecast, intent.GrowthAnalysis, intent.PricingStrategy:
		base.Type = "revenue_growth"
		base.Category = "revenue"
		base.Title = "Compound current growth"
		base.Summary = fmt.Sprintf(
			"Revenue of %.0f growing %.1f%% monthly reaches %.0f in 12 months if growth holds.",
			state.Revenue, state.RevenueGrowth,
			finmath.CompoundRevenue(state.Revenue, state.RevenueGrowth, 12),
		)
		base.Impact = map[string]float64{
			"projected_revenue_12m": finmath.CompoundRevenue(state.Revenue, state.RevenueGrowth, 12),
		}

	case intent.CostOptimization, intent.MarginImprovement:
		base.Type = "cost_reduction"
		base.Category = "cost"
		base.Title = "Target the top expense category"
		base.Summary = fmt.Sprintf(
			"%s is the top expense at %.0f monthly. A %.0f%% cut saves %.0f per month.",
			state.TopExpense, state.TopExpenseValue,
			burnTrimFraction*100, state.TopExpenseValue*burnTrimFraction,
		)
		base.Impact = map[string]float64{
			"monthly_savings": state.TopExpenseValue * burnTrimFraction,
		}

	case intent.UnitEconomics:
		base.Type = "unit_economics"
		base.Category = "revenue"
		base.Title = "Establish per-unit margins"
		base.Summary = fmt.Sprintf(
			"Revenue %.0f against burn %.0f gives a %.2f revenue-to-burn ratio; break down both per customer.",
			state.Revenue, state.BurnRate, ratio(state.Revenue, state.BurnRate),
		)
		base.Impact = map[string]float64{
			"revenue_to_burn": ratio(state.Revenue, state.BurnRate),
		}

	default:
		base.Type = "strategic_review"
		base.Category = "strategy"
		base.Title = "Run a structured financial review"
		base.Summary = fmt.Sprintf(
			"Cash %.0f, burn %.0f, runway %.1f months: review spend, growth and fundraising posture together.",
			state.CashBalance, state.BurnRate, state.RunwayMonths,
		)
		base.Impact = map[string]float64{
			"runway_months": state.RunwayMonths,
		}
	}

	base.Explain = r.Explain(state, []model.Recommendation{base})
	return base
}

// supplements are the fixed items that guarantee a multi-item plan.
func (r *implReasoner) supplements(state State) []model.Recommendation {
	ds := sourceModelRun
	if !state.HasRealData {
		ds = sourceBaseline
	}
	return []model.Recommendation{
		{
			Type:     "scenario_planning",
			Category: "planning",
			Title:    "Model the next decision as scenarios",
			Summary: fmt.Sprintf(
				"Build best/expected/worst scenarios from the current %.1f-month runway before committing spend.",
				state.RunwayMonths,
			),
			Impact:      map[string]float64{"runway_months": state.RunwayMonths},
			Priority:    PriorityMedium,
			Confidence:  deterministicConfidence,
			DataSources: []string{ds},
		},
		{
			Type:     "data_automation",
			Category: "operations",
			Title:    "Connect live financial data",
			Summary: "Connect accounting and banking sources so projections track " +
				"actuals instead of manual snapshots.",
			Impact:      map[string]float64{},
			Priority:    PriorityMedium,
			Confidence:  deterministicConfidence,
			DataSources: []string{ds},
		},
	}
}

func missingType(recs []model.Recommendation, typ string) bool {
	for _, rec := range recs {
		if rec.Type == typ {
			return false
		}
	}
	return true
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
