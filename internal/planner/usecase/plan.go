package usecase

import (
	"context"
	"fmt"
	"math"

	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/planner"
	"financial-query-pipeline/pkg/finmath"
)

// Plan routes an intent to candidate actions against the org's current
// financial state. It never mutates anything; missing slots become
// validation issues so the pipeline can still answer.
func (uc *implUseCase) Plan(ctx context.Context, input planner.PlanInput) (planner.Result, error) {
	if input.OrgID == "" {
		return planner.Result{}, planner.ErrMissingOrg
	}

	run, warnings := uc.loadState(ctx, input.OrgID, input.ModelRunID)
	b := &planBuilder{slots: input.Slots, run: run, warnings: warnings}

	switch input.Intent {
	case intent.RunwayCalculation, intent.CashFlowAnalysis:
		b.planRunway()
	case intent.BurnRateCalculation:
		b.planBurnRate()
	case intent.RevenueForecast, intent.GrowthAnalysis:
		b.planRevenueForecast()
	case intent.ScenarioPlanning, intent.HiringPlanning:
		b.planHiring()
	case intent.MonteCarloSimulation:
		b.planMonteCarlo()
	case intent.AssumptionEdit:
		b.planAssumptionEdit()
	case intent.HeadcountCost:
		b.planHeadcountCost()
	default:
		b.planAdvisory(input.Intent)
	}

	result := planner.Result{
		Actions: b.actions,
		Validation: planner.Validation{
			OK:       len(b.issues) == 0,
			Issues:   b.issues,
			Warnings: b.warnings,
		},
		ApprovalThreshold: approvalRunwayFraction,
	}
	for _, a := range result.Actions {
		if a.RequiresApproval {
			result.RequiresApproval = true
		}
	}
	return result, nil
}

func (uc *implUseCase) loadState(ctx context.Context, orgID, runID string) (*model.ModelRun, []string) {
	var (
		run *model.ModelRun
		err error
	)
	if runID != "" {
		run, err = uc.state.ModelRunByID(ctx, orgID, runID)
	} else {
		_, run, err = uc.state.LatestModelRun(ctx, orgID)
	}
	if err != nil {
		uc.l.Warnf(ctx, "planner: model state unavailable: %v", err)
		return nil, []string{"financial model state unavailable, planning from query values only"}
	}
	if run == nil {
		return nil, []string{"no completed model run, planning from query values only"}
	}
	return run, nil
}

// planBuilder accumulates actions and validation findings for one query.
type planBuilder struct {
	slots    map[string]intent.Slot
	run      *model.ModelRun
	actions  []planner.Action
	issues   []string
	warnings []string
}

func (b *planBuilder) slot(name string) (float64, bool) {
	s, ok := b.slots[name]
	if !ok {
		return 0, false
	}
	return s.NormalizedValue, true
}

// cash and burn prefer slot values and fall back to model state.
func (b *planBuilder) cash() (float64, bool) {
	if v, ok := b.slot(intent.SlotCash); ok {
		return v, true
	}
	if b.run != nil && b.run.CashBalance > 0 {
		return b.run.CashBalance, true
	}
	return 0, false
}

func (b *planBuilder) burn() (float64, bool) {
	if v, ok := b.slot(intent.SlotBurnRate); ok {
		return v, true
	}
	if b.run != nil && b.run.MonthlyBurn > 0 {
		return b.run.MonthlyBurn, true
	}
	return 0, false
}

func (b *planBuilder) planRunway() {
	cash, cashOK := b.cash()
	burn, burnOK := b.burn()
	if !cashOK {
		b.issues = append(b.issues, "missing cash balance: not in query and no model run available")
		return
	}
	if !burnOK {
		b.issues = append(b.issues, "missing burn rate: not in query and no model run available")
		return
	}
	b.actions = append(b.actions, planner.Action{
		Type:      planner.ActionCalculation,
		Operation: OpCalculateRunway,
		Params:    map[string]any{"cash": cash, "monthly_burn": burn},
	})
}

func (b *planBuilder) planBurnRate() {
	if burn, ok := b.burn(); ok {
		b.actions = append(b.actions, planner.Action{
			Type:      planner.ActionCalculation,
			Operation: OpCalculateBurnRate,
			Params:    map[string]any{"monthly_burn": burn},
		})
		return
	}
	// Derivable in reverse when the query states cash and runway.
	cash, cashOK := b.cash()
	runway, runwayOK := b.slot(intent.SlotRunwayMonths)
	if cashOK && runwayOK {
		b.actions = append(b.actions, planner.Action{
			Type:      planner.ActionCalculation,
			Operation: OpCalculateBurnRate,
			Params:    map[string]any{"cash": cash, "runway_months": runway},
		})
		return
	}
	b.issues = append(b.issues, "missing burn rate: no model run and not derivable from cash and runway")
}

func (b *planBuilder) planRevenueForecast() {
	base, ok := b.slot(intent.SlotBaseRevenue)
	if !ok && b.run != nil && b.run.MonthlyRevenue > 0 {
		base, ok = b.run.MonthlyRevenue, true
	}
	if !ok {
		b.issues = append(b.issues, "missing base revenue: not in query and no model run available")
		return
	}

	growth, ok := b.slot(intent.SlotRevenueGrowth)
	if !ok && b.run != nil {
		growth = b.run.RevenueGrowthPct
	}
	horizon := float64(defaultHorizonMonths)
	if v, ok := b.slot(intent.SlotHorizonMonths); ok {
		horizon = v
	}
	b.actions = append(b.actions, planner.Action{
		Type:      planner.ActionCalculation,
		Operation: OpForecastRevenue,
		Params: map[string]any{
			"base_revenue":   base,
			"growth_pct":     growth,
			"horizon_months": horizon,
		},
	})
}

func (b *planBuilder) planHiring() {
	hires, ok := b.slot(intent.SlotHireCount)
	if !ok {
		b.issues = append(b.issues, "missing hire count for hiring scenario")
		return
	}
	salary, ok := b.slot(intent.SlotAnnualSalary)
	if !ok {
		salary = defaultAnnualSalary
		b.warnings = append(b.warnings, fmt.Sprintf("annual salary not specified, assuming %.0f", salary))
	}

	burnDelta := finmath.MonthlyHiringCost(hires, salary)
	impact := &planner.Impact{BurnDelta: burnDelta, CostDelta: hires * salary}
	if cash, cashOK := b.cash(); cashOK {
		if burn, burnOK := b.burn(); burnOK {
			impact.RunwayDeltaMonths = finmath.Runway(cash, burn+burnDelta) - finmath.Runway(cash, burn)
		}
	}

	b.actions = append(b.actions, planner.Action{
		Type:      planner.ActionSimulation,
		Operation: OpSimulateHiring,
		Params: map[string]any{
			"hire_count":    hires,
			"annual_salary": salary,
		},
		Impact: impact,
	})
}

func (b *planBuilder) planMonteCarlo() {
	horizon := float64(defaultHorizonMonths)
	if v, ok := b.slot(intent.SlotHorizonMonths); ok {
		horizon = v
	}
	b.actions = append(b.actions, planner.Action{
		Type:      planner.ActionSimulation,
		Operation: OpCreateSimulation,
		Params:    map[string]any{"horizon_months": horizon},
	})
}

func (b *planBuilder) planAssumptionEdit() {
	newBurn, ok := b.slot(intent.SlotBurnRate)
	if !ok {
		b.issues = append(b.issues, "missing new burn rate for assumption edit")
		return
	}
	cash, cashOK := b.cash()
	if !cashOK {
		b.issues = append(b.issues, "missing cash balance: cannot evaluate assumption edit impact")
		return
	}

	currentRunway := 0.0
	if b.run != nil {
		currentRunway = b.run.RunwayMonths
	}
	if currentRunway == 0 {
		if burn, burnOK := b.burn(); burnOK {
			currentRunway = finmath.Runway(cash, burn)
		}
	}

	newRunway := finmath.Runway(cash, newBurn)
	delta := newRunway - currentRunway

	action := planner.Action{
		Type:      planner.ActionAssumptionEdit,
		Operation: OpEditAssumption,
		Params: map[string]any{
			"cash":         cash,
			"monthly_burn": newBurn,
		},
		Impact: &planner.Impact{
			RunwayDeltaMonths: delta,
			BurnDelta:         newBurn - finmath.BurnFromRunway(cash, currentRunway),
		},
	}
	if currentRunway > 0 && math.Abs(delta) > approvalRunwayFraction*currentRunway {
		action.RequiresApproval = true
		action.ApprovalReason = fmt.Sprintf(
			"changing monthly burn to %.0f moves runway by %.1f months, more than %.0f%% of the current %.1f months",
			newBurn, delta, approvalRunwayFraction*100, currentRunway,
		)
		b.warnings = append(b.warnings, action.ApprovalReason)
	}
	b.actions = append(b.actions, action)
}

func (b *planBuilder) planHeadcountCost() {
	hires, ok := b.slot(intent.SlotHireCount)
	if !ok {
		b.issues = append(b.issues, "missing hire count for headcount cost")
		return
	}
	salary, ok := b.slot(intent.SlotAnnualSalary)
	if !ok {
		salary = defaultAnnualSalary
		b.warnings = append(b.warnings, fmt.Sprintf("annual salary not specified, assuming %.0f", salary))
	}
	b.actions = append(b.actions, planner.Action{
		Type:      planner.ActionCalculation,
		Operation: OpHeadcountCost,
		Params: map[string]any{
			"hire_count":    hires,
			"annual_salary": salary,
		},
	})
}

func (b *planBuilder) planAdvisory(it intent.Intent) {
	b.actions = append(b.actions, planner.Action{
		Type:      planner.ActionAdvisory,
		Operation: OpStrategicReview,
		Params:    map[string]any{"intent": string(it)},
	})
}
