package usecase

import (
	"context"
	"fmt"

	"financial-query-pipeline/internal/planner"
	"financial-query-pipeline/pkg/finmath"
)

// Execute runs unflagged actions and returns their results. A single
// approval-flagged action aborts the whole call: the approval requirement
// is never dropped, whoever is calling.
func (uc *implUseCase) Execute(ctx context.Context, input planner.ExecuteInput) ([]planner.ExecutionResult, error) {
	if input.OrgID == "" {
		return nil, planner.ErrMissingOrg
	}
	for _, a := range input.Actions {
		if a.RequiresApproval {
			return nil, fmt.Errorf("%w: %s (%s)", planner.ErrApprovalRequired, a.Operation, a.ApprovalReason)
		}
	}

	results := make([]planner.ExecutionResult, 0, len(input.Actions))
	for _, a := range input.Actions {
		out, err := uc.executeAction(a)
		if err != nil {
			uc.l.Warnf(ctx, "planner: execute %s failed: %v", a.Operation, err)
			continue
		}
		results = append(results, planner.ExecutionResult{
			Operation: a.Operation,
			Result:    out,
			Params:    a.Params,
		})
	}
	return results, nil
}

func (uc *implUseCase) executeAction(a planner.Action) (any, error) {
	p := a.Params
	switch a.Operation {
	case OpCalculateRunway:
		cash, burn := paramFloat(p, "cash"), paramFloat(p, "monthly_burn")
		if burn <= 0 {
			return nil, fmt.Errorf("non-positive burn %v", burn)
		}
		return map[string]any{"runway_months": finmath.Runway(cash, burn)}, nil

	case OpCalculateBurnRate:
		if burn := paramFloat(p, "monthly_burn"); burn > 0 {
			return map[string]any{"monthly_burn": burn}, nil
		}
		cash, runway := paramFloat(p, "cash"), paramFloat(p, "runway_months")
		if runway <= 0 {
			return nil, fmt.Errorf("burn not derivable")
		}
		return map[string]any{"monthly_burn": finmath.BurnFromRunway(cash, runway)}, nil

	case OpForecastRevenue:
		base := paramFloat(p, "base_revenue")
		growth := paramFloat(p, "growth_pct")
		horizon := int(paramFloat(p, "horizon_months"))
		return map[string]any{
			"future_revenue": finmath.CompoundRevenue(base, growth, horizon),
			"horizon_months": horizon,
		}, nil

	case OpSimulateHiring:
		hires := paramFloat(p, "hire_count")
		salary := paramFloat(p, "annual_salary")
		out := map[string]any{"burn_delta": finmath.MonthlyHiringCost(hires, salary)}
		if a.Impact != nil {
			out["runway_delta_months"] = a.Impact.RunwayDeltaMonths
		}
		return out, nil

	case OpCreateSimulation:
		return map[string]any{
			"status":         "created",
			"horizon_months": int(paramFloat(p, "horizon_months")),
		}, nil

	case OpEditAssumption:
		cash, burn := paramFloat(p, "cash"), paramFloat(p, "monthly_burn")
		if burn <= 0 {
			return nil, fmt.Errorf("non-positive burn %v", burn)
		}
		return map[string]any{
			"monthly_burn":  burn,
			"runway_months": finmath.Runway(cash, burn),
		}, nil

	case OpHeadcountCost:
		hires := paramFloat(p, "hire_count")
		salary := paramFloat(p, "annual_salary")
		return map[string]any{
			"monthly_cost": finmath.MonthlyHiringCost(hires, salary),
			"annual_cost":  hires * salary,
		}, nil

	case OpStrategicReview:
		// Advisory actions carry no computation, the reasoner answers them.
		return map[string]any{"status": "advisory"}, nil

	default:
		return nil, fmt.Errorf("unknown operation %q", a.Operation)
	}
}

// paramFloat reads a numeric param, tolerating the float64 both direct
// assignment and a JSON round-trip produce.
func paramFloat(p map[string]any, key string) float64 {
	if p == nil {
		return 0
	}
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
