package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/planner"
	"financial-query-pipeline/internal/planner/usecase"
	"financial-query-pipeline/pkg/log"
)

type stubState struct {
	latestFn func(orgID string) (*model.FinancialModel, *model.ModelRun, error)
	byIDFn   func(orgID, runID string) (*model.ModelRun, error)
}

func (s *stubState) LatestModelRun(_ context.Context, orgID string) (*model.FinancialModel, *model.ModelRun, error) {
	if s.latestFn == nil {
		return nil, nil, nil
	}
	return s.latestFn(orgID)
}

func (s *stubState) ModelRunByID(_ context.Context, orgID, runID string) (*model.ModelRun, error) {
	if s.byIDFn == nil {
		return nil, errors.New("not found")
	}
	return s.byIDFn(orgID, runID)
}

func stateWithRun(cash, burn, runway float64) *stubState {
	return &stubState{latestFn: func(orgID string) (*model.FinancialModel, *model.ModelRun, error) {
		return nil, &model.ModelRun{
			ID:           "r1",
			OrgID:        orgID,
			Status:       model.RunCompleted,
			CashBalance:  cash,
			MonthlyBurn:  burn,
			RunwayMonths: runway,
		}, nil
	}}
}

func slotsOf(vals map[string]float64) map[string]intent.Slot {
	out := make(map[string]intent.Slot, len(vals))
	for k, v := range vals {
		out[k] = intent.Slot{NormalizedValue: v, Confidence: 0.9}
	}
	return out
}

func TestPlanRunwayFromSlots(t *testing.T) {
	uc := usecase.New(log.NewNop(), &stubState{})

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.RunwayCalculation,
		Slots:  slotsOf(map[string]float64{intent.SlotCash: 600000, intent.SlotBurnRate: 50000}),
	})
	require.NoError(t, err)
	assert.True(t, result.Validation.OK)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, usecase.OpCalculateRunway, result.Actions[0].Operation)
	assert.False(t, result.RequiresApproval)

	execs, err := uc.Execute(context.Background(), planner.ExecuteInput{
		OrgID:   "org-1",
		Actions: result.Actions,
	})
	require.NoError(t, err)
	require.Len(t, execs, 1)
	out, ok := execs[0].Result.(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 12.0, out["runway_months"], 1e-9)
}

func TestPlanRunwayFallsBackToModelState(t *testing.T) {
	uc := usecase.New(log.NewNop(), stateWithRun(900000, 75000, 12))

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.RunwayCalculation,
	})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, 900000.0, result.Actions[0].Params["cash"])
}

func TestPlanMissingDataIsValidationIssueNotError(t *testing.T) {
	uc := usecase.New(log.NewNop(), &stubState{})

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.RunwayCalculation,
	})
	require.NoError(t, err, "missing slots degrade, they do not error")
	assert.False(t, result.Validation.OK)
	assert.NotEmpty(t, result.Validation.Issues)
	assert.Empty(t, result.Actions)
}

func TestPlanMissingOrg(t *testing.T) {
	uc := usecase.New(log.NewNop(), &stubState{})

	_, err := uc.Plan(context.Background(), planner.PlanInput{Intent: intent.RunwayCalculation})
	assert.ErrorIs(t, err, planner.ErrMissingOrg)
}

func TestPlanAssumptionEditApprovalGate(t *testing.T) {
	// Current state: 600k cash, 50k burn, 12 months runway. Cutting burn
	// to 40k moves runway to 15 months, a 25% change.
	uc := usecase.New(log.NewNop(), stateWithRun(600000, 50000, 12))

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		UserID: "u1",
		Intent: intent.AssumptionEdit,
		Slots:  slotsOf(map[string]float64{intent.SlotBurnRate: 40000}),
	})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)

	action := result.Actions[0]
	assert.True(t, action.RequiresApproval)
	assert.NotEmpty(t, action.ApprovalReason)
	assert.True(t, result.RequiresApproval)
	assert.NotEmpty(t, result.Validation.Warnings)
	require.NotNil(t, action.Impact)
	assert.InDelta(t, 3.0, action.Impact.RunwayDeltaMonths, 1e-9)
}

func TestPlanAssumptionEditSmallDeltaNoApproval(t *testing.T) {
	// 48k burn moves runway from 12 to 12.5 months, about 4%.
	uc := usecase.New(log.NewNop(), stateWithRun(600000, 50000, 12))

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.AssumptionEdit,
		Slots:  slotsOf(map[string]float64{intent.SlotBurnRate: 48000}),
	})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.False(t, result.Actions[0].RequiresApproval)
	assert.False(t, result.RequiresApproval)
}

func TestExecuteRefusesApprovalFlaggedAction(t *testing.T) {
	uc := usecase.New(log.NewNop(), stateWithRun(600000, 50000, 12))

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.AssumptionEdit,
		Slots:  slotsOf(map[string]float64{intent.SlotBurnRate: 40000}),
	})
	require.NoError(t, err)
	require.True(t, result.RequiresApproval)

	execs, err := uc.Execute(context.Background(), planner.ExecuteInput{
		OrgID:   "org-1",
		Actions: result.Actions,
	})
	assert.ErrorIs(t, err, planner.ErrApprovalRequired)
	assert.Nil(t, execs)
}

func TestExecuteApprovalIdenticalForEveryUser(t *testing.T) {
	uc := usecase.New(log.NewNop(), stateWithRun(600000, 50000, 12))
	flagged := []planner.Action{{
		Type:             planner.ActionAssumptionEdit,
		Operation:        usecase.OpEditAssumption,
		RequiresApproval: true,
	}}

	for _, userID := range []string{"founder", "analyst", "admin"} {
		_, err := uc.Execute(context.Background(), planner.ExecuteInput{
			OrgID:   "org-1",
			UserID:  userID,
			Actions: flagged,
		})
		assert.ErrorIs(t, err, planner.ErrApprovalRequired, userID)
	}
}

func TestBurnAndRunwayFormulasRoundTrip(t *testing.T) {
	uc := usecase.New(log.NewNop(), &stubState{})
	ctx := context.Background()

	runwayPlan, err := uc.Plan(ctx, planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.RunwayCalculation,
		Slots:  slotsOf(map[string]float64{intent.SlotCash: 750000, intent.SlotBurnRate: 62500}),
	})
	require.NoError(t, err)
	runwayExec, err := uc.Execute(ctx, planner.ExecuteInput{OrgID: "org-1", Actions: runwayPlan.Actions})
	require.NoError(t, err)
	runway := runwayExec[0].Result.(map[string]any)["runway_months"].(float64)

	burnPlan, err := uc.Plan(ctx, planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.BurnRateCalculation,
		Slots:  slotsOf(map[string]float64{intent.SlotCash: 750000, intent.SlotRunwayMonths: runway}),
	})
	require.NoError(t, err)
	burnExec, err := uc.Execute(ctx, planner.ExecuteInput{OrgID: "org-1", Actions: burnPlan.Actions})
	require.NoError(t, err)
	burn := burnExec[0].Result.(map[string]any)["monthly_burn"].(float64)

	assert.InDelta(t, 62500.0, burn, 1e-6)
}

func TestPlanHiringScenario(t *testing.T) {
	uc := usecase.New(log.NewNop(), stateWithRun(600000, 50000, 12))

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.ScenarioPlanning,
		Slots:  slotsOf(map[string]float64{intent.SlotHireCount: 3, intent.SlotAnnualSalary: 150000}),
	})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)

	action := result.Actions[0]
	assert.Equal(t, usecase.OpSimulateHiring, action.Operation)
	require.NotNil(t, action.Impact)
	assert.InDelta(t, 37500.0, action.Impact.BurnDelta, 1e-9)
	assert.Negative(t, action.Impact.RunwayDeltaMonths)
}

func TestPlanHiringDefaultSalaryWarns(t *testing.T) {
	uc := usecase.New(log.NewNop(), &stubState{})

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.HiringPlanning,
		Slots:  slotsOf(map[string]float64{intent.SlotHireCount: 2}),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Validation.Warnings)
	require.Len(t, result.Actions, 1)
}

func TestPlanRevenueForecast(t *testing.T) {
	uc := usecase.New(log.NewNop(), &stubState{})

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.RevenueForecast,
		Slots: slotsOf(map[string]float64{
			intent.SlotBaseRevenue:   100000,
			intent.SlotRevenueGrowth: 10,
			intent.SlotHorizonMonths: 6,
		}),
	})
	require.NoError(t, err)

	execs, err := uc.Execute(context.Background(), planner.ExecuteInput{OrgID: "org-1", Actions: result.Actions})
	require.NoError(t, err)
	out := execs[0].Result.(map[string]any)
	assert.InDelta(t, 177156.1, out["future_revenue"], 0.1)
}

func TestPlanAdvisoryDefault(t *testing.T) {
	uc := usecase.New(log.NewNop(), &stubState{})

	result, err := uc.Plan(context.Background(), planner.PlanInput{
		OrgID:  "org-1",
		Intent: intent.TaxPlanning,
	})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, usecase.OpStrategicReview, result.Actions[0].Operation)
	assert.Equal(t, planner.ActionAdvisory, result.Actions[0].Type)
}
