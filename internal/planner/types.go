package planner

import "financial-query-pipeline/internal/intent"

// ActionType distinguishes what executing an action would do.
type ActionType string

const (
	ActionCalculation    ActionType = "calculation"
	ActionSimulation     ActionType = "simulation"
	ActionAssumptionEdit ActionType = "assumption_edit"
	ActionAdvisory       ActionType = "advisory"
)

// Impact estimates what an action would change if executed.
type Impact struct {
	RunwayDeltaMonths float64 `json:"runway_delta_months,omitempty"`
	BurnDelta         float64 `json:"burn_delta,omitempty"`
	CostDelta         float64 `json:"cost_delta,omitempty"`
}

// Action is one candidate deterministic step. Planning produces actions,
// it never runs them.
type Action struct {
	Type             ActionType     `json:"type"`
	Operation        string         `json:"operation"`
	Params           map[string]any `json:"params,omitempty"`
	RequiresApproval bool           `json:"requires_approval"`
	ApprovalReason   string         `json:"approval_reason,omitempty"`
	Impact           *Impact        `json:"impact,omitempty"`
}

// Validation carries non-fatal planning problems. Missing slots land
// here, not in an error return.
type Validation struct {
	OK       bool     `json:"ok"`
	Issues   []string `json:"issues,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Result is the full planning outcome for one query.
type Result struct {
	Actions           []Action   `json:"actions"`
	Validation        Validation `json:"validation"`
	RequiresApproval  bool       `json:"requires_approval"`
	ApprovalThreshold float64    `json:"approval_threshold,omitempty"`
}

// ExecutionResult is the output of one executed action. Actions flagged
// for approval never produce one.
type ExecutionResult struct {
	Operation string         `json:"operation"`
	Result    any            `json:"result"`
	Params    map[string]any `json:"params,omitempty"`
}

// PlanInput identifies who is planning what.
type PlanInput struct {
	OrgID      string
	UserID     string
	Intent     intent.Intent
	Slots      map[string]intent.Slot
	ModelRunID string
}

// ExecuteInput carries approved-or-unflagged actions to run.
type ExecuteInput struct {
	OrgID      string
	UserID     string
	Actions    []Action
	ModelRunID string
}
