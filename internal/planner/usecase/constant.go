package usecase

const (
	OpCalculateRunway   = "calculate_runway"
	OpCalculateBurnRate = "calculate_burn_rate"
	OpForecastRevenue   = "forecast_revenue"
	OpSimulateHiring    = "simulate_hiring"
	OpCreateSimulation  = "create_monte_carlo_simulation"
	OpEditAssumption    = "edit_burn_assumption"
	OpHeadcountCost     = "calculate_headcount_cost"
	OpStrategicReview   = "strategic_review"

	defaultHorizonMonths = 12

	// defaultAnnualSalary fills in when a hiring query names headcount but
	// no salary. Always surfaced as a warning.
	defaultAnnualSalary = 120000.0

	// approvalRunwayFraction is the single synchronous guardrail: an
	// assumption edit moving runway by more than this share of current
	// runway needs human sign-off.
	approvalRunwayFraction = 0.15
)
