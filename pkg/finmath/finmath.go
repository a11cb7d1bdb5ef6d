// Package finmath holds the numeric formulas shared by the action planner
// and the deterministic reasoner, so both paths report consistent figures.
package finmath

import "math"

// Runway returns months of runway for a cash balance and monthly burn.
// Zero or negative burn means runway is effectively unlimited; +Inf is
// avoided so results stay JSON-safe.
func Runway(cash, monthlyBurn float64) float64 {
	if monthlyBurn <= 0 {
		return 0
	}
	return cash / monthlyBurn
}

// BurnFromRunway derives monthly burn from cash and runway, the reverse
// of Runway.
func BurnFromRunway(cash, runwayMonths float64) float64 {
	if runwayMonths <= 0 {
		return 0
	}
	return cash / runwayMonths
}

// CompoundRevenue projects monthly revenue forward by a monthly growth
// percentage over a horizon.
func CompoundRevenue(base, monthlyGrowthPct float64, months int) float64 {
	if months <= 0 {
		return base
	}
	return base * math.Pow(1+monthlyGrowthPct/100, float64(months))
}

// MonthlyHiringCost converts a headcount plan to added monthly burn.
func MonthlyHiringCost(hires, annualSalary float64) float64 {
	return hires * annualSalary / 12
}
