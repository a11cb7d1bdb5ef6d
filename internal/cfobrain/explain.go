package cfobrain

import (
	"fmt"
	"strings"

	"financial-query-pipeline/internal/model"
)

// Explain assembles a narrative strictly from the numeric context. No
// figure appears here that is not in state.
func (r *implReasoner) Explain(state State, recs []model.Recommendation) string {
	var sb strings.Builder

	if state.HasRealData {
		sb.WriteString("Based on your latest financial model: ")
	} else {
		sb.WriteString("No connected financial data yet, so these figures use an industry baseline: ")
	}
	fmt.Fprintf(&sb,
		"cash balance %.0f, monthly burn %.0f, runway %.1f months, monthly revenue %.0f growing %.1f%%.",
		state.CashBalance, state.BurnRate, state.RunwayMonths, state.Revenue, state.RevenueGrowth,
	)
	if state.TopExpense != "" {
		fmt.Fprintf(&sb, " The largest expense category is %s at %.0f per month.",
			state.TopExpense, state.TopExpenseValue)
	}

	for i, rec := range recs {
		fmt.Fprintf(&sb, " %d. %s: %s", i+1, rec.Title, rec.Summary)
	}
	return sb.String()
}
