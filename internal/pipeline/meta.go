package pipeline

import (
	"strings"

	"financial-query-pipeline/internal/intent"
)

// metaEntry is one row of the fixed decision table answered without
// running the pipeline.
type metaEntry struct {
	intent intent.Intent
	answer string
}

// metaTable maps normalized fixed phrases to canned answers. Matching is
// exact after lowercasing and trimming, so ordinary questions that merely
// mention these words still go through classification.
var metaTable = map[string]metaEntry{
	"connect accounting system": {
		intent: intent.DataConnection,
		answer: "Open Settings > Data Sources and choose your accounting provider. Once connected, transactions sync automatically and projections use live data.",
	},
	"connect my accounting system": {
		intent: intent.DataConnection,
		answer: "Open Settings > Data Sources and choose your accounting provider. Once connected, transactions sync automatically and projections use live data.",
	},
	"connect bank account": {
		intent: intent.DataConnection,
		answer: "Open Settings > Data Sources and choose your bank. Balances and transactions sync daily after linking.",
	},
	"what can you do": {
		intent: intent.StrategyRecommendation,
		answer: "Ask about runway, burn rate, revenue forecasts, hiring scenarios, fundraising timing or cost optimization, in plain language.",
	},
	"help": {
		intent: intent.StrategyRecommendation,
		answer: "Ask about runway, burn rate, revenue forecasts, hiring scenarios, fundraising timing or cost optimization, in plain language.",
	},
}

// metaAnswer returns the canned entry for a meta-query, if the query is one.
func metaAnswer(query string) (metaEntry, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	normalized = strings.TrimSuffix(normalized, "?")
	normalized = strings.TrimSuffix(normalized, ".")
	entry, ok := metaTable[normalized]
	return entry, ok
}
