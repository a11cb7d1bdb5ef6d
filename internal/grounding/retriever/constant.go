package retriever

import (
	"time"

	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/intent"
)

const (
	defaultTopK        = 5
	defaultMinEvidence = 2

	recentPlanLimit  = 5
	recentAuditLimit = 3

	// CacheTTL is how long an assembled context stays valid per (org, intent).
	CacheTTL = 5 * time.Minute

	lowConfidenceThreshold = 0.6

	// noEvidenceConfidence is reported when nothing could be retrieved, so
	// downstream consumers still see a defined value.
	noEvidenceConfidence = 0.5
)

// baseScore is the relevance a document starts with before intent boosts.
var baseScore = map[grounding.DocType]float64{
	grounding.DocModelAssumption: 0.80,
	grounding.DocRecommendation:  0.65,
	grounding.DocHistorical:      0.60,
	grounding.DocPolicy:          0.55,
	grounding.DocAuditLog:        0.50,
	grounding.DocTemplate:        0.40,
}

// intentBoosts raises the document types most useful for an intent. The
// values are small on purpose: boosts reorder ties, they do not override
// the base hierarchy.
var intentBoosts = map[intent.Intent]map[grounding.DocType]float64{
	intent.RunwayCalculation: {
		grounding.DocHistorical:      0.10,
		grounding.DocModelAssumption: 0.05,
	},
	intent.BurnRateCalculation: {
		grounding.DocHistorical:      0.10,
		grounding.DocModelAssumption: 0.05,
	},
	intent.CashFlowAnalysis: {
		grounding.DocHistorical: 0.10,
	},
	intent.RevenueForecast: {
		grounding.DocHistorical: 0.10,
	},
	intent.GrowthAnalysis: {
		grounding.DocHistorical: 0.10,
	},
	intent.ScenarioPlanning: {
		grounding.DocModelAssumption: 0.10,
	},
	intent.MonteCarloSimulation: {
		grounding.DocModelAssumption: 0.10,
	},
	intent.AssumptionEdit: {
		grounding.DocModelAssumption: 0.10,
		grounding.DocAuditLog:        0.10,
	},
	intent.CostOptimization: {
		grounding.DocHistorical: 0.05,
	},
	intent.BudgetVariance: {
		grounding.DocHistorical: 0.05,
	},
	intent.ExpenseCategorization: {
		grounding.DocHistorical: 0.05,
	},
	intent.FundraisingPlanning: {
		grounding.DocRecommendation: 0.05,
	},
	intent.FundraisingTiming: {
		grounding.DocRecommendation: 0.05,
	},
	intent.StrategyRecommendation: {
		grounding.DocRecommendation: 0.05,
	},
}
