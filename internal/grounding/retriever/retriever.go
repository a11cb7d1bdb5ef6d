package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
)

func currentYear() int {
	return time.Now().UTC().Year()
}

// Retrieve assembles the evidence context for (orgID, intent). Probes run
// concurrently and are best-effort: a failing probe contributes nothing
// instead of failing the retrieval. Results are cached per (org, intent)
// so repeated queries within the TTL see identical evidence.
func (r *implRetriever) Retrieve(ctx context.Context, orgID string, it intent.Intent, slots map[string]intent.Slot, topK int) (grounding.Context, error) {
	if orgID == "" {
		return grounding.Context{}, grounding.ErrMissingOrg
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	key := cacheKey(orgID, it)
	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, key); err == nil {
			var cached grounding.Context
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			r.l.Warnf(ctx, "grounding: corrupt cache entry %s, re-probing", key)
		}
	}

	var (
		run    *model.ModelRun
		fm     *model.FinancialModel
		plans  []grounding.PlanSummary
		audits []model.AuditEntry
		aggs   []model.TransactionAggregate
	)

	g, probeCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fm, run, err = r.store.LatestModelRun(probeCtx, orgID)
		if err != nil {
			r.l.Warnf(probeCtx, "grounding: model probe failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		plans, err = r.store.RecentPlans(probeCtx, orgID, recentPlanLimit)
		if err != nil {
			r.l.Warnf(probeCtx, "grounding: plan probe failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		audits, err = r.store.RecentAuditEntries(probeCtx, orgID, string(it), recentAuditLimit)
		if err != nil {
			r.l.Warnf(probeCtx, "grounding: audit probe failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		year := r.now()
		var err error
		aggs, err = r.store.TransactionAggregates(probeCtx, orgID, []int{year, year - 1})
		if err != nil {
			r.l.Warnf(probeCtx, "grounding: transaction probe failed: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return grounding.Context{}, err
	}

	evidence := r.buildEvidence(it, fm, run, plans, audits, aggs)
	sort.SliceStable(evidence, func(i, j int) bool {
		return evidence[i].RelevanceScore > evidence[j].RelevanceScore
	})
	if len(evidence) > topK {
		evidence = evidence[:topK]
	}

	gc := grounding.Context{
		Evidence:              evidence,
		ModelState:            run,
		RecentRecommendations: plans,
		Confidence:            meanScore(evidence),
	}

	if r.cache != nil {
		if raw, err := json.Marshal(gc); err == nil {
			if err := r.cache.Set(ctx, key, raw); err != nil {
				r.l.Warnf(ctx, "grounding: cache set failed for %s: %v", key, err)
			}
		}
	}
	return gc, nil
}

func cacheKey(orgID string, it intent.Intent) string {
	return fmt.Sprintf("grounding:%s:%s", orgID, it)
}

func (r *implRetriever) buildEvidence(
	it intent.Intent,
	fm *model.FinancialModel,
	run *model.ModelRun,
	plans []grounding.PlanSummary,
	audits []model.AuditEntry,
	aggs []model.TransactionAggregate,
) []grounding.EvidenceDocument {
	var docs []grounding.EvidenceDocument

	if run != nil {
		name, version := "unnamed", ""
		if fm != nil {
			name, version = fm.Name, fm.Version
		}
		docs = append(docs, grounding.EvidenceDocument{
			ID:      "model-run:" + run.ID,
			DocType: grounding.DocModelAssumption,
			Content: fmt.Sprintf(
				"Model %q %s: cash %.0f, monthly burn %.0f, runway %.1f months, monthly revenue %.0f growing %.1f%%",
				name, version, run.CashBalance, run.MonthlyBurn, run.RunwayMonths, run.MonthlyRevenue, run.RevenueGrowthPct,
			),
			RelevanceScore: score(it, grounding.DocModelAssumption),
			Metadata: map[string]any{
				"cash_balance":  run.CashBalance,
				"monthly_burn":  run.MonthlyBurn,
				"runway_months": run.RunwayMonths,
			},
			Timestamp: run.CreatedAt,
		})
	}

	for _, p := range plans {
		docs = append(docs, grounding.EvidenceDocument{
			ID:             "plan:" + p.ID,
			DocType:        grounding.DocRecommendation,
			Content:        fmt.Sprintf("Prior plan (%s): %s", p.Status, p.Goal),
			RelevanceScore: score(it, grounding.DocRecommendation),
			Timestamp:      p.CreatedAt,
		})
	}

	for _, a := range audits {
		docs = append(docs, grounding.EvidenceDocument{
			ID:             "audit:" + a.ID,
			DocType:        grounding.DocAuditLog,
			Content:        fmt.Sprintf("%s: %s", a.Action, a.Detail),
			RelevanceScore: score(it, grounding.DocAuditLog),
			Timestamp:      a.CreatedAt,
		})
	}

	for _, agg := range aggs {
		docs = append(docs, grounding.EvidenceDocument{
			ID:      fmt.Sprintf("tx:%s:%d", agg.OrgID, agg.Year),
			DocType: grounding.DocHistorical,
			Content: fmt.Sprintf(
				"%d transactions: %d entries, inflow %.0f, outflow %.0f",
				agg.Year, agg.Count, agg.Inflow, agg.Outflow,
			),
			RelevanceScore: score(it, grounding.DocHistorical),
			Metadata: map[string]any{
				"year":    agg.Year,
				"inflow":  agg.Inflow,
				"outflow": agg.Outflow,
			},
			Timestamp: time.Date(agg.Year, time.December, 31, 0, 0, 0, 0, time.UTC),
		})
	}

	return docs
}

func score(it intent.Intent, dt grounding.DocType) float64 {
	s := baseScore[dt] + intentBoosts[it][dt]
	if s > 1 {
		s = 1
	}
	return s
}

func meanScore(docs []grounding.EvidenceDocument) float64 {
	if len(docs) == 0 {
		return noEvidenceConfidence
	}
	var sum float64
	for _, d := range docs {
		sum += d.RelevanceScore
	}
	return sum / float64(len(docs))
}
