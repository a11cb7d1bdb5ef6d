package pipeline

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/cfobrain"
	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/planner"
	"financial-query-pipeline/pkg/metrics"
)

// probeResults is the fan-out join point: whatever came back before
// planning proceeds.
type probeResults struct {
	connectors []model.ConnectorStatus
	txCount    int
	txKnown    bool
	overview   *model.OverviewMetrics
}

// Process runs one query through the pipeline. Stage failures degrade to
// the deterministic reasoner; the only errors returned to the caller are
// malformed input and missing scope.
func (c *implController) Process(ctx context.Context, input QueryInput) (QueryOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return QueryOutput{}, intent.ErrEmptyQuery
	}
	if input.Scope.OrgID == "" {
		return QueryOutput{}, ErrMissingOrg
	}

	if entry, ok := metaAnswer(query); ok {
		return c.answerMeta(ctx, query, entry), nil
	}

	var (
		stages   []StageResult
		degraded []string
	)
	fail := func(stage, reason string) {
		stages = append(stages, StageResult{Stage: stage, OK: false, Degraded: reason})
		degraded = append(degraded, stage+": "+reason)
		metrics.FallbacksTotal.WithLabelValues(stage).Inc()
	}
	pass := func(stage string) {
		stages = append(stages, StageResult{Stage: stage, OK: true})
	}

	classification, probes := c.fanOut(ctx, input.Scope.OrgID, query, fail, pass)

	gc, groundingWeak := c.ground(ctx, input.Scope.OrgID, classification, fail, pass)

	planResult, planErr := c.planner.Plan(ctx, planner.PlanInput{
		OrgID:      input.Scope.OrgID,
		UserID:     input.Scope.UserID,
		Intent:     classification.Intent,
		Slots:      classification.Slots,
		ModelRunID: input.ModelRunID,
	})
	if planErr != nil {
		fail(StagePlanning, planErr.Error())
	} else {
		pass(StagePlanning)
	}

	execs := c.execute(ctx, input, planResult, planErr, fail, pass)

	// The narrative attempt must precede the reasoner decision: a failed
	// async generation is itself a degradation that needs the fallback.
	narrative, narrativeOK := c.generateNarrative(ctx, input.Scope.OrgID, query, gc, classification, execs, fail)

	var recs []model.Recommendation
	if len(degraded) > 0 || groundingWeak || advisoryOnly(planResult) {
		state := c.reasoner.LoadState(gc.ModelState)
		recs = c.reasoner.Generate(ctx, "", nil, state, classification.Intent)
	}
	if narrativeOK {
		recs = append(recs, narrative)
	}

	if c.probes != nil {
		planResult.Validation.Warnings = append(planResult.Validation.Warnings, probeWarnings(probes)...)
	}

	start := time.Now()
	resp := c.assembler.Assemble(ctx, assembler.Input{
		Classification:  classification,
		Grounding:       gc,
		Planner:         planResult,
		Executions:      execs,
		Recommendations: recs,
		Errors:          degraded,
		ModelVersion:    c.modelVersion,
		LLMModel:        classification.ModelUsed,
	})
	metrics.StageDuration.WithLabelValues(StageAssembly).Observe(time.Since(start).Seconds())
	pass(StageAssembly)

	path := PathAI
	if classification.UsedFallback || len(degraded) > 0 {
		path = PathFallback
	}
	metrics.QueriesTotal.WithLabelValues(string(classification.Intent), path).Inc()

	return QueryOutput{Response: resp, Stages: stages, Path: path}, nil
}

// fanOut issues classification and the data probes concurrently and joins
// them before grounding.
func (c *implController) fanOut(
	ctx context.Context,
	orgID, query string,
	fail func(stage, reason string),
	pass func(stage string),
) (intent.Classification, probeResults) {
	var (
		classification intent.Classification
		classifyErr    error
		probes         probeResults
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		classification, classifyErr = c.classifier.Classify(gctx, query)
		return nil
	})
	if c.probes != nil {
		g.Go(func() error {
			var err error
			if probes.connectors, err = c.probes.ConnectorStatuses(gctx, orgID); err != nil {
				c.l.Warnf(gctx, "pipeline: connector probe failed: %v", err)
			}
			return nil
		})
		g.Go(func() error {
			n, err := c.probes.TransactionCount(gctx, orgID)
			if err != nil {
				c.l.Warnf(gctx, "pipeline: transaction probe failed: %v", err)
				return nil
			}
			probes.txCount, probes.txKnown = n, true
			return nil
		})
		g.Go(func() error {
			var err error
			if probes.overview, err = c.probes.Overview(gctx, orgID); err != nil {
				c.l.Warnf(gctx, "pipeline: overview probe failed: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	metrics.StageDuration.WithLabelValues(StageClassify).Observe(time.Since(start).Seconds())

	if classifyErr != nil {
		fail(StageClassify, classifyErr.Error())
		classification = intent.Classification{
			Intent:        intent.StrategyRecommendation,
			Confidence:    0.5,
			Slots:         map[string]intent.Slot{},
			UsedFallback:  true,
			OriginalInput: query,
		}
	} else {
		pass(StageClassify)
	}
	pass(StageProbes)
	return classification, probes
}

func (c *implController) ground(
	ctx context.Context,
	orgID string,
	classification intent.Classification,
	fail func(stage, reason string),
	pass func(stage string),
) (grounding.Context, bool) {
	start := time.Now()
	gc, err := c.retriever.Retrieve(ctx, orgID, classification.Intent, classification.Slots, 0)
	metrics.StageDuration.WithLabelValues(StageGrounding).Observe(time.Since(start).Seconds())
	if err != nil {
		fail(StageGrounding, err.Error())
		return grounding.Context{Confidence: 0.5}, true
	}

	validation := c.retriever.ValidateGrounding(gc, 0)
	if !validation.Sufficient {
		fail(StageGrounding, strings.Join(validation.Reasons, "; "))
		return gc, true
	}
	pass(StageGrounding)
	return gc, false
}

func (c *implController) execute(
	ctx context.Context,
	input QueryInput,
	planResult planner.Result,
	planErr error,
	fail func(stage, reason string),
	pass func(stage string),
) []planner.ExecutionResult {
	switch {
	case planErr != nil || len(planResult.Actions) == 0:
		return nil
	case planResult.RequiresApproval:
		fail(StageExecution, "blocked for approval")
		metrics.ApprovalBlocksTotal.Inc()
		return nil
	}

	start := time.Now()
	execs, err := c.planner.Execute(ctx, planner.ExecuteInput{
		OrgID:      input.Scope.OrgID,
		UserID:     input.Scope.UserID,
		Actions:    planResult.Actions,
		ModelRunID: input.ModelRunID,
	})
	metrics.StageDuration.WithLabelValues(StageExecution).Observe(time.Since(start).Seconds())
	if err != nil {
		fail(StageExecution, err.Error())
		return nil
	}
	pass(StageExecution)
	return execs
}

// generateNarrative delegates to the async worker when one is wired and
// the AI path is open. Worker non-completion is a degradation, never an
// error to the caller.
func (c *implController) generateNarrative(
	ctx context.Context,
	orgID, query string,
	gc grounding.Context,
	classification intent.Classification,
	execs []planner.ExecutionResult,
	fail func(stage, reason string),
) (model.Recommendation, bool) {
	if c.async == nil || classification.UsedFallback {
		return model.Recommendation{}, false
	}

	evidence := make([]string, 0, len(gc.Evidence))
	for _, doc := range gc.Evidence {
		evidence = append(evidence, doc.Content)
	}
	calcs := map[string]float64{}
	for _, exec := range execs {
		values, ok := exec.Result.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range values {
			if f, ok := toFloat(v); ok {
				calcs[exec.Operation+"."+k] = f
			}
		}
	}
	jobID, err := c.async.EnqueueGeneration(ctx, GenerationJob{
		OrgID:        orgID,
		Query:        query,
		Calculations: calcs,
		Evidence:     evidence,
	})
	if err == nil {
		var narrative string
		if narrative, err = c.waitForJob(ctx, jobID); err == nil {
			return model.Recommendation{
				Type:        "ai_narrative",
				Category:    "narrative",
				Title:       "Analysis",
				Summary:     narrative,
				Priority:    cfobrain.PriorityMedium,
				Confidence:  classification.Confidence,
				DataSources: []string{"llm_worker"},
			}, true
		}
	}
	fail("async_generation", err.Error())
	return model.Recommendation{}, false
}

func (c *implController) answerMeta(ctx context.Context, query string, entry metaEntry) QueryOutput {
	resp := c.assembler.Assemble(ctx, assembler.Input{
		Classification: intent.Classification{
			Intent:        entry.intent,
			Confidence:    1,
			OriginalInput: query,
		},
		Grounding: grounding.Context{Confidence: 1},
		Planner:   planner.Result{Validation: planner.Validation{OK: true}},
		Recommendations: []model.Recommendation{{
			Type:        "meta_answer",
			Category:    "product",
			Title:       "How to proceed",
			Summary:     entry.answer,
			Priority:    cfobrain.PriorityMedium,
			Confidence:  1,
			DataSources: []string{"decision_table"},
		}},
		ModelVersion: c.modelVersion,
	})
	metrics.QueriesTotal.WithLabelValues(string(entry.intent), PathMeta).Inc()
	return QueryOutput{
		Response: resp,
		Stages:   []StageResult{{Stage: StageClassify, OK: true}},
		Path:     PathMeta,
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func advisoryOnly(result planner.Result) bool {
	if len(result.Actions) == 0 {
		return true
	}
	for _, a := range result.Actions {
		if a.Type != planner.ActionAdvisory {
			return false
		}
	}
	return true
}

func probeWarnings(probes probeResults) []string {
	var warnings []string
	connected := false
	for _, cs := range probes.connectors {
		if cs.Connected {
			connected = true
			break
		}
	}
	if len(probes.connectors) == 0 || !connected {
		warnings = append(warnings, "no data connectors linked, figures may be stale")
	}
	if probes.txKnown && probes.txCount == 0 {
		warnings = append(warnings, "no transactions recorded yet")
	}
	return warnings
}
