package usecase

import (
	"context"
	"fmt"
	"strings"

	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/internal/plan"
	"financial-query-pipeline/internal/plan/repository"
)

// ProcessAgenticQuery answers a free-text question through the same
// pipeline as GeneratePlan, persisting the record and narrating what
// happened as an agent trace.
func (uc *implUseCase) ProcessAgenticQuery(ctx context.Context, sc model.Scope, query string) (plan.Record, plan.AgentTrace, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return plan.Record{}, plan.AgentTrace{}, intent.ErrEmptyQuery
	}

	record, err := uc.repo.CreatePlan(ctx, repository.CreatePlanOptions{
		OrgID:  sc.OrgID,
		UserID: sc.UserID,
		Goal:   query,
		Status: plan.StatusGenerating,
	})
	if err != nil {
		return plan.Record{}, plan.AgentTrace{}, err
	}

	out, err := uc.controller.Process(ctx, pipeline.QueryInput{Scope: sc, Query: query})
	if err != nil {
		if _, updErr := uc.repo.UpdatePlan(ctx, repository.UpdatePlanOptions{
			ID: record.ID, OrgID: sc.OrgID, Status: plan.StatusFailed,
		}); updErr != nil {
			uc.l.Errorf(ctx, "plan: mark %s failed: %v", record.ID, updErr)
		}
		return plan.Record{}, plan.AgentTrace{}, err
	}

	record, err = uc.repo.UpdatePlan(ctx, repository.UpdatePlanOptions{
		ID:       record.ID,
		OrgID:    sc.OrgID,
		Status:   plan.StatusCompleted,
		Response: &out.Response,
	})
	if err != nil {
		return plan.Record{}, plan.AgentTrace{}, err
	}

	uc.audit(ctx, sc, "agentic_query", fmt.Sprintf(
		"plan %s: intent=%s path=%s prompt=%s",
		record.ID, out.Response.Intent, out.Path, out.Response.Audit.PromptID,
	))
	return record, buildTrace(out), nil
}

// buildTrace narrates the pipeline outcome for the agentic response.
func buildTrace(out pipeline.QueryOutput) plan.AgentTrace {
	trace := plan.AgentTrace{
		Thoughts: []string{fmt.Sprintf(
			"Interpreted the question as %s via the %s path.", out.Response.Intent, out.Path,
		)},
	}
	for _, stage := range out.Stages {
		if stage.OK {
			trace.Thoughts = append(trace.Thoughts, fmt.Sprintf("Stage %s succeeded.", stage.Stage))
		} else {
			trace.Thoughts = append(trace.Thoughts, fmt.Sprintf(
				"Stage %s degraded (%s), answered from deterministic reasoning.", stage.Stage, stage.Degraded,
			))
		}
	}

	seen := map[string]bool{}
	for _, doc := range out.Response.Evidence {
		if src := string(doc.DocType); !seen[src] {
			seen[src] = true
			trace.DataSources = append(trace.DataSources, src)
		}
	}
	for _, rec := range out.Response.Recommendations {
		for _, src := range rec.DataSources {
			if !seen[src] {
				seen[src] = true
				trace.DataSources = append(trace.DataSources, src)
			}
		}
	}

	trace.FollowUps = followUps(out.Response.Intent)
	return trace
}

// followUps suggests the natural next questions per intent family.
func followUps(it intent.Intent) []string {
	switch it {
	case intent.RunwayCalculation, intent.BurnRateCalculation, intent.CashFlowAnalysis:
		return []string{
			"What happens to runway if we cut burn by 10%?",
			"When should we start fundraising?",
		}
	case intent.ScenarioPlanning, intent.HiringPlanning, intent.HeadcountCost:
		return []string{
			"What is our runway after this hiring plan?",
			"Run a monte carlo simulation on the hiring scenario",
		}
	case intent.FundraisingPlanning, intent.FundraisingTiming:
		return []string{
			"How much should we raise to reach 24 months of runway?",
			"What milestones should we hit before the raise?",
		}
	case intent.RevenueForecast, intent.GrowthAnalysis:
		return []string{
			"How does a 5% monthly growth rate change the forecast?",
			"What is our runway under the current forecast?",
		}
	default:
		return []string{
			"What is our current runway?",
			"Where can we cut costs?",
		}
	}
}
