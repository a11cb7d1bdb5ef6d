package usecase

import (
	"context"
	"fmt"
	"strings"

	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/internal/plan"
	"financial-query-pipeline/internal/plan/repository"
)

// GeneratePlan runs the pipeline for a stated goal and persists the
// outcome. The record moves draft-less through generating to completed
// or failed; the structured response is stored on completion.
func (uc *implUseCase) GeneratePlan(ctx context.Context, sc model.Scope, input plan.GeneratePlanInput) (plan.Record, error) {
	goal := strings.TrimSpace(input.Goal)
	if goal == "" {
		return plan.Record{}, plan.ErrInvalidGoal
	}

	record, err := uc.repo.CreatePlan(ctx, repository.CreatePlanOptions{
		OrgID:      sc.OrgID,
		UserID:     sc.UserID,
		Goal:       goal,
		Status:     plan.StatusGenerating,
		ModelRunID: input.ModelRunID,
	})
	if err != nil {
		return plan.Record{}, err
	}

	out, err := uc.controller.Process(ctx, pipeline.QueryInput{
		Scope:      sc,
		Query:      goal,
		ModelRunID: input.ModelRunID,
	})
	if err != nil {
		if _, updErr := uc.repo.UpdatePlan(ctx, repository.UpdatePlanOptions{
			ID: record.ID, OrgID: sc.OrgID, Status: plan.StatusFailed,
		}); updErr != nil {
			uc.l.Errorf(ctx, "plan: mark %s failed: %v", record.ID, updErr)
		}
		return plan.Record{}, err
	}

	record, err = uc.repo.UpdatePlan(ctx, repository.UpdatePlanOptions{
		ID:       record.ID,
		OrgID:    sc.OrgID,
		Status:   plan.StatusCompleted,
		Response: &out.Response,
	})
	if err != nil {
		return plan.Record{}, err
	}

	uc.audit(ctx, sc, "plan_generated", fmt.Sprintf(
		"plan %s: intent=%s path=%s prompt=%s llm=%s",
		record.ID, out.Response.Intent, out.Path, out.Response.Audit.PromptID, out.Response.Audit.LLMModel,
	))
	return record, nil
}

// audit appends a log row; failures are logged, never fatal to the caller.
func (uc *implUseCase) audit(ctx context.Context, sc model.Scope, action, detail string) {
	err := uc.repo.AppendAudit(ctx, model.AuditEntry{
		OrgID:  sc.OrgID,
		UserID: sc.UserID,
		Action: action,
		Detail: detail,
	})
	if err != nil {
		uc.l.Warnf(ctx, "plan: audit append failed: %v", err)
	}
}
