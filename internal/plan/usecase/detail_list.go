package usecase

import (
	"context"

	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/plan"
	"financial-query-pipeline/internal/plan/repository"
)

func (uc *implUseCase) Detail(ctx context.Context, sc model.Scope, id string) (plan.Record, error) {
	record, err := uc.repo.GetOnePlan(ctx, repository.GetOnePlanOptions{ID: id, OrgID: sc.OrgID})
	if err != nil {
		return plan.Record{}, err
	}
	if record.ID == "" {
		return plan.Record{}, plan.ErrNotFound
	}
	return record, nil
}

func (uc *implUseCase) List(ctx context.Context, sc model.Scope, input plan.ListInput) (plan.ListOutput, error) {
	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	records, total, err := uc.repo.ListPlans(ctx, repository.ListPlansOptions{
		OrgID:  sc.OrgID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return plan.ListOutput{}, err
	}
	return plan.ListOutput{
		Plans:  records,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}
