package usecase

import (
	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/internal/plan"
	"financial-query-pipeline/internal/plan/repository"
	pkgLog "financial-query-pipeline/pkg/log"
)

type implUseCase struct {
	l          pkgLog.Logger
	repo       repository.Repository
	controller pipeline.Controller
}

var _ plan.UseCase = (*implUseCase)(nil)

func New(l pkgLog.Logger, repo repository.Repository, controller pipeline.Controller) plan.UseCase {
	return &implUseCase{
		l:          l,
		repo:       repo,
		controller: controller,
	}
}
