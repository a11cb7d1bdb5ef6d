package usecase

import (
	"financial-query-pipeline/internal/planner"
	pkgLog "financial-query-pipeline/pkg/log"
)

type implUseCase struct {
	l     pkgLog.Logger
	state planner.StateReader
}

var _ planner.UseCase = (*implUseCase)(nil)

func New(l pkgLog.Logger, state planner.StateReader) planner.UseCase {
	return &implUseCase{
		l:     l,
		state: state,
	}
}
