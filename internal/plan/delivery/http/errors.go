package http

import (
	"errors"

	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/internal/plan"
	"financial-query-pipeline/internal/planner"
	pkgErrors "financial-query-pipeline/pkg/errors"
)

// mapError translates domain/use-case errors into HTTP errors from pkg/errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, plan.ErrInvalidGoal):
		return pkgErrors.NewHTTPError(400, "goal must not be empty")
	case errors.Is(err, intent.ErrEmptyQuery):
		return pkgErrors.NewHTTPError(400, "query must not be empty")
	case errors.Is(err, pipeline.ErrMissingOrg):
		return pkgErrors.NewHTTPError(400, "organization scope is required")
	case errors.Is(err, plan.ErrNotFound):
		return pkgErrors.NewHTTPError(404, "plan not found")
	case errors.Is(err, plan.ErrForbidden):
		return pkgErrors.ErrForbidden
	case errors.Is(err, planner.ErrApprovalRequired):
		return pkgErrors.NewHTTPError(403, "action requires explicit approval")
	default:
		return pkgErrors.ErrInternalServerError
	}
}
