package repository

import (
	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/plan"
)

type CreatePlanOptions struct {
	OrgID      string
	UserID     string
	Goal       string
	Status     plan.Status
	ModelRunID string
}

type GetOnePlanOptions struct {
	ID    string
	OrgID string
}

type ListPlansOptions struct {
	OrgID  string
	Status plan.Status
	Limit  int
	Offset int
}

type UpdatePlanOptions struct {
	ID       string
	OrgID    string
	Status   plan.Status
	Response *assembler.StructuredResponse
}
