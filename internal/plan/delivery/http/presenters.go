package http

import (
	"time"

	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/plan"
)

// --- Request DTOs ---

type generateReq struct {
	Goal        string         `json:"goal"         binding:"required,min=1,max=2000"`
	ModelRunID  string         `json:"model_run_id" binding:"omitempty,max=64"`
	Constraints map[string]any `json:"constraints"`
}

func (r generateReq) toInput() plan.GeneratePlanInput {
	return plan.GeneratePlanInput{
		Goal:        r.Goal,
		ModelRunID:  r.ModelRunID,
		Constraints: r.Constraints,
	}
}

// ---

type queryReq struct {
	Query string `json:"query" binding:"required,min=1,max=2000"`
}

// ---

type listReq struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func (r listReq) toInput() plan.ListInput {
	return plan.ListInput{
		Limit:  r.Limit,
		Offset: r.Offset,
	}
}

// --- Response DTOs ---

type planResp struct {
	ID         string                        `json:"id"`
	Goal       string                        `json:"goal"`
	Status     string                        `json:"status"`
	ModelRunID string                        `json:"model_run_id,omitempty"`
	Response   *assembler.StructuredResponse `json:"response,omitempty"`
	CreatedAt  time.Time                     `json:"created_at"`
	UpdatedAt  time.Time                     `json:"updated_at"`
}

func newPlanResp(record plan.Record) planResp {
	return planResp{
		ID:         record.ID,
		Goal:       record.Goal,
		Status:     string(record.Status),
		ModelRunID: record.ModelRunID,
		Response:   record.Response,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

type generateResp struct {
	Plan planResp `json:"plan"`
}

func (h *handler) newGenerateResp(record plan.Record) generateResp {
	return generateResp{Plan: newPlanResp(record)}
}

type queryResp struct {
	Plan  planResp        `json:"plan"`
	Trace plan.AgentTrace `json:"trace"`
}

func (h *handler) newQueryResp(record plan.Record, trace plan.AgentTrace) queryResp {
	return queryResp{Plan: newPlanResp(record), Trace: trace}
}

type listResp struct {
	Plans  []planResp `json:"plans"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func (h *handler) newListResp(out plan.ListOutput) listResp {
	plans := make([]planResp, len(out.Plans))
	for i, record := range out.Plans {
		plans[i] = newPlanResp(record)
	}
	return listResp{
		Plans:  plans,
		Total:  out.Total,
		Limit:  out.Limit,
		Offset: out.Offset,
	}
}

type detailResp struct {
	Plan planResp `json:"plan"`
}

func (h *handler) newDetailResp(record plan.Record) detailResp {
	return detailResp{Plan: newPlanResp(record)}
}
