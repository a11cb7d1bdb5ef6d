package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"financial-query-pipeline/internal/middleware"
	"financial-query-pipeline/pkg/response"
)

// Generate godoc
// @Summary     Generate a financial plan
// @Description Runs the query pipeline for a stated goal and persists the result.
// @Tags        Plan
// @Accept      json
// @Produce     json
// @Param       X-Org-ID  header string      true  "Organization ID"
// @Param       X-User-ID header string      false "User ID"
// @Param       body      body   generateReq true  "Plan goal"
// @Success     200 {object} generateResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/plans [POST]
func (h *handler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processGenerateReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.uc.GeneratePlan(ctx, middleware.ScopeFromContext(c), req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.GeneratePlan: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newGenerateResp(record))
}

// Query godoc
// @Summary     Ask a financial question
// @Description Answers a free-text question through the query pipeline and
// @Description returns the persisted plan plus the agent trace.
// @Tags        Plan
// @Accept      json
// @Produce     json
// @Param       X-Org-ID  header string   true  "Organization ID"
// @Param       X-User-ID header string   false "User ID"
// @Param       body      body   queryReq true  "Free-text question"
// @Success     200 {object} queryResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/query [POST]
func (h *handler) Query(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processQueryReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, trace, err := h.uc.ProcessAgenticQuery(ctx, middleware.ScopeFromContext(c), req.Query)
	if err != nil {
		h.l.Errorf(ctx, "uc.ProcessAgenticQuery: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newQueryResp(record, trace))
}

// List godoc
// @Summary     List plans
// @Description Returns a page of the org's plan history, newest first.
// @Tags        Plan
// @Accept      json
// @Produce     json
// @Param       X-Org-ID header string true  "Organization ID"
// @Param       limit    query  int    false "Page size (default: 20)"
// @Param       offset   query  int    false "Page offset (default: 0)"
// @Success     200 {object} listResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/plans [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processListReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.List(ctx, middleware.ScopeFromContext(c), req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.List: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newListResp(out))
}

// Detail godoc
// @Summary     Get plan detail
// @Description Returns a single plan, including its structured response.
// @Tags        Plan
// @Accept      json
// @Produce     json
// @Param       X-Org-ID header string true "Organization ID"
// @Param       id       path   string true "Plan ID"
// @Success     200 {object} detailResp
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/plans/{id} [GET]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	record, err := h.uc.Detail(ctx, middleware.ScopeFromContext(c), id)
	if err != nil {
		h.l.Errorf(ctx, "uc.Detail: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newDetailResp(record))
}
