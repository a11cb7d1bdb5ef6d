package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-query-pipeline/internal/middleware"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/plan"
	planHTTP "financial-query-pipeline/internal/plan/delivery/http"
	"financial-query-pipeline/pkg/log"
	"financial-query-pipeline/pkg/response"
)

type stubUseCase struct {
	generateFn func(model.Scope, plan.GeneratePlanInput) (plan.Record, error)
	queryFn    func(model.Scope, string) (plan.Record, plan.AgentTrace, error)
	detailFn   func(model.Scope, string) (plan.Record, error)
	listFn     func(model.Scope, plan.ListInput) (plan.ListOutput, error)
}

func (s *stubUseCase) GeneratePlan(_ context.Context, sc model.Scope, input plan.GeneratePlanInput) (plan.Record, error) {
	return s.generateFn(sc, input)
}

func (s *stubUseCase) ProcessAgenticQuery(_ context.Context, sc model.Scope, query string) (plan.Record, plan.AgentTrace, error) {
	return s.queryFn(sc, query)
}

func (s *stubUseCase) Detail(_ context.Context, sc model.Scope, id string) (plan.Record, error) {
	return s.detailFn(sc, id)
}

func (s *stubUseCase) List(_ context.Context, sc model.Scope, input plan.ListInput) (plan.ListOutput, error) {
	return s.listFn(sc, input)
}

func newRouter(uc plan.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := planHTTP.New(log.NewNop(), uc)
	mw := middleware.New(log.NewNop(), 100, 100)
	planHTTP.RegisterRoutes(r.Group("/api/v1"), h, mw)
	return r
}

func doJSON(r *gin.Engine, method, path, body, org string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if org != "" {
		req.Header.Set("X-Org-ID", org)
		req.Header.Set("X-User-ID", "u1")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGeneratePlanEndpoint(t *testing.T) {
	uc := &stubUseCase{
		generateFn: func(sc model.Scope, input plan.GeneratePlanInput) (plan.Record, error) {
			require.Equal(t, "org-1", sc.OrgID)
			require.Equal(t, "extend runway to 18 months", input.Goal)
			return plan.Record{ID: "plan-1", Goal: input.Goal, Status: plan.StatusCompleted}, nil
		},
	}
	r := newRouter(uc)

	w := doJSON(r, http.MethodPost, "/api/v1/plans", `{"goal":"extend runway to 18 months"}`, "org-1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.ErrorCode)
	assert.Contains(t, w.Body.String(), `"id":"plan-1"`)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
}

func TestGeneratePlanRequiresOrg(t *testing.T) {
	r := newRouter(&stubUseCase{})

	w := doJSON(r, http.MethodPost, "/api/v1/plans", `{"goal":"extend runway"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGeneratePlanRejectsEmptyBody(t *testing.T) {
	r := newRouter(&stubUseCase{})

	w := doJSON(r, http.MethodPost, "/api/v1/plans", `{}`, "org-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryEndpointReturnsTrace(t *testing.T) {
	uc := &stubUseCase{
		queryFn: func(sc model.Scope, query string) (plan.Record, plan.AgentTrace, error) {
			return plan.Record{ID: "plan-2", Goal: query, Status: plan.StatusCompleted},
				plan.AgentTrace{
					Thoughts:    []string{"Interpreted the question as runway_calculation via the fallback path."},
					DataSources: []string{"model_run"},
					FollowUps:   []string{"When should we start fundraising?"},
				}, nil
		},
	}
	r := newRouter(uc)

	w := doJSON(r, http.MethodPost, "/api/v1/query", `{"query":"what is our runway?"}`, "org-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"thoughts"`)
	assert.Contains(t, w.Body.String(), "runway_calculation")
	assert.Contains(t, w.Body.String(), `"follow_ups"`)
}

func TestDetailNotFoundMapsTo404(t *testing.T) {
	uc := &stubUseCase{
		detailFn: func(model.Scope, string) (plan.Record, error) {
			return plan.Record{}, plan.ErrNotFound
		},
	}
	r := newRouter(uc)

	w := doJSON(r, http.MethodGet, "/api/v1/plans/missing", "", "org-1")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp response.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.ErrorCode)
}

func TestListEndpoint(t *testing.T) {
	uc := &stubUseCase{
		listFn: func(_ model.Scope, input plan.ListInput) (plan.ListOutput, error) {
			return plan.ListOutput{
				Plans:  []plan.Record{{ID: "plan-1", Status: plan.StatusCompleted}},
				Total:  1,
				Limit:  20,
				Offset: input.Offset,
			}, nil
		},
	}
	r := newRouter(uc)

	w := doJSON(r, http.MethodGet, "/api/v1/plans?limit=20", "", "org-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
