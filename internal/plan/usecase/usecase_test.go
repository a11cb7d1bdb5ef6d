package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/internal/plan"
	"financial-query-pipeline/internal/plan/repository"
	"financial-query-pipeline/internal/plan/usecase"
	"financial-query-pipeline/pkg/log"
)

// memRepo is an in-memory repository; only the plan and audit surfaces
// matter to the use case under test.
type memRepo struct {
	plans  map[string]plan.Record
	audits []model.AuditEntry
	nextID int
}

func newMemRepo() *memRepo {
	return &memRepo{plans: map[string]plan.Record{}}
}

func (m *memRepo) CreatePlan(_ context.Context, opt repository.CreatePlanOptions) (plan.Record, error) {
	m.nextID++
	record := plan.Record{
		ID:         fmt.Sprintf("plan-%d", m.nextID),
		OrgID:      opt.OrgID,
		UserID:     opt.UserID,
		Goal:       opt.Goal,
		Status:     opt.Status,
		ModelRunID: opt.ModelRunID,
		CreatedAt:  time.Now(),
	}
	m.plans[record.ID] = record
	return record, nil
}

func (m *memRepo) GetOnePlan(_ context.Context, opt repository.GetOnePlanOptions) (plan.Record, error) {
	record, ok := m.plans[opt.ID]
	if !ok || record.OrgID != opt.OrgID {
		return plan.Record{}, nil
	}
	return record, nil
}

func (m *memRepo) ListPlans(_ context.Context, opt repository.ListPlansOptions) ([]plan.Record, int, error) {
	var out []plan.Record
	for _, record := range m.plans {
		if record.OrgID == opt.OrgID {
			out = append(out, record)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) UpdatePlan(_ context.Context, opt repository.UpdatePlanOptions) (plan.Record, error) {
	record, ok := m.plans[opt.ID]
	if !ok || record.OrgID != opt.OrgID {
		return plan.Record{}, nil
	}
	record.Status = opt.Status
	if opt.Response != nil {
		record.Response = opt.Response
	}
	m.plans[opt.ID] = record
	return record, nil
}

func (m *memRepo) AppendAudit(_ context.Context, entry model.AuditEntry) error {
	m.audits = append(m.audits, entry)
	return nil
}

func (m *memRepo) LatestModelRun(context.Context, string) (*model.FinancialModel, *model.ModelRun, error) {
	return nil, nil, nil
}

func (m *memRepo) ModelRunByID(context.Context, string, string) (*model.ModelRun, error) {
	return nil, nil
}

func (m *memRepo) RecentPlans(context.Context, string, int) ([]grounding.PlanSummary, error) {
	return nil, nil
}

func (m *memRepo) RecentAuditEntries(context.Context, string, string, int) ([]model.AuditEntry, error) {
	return nil, nil
}

func (m *memRepo) TransactionAggregates(context.Context, string, []int) ([]model.TransactionAggregate, error) {
	return nil, nil
}

func (m *memRepo) ConnectorStatuses(context.Context, string) ([]model.ConnectorStatus, error) {
	return nil, nil
}

func (m *memRepo) TransactionCount(context.Context, string) (int, error) { return 0, nil }

func (m *memRepo) Overview(context.Context, string) (*model.OverviewMetrics, error) {
	return nil, nil
}

type stubController struct {
	out pipeline.QueryOutput
	err error
}

func (s *stubController) Process(context.Context, pipeline.QueryInput) (pipeline.QueryOutput, error) {
	return s.out, s.err
}

func pipelineOutput() pipeline.QueryOutput {
	return pipeline.QueryOutput{
		Response: assembler.StructuredResponse{
			RequestID: "req-1",
			Intent:    intent.RunwayCalculation,
			Input:     "what is our runway",
			Evidence: []grounding.EvidenceDocument{
				{ID: "e1", DocType: grounding.DocModelAssumption},
				{ID: "e2", DocType: grounding.DocHistorical},
			},
			Recommendations: []model.Recommendation{
				{Type: "runway_extension", DataSources: []string{"model_run"}},
			},
			Audit: assembler.Audit{PromptID: "prompt-abc", LLMModel: "gemini-2.5-flash"},
		},
		Stages: []pipeline.StageResult{
			{Stage: pipeline.StageClassify, OK: true},
			{Stage: pipeline.StageGrounding, OK: false, Degraded: "only 1 evidence documents, need 2"},
		},
		Path: pipeline.PathFallback,
	}
}

func TestGeneratePlanPersistsCompletedRecord(t *testing.T) {
	repo := newMemRepo()
	uc := usecase.New(log.NewNop(), repo, &stubController{out: pipelineOutput()})
	sc := model.Scope{OrgID: "org-1", UserID: "u1"}

	record, err := uc.GeneratePlan(context.Background(), sc, plan.GeneratePlanInput{Goal: "extend runway to 18 months"})
	require.NoError(t, err)

	assert.Equal(t, plan.StatusCompleted, record.Status)
	require.NotNil(t, record.Response)
	assert.Equal(t, "req-1", record.Response.RequestID)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, "plan_generated", repo.audits[0].Action)
	assert.Contains(t, repo.audits[0].Detail, "prompt-abc")
}

func TestGeneratePlanEmptyGoal(t *testing.T) {
	uc := usecase.New(log.NewNop(), newMemRepo(), &stubController{})

	_, err := uc.GeneratePlan(context.Background(), model.Scope{OrgID: "org-1"}, plan.GeneratePlanInput{Goal: "  "})
	assert.ErrorIs(t, err, plan.ErrInvalidGoal)
}

func TestGeneratePlanPipelineErrorMarksFailed(t *testing.T) {
	repo := newMemRepo()
	uc := usecase.New(log.NewNop(), repo, &stubController{err: pipeline.ErrMissingOrg})

	_, err := uc.GeneratePlan(context.Background(), model.Scope{UserID: "u1"}, plan.GeneratePlanInput{Goal: "extend runway"})
	require.Error(t, err)

	require.Len(t, repo.plans, 1)
	for _, record := range repo.plans {
		assert.Equal(t, plan.StatusFailed, record.Status)
	}
}

func TestProcessAgenticQueryTrace(t *testing.T) {
	repo := newMemRepo()
	uc := usecase.New(log.NewNop(), repo, &stubController{out: pipelineOutput()})
	sc := model.Scope{OrgID: "org-1", UserID: "u1"}

	record, trace, err := uc.ProcessAgenticQuery(context.Background(), sc, "what is our runway?")
	require.NoError(t, err)
	assert.Equal(t, plan.StatusCompleted, record.Status)

	require.NotEmpty(t, trace.Thoughts)
	assert.Contains(t, trace.Thoughts[0], "runway_calculation")
	assert.Contains(t, trace.Thoughts[2], "degraded")

	assert.ElementsMatch(t, []string{"model_assumption", "historical", "model_run"}, trace.DataSources)
	assert.NotEmpty(t, trace.FollowUps)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, "agentic_query", repo.audits[0].Action)
}

func TestProcessAgenticQueryEmpty(t *testing.T) {
	uc := usecase.New(log.NewNop(), newMemRepo(), &stubController{})

	_, _, err := uc.ProcessAgenticQuery(context.Background(), model.Scope{OrgID: "org-1"}, "")
	assert.ErrorIs(t, err, intent.ErrEmptyQuery)
}

func TestDetailNotFound(t *testing.T) {
	uc := usecase.New(log.NewNop(), newMemRepo(), &stubController{})

	_, err := uc.Detail(context.Background(), model.Scope{OrgID: "org-1"}, "missing")
	assert.ErrorIs(t, err, plan.ErrNotFound)
}

func TestDetailScopedToOrg(t *testing.T) {
	repo := newMemRepo()
	uc := usecase.New(log.NewNop(), repo, &stubController{out: pipelineOutput()})

	record, err := uc.GeneratePlan(context.Background(), model.Scope{OrgID: "org-1", UserID: "u1"},
		plan.GeneratePlanInput{Goal: "extend runway"})
	require.NoError(t, err)

	_, err = uc.Detail(context.Background(), model.Scope{OrgID: "org-2"}, record.ID)
	assert.ErrorIs(t, err, plan.ErrNotFound, "other orgs must not see the plan")
}
