package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/cfobrain"
	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/grounding/retriever"
	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/intent/classifier"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/internal/pipeline"
	plannerUC "financial-query-pipeline/internal/planner/usecase"
	"financial-query-pipeline/pkg/llmprovider"
	"financial-query-pipeline/pkg/log"
)

// fakeData backs grounding probes, planner state and the controller
// fan-out from one in-memory dataset.
type fakeData struct {
	run *model.ModelRun
}

func (f *fakeData) LatestModelRun(_ context.Context, _ string) (*model.FinancialModel, *model.ModelRun, error) {
	return &model.FinancialModel{ID: "m1", Name: "base", Version: "v3"}, f.run, nil
}

func (f *fakeData) ModelRunByID(_ context.Context, _, _ string) (*model.ModelRun, error) {
	return f.run, nil
}

func (f *fakeData) RecentPlans(_ context.Context, _ string, _ int) ([]grounding.PlanSummary, error) {
	return []grounding.PlanSummary{{ID: "p1", Goal: "extend runway", Status: "completed"}}, nil
}

func (f *fakeData) RecentAuditEntries(_ context.Context, _, _ string, _ int) ([]model.AuditEntry, error) {
	return []model.AuditEntry{{ID: "a1", Action: "assumption_edit", Detail: "burn updated"}}, nil
}

func (f *fakeData) TransactionAggregates(_ context.Context, orgID string, years []int) ([]model.TransactionAggregate, error) {
	out := make([]model.TransactionAggregate, 0, len(years))
	for _, y := range years {
		out = append(out, model.TransactionAggregate{OrgID: orgID, Year: y, Inflow: 500000, Outflow: 400000, Count: 100})
	}
	return out, nil
}

func (f *fakeData) ConnectorStatuses(_ context.Context, _ string) ([]model.ConnectorStatus, error) {
	return []model.ConnectorStatus{{Provider: "quickbooks", Connected: true}}, nil
}

func (f *fakeData) TransactionCount(_ context.Context, _ string) (int, error) {
	return 100, nil
}

func (f *fakeData) Overview(_ context.Context, _ string) (*model.OverviewMetrics, error) {
	return &model.OverviewMetrics{CashBalance: 600000, MonthlyBurn: 50000, RunwayMonths: 12}, nil
}

func completedRun() *model.ModelRun {
	return &model.ModelRun{
		ID:           "r1",
		Status:       model.RunCompleted,
		CashBalance:  600000,
		MonthlyBurn:  50000,
		RunwayMonths: 12,
		CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newController(t *testing.T, data *fakeData, llm llmprovider.Caller) pipeline.Controller {
	t.Helper()
	l := log.NewNop()
	return pipeline.New(l, pipeline.Deps{
		Classifier:   classifier.New(l, llm),
		Retriever:    retriever.New(l, data, nil),
		Planner:      plannerUC.New(l, data),
		Assembler:    assembler.New(l),
		Reasoner:     cfobrain.New(l),
		Probes:       data,
		ModelVersion: "v3",
	})
}

func TestProcessEmptyQuery(t *testing.T) {
	c := newController(t, &fakeData{run: completedRun()}, nil)

	_, err := c.Process(context.Background(), pipeline.QueryInput{
		Scope: model.Scope{OrgID: "org-1"},
		Query: "   ",
	})
	assert.ErrorIs(t, err, intent.ErrEmptyQuery)
}

func TestProcessMissingOrg(t *testing.T) {
	c := newController(t, &fakeData{run: completedRun()}, nil)

	_, err := c.Process(context.Background(), pipeline.QueryInput{Query: "what is our runway"})
	assert.ErrorIs(t, err, pipeline.ErrMissingOrg)
}

type countingCaller struct {
	calls int
	fn    func() (*llmprovider.Response, error)
}

func (c *countingCaller) Call(_ context.Context, _ *llmprovider.Request) (*llmprovider.Response, error) {
	c.calls++
	return c.fn()
}

func TestProcessMetaShortCircuit(t *testing.T) {
	llm := &countingCaller{fn: func() (*llmprovider.Response, error) {
		return &llmprovider.Response{Content: `{"intent":"runway_calculation","confidence":0.9}`}, nil
	}}
	c := newController(t, &fakeData{run: completedRun()}, llm)

	out, err := c.Process(context.Background(), pipeline.QueryInput{
		Scope: model.Scope{OrgID: "org-1"},
		Query: "Connect accounting system?",
	})
	require.NoError(t, err)
	assert.Equal(t, pipeline.PathMeta, out.Path)
	assert.Equal(t, 0, llm.calls, "meta queries bypass classification entirely")
	require.NotEmpty(t, out.Response.Recommendations)
	assert.Equal(t, "meta_answer", out.Response.Recommendations[0].Type)
}

func TestProcessRunwayEndToEnd(t *testing.T) {
	c := newController(t, &fakeData{run: completedRun()}, nil)

	out, err := c.Process(context.Background(), pipeline.QueryInput{
		Scope: model.Scope{OrgID: "org-1", UserID: "u1"},
		Query: "Cash is $600,000 and burn is $50,000/month, what is our runway?",
	})
	require.NoError(t, err)

	assert.Equal(t, intent.RunwayCalculation, out.Response.Intent)
	assert.InDelta(t, 12.0, out.Response.Calculations["runway"], 1e-9)
	assert.InDelta(t, 12.0, out.Response.Calculations["calculate_runway"], 1e-9)
	assert.NotEmpty(t, out.Response.RequestID)
	assert.Equal(t, pipeline.PathFallback, out.Path, "pattern classification counts as fallback")
}

func TestProcessApprovalBlocked(t *testing.T) {
	c := newController(t, &fakeData{run: completedRun()}, nil)

	// 40k burn moves runway from 12 to 15 months, past the approval gate.
	out, err := c.Process(context.Background(), pipeline.QueryInput{
		Scope: model.Scope{OrgID: "org-1"},
		Query: "set burn to $40,000 per month",
	})
	require.NoError(t, err)
	assert.Equal(t, intent.AssumptionEdit, out.Response.Intent)

	var execBlocked bool
	for _, s := range out.Stages {
		if s.Stage == pipeline.StageExecution && !s.OK {
			execBlocked = true
			assert.Contains(t, s.Degraded, "approval")
		}
	}
	assert.True(t, execBlocked, "execution stage must report the approval block")
	assert.Empty(t, out.Response.Calculations, "blocked actions never execute")
	assert.NotEmpty(t, out.Response.Warnings)
}

func TestProcessDegradedGroundingStillAnswers(t *testing.T) {
	// No model run: grounding validation fails, the reasoner answers.
	c := newController(t, &fakeData{run: nil}, nil)

	out, err := c.Process(context.Background(), pipeline.QueryInput{
		Scope: model.Scope{OrgID: "org-1"},
		Query: "What is our runway?",
	})
	require.NoError(t, err)

	assert.Equal(t, pipeline.PathFallback, out.Path)
	assert.GreaterOrEqual(t, len(out.Response.Recommendations), 3,
		"degraded pipeline still returns a full recommendation set")
	require.NotEmpty(t, out.Response.Recommendations)
	assert.Contains(t, out.Response.Recommendations[0].DataSources, "industry_baseline")
}

func TestRateLimitBreakerSkipsAIWithinCooldown(t *testing.T) {
	inner := &countingCaller{fn: func() (*llmprovider.Response, error) {
		return nil, &llmprovider.ProviderError{Provider: "stub", Err: llmprovider.ErrProviderRateLimited}
	}}
	state := pipeline.NewRateLimitState(60 * time.Second)
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	now := base
	state.SetClock(func() time.Time { return now })

	guarded := pipeline.NewGuardedCaller(inner, state)
	c := newController(t, &fakeData{run: completedRun()}, guarded)
	ctx := context.Background()
	input := pipeline.QueryInput{
		Scope: model.Scope{OrgID: "org-1"},
		Query: "What is our runway?",
	}

	// First request hits the provider, detects the rate limit, trips.
	out, err := c.Process(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, pipeline.PathFallback, out.Path)

	// Second request within the window never attempts the external call.
	now = base.Add(30 * time.Second)
	out, err = c.Process(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "AI path must be skipped during cooldown")
	assert.Equal(t, intent.RunwayCalculation, out.Response.Intent,
		"fallback still answers the question")

	// After the cooldown elapses the AI path is attempted again.
	now = base.Add(61 * time.Second)
	_, err = c.Process(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitStateLastWriterWins(t *testing.T) {
	state := pipeline.NewRateLimitState(60 * time.Second)
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	now := base
	state.SetClock(func() time.Time { return now })

	state.Trip()
	now = base.Add(50 * time.Second)
	state.Trip() // extends the window

	now = base.Add(70 * time.Second)
	assert.True(t, state.Active(), "second trip restarted the cooldown")

	now = base.Add(111 * time.Second)
	assert.False(t, state.Active())
}

type scriptedWorker struct {
	enqueued int
	job      pipeline.GenerationJob
	statuses []string
	result   string
	polls    int
}

func (w *scriptedWorker) EnqueueGeneration(_ context.Context, job pipeline.GenerationJob) (string, error) {
	w.enqueued++
	w.job = job
	return "job-1", nil
}

func (w *scriptedWorker) JobStatus(_ context.Context, _ string) (string, string, error) {
	i := w.polls
	if i >= len(w.statuses) {
		i = len(w.statuses) - 1
	}
	w.polls++
	status := w.statuses[i]
	if status == pipeline.JobCompleted {
		return status, w.result, nil
	}
	return status, "", nil
}

func newAsyncController(t *testing.T, data *fakeData, llm llmprovider.Caller, worker pipeline.AsyncWorker) pipeline.Controller {
	t.Helper()
	l := log.NewNop()
	return pipeline.New(l, pipeline.Deps{
		Classifier:   classifier.New(l, llm),
		Retriever:    retriever.New(l, data, nil),
		Planner:      plannerUC.New(l, data),
		Assembler:    assembler.New(l),
		Reasoner:     cfobrain.New(l),
		Probes:       data,
		Async:        worker,
		ModelVersion: "v3",
		PollInterval: time.Millisecond,
		PollAttempts: 3,
	})
}

func TestProcessAsyncNarrativeCompletes(t *testing.T) {
	llm := &countingCaller{fn: func() (*llmprovider.Response, error) {
		return &llmprovider.Response{
			Content:   `{"intent":"runway_calculation","confidence":0.95}`,
			ModelName: "gemini-2.5-flash",
		}, nil
	}}
	worker := &scriptedWorker{
		statuses: []string{"pending", "pending", pipeline.JobCompleted},
		result:   "Runway is 12 months at current burn.",
	}
	c := newAsyncController(t, &fakeData{run: completedRun()}, llm, worker)

	out, err := c.Process(context.Background(), pipeline.QueryInput{
		Scope: model.Scope{OrgID: "org-1"},
		Query: "What is our runway?",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, worker.enqueued)
	require.NotEmpty(t, worker.job.Calculations, "execution results travel with the job")
	assert.InDelta(t, 12.0, worker.job.Calculations["calculate_runway.runway_months"], 1e-9)

	var narrative *model.Recommendation
	for i := range out.Response.Recommendations {
		if out.Response.Recommendations[i].Type == "ai_narrative" {
			narrative = &out.Response.Recommendations[i]
		}
	}
	require.NotNil(t, narrative, "completed job contributes the narrative")
	assert.Equal(t, "Runway is 12 months at current burn.", narrative.Summary)
	assert.Equal(t, pipeline.PathAI, out.Path)
}

func TestProcessAsyncNonCompletionFallsBack(t *testing.T) {
	llm := &countingCaller{fn: func() (*llmprovider.Response, error) {
		return &llmprovider.Response{Content: `{"intent":"runway_calculation","confidence":0.95}`}, nil
	}}
	worker := &scriptedWorker{statuses: []string{"pending"}}
	c := newAsyncController(t, &fakeData{run: completedRun()}, llm, worker)

	out, err := c.Process(context.Background(), pipeline.QueryInput{
		Scope: model.Scope{OrgID: "org-1"},
		Query: "What is our runway?",
	})
	require.NoError(t, err, "worker non-completion is a degradation, not an error")
	assert.Equal(t, pipeline.PathFallback, out.Path)
	assert.NotEmpty(t, out.Response.Errors)

	assert.NotEmpty(t, out.Response.Recommendations,
		"a failed narrative still gets fallback recommendations")
	for _, rec := range out.Response.Recommendations {
		assert.NotEqual(t, "ai_narrative", rec.Type)
	}
}
