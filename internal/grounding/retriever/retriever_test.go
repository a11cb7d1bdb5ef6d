package retriever_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/grounding/retriever"
	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/pkg/cache"
	"financial-query-pipeline/pkg/log"
)

type countingStore struct {
	modelCalls int
	planCalls  int
	auditCalls int
	txCalls    int

	failAll bool
	noRun   bool
}

func (s *countingStore) LatestModelRun(_ context.Context, orgID string) (*model.FinancialModel, *model.ModelRun, error) {
	s.modelCalls++
	if s.failAll {
		return nil, nil, errors.New("db down")
	}
	fm := &model.FinancialModel{ID: "m1", OrgID: orgID, Name: "base plan", Version: "v3"}
	if s.noRun {
		return fm, nil, nil
	}
	return fm, &model.ModelRun{
		ID:           "r1",
		ModelID:      "m1",
		OrgID:        orgID,
		Status:       model.RunCompleted,
		CashBalance:  600000,
		MonthlyBurn:  50000,
		RunwayMonths: 12,
		CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (s *countingStore) RecentPlans(_ context.Context, _ string, limit int) ([]grounding.PlanSummary, error) {
	s.planCalls++
	if s.failAll {
		return nil, errors.New("db down")
	}
	plans := []grounding.PlanSummary{
		{ID: "p1", Goal: "extend runway to 18 months", Status: "completed", CreatedAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p2", Goal: "reduce cloud spend", Status: "completed", CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	if len(plans) > limit {
		plans = plans[:limit]
	}
	return plans, nil
}

func (s *countingStore) RecentAuditEntries(_ context.Context, orgID, _ string, _ int) ([]model.AuditEntry, error) {
	s.auditCalls++
	if s.failAll {
		return nil, errors.New("db down")
	}
	return []model.AuditEntry{
		{ID: "a1", OrgID: orgID, Action: "assumption_edit", Detail: "burn 55000 -> 50000", CreatedAt: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
	}, nil
}

func (s *countingStore) TransactionAggregates(_ context.Context, orgID string, years []int) ([]model.TransactionAggregate, error) {
	s.txCalls++
	if s.failAll {
		return nil, errors.New("db down")
	}
	out := make([]model.TransactionAggregate, 0, len(years))
	for _, y := range years {
		out = append(out, model.TransactionAggregate{
			OrgID: orgID, Year: y, Inflow: 900000, Outflow: 600000, Count: 1200,
		})
	}
	return out, nil
}

func TestRetrieveRanksModelStateFirst(t *testing.T) {
	store := &countingStore{}
	r := retriever.New(log.NewNop(), store, nil)

	gc, err := r.Retrieve(context.Background(), "org-1", intent.RunwayCalculation, nil, 0)
	require.NoError(t, err)

	require.NotEmpty(t, gc.Evidence)
	assert.Equal(t, grounding.DocModelAssumption, gc.Evidence[0].DocType)
	assert.LessOrEqual(t, len(gc.Evidence), 5)
	require.NotNil(t, gc.ModelState)
	assert.Equal(t, 600000.0, gc.ModelState.CashBalance)
	assert.Greater(t, gc.Confidence, 0.5)
}

func TestRetrieveTopK(t *testing.T) {
	store := &countingStore{}
	r := retriever.New(log.NewNop(), store, nil)

	gc, err := r.Retrieve(context.Background(), "org-1", intent.RunwayCalculation, nil, 2)
	require.NoError(t, err)
	assert.Len(t, gc.Evidence, 2)
}

func TestRetrieveMissingOrg(t *testing.T) {
	r := retriever.New(log.NewNop(), &countingStore{}, nil)

	_, err := r.Retrieve(context.Background(), "", intent.RunwayCalculation, nil, 0)
	assert.ErrorIs(t, err, grounding.ErrMissingOrg)
}

func TestRetrieveCacheHitSkipsProbes(t *testing.T) {
	store := &countingStore{}
	r := retriever.New(log.NewNop(), store, cache.NewMemory(retriever.CacheTTL))
	ctx := context.Background()

	first, err := r.Retrieve(ctx, "org-1", intent.RunwayCalculation, nil, 0)
	require.NoError(t, err)

	second, err := r.Retrieve(ctx, "org-1", intent.RunwayCalculation, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, store.modelCalls, "second retrieval must not re-probe")
	assert.Equal(t, 1, store.planCalls)
	assert.Equal(t, 1, store.auditCalls)
	assert.Equal(t, 1, store.txCalls)

	a, err := json.Marshal(first.Evidence)
	require.NoError(t, err)
	b, err := json.Marshal(second.Evidence)
	require.NoError(t, err)
	assert.Equal(t, a, b, "cached evidence must be identical")
}

func TestRetrieveCacheKeyedByOrgAndIntent(t *testing.T) {
	store := &countingStore{}
	r := retriever.New(log.NewNop(), store, cache.NewMemory(retriever.CacheTTL))
	ctx := context.Background()

	_, err := r.Retrieve(ctx, "org-1", intent.RunwayCalculation, nil, 0)
	require.NoError(t, err)
	_, err = r.Retrieve(ctx, "org-1", intent.BurnRateCalculation, nil, 0)
	require.NoError(t, err)
	_, err = r.Retrieve(ctx, "org-2", intent.RunwayCalculation, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, store.modelCalls, "each (org, intent) pair probes once")
}

func TestRetrieveDegradesOnProbeFailure(t *testing.T) {
	store := &countingStore{failAll: true}
	r := retriever.New(log.NewNop(), store, nil)

	gc, err := r.Retrieve(context.Background(), "org-1", intent.RunwayCalculation, nil, 0)
	require.NoError(t, err, "probe failures degrade, they do not fail retrieval")
	assert.Empty(t, gc.Evidence)
	assert.Nil(t, gc.ModelState)
	assert.Equal(t, 0.5, gc.Confidence)
}

func TestValidateGrounding(t *testing.T) {
	r := retriever.New(log.NewNop(), &countingStore{}, nil)
	run := &model.ModelRun{ID: "r1", Status: model.RunCompleted}
	docs := []grounding.EvidenceDocument{
		{ID: "e1", RelevanceScore: 0.85},
		{ID: "e2", RelevanceScore: 0.75},
	}

	t.Run("sufficient", func(t *testing.T) {
		v := r.ValidateGrounding(grounding.Context{Evidence: docs, ModelState: run, Confidence: 0.8}, 0)
		assert.True(t, v.Sufficient)
		assert.Empty(t, v.Reasons)
	})

	t.Run("too little evidence", func(t *testing.T) {
		v := r.ValidateGrounding(grounding.Context{Evidence: docs[:1], ModelState: run, Confidence: 0.8}, 0)
		assert.False(t, v.Sufficient)
		require.NotEmpty(t, v.Reasons)
		assert.Contains(t, v.Reasons[0], "evidence")
	})

	t.Run("low confidence", func(t *testing.T) {
		v := r.ValidateGrounding(grounding.Context{Evidence: docs, ModelState: run, Confidence: 0.4}, 0)
		assert.False(t, v.Sufficient)
	})

	t.Run("no model run", func(t *testing.T) {
		v := r.ValidateGrounding(grounding.Context{Evidence: docs, Confidence: 0.8}, 0)
		assert.False(t, v.Sufficient)
		assert.Contains(t, v.Reasons[0], "model run")
	})
}
