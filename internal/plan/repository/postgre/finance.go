package postgre

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/model"
	repo "financial-query-pipeline/internal/plan/repository"
)

// LatestModelRun returns the org's newest financial model and its most
// recent completed run. A model without a completed run is (model, nil, nil).
func (r *implRepository) LatestModelRun(ctx context.Context, orgID string) (*model.FinancialModel, *model.ModelRun, error) {
	const modelQuery = `
		SELECT id, org_id, name, version, assumptions, created_at, updated_at
		FROM financial_models
		WHERE org_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`

	var (
		fm       model.FinancialModel
		assumpts []byte
	)
	err := r.db.QueryRowContext(ctx, modelQuery, orgID).Scan(
		&fm.ID, &fm.OrgID, &fm.Name, &fm.Version, &assumpts, &fm.CreatedAt, &fm.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("LatestModelRun"), err)
		return nil, nil, repo.ErrFailedToGet
	}
	if len(assumpts) > 0 {
		if err := json.Unmarshal(assumpts, &fm.Assumptions); err != nil {
			r.l.Warnf(ctx, "%s: bad assumptions payload for model %s: %v", r.dsn("LatestModelRun"), fm.ID, err)
		}
	}

	run, err := r.completedRun(ctx, `model_id = $1 AND org_id = $2`, fm.ID, orgID)
	if err != nil {
		return nil, nil, err
	}
	return &fm, run, nil
}

// ModelRunByID returns one completed run scoped to its org, or nil when absent.
func (r *implRepository) ModelRunByID(ctx context.Context, orgID, runID string) (*model.ModelRun, error) {
	return r.completedRun(ctx, `id = $1 AND org_id = $2`, runID, orgID)
}

func (r *implRepository) completedRun(ctx context.Context, where string, args ...any) (*model.ModelRun, error) {
	query := `
		SELECT id, model_id, org_id, status, cash_balance, monthly_burn, runway_months,
		       monthly_revenue, revenue_growth_pct,
		       COALESCE(top_expense_category, ''), COALESCE(top_expense_value, 0),
		       completed_at, created_at
		FROM model_runs
		WHERE ` + where + ` AND status = 'completed'
		ORDER BY created_at DESC
		LIMIT 1`

	var run model.ModelRun
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&run.ID, &run.ModelID, &run.OrgID, &run.Status, &run.CashBalance, &run.MonthlyBurn,
		&run.RunwayMonths, &run.MonthlyRevenue, &run.RevenueGrowthPct,
		&run.TopExpenseCategory, &run.TopExpenseValue, &run.CompletedAt, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("completedRun"), err)
		return nil, repo.ErrFailedToGet
	}
	return &run, nil
}

// RecentPlans returns slim summaries of the org's newest plans for grounding.
func (r *implRepository) RecentPlans(ctx context.Context, orgID string, limit int) ([]grounding.PlanSummary, error) {
	const query = `
		SELECT id, goal, status, created_at
		FROM plans
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, orgID, limit)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("RecentPlans"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var summaries []grounding.PlanSummary
	for rows.Next() {
		var s grounding.PlanSummary
		if err := rows.Scan(&s.ID, &s.Goal, &s.Status, &s.CreatedAt); err != nil {
			return nil, repo.ErrFailedToList
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// RecentAuditEntries returns the newest audit rows for an action.
func (r *implRepository) RecentAuditEntries(ctx context.Context, orgID, action string, limit int) ([]model.AuditEntry, error) {
	const query = `
		SELECT id, org_id, user_id, action, detail, created_at
		FROM audit_log
		WHERE org_id = $1 AND action = $2
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, orgID, action, limit)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("RecentAuditEntries"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.OrgID, &e.UserID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, repo.ErrFailedToList
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// TransactionAggregates summarizes the org's transactions per calendar year.
func (r *implRepository) TransactionAggregates(ctx context.Context, orgID string, years []int) ([]model.TransactionAggregate, error) {
	const query = `
		SELECT EXTRACT(YEAR FROM occurred_at)::int AS year,
		       COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0)  AS inflow,
		       COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0) AS outflow,
		       COUNT(*) AS count
		FROM transactions
		WHERE org_id = $1 AND EXTRACT(YEAR FROM occurred_at)::int = ANY($2)
		GROUP BY year
		ORDER BY year DESC`

	rows, err := r.db.QueryContext(ctx, query, orgID, pq.Array(years))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("TransactionAggregates"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var aggs []model.TransactionAggregate
	for rows.Next() {
		agg := model.TransactionAggregate{OrgID: orgID}
		if err := rows.Scan(&agg.Year, &agg.Inflow, &agg.Outflow, &agg.Count); err != nil {
			return nil, repo.ErrFailedToList
		}
		aggs = append(aggs, agg)
	}
	return aggs, nil
}

// ConnectorStatuses lists the org's external data connections.
func (r *implRepository) ConnectorStatuses(ctx context.Context, orgID string) ([]model.ConnectorStatus, error) {
	const query = `
		SELECT provider, connected, last_sync_at
		FROM connectors
		WHERE org_id = $1
		ORDER BY provider`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ConnectorStatuses"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var statuses []model.ConnectorStatus
	for rows.Next() {
		var cs model.ConnectorStatus
		if err := rows.Scan(&cs.Provider, &cs.Connected, &cs.LastSyncAt); err != nil {
			return nil, repo.ErrFailedToList
		}
		statuses = append(statuses, cs)
	}
	return statuses, nil
}

// TransactionCount returns how many transactions the org has recorded.
func (r *implRepository) TransactionCount(ctx context.Context, orgID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE org_id = $1`, orgID).Scan(&count)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("TransactionCount"), err)
		return 0, repo.ErrFailedToGet
	}
	return count, nil
}

// Overview returns the dashboard headline numbers from the latest
// completed run, or nil when the org has none.
func (r *implRepository) Overview(ctx context.Context, orgID string) (*model.OverviewMetrics, error) {
	const query = `
		SELECT cash_balance, monthly_burn, runway_months, monthly_revenue
		FROM model_runs
		WHERE org_id = $1 AND status = 'completed'
		ORDER BY created_at DESC
		LIMIT 1`

	var m model.OverviewMetrics
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(
		&m.CashBalance, &m.MonthlyBurn, &m.RunwayMonths, &m.MonthlyRevenue,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Overview"), err)
		return nil, repo.ErrFailedToGet
	}
	return &m, nil
}
