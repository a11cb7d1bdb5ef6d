package postgre

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/plan"
	repo "financial-query-pipeline/internal/plan/repository"
)

const planColumns = `id, org_id, user_id, goal, status, COALESCE(model_run_id, ''), response, created_at, updated_at`

// CreatePlan inserts a plan row and returns the created record.
func (r *implRepository) CreatePlan(ctx context.Context, opt repo.CreatePlanOptions) (plan.Record, error) {
	const query = `
		INSERT INTO plans (org_id, user_id, goal, status, model_run_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW(), NOW())
		RETURNING ` + planColumns

	record, err := r.scanPlan(r.db.QueryRowContext(ctx, query,
		opt.OrgID, opt.UserID, opt.Goal, opt.Status, opt.ModelRunID,
	))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreatePlan"), err)
		return plan.Record{}, repo.ErrFailedToInsert
	}
	return record, nil
}

// GetOnePlan retrieves one plan scoped to its org. Not-found returns a
// zero-value record (ID == ""), not an error.
func (r *implRepository) GetOnePlan(ctx context.Context, opt repo.GetOnePlanOptions) (plan.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans WHERE id = $1 AND org_id = $2 LIMIT 1`, planColumns)

	record, err := r.scanPlan(r.db.QueryRowContext(ctx, query, opt.ID, opt.OrgID))
	if err == sql.ErrNoRows {
		return plan.Record{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOnePlan"), err)
		return plan.Record{}, repo.ErrFailedToGet
	}
	return record, nil
}

// ListPlans returns a page of the org's plans, newest first, plus the
// total count.
func (r *implRepository) ListPlans(ctx context.Context, opt repo.ListPlansOptions) ([]plan.Record, int, error) {
	where := `org_id = $1`
	args := []any{opt.OrgID}
	if opt.Status != "" {
		where += ` AND status = $2`
		args = append(args, opt.Status)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM plans WHERE %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListPlans"), err)
		return nil, 0, repo.ErrFailedToList
	}

	query := fmt.Sprintf(
		`SELECT %s FROM plans WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		planColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, opt.Limit, opt.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListPlans"), err)
		return nil, 0, repo.ErrFailedToList
	}
	defer rows.Close()

	var records []plan.Record
	for rows.Next() {
		record, err := r.scanPlan(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListPlans"), err)
			return nil, 0, repo.ErrFailedToList
		}
		records = append(records, record)
	}
	return records, total, nil
}

// UpdatePlan sets the status and, when present, the structured response.
func (r *implRepository) UpdatePlan(ctx context.Context, opt repo.UpdatePlanOptions) (plan.Record, error) {
	var respJSON any
	if opt.Response != nil {
		raw, err := json.Marshal(opt.Response)
		if err != nil {
			r.l.Errorf(ctx, "%s marshal: %v", r.dsn("UpdatePlan"), err)
			return plan.Record{}, repo.ErrFailedToUpdate
		}
		respJSON = raw
	}

	query := `
		UPDATE plans
		SET status = $1, response = COALESCE($2, response), updated_at = NOW()
		WHERE id = $3 AND org_id = $4
		RETURNING ` + planColumns

	record, err := r.scanPlan(r.db.QueryRowContext(ctx, query, opt.Status, respJSON, opt.ID, opt.OrgID))
	if err == sql.ErrNoRows {
		return plan.Record{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdatePlan"), err)
		return plan.Record{}, repo.ErrFailedToUpdate
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *implRepository) scanPlan(row rowScanner) (plan.Record, error) {
	var (
		record   plan.Record
		respJSON []byte
	)
	err := row.Scan(
		&record.ID, &record.OrgID, &record.UserID, &record.Goal, &record.Status,
		&record.ModelRunID, &respJSON, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return plan.Record{}, err
	}
	if len(respJSON) > 0 {
		var resp assembler.StructuredResponse
		if err := json.Unmarshal(respJSON, &resp); err != nil {
			return plan.Record{}, fmt.Errorf("decode response: %w", err)
		}
		record.Response = &resp
	}
	return record, nil
}
