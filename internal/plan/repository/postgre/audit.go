package postgre

import (
	"context"

	"financial-query-pipeline/internal/model"
	repo "financial-query-pipeline/internal/plan/repository"
)

// AppendAudit writes one immutable audit row. There is no update path.
func (r *implRepository) AppendAudit(ctx context.Context, entry model.AuditEntry) error {
	const query = `
		INSERT INTO audit_log (org_id, user_id, action, detail, created_at)
		VALUES ($1, $2, $3, $4, NOW())`

	if _, err := r.db.ExecContext(ctx, query, entry.OrgID, entry.UserID, entry.Action, entry.Detail); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("AppendAudit"), err)
		return repo.ErrFailedToInsert
	}
	return nil
}
