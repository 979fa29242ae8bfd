package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// AuditRepository reads the append-only audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecentWithdrawals returns up to limit student withdrawal entries, most recent first.
func (r *AuditRepository) RecentWithdrawals(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	const query = `SELECT action, detail, reason, created_at FROM audit_logs WHERE action = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	var entries []models.AuditLogEntry
	if err := r.db.SelectContext(ctx, &entries, query, models.AuditActionStudentWithdraw, limit); err != nil {
		return nil, fmt.Errorf("list withdrawal audit logs: %w", err)
	}
	return entries, nil
}
