package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// DropoutRepository reads per-enrollment dropout records.
type DropoutRepository struct {
	db *sqlx.DB
}

// NewDropoutRepository constructs the repository.
func NewDropoutRepository(db *sqlx.DB) *DropoutRepository {
	return &DropoutRepository{db: db}
}

// ListByEnrollments returns up to limit dropout records for enrollmentIDs, most recent
// first. Same-day records are ordered by insertion time, then enrollment. Records without a
// reason are included; callers decide how to treat them.
func (r *DropoutRepository) ListByEnrollments(ctx context.Context, enrollmentIDs []string, limit int) ([]models.DropoutRecord, error) {
	if len(enrollmentIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT enrollment_id, reason, dropout_date FROM dropout_records WHERE enrollment_id = ANY($1) ORDER BY dropout_date DESC, created_at DESC, enrollment_id LIMIT $2`
	var records []models.DropoutRecord
	if err := r.db.SelectContext(ctx, &records, query, pq.Array(enrollmentIDs), limit); err != nil {
		return nil, fmt.Errorf("list dropout records: %w", err)
	}
	return records, nil
}
