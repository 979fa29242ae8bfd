package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// EvaluationRepository reads per-unit scores.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs the repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// ListByEnrollments returns every evaluation recorded for enrollmentIDs.
func (r *EvaluationRepository) ListByEnrollments(ctx context.Context, enrollmentIDs []string) ([]models.Evaluation, error) {
	if len(enrollmentIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT id, enrollment_id, unit_number, score FROM evaluations WHERE enrollment_id = ANY($1)`
	var evaluations []models.Evaluation
	if err := r.db.SelectContext(ctx, &evaluations, query, pq.Array(enrollmentIDs)); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evaluations, nil
}
