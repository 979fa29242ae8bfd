package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// EnrollmentRepository reads student registrations in groups.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByGroups returns all enrollments, of any status, belonging to groupIDs.
func (r *EnrollmentRepository) ListByGroups(ctx context.Context, groupIDs []string) ([]models.Enrollment, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT id, student_id, group_id, status FROM enrollments WHERE group_id = ANY($1) ORDER BY id`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, pq.Array(groupIDs)); err != nil {
		return nil, fmt.Errorf("list group enrollments: %w", err)
	}
	return enrollments, nil
}

// WithdrawnStudentIDs returns the distinct students holding a withdrawn enrollment in groupIDs.
func (r *EnrollmentRepository) WithdrawnStudentIDs(ctx context.Context, groupIDs []string) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT DISTINCT student_id FROM enrollments WHERE group_id = ANY($1) AND status = $2`
	var studentIDs []string
	if err := r.db.SelectContext(ctx, &studentIDs, query, pq.Array(groupIDs), models.EnrollmentStatusWithdrawn); err != nil {
		return nil, fmt.Errorf("list withdrawn students: %w", err)
	}
	return studentIDs, nil
}
