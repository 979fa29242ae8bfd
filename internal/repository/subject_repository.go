package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// SubjectRepository reads subject configuration relevant to grading.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// UnitCountsByGroups resolves each group's subject unit count. Groups whose subject is
// missing are returned with a nil UnitCount rather than dropped.
func (r *SubjectRepository) UnitCountsByGroups(ctx context.Context, groupIDs []string) ([]models.GroupUnitCount, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT g.id AS group_id, s.unit_count
        FROM groups g
        LEFT JOIN subjects s ON s.id = g.subject_id
        WHERE g.id = ANY($1)`
	var counts []models.GroupUnitCount
	if err := r.db.SelectContext(ctx, &counts, query, pq.Array(groupIDs)); err != nil {
		return nil, fmt.Errorf("list subject unit counts: %w", err)
	}
	return counts, nil
}
