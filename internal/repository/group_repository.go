package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// GroupRepository reads course groups from the catalog.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs the repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns every group, or only those taught by instructorID when it is set.
func (r *GroupRepository) List(ctx context.Context, instructorID *string) ([]models.Group, error) {
	query := "SELECT id, subject_id, instructor_id, capacity FROM groups"
	var args []interface{}
	if instructorID != nil {
		query += " WHERE instructor_id = $1"
		args = append(args, *instructorID)
	}
	query += " ORDER BY id"

	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}
