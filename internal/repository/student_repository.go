package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StudentRepository reads institution-level student state.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// CountInactive returns how many students have permanently left the institution.
func (r *StudentRepository) CountInactive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM students WHERE active = FALSE`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count inactive students: %w", err)
	}
	return total, nil
}
