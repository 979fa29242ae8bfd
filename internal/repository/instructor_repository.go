package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// InstructorRepository maps login identities onto instructor records.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs the repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// FindIDByEmail returns the active instructor id registered under email. The boolean is
// false when no such instructor exists.
func (r *InstructorRepository) FindIDByEmail(ctx context.Context, email string) (string, bool, error) {
	const query = `SELECT id, email, active FROM instructors WHERE LOWER(email) = LOWER($1) AND active = TRUE LIMIT 1`
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find instructor by email: %w", err)
	}
	return instructor.ID, true, nil
}
