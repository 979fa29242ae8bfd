package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const findInstructorQuery = "SELECT id, email, active FROM instructors WHERE LOWER(email) = LOWER($1) AND active = TRUE LIMIT 1"

func TestInstructorRepositoryFindIDByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(findInstructorQuery)).
		WithArgs("Teacher@School.Example").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "active"}).AddRow("ins-1", "teacher@school.example", true))

	id, found, err := repo.FindIDByEmail(context.Background(), "Teacher@School.Example")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ins-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorRepositoryFindIDByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(findInstructorQuery)).
		WithArgs("ghost@school.example").
		WillReturnError(sql.ErrNoRows)

	id, found, err := repo.FindIDByEmail(context.Background(), "ghost@school.example")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, id)
}
