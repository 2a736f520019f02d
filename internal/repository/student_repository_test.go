package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "program", "cohort", "active", "created_at", "updated_at"}).
		AddRow("stu-1", "Ada", "Lovelace", "ada@example.com", "foundations", 4, true, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT s.id, s.first_name, s.last_name, s.email, s.program, s.cohort, s.active, s.created_at, s.updated_at\s+FROM students s WHERE 1=1 AND LOWER\(s.program\) = LOWER\(\$1\) ORDER BY s.created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs("foundations").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students s WHERE 1=1 AND LOWER\(s.program\) = LOWER\(\$1\)`).
		WithArgs("foundations").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Program: "foundations"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Ada", students[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListWithLastInteraction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	contacted := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "program", "cohort", "active", "created_at", "updated_at", "last_interaction_at"}).
		AddRow("stu-1", "Ada", "Lovelace", "ada@example.com", "foundations", 4, true, time.Now(), time.Now(), contacted).
		AddRow("stu-2", "Grace", "Hopper", "grace@example.com", "liftoff", nil, true, time.Now(), time.Now(), nil)
	mock.ExpectQuery(`FROM students s\s+LEFT JOIN \(\s+SELECT student_id, MAX\(created_at\) AS last_interaction_at`).
		WillReturnRows(rows)

	students, err := repo.ListWithLastInteraction(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.NotNil(t, students[0].LastInteractionAt)
	assert.Equal(t, contacted, students[0].LastInteractionAt.UTC())
	assert.Nil(t, students[1].LastInteractionAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Program: "foundations", Active: true}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM students WHERE LOWER\(email\) = LOWER\(\$1\) LIMIT 1`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByEmail(context.Background(), "ada@example.com", "")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`UPDATE students SET active = false`).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "stu-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
