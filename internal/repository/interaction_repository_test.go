package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

func TestInteractionRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "staff_id", "type", "notes", "archived",
		"follow_up_required", "follow_up_date", "follow_up_to_staff", "follow_up_sent", "created_at", "updated_at",
		"student_name", "student_email", "staff_name", "staff_email"}).
		AddRow("int-1", "stu-1", "usr-1", "CALL", "checked in", false,
			true, "2025-06-10", true, false, time.Now(), time.Now(),
			"Ada Lovelace", "ada@example.com", "Case Manager", "cm@example.com")
	mock.ExpectQuery(`SELECT i.id, i.student_id, i.staff_id, i.type`).
		WithArgs("stu-1").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM interactions i`).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	interactions, total, err := repo.List(context.Background(), models.InteractionFilter{StudentID: "stu-1"})
	require.NoError(t, err)
	assert.Len(t, interactions, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Ada Lovelace", interactions[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	mock.ExpectExec("INSERT INTO interactions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	interaction := &models.Interaction{StudentID: "stu-1", StaffID: "usr-1", Type: models.InteractionTypeCall, Notes: "intro call"}
	err := repo.Create(context.Background(), interaction)
	require.NoError(t, err)
	assert.NotEmpty(t, interaction.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepositoryArchive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	mock.ExpectExec(`UPDATE interactions SET archived = true`).
		WithArgs("int-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Archive(context.Background(), "int-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepositoryListDueFollowUps(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	rows := sqlmock.NewRows([]string{"interaction_id", "student_id", "student_name", "student_email",
		"staff_name", "staff_email", "to_staff", "notes", "follow_up_date"}).
		AddRow("int-1", "stu-1", "Ada Lovelace", "ada@example.com", "Case Manager", "cm@example.com", true, "call back", "2025-06-01")
	mock.ExpectQuery(`AND i.follow_up_date <= \$1\s+ORDER BY i.follow_up_date ASC`).
		WithArgs("2025-06-05").
		WillReturnRows(rows)

	due, err := repo.ListDueFollowUps(context.Background(), "2025-06-05")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "int-1", due[0].InteractionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepositoryMarkFollowUpSent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	mock.ExpectExec(`UPDATE interactions SET follow_up_sent = true`).
		WithArgs("int-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFollowUpSent(context.Background(), "int-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
