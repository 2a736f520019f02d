package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

func newImportService(repo *studentRepoStub) *ExportService {
	return NewExportService(repo, &interactionRepoStub{}, nil, nil, nil, ExportConfig{}, nil, nil, nil)
}

func dtoCreateExport(exportType, format string) dto.CreateExportRequest {
	return dto.CreateExportRequest{Type: exportType, Format: format}
}

func TestExportServiceImportStudentsCSV(t *testing.T) {
	repo := &studentRepoStub{}
	service := newImportService(repo)

	csvData := strings.Join([]string{
		"first_name,last_name,email,program,cohort",
		"Ada,Lovelace,ada@example.com,foundations,4",
		"Grace,Hopper,grace@example.com,liftoff,",
	}, "\n")

	result, err := service.ImportStudentsCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)
	require.Len(t, repo.created, 2)
	assert.Equal(t, "ada@example.com", repo.created[0].Email)
	require.NotNil(t, repo.created[0].Cohort)
	assert.Equal(t, 4, *repo.created[0].Cohort)
	assert.Nil(t, repo.created[1].Cohort)
	assert.True(t, repo.created[0].Active)
}

func TestExportServiceImportStudentsCSVReportsRowErrors(t *testing.T) {
	repo := &studentRepoStub{}
	service := newImportService(repo)

	csvData := strings.Join([]string{
		"first_name,last_name,email,program,cohort",
		"Ada,Lovelace,ada@example.com,foundations,4",
		",Missing,first@example.com,foundations,",
		"Bad,Email,not-an-email,foundations,",
		"Bad,Cohort,cohort@example.com,foundations,zero",
	}, "\n")

	result, err := service.ImportStudentsCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 3, result.Skipped)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Contains(t, result.Errors[1].Reason, "email")
	assert.Contains(t, result.Errors[2].Reason, "cohort")
}

func TestExportServiceImportStudentsCSVSkipsDuplicates(t *testing.T) {
	repo := &studentRepoStub{emailTaken: true}
	service := newImportService(repo)

	csvData := "first_name,last_name,email,program\nAda,Lovelace,ada@example.com,foundations\n"
	result, err := service.ImportStudentsCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Reason, "already registered")
}

func TestExportServiceImportStudentsCSVRequiresColumns(t *testing.T) {
	service := newImportService(&studentRepoStub{})

	_, err := service.ImportStudentsCSV(context.Background(), strings.NewReader("first_name,last_name\nAda,Lovelace\n"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceCreateValidatesTypeAndActor(t *testing.T) {
	service := newImportService(&studentRepoStub{})

	_, err := service.Create(context.Background(), dtoCreateExport("STUDENTS", "CSV"), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), dtoCreateExport("UNKNOWN", "CSV"), &models.JWTClaims{UserID: "usr-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceBuildStudentDataset(t *testing.T) {
	cohort := 4
	repo := &studentRepoStub{students: []models.StudentWithLastInteraction{
		{Student: models.Student{ID: "stu-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Program: "foundations", Cohort: &cohort, Active: true}},
	}}
	service := newImportService(repo)

	dataset, title, err := service.buildDataset(context.Background(), models.ExportTypeStudents)
	require.NoError(t, err)
	assert.Equal(t, "Students", title)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "Ada", dataset.Rows[0]["First Name"])
	assert.Equal(t, "4", dataset.Rows[0]["Cohort"])
	assert.Equal(t, "", dataset.Rows[0]["Last Interaction"])
}
