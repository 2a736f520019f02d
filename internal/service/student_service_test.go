package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/formula"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

type studentRepoStub struct {
	students   []models.StudentWithLastInteraction
	listErr    error
	emailTaken bool
	created    []*models.Student
}

func (s *studentRepoStub) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	plain := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		plain = append(plain, st.Student)
	}
	return plain, len(plain), nil
}

func (s *studentRepoStub) ListWithLastInteraction(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithLastInteraction, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.students, nil
}

func (s *studentRepoStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for _, st := range s.students {
		if st.ID == id {
			found := st.Student
			return &found, nil
		}
	}
	return nil, errNoStudent
}

func (s *studentRepoStub) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return s.emailTaken, nil
}

func (s *studentRepoStub) Create(ctx context.Context, student *models.Student) error {
	s.created = append(s.created, student)
	return nil
}

func (s *studentRepoStub) Update(ctx context.Context, student *models.Student) error { return nil }
func (s *studentRepoStub) Deactivate(ctx context.Context, id string) error           { return nil }

var errNoStudent = errors.New("sql: no rows in result set")

type formulaProviderStub struct {
	cfg       formula.Config
	defaulted bool
}

func (f formulaProviderStub) GetFormula(ctx context.Context) (formula.Config, bool) {
	return f.cfg, f.defaulted
}

func dueStudent(id string, program string, lastDaysAgo *int, now time.Time) models.StudentWithLastInteraction {
	st := models.StudentWithLastInteraction{
		Student: models.Student{ID: id, FirstName: id, LastName: "Student", Program: program, Active: true},
	}
	if lastDaysAgo != nil {
		ts := now.AddDate(0, 0, -*lastDaysAgo)
		st.LastInteractionAt = &ts
	}
	return st
}

func intPtr(v int) *int { return &v }

func TestStudentServiceNeedingInteractionOrdering(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := &studentRepoStub{students: []models.StudentWithLastInteraction{
		dueStudent("fresh", "foundations", intPtr(3), now),     // not due
		dueStudent("due", "foundations", intPtr(15), now),      // due, not priority
		dueStudent("priority", "foundations", intPtr(25), now), // due and escalated
		dueStudent("never", "foundations", nil, now),           // never contacted
		dueStudent("oldest", "foundations", intPtr(40), now),   // due and escalated, older
	}}
	service := NewStudentService(repo, formulaProviderStub{cfg: formula.DefaultConfig()}, validator.New(), nil)
	service.now = func() time.Time { return now }

	due := service.NeedingInteraction(context.Background())
	require.Len(t, due, 4)

	// Priority entries first; within priority never-contacted outranks all
	// finite day counts, then descending days.
	assert.Equal(t, "never", due[0].Student.ID)
	assert.True(t, due[0].NeverContacted)
	assert.Nil(t, due[0].DaysSinceLast)
	assert.Equal(t, "oldest", due[1].Student.ID)
	assert.Equal(t, "priority", due[2].Student.ID)
	assert.Equal(t, "due", due[3].Student.ID)
	assert.False(t, due[3].IsPriority)
	require.NotNil(t, due[3].DaysSinceLast)
	assert.Equal(t, 15, *due[3].DaysSinceLast)
}

func TestStudentServiceNeedingInteractionFailsOpen(t *testing.T) {
	repo := &studentRepoStub{listErr: errors.New("db down")}
	service := NewStudentService(repo, formulaProviderStub{cfg: formula.DefaultConfig()}, validator.New(), nil)

	due := service.NeedingInteraction(context.Background())
	assert.NotNil(t, due)
	assert.Empty(t, due)
}

func TestStudentServiceNeedingInteractionParsesProgramCaseInsensitively(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := &studentRepoStub{students: []models.StudentWithLastInteraction{
		dueStudent("upper", "Lightspeed", intPtr(8), now), // threshold 7
	}}
	service := NewStudentService(repo, formulaProviderStub{cfg: formula.DefaultConfig()}, validator.New(), nil)
	service.now = func() time.Time { return now }

	due := service.NeedingInteraction(context.Background())
	require.Len(t, due, 1)
	assert.Equal(t, "upper", due[0].Student.ID)
}

func TestStudentServiceCreateRejectsDuplicateEmail(t *testing.T) {
	repo := &studentRepoStub{emailTaken: true}
	service := NewStudentService(repo, formulaProviderStub{cfg: formula.DefaultConfig()}, validator.New(), nil)

	_, err := service.Create(context.Background(), dto.CreateStudentRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Program: "foundations",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestStudentServiceCreateNormalizesEmail(t *testing.T) {
	repo := &studentRepoStub{}
	service := NewStudentService(repo, formulaProviderStub{cfg: formula.DefaultConfig()}, validator.New(), nil)

	student, err := service.Create(context.Background(), dto.CreateStudentRequest{
		FirstName: " Ada ", LastName: "Lovelace", Email: "Ada@Example.com", Program: "foundations",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", student.Email)
	assert.Equal(t, "Ada", student.FirstName)
	assert.True(t, student.Active)
}
