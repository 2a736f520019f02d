package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

type interactionRepoStub struct {
	byID       map[string]*models.Interaction
	created    []*models.Interaction
	updated    []*models.Interaction
	archived   []string
	markedSent []string
}

func (s *interactionRepoStub) List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionDetail, int, error) {
	return nil, 0, nil
}

func (s *interactionRepoStub) FindByID(ctx context.Context, id string) (*models.Interaction, error) {
	if interaction, ok := s.byID[id]; ok {
		copied := *interaction
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *interactionRepoStub) Create(ctx context.Context, interaction *models.Interaction) error {
	s.created = append(s.created, interaction)
	return nil
}

func (s *interactionRepoStub) Update(ctx context.Context, interaction *models.Interaction) error {
	s.updated = append(s.updated, interaction)
	return nil
}

func (s *interactionRepoStub) Archive(ctx context.Context, id string) error {
	s.archived = append(s.archived, id)
	return nil
}

func (s *interactionRepoStub) MarkFollowUpSent(ctx context.Context, id string) error {
	s.markedSent = append(s.markedSent, id)
	return nil
}

type studentReaderStub struct {
	known map[string]bool
}

func (s studentReaderStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s.known[id] {
		return &models.Student{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

func TestInteractionServiceCreate(t *testing.T) {
	repo := &interactionRepoStub{}
	service := NewInteractionService(repo, studentReaderStub{known: map[string]bool{"stu-1": true}}, validator.New(), nil)

	interaction, err := service.Create(context.Background(), dto.CreateInteractionRequest{
		StudentID:        "stu-1",
		Type:             "call",
		Notes:            "intro call",
		FollowUpRequired: true,
		FollowUpDate:     "2025-07-01",
	}, &models.JWTClaims{UserID: "usr-1"})
	require.Error(t, err) // oneof validation is case-sensitive

	interaction, err = service.Create(context.Background(), dto.CreateInteractionRequest{
		StudentID:        "stu-1",
		Type:             "CALL",
		Notes:            "intro call",
		FollowUpRequired: true,
		FollowUpDate:     "2025-07-01",
	}, &models.JWTClaims{UserID: "usr-1"})
	require.NoError(t, err)
	assert.Equal(t, "usr-1", interaction.StaffID)
	assert.Equal(t, models.InteractionTypeCall, interaction.Type)
	assert.Len(t, repo.created, 1)
}

func TestInteractionServiceCreateRequiresFollowUpDate(t *testing.T) {
	service := NewInteractionService(&interactionRepoStub{}, studentReaderStub{known: map[string]bool{"stu-1": true}}, validator.New(), nil)

	_, err := service.Create(context.Background(), dto.CreateInteractionRequest{
		StudentID:        "stu-1",
		Type:             "EMAIL",
		FollowUpRequired: true,
	}, &models.JWTClaims{UserID: "usr-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestInteractionServiceCreateUnknownStudent(t *testing.T) {
	service := NewInteractionService(&interactionRepoStub{}, studentReaderStub{}, validator.New(), nil)

	_, err := service.Create(context.Background(), dto.CreateInteractionRequest{
		StudentID: "stu-missing",
		Type:      "CALL",
	}, &models.JWTClaims{UserID: "usr-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInteractionServiceUpdateRejectsArchived(t *testing.T) {
	repo := &interactionRepoStub{byID: map[string]*models.Interaction{
		"int-1": {ID: "int-1", Archived: true},
	}}
	service := NewInteractionService(repo, studentReaderStub{}, validator.New(), nil)

	notes := "edited"
	_, err := service.Update(context.Background(), "int-1", dto.UpdateInteractionRequest{Notes: &notes})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.updated)
}

func TestInteractionServiceUpdateClearsFollowUpWhenDisabled(t *testing.T) {
	repo := &interactionRepoStub{byID: map[string]*models.Interaction{
		"int-1": {
			ID:               "int-1",
			FollowUpRequired: true,
			FollowUpDate:     "2025-07-01",
			FollowUpToStaff:  true,
			FollowUpSent:     true,
		},
	}}
	service := NewInteractionService(repo, studentReaderStub{}, validator.New(), nil)

	disabled := false
	updated, err := service.Update(context.Background(), "int-1", dto.UpdateInteractionRequest{FollowUpRequired: &disabled})
	require.NoError(t, err)
	assert.False(t, updated.FollowUpRequired)
	assert.Empty(t, updated.FollowUpDate)
	assert.False(t, updated.FollowUpToStaff)
	assert.False(t, updated.FollowUpSent)
}

func TestInteractionServiceArchiveIdempotent(t *testing.T) {
	repo := &interactionRepoStub{byID: map[string]*models.Interaction{
		"int-1": {ID: "int-1", Archived: true},
	}}
	service := NewInteractionService(repo, studentReaderStub{}, validator.New(), nil)

	require.NoError(t, service.Archive(context.Background(), "int-1"))
	assert.Empty(t, repo.archived)
}

func TestInteractionServiceMarkFollowUpSent(t *testing.T) {
	repo := &interactionRepoStub{byID: map[string]*models.Interaction{
		"int-1": {ID: "int-1", FollowUpRequired: true, FollowUpDate: "2025-07-01"},
		"int-2": {ID: "int-2", FollowUpRequired: true, FollowUpSent: true},
		"int-3": {ID: "int-3"},
	}}
	service := NewInteractionService(repo, studentReaderStub{}, validator.New(), nil)

	require.NoError(t, service.MarkFollowUpSent(context.Background(), "int-1"))
	assert.Equal(t, []string{"int-1"}, repo.markedSent)

	// Already sent is a no-op.
	require.NoError(t, service.MarkFollowUpSent(context.Background(), "int-2"))
	assert.Equal(t, []string{"int-1"}, repo.markedSent)

	err := service.MarkFollowUpSent(context.Background(), "int-3")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
