package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

type interactionRepository interface {
	List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Interaction, error)
	Create(ctx context.Context, interaction *models.Interaction) error
	Update(ctx context.Context, interaction *models.Interaction) error
	Archive(ctx context.Context, id string) error
	MarkFollowUpSent(ctx context.Context, id string) error
}

type interactionStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// InteractionService orchestrates CRUD for logged contact events.
type InteractionService struct {
	repo      interactionRepository
	students  interactionStudentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInteractionService constructs an InteractionService.
func NewInteractionService(repo interactionRepository, students interactionStudentReader, validate *validator.Validate, logger *zap.Logger) *InteractionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InteractionService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns interactions matching the filter with pagination metadata.
func (s *InteractionService) List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionDetail, *models.Pagination, error) {
	interactions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interactions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return interactions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one interaction.
func (s *InteractionService) Get(ctx context.Context, id string) (*models.Interaction, error) {
	interaction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "interaction not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interaction")
	}
	return interaction, nil
}

// Create logs a new interaction on behalf of the acting staff member.
func (s *InteractionService) Create(ctx context.Context, req dto.CreateInteractionRequest, actor *models.JWTClaims) (*models.Interaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid interaction payload")
	}
	if actor == nil || actor.UserID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	if req.FollowUpRequired && req.FollowUpDate == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "follow_up_date is required when follow_up_required is set")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify student")
	}

	interaction := &models.Interaction{
		StudentID:        req.StudentID,
		StaffID:          actor.UserID,
		Type:             models.InteractionType(strings.ToUpper(req.Type)),
		Notes:            req.Notes,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpDate:     req.FollowUpDate,
		FollowUpToStaff:  req.FollowUpToStaff,
	}
	if !req.FollowUpRequired {
		interaction.FollowUpDate = ""
		interaction.FollowUpToStaff = false
	}
	if err := s.repo.Create(ctx, interaction); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create interaction")
	}
	return interaction, nil
}

// Update edits a logged interaction. Nil request fields are left unchanged.
// Clearing follow_up_required also clears the scheduled date and resets the
// sent flag so a re-enabled follow-up dispatches again.
func (s *InteractionService) Update(ctx context.Context, id string, req dto.UpdateInteractionRequest) (*models.Interaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid interaction payload")
	}

	interaction, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if interaction.Archived {
		return nil, appErrors.Clone(appErrors.ErrConflict, "archived interactions cannot be edited")
	}

	if req.Type != nil {
		interaction.Type = models.InteractionType(strings.ToUpper(*req.Type))
	}
	if req.Notes != nil {
		interaction.Notes = *req.Notes
	}
	if req.FollowUpRequired != nil {
		interaction.FollowUpRequired = *req.FollowUpRequired
		if !interaction.FollowUpRequired {
			interaction.FollowUpDate = ""
			interaction.FollowUpToStaff = false
			interaction.FollowUpSent = false
		}
	}
	if req.FollowUpDate != nil {
		interaction.FollowUpDate = *req.FollowUpDate
		interaction.FollowUpSent = false
	}
	if req.FollowUpToStaff != nil {
		interaction.FollowUpToStaff = *req.FollowUpToStaff
	}
	if interaction.FollowUpRequired && interaction.FollowUpDate == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "follow_up_date is required when follow_up_required is set")
	}

	if err := s.repo.Update(ctx, interaction); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update interaction")
	}
	return interaction, nil
}

// Archive soft-deletes an interaction, removing it from due-status math.
func (s *InteractionService) Archive(ctx context.Context, id string) error {
	interaction, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if interaction.Archived {
		return nil
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive interaction")
	}
	return nil
}

// MarkFollowUpSent records a manually completed follow-up so the daily
// dispatch skips it.
func (s *InteractionService) MarkFollowUpSent(ctx context.Context, id string) error {
	interaction, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !interaction.FollowUpRequired {
		return appErrors.Clone(appErrors.ErrConflict, "interaction has no follow-up scheduled")
	}
	if interaction.FollowUpSent {
		return nil
	}
	if err := s.repo.MarkFollowUpSent(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark follow-up sent")
	}
	return nil
}
