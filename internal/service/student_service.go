package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/formula"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListWithLastInteraction(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithLastInteraction, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id string) error
}

type formulaProvider interface {
	GetFormula(ctx context.Context) (formula.Config, bool)
}

// StudentService orchestrates student CRUD and due-status evaluation.
type StudentService struct {
	repo      studentRepository
	settings  formulaProvider
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, settings formulaProvider, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, settings: settings, validator: validate, logger: logger, now: time.Now}
}

// List returns students matching the filter with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email already exists")
	}

	student := &models.Student{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Program:   strings.TrimSpace(req.Program),
		Cohort:    req.Cohort,
		Active:    true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update edits an existing student. Nil request fields are left unchanged.
func (s *StudentService) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != student.Email {
			exists, err := s.repo.ExistsByEmail(ctx, email, id)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student email")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email already exists")
			}
		}
		student.Email = email
	}
	if req.FirstName != nil {
		student.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		student.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Program != nil {
		student.Program = strings.TrimSpace(*req.Program)
	}
	if req.Cohort != nil {
		student.Cohort = req.Cohort
	}
	if req.Active != nil {
		student.Active = *req.Active
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Deactivate marks a student inactive. Interactions are preserved.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	return nil
}

// NeedingInteraction evaluates every active student against the formula and
// returns those due for contact, priority entries first, then by descending
// days since last contact with never-contacted students ahead of all others.
// Lookup failures degrade to an empty list so dashboards keep rendering.
func (s *StudentService) NeedingInteraction(ctx context.Context) []models.StudentDueInfo {
	active := true
	students, err := s.repo.ListWithLastInteraction(ctx, models.StudentFilter{Active: &active})
	if err != nil {
		s.logger.Error("failed to load students for due evaluation", zap.Error(err))
		return []models.StudentDueInfo{}
	}

	cfg, defaulted := s.settings.GetFormula(ctx)
	if defaulted {
		s.logger.Debug("evaluating due status with default formula settings")
	}

	now := s.now()
	due := make([]models.StudentDueInfo, 0, len(students))
	results := make(map[string]formula.Result, len(students))
	for _, st := range students {
		result := formula.Evaluate(st.LastInteractionAt, formula.ParseProgram(st.Program), cfg, now)
		if !result.NeedsInteraction {
			continue
		}
		info := models.StudentDueInfo{
			Student:           st.Student,
			LastInteractionAt: st.LastInteractionAt,
			NeedsInteraction:  true,
			IsPriority:        result.IsPriority,
			NeverContacted:    result.NeverContacted(),
		}
		if !result.NeverContacted() {
			days := int(result.DaysSinceLast)
			info.DaysSinceLast = &days
		}
		results[st.ID] = result
		due = append(due, info)
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if a.IsPriority != b.IsPriority {
			return a.IsPriority
		}
		return sortDays(results[a.Student.ID]) > sortDays(results[b.Student.ID])
	})
	return due
}

func sortDays(result formula.Result) float64 {
	if result.NeverContacted() {
		return math.Inf(1)
	}
	return result.DaysSinceLast
}
