package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func studentConditions(filter models.StudentFilter, args *[]interface{}) []string {
	conditions := []string{"1=1"}

	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(s.program) = LOWER($%d)", len(*args)+1))
		*args = append(*args, filter.Program)
	}
	if filter.Cohort != nil {
		conditions = append(conditions, fmt.Sprintf("s.cohort = $%d", len(*args)+1))
		*args = append(*args, *filter.Cohort)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("s.active = $%d", len(*args)+1))
		*args = append(*args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.first_name) LIKE $%d OR LOWER(s.last_name) LIKE $%d OR LOWER(s.email) LIKE $%d)",
			len(*args)+1, len(*args)+1, len(*args)+1))
		*args = append(*args, "%"+strings.ToLower(filter.Search)+"%")
	}

	return conditions
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	args := []interface{}{}
	conditions := studentConditions(filter, &args)
	where := strings.Join(conditions, " AND ")

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"first_name": "s.first_name",
		"last_name":  "s.last_name",
		"program":    "s.program",
		"cohort":     "s.cohort",
		"created_at": "s.created_at",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.first_name, s.last_name, s.email, s.program, s.cohort, s.active, s.created_at, s.updated_at
        FROM students s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`, where, column, order, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students s WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListWithLastInteraction loads students joined with the timestamp of their
// most recent non-archived interaction. Students without any interaction get
// a NULL last_interaction_at.
func (r *StudentRepository) ListWithLastInteraction(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithLastInteraction, error) {
	args := []interface{}{}
	conditions := studentConditions(filter, &args)
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`SELECT s.id, s.first_name, s.last_name, s.email, s.program, s.cohort, s.active, s.created_at, s.updated_at,
        li.last_interaction_at
        FROM students s
        LEFT JOIN (
            SELECT student_id, MAX(created_at) AS last_interaction_at
            FROM interactions
            WHERE archived = false
            GROUP BY student_id
        ) li ON li.student_id = s.id
        WHERE %s ORDER BY s.last_name ASC`, where)

	var students []models.StudentWithLastInteraction
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students with last interaction: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, first_name, last_name, email, program, cohort, active, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks if a student with the given email exists, optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student email: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, first_name, last_name, email, program, cohort, active, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :email, :program, :cohort, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, email = :email, program = :program, cohort = :cohort, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Deactivate marks a student as inactive.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE students SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return nil
}
