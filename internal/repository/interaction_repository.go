package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

// InteractionRepository manages persistence for interaction records.
type InteractionRepository struct {
	db *sqlx.DB
}

// NewInteractionRepository constructs an InteractionRepository.
func NewInteractionRepository(db *sqlx.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// List returns interactions joined with student and staff names.
func (r *InteractionRepository) List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionDetail, int, error) {
	base := `FROM interactions i
        JOIN students s ON s.id = i.student_id
        JOIN users u ON u.id = i.staff_id`
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("i.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.StaffID != "" {
		conditions = append(conditions, fmt.Sprintf("i.staff_id = $%d", len(args)+1))
		args = append(args, filter.StaffID)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("i.type = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.Type))
	}
	if filter.Archived != nil {
		conditions = append(conditions, fmt.Sprintf("i.archived = $%d", len(args)+1))
		args = append(args, *filter.Archived)
	}
	if filter.FollowUpPending != nil && *filter.FollowUpPending {
		conditions = append(conditions, "i.follow_up_required = true AND i.follow_up_sent = false")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

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

	query := fmt.Sprintf(`SELECT i.id, i.student_id, i.staff_id, i.type, i.notes, i.archived,
        i.follow_up_required, i.follow_up_date, i.follow_up_to_staff, i.follow_up_sent, i.created_at, i.updated_at,
        s.first_name || ' ' || s.last_name AS student_name, s.email AS student_email,
        u.full_name AS staff_name, u.email AS staff_email
        %s ORDER BY i.created_at %s LIMIT %d OFFSET %d`, base, order, size, offset)

	var interactions []models.InteractionDetail
	if err := r.db.SelectContext(ctx, &interactions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list interactions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count interactions: %w", err)
	}
	return interactions, total, nil
}

// FindByID fetches a single interaction.
func (r *InteractionRepository) FindByID(ctx context.Context, id string) (*models.Interaction, error) {
	const query = `SELECT id, student_id, staff_id, type, notes, archived,
        follow_up_required, follow_up_date, follow_up_to_staff, follow_up_sent, created_at, updated_at
        FROM interactions WHERE id = $1`
	var interaction models.Interaction
	if err := r.db.GetContext(ctx, &interaction, query, id); err != nil {
		return nil, err
	}
	return &interaction, nil
}

// Create inserts a new interaction record.
func (r *InteractionRepository) Create(ctx context.Context, interaction *models.Interaction) error {
	if interaction.ID == "" {
		interaction.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = now
	}
	interaction.UpdatedAt = now
	const query = `INSERT INTO interactions (id, student_id, staff_id, type, notes, archived,
        follow_up_required, follow_up_date, follow_up_to_staff, follow_up_sent, created_at, updated_at)
        VALUES (:id, :student_id, :staff_id, :type, :notes, :archived,
        :follow_up_required, :follow_up_date, :follow_up_to_staff, :follow_up_sent, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, interaction); err != nil {
		return fmt.Errorf("create interaction: %w", err)
	}
	return nil
}

// Update modifies an existing interaction.
func (r *InteractionRepository) Update(ctx context.Context, interaction *models.Interaction) error {
	interaction.UpdatedAt = time.Now().UTC()
	const query = `UPDATE interactions SET type = :type, notes = :notes,
        follow_up_required = :follow_up_required, follow_up_date = :follow_up_date,
        follow_up_to_staff = :follow_up_to_staff, follow_up_sent = :follow_up_sent,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, interaction); err != nil {
		return fmt.Errorf("update interaction: %w", err)
	}
	return nil
}

// Archive soft-deletes an interaction. Archived rows are excluded from the
// days-since-last-interaction computation.
func (r *InteractionRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE interactions SET archived = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive interaction: %w", err)
	}
	return nil
}

// MarkFollowUpSent flags a follow-up as dispatched.
func (r *InteractionRepository) MarkFollowUpSent(ctx context.Context, id string) error {
	const query = `UPDATE interactions SET follow_up_sent = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark follow-up sent: %w", err)
	}
	return nil
}

// ListDueFollowUps returns unsent, required follow-ups dated on or before the
// provided calendar date (YYYY-MM-DD).
func (r *InteractionRepository) ListDueFollowUps(ctx context.Context, asOf string) ([]models.DueFollowUp, error) {
	const query = `SELECT i.id AS interaction_id, i.student_id,
        s.first_name || ' ' || s.last_name AS student_name, s.email AS student_email,
        u.full_name AS staff_name, u.email AS staff_email,
        i.follow_up_to_staff AS to_staff, i.notes, i.follow_up_date
        FROM interactions i
        JOIN students s ON s.id = i.student_id
        JOIN users u ON u.id = i.staff_id
        WHERE i.archived = false
          AND i.follow_up_required = true
          AND i.follow_up_sent = false
          AND i.follow_up_date <> ''
          AND i.follow_up_date <= $1
        ORDER BY i.follow_up_date ASC`
	var due []models.DueFollowUp
	if err := r.db.SelectContext(ctx, &due, query, asOf); err != nil {
		return nil, fmt.Errorf("list due follow-ups: %w", err)
	}
	return due, nil
}
