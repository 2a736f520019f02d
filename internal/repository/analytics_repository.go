package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

// AnalyticsRepository answers aggregate queries for the analytics endpoints.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs an AnalyticsRepository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// StudentCounts returns total and active student counts.
func (r *AnalyticsRepository) StudentCounts(ctx context.Context) (total, active int, err error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE active) AS active FROM students`
	row := struct {
		Total  int `db:"total"`
		Active int `db:"active"`
	}{}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("student counts: %w", err)
	}
	return row.Total, row.Active, nil
}

// InteractionTotal counts non-archived interactions.
func (r *AnalyticsRepository) InteractionTotal(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM interactions WHERE archived = false`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("interaction total: %w", err)
	}
	return total, nil
}

// InteractionsByProgram groups non-archived interactions per program.
func (r *AnalyticsRepository) InteractionsByProgram(ctx context.Context) ([]models.ProgramInteractionCount, error) {
	const query = `SELECT LOWER(s.program) AS program, COUNT(*) AS count
        FROM interactions i
        JOIN students s ON s.id = i.student_id
        WHERE i.archived = false
        GROUP BY LOWER(s.program)
        ORDER BY count DESC`
	var counts []models.ProgramInteractionCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("interactions by program: %w", err)
	}
	return counts, nil
}

// InteractionsByType groups non-archived interactions per contact type.
func (r *AnalyticsRepository) InteractionsByType(ctx context.Context) ([]models.TypeInteractionCount, error) {
	const query = `SELECT i.type, COUNT(*) AS count
        FROM interactions i
        WHERE i.archived = false
        GROUP BY i.type
        ORDER BY count DESC`
	var counts []models.TypeInteractionCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("interactions by type: %w", err)
	}
	return counts, nil
}

// PendingFollowUps returns unsent, required follow-ups with their dates so the
// caller can split pending from overdue via the formula rules.
func (r *AnalyticsRepository) PendingFollowUps(ctx context.Context) ([]models.PendingFollowUp, error) {
	const query = `SELECT i.id AS interaction_id, i.follow_up_date
        FROM interactions i
        WHERE i.archived = false AND i.follow_up_required = true AND i.follow_up_sent = false`
	var pending []models.PendingFollowUp
	if err := r.db.SelectContext(ctx, &pending, query); err != nil {
		return nil, fmt.Errorf("pending follow-ups: %w", err)
	}
	return pending, nil
}
