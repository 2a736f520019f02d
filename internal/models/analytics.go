package models

import "time"

// ProgramInteractionCount aggregates interactions per program.
type ProgramInteractionCount struct {
	Program string `db:"program" json:"program"`
	Count   int    `db:"count" json:"count"`
}

// TypeInteractionCount aggregates interactions per contact type.
type TypeInteractionCount struct {
	Type  string `db:"type" json:"type"`
	Count int    `db:"count" json:"count"`
}

// AnalyticsSummary is the aggregate payload served by the analytics endpoint.
type AnalyticsSummary struct {
	TotalStudents              int                       `json:"total_students"`
	ActiveStudents             int                       `json:"active_students"`
	TotalInteractions          int                       `json:"total_interactions"`
	InteractionsByProgram      []ProgramInteractionCount `json:"interactions_by_program"`
	InteractionsByType         []TypeInteractionCount    `json:"interactions_by_type"`
	FollowUpsPending           int                       `json:"follow_ups_pending"`
	FollowUpsOverdue           int                       `json:"follow_ups_overdue"`
	StudentsNeedingInteraction int                       `json:"students_needing_interaction"`
	GeneratedAt                time.Time                 `json:"generated_at"`
}

// SystemMetrics is a lightweight runtime snapshot served alongside analytics.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"avg_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"avg_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// PendingFollowUp carries the fields needed to decide overdue status.
type PendingFollowUp struct {
	InteractionID string `db:"interaction_id" json:"interaction_id"`
	FollowUpDate  string `db:"follow_up_date" json:"follow_up_date"`
}
