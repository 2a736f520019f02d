package dto

import (
	"time"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

// DashboardResponse aggregates the landing-page payload for staff.
type DashboardResponse struct {
	Summary            models.AnalyticsSummary    `json:"summary"`
	NeedingInteraction []models.StudentDueInfo    `json:"needing_interaction"`
	RecentInteractions []models.InteractionDetail `json:"recent_interactions"`
	GeneratedAt        time.Time                  `json:"generated_at"`
}
