package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AD-Archer/Student-interaction-sub000/internal/middleware"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/response"
)

type analyticsService interface {
	Summary(ctx context.Context) (*models.AnalyticsSummary, bool, error)
	SystemMetrics() models.SystemMetrics
}

// AnalyticsHandler exposes aggregate reporting endpoints.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Summary godoc
// @Summary Program analytics summary
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, nil, meta)
}

// System godoc
// @Summary Runtime metrics snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.service.SystemMetrics(), nil)
}
