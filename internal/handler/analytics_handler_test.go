package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

type fakeAnalyticsSrv struct {
	summary *models.AnalyticsSummary
	hit     bool
	err     error
	system  models.SystemMetrics
}

func (f *fakeAnalyticsSrv) Summary(context.Context) (*models.AnalyticsSummary, bool, error) {
	return f.summary, f.hit, f.err
}

func (f *fakeAnalyticsSrv) SystemMetrics() models.SystemMetrics {
	return f.system
}

func TestAnalyticsHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(&fakeAnalyticsSrv{
		summary: &models.AnalyticsSummary{TotalStudents: 30, FollowUpsPending: 4, FollowUpsOverdue: 1},
		hit:     false,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/summary", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, false, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(30), envelope.Data["total_students"])
}

func TestAnalyticsHandlerSystem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(&fakeAnalyticsSrv{
		system: models.SystemMetrics{Goroutines: 12},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/system", nil)

	handler.System(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, float64(12), envelope.Data["goroutines"])
}
