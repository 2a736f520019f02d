package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/response"
)

type followUpService interface {
	ProcessDue(ctx context.Context) (*dto.FollowUpRunResult, error)
	SendTest(ctx context.Context, req dto.TestEmailRequest) error
}

// FollowUpHandler exposes follow-up email endpoints.
type FollowUpHandler struct {
	service followUpService
}

// NewFollowUpHandler constructs the handler.
func NewFollowUpHandler(service followUpService) *FollowUpHandler {
	return &FollowUpHandler{service: service}
}

// Run godoc
// @Summary Run the due follow-up dispatch immediately
// @Description Same work the daily schedule performs, triggered on demand
// @Tags FollowUps
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /followups/run [post]
func (h *FollowUpHandler) Run(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, err := h.service.ProcessDue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SendTest godoc
// @Summary Send a test email
// @Tags FollowUps
// @Accept json
// @Produce json
// @Param payload body dto.TestEmailRequest true "Recipient"
// @Success 202 {object} response.Envelope
// @Router /followups/test-email [post]
func (h *FollowUpHandler) SendTest(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.SendTest(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"message": "test email queued"}, nil)
}
