package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/response"
)

type summarizer interface {
	Summarize(ctx context.Context, req dto.SummarizeRequest) (*dto.SummarizeResponse, error)
}

// AIHandler proxies note summarisation requests to the AI provider.
type AIHandler struct {
	service summarizer
}

// NewAIHandler constructs the handler.
func NewAIHandler(service summarizer) *AIHandler {
	return &AIHandler{service: service}
}

// Summarize godoc
// @Summary Summarise interaction notes
// @Tags AI
// @Accept json
// @Produce json
// @Param payload body dto.SummarizeRequest true "Text to summarise"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ai/summarize [post]
func (h *AIHandler) Summarize(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrUnavailable)
		return
	}
	var req dto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	res, err := h.service.Summarize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
