package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/service"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/response"
)

// SettingsHandler exposes formula settings endpoints.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get godoc
// @Summary Get interaction formula settings
// @Description Returns defaults when no settings row has been saved yet
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/formula [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Update godoc
// @Summary Update interaction formula settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.UpdateFormulaSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /settings/formula [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateFormulaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
