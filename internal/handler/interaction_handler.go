package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	"github.com/AD-Archer/Student-interaction-sub000/internal/service"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/response"
)

// InteractionHandler exposes interaction endpoints.
type InteractionHandler struct {
	interactions *service.InteractionService
}

// NewInteractionHandler constructs InteractionHandler.
func NewInteractionHandler(interactions *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

// List godoc
// @Summary List interactions
// @Tags Interactions
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param staffId query string false "Filter by staff member"
// @Param type query string false "Filter by interaction type"
// @Param archived query bool false "Include archived entries"
// @Param followUpPending query bool false "Only entries awaiting a follow-up"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /interactions [get]
func (h *InteractionHandler) List(c *gin.Context) {
	var filter models.InteractionFilter
	filter.StudentID = strings.TrimSpace(c.Query("studentId"))
	filter.StaffID = strings.TrimSpace(c.Query("staffId"))
	filter.Type = strings.ToUpper(strings.TrimSpace(c.Query("type")))
	if archived := c.Query("archived"); archived != "" {
		if archived == "true" {
			v := true
			filter.Archived = &v
		} else if archived == "false" {
			v := false
			filter.Archived = &v
		}
	}
	if pending := c.Query("followUpPending"); pending != "" {
		if pending == "true" {
			v := true
			filter.FollowUpPending = &v
		} else if pending == "false" {
			v := false
			filter.FollowUpPending = &v
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	items, pagination, err := h.interactions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get interaction detail
// @Tags Interactions
// @Produce json
// @Param id path string true "Interaction ID"
// @Success 200 {object} response.Envelope
// @Router /interactions/{id} [get]
func (h *InteractionHandler) Get(c *gin.Context) {
	item, err := h.interactions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Log an interaction
// @Tags Interactions
// @Accept json
// @Produce json
// @Param payload body dto.CreateInteractionRequest true "Interaction payload"
// @Success 201 {object} response.Envelope
// @Router /interactions [post]
func (h *InteractionHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.interactions.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update an interaction
// @Tags Interactions
// @Accept json
// @Produce json
// @Param id path string true "Interaction ID"
// @Param payload body dto.UpdateInteractionRequest true "Interaction payload"
// @Success 200 {object} response.Envelope
// @Router /interactions/{id} [put]
func (h *InteractionHandler) Update(c *gin.Context) {
	var req dto.UpdateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.interactions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Archive godoc
// @Summary Archive an interaction
// @Tags Interactions
// @Produce json
// @Param id path string true "Interaction ID"
// @Success 204
// @Router /interactions/{id} [delete]
func (h *InteractionHandler) Archive(c *gin.Context) {
	if err := h.interactions.Archive(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkFollowUpSent godoc
// @Summary Mark a follow-up as already handled
// @Tags Interactions
// @Produce json
// @Param id path string true "Interaction ID"
// @Success 204
// @Router /interactions/{id}/follow-up/sent [post]
func (h *InteractionHandler) MarkFollowUpSent(c *gin.Context) {
	if err := h.interactions.MarkFollowUpSent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
