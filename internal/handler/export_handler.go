package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/service"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/response"
)

// ExportHandler manages dataset export and import endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Create godoc
// @Summary Queue a dataset export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.CreateExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.exports.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Get godoc
// @Summary Get export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.exports.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a completed export via signed token
// @Tags Exports
// @Produce octet-stream
// @Param id path string true "Export job ID"
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/{id}/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	exportID, relPath, _, err := h.exports.ParseToken(token, false)
	if err != nil {
		response.Error(c, err)
		return
	}
	if exportID != c.Param("id") {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	file, err := h.exports.Open(relPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	mimeType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".csv":
		mimeType = "text/csv"
	case ".pdf":
		mimeType = "application/pdf"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), mimeType, file, nil)
}

// ImportStudents godoc
// @Summary Import students from a CSV file
// @Tags Exports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Router /imports/students [post]
func (h *ExportHandler) ImportStudents(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	result, err := h.exports.ImportStudentsCSV(c.Request.Context(), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
