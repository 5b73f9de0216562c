package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/services"
	"github.com/edusarathi/content-service/internal/uploads"
	"github.com/edusarathi/content-service/internal/utils"
)

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	uploadStore    *uploads.Store
}

func NewGradingHandler(
	gradingService services.GradingService,
	uploadStore *uploads.Store,
	logger utils.Logger,
	development bool,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger, development),
		gradingService: gradingService,
		uploadStore:    uploadStore,
	}
}

// Upload accepts scanned answer sheet files and attaches them to a sheet.
// Multipart form: sheet_id plus one or more answerSheet files.
func (h *GradingHandler) Upload(c *gin.Context) {
	h.LogRequest(c, "Uploading answer sheet scans")

	sheetIDStr := c.PostForm("sheet_id")
	sheetID, err := strconv.ParseUint(sheetIDStr, 10, 32)
	if err != nil || sheetID == 0 {
		h.respondError(c, http.StatusBadRequest, "Invalid sheet_id", sheetIDStr)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return
	}

	files := form.File["answerSheet"]
	paths, err := h.uploadStore.SaveAll("answer-sheets", files)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sheet, err := h.gradingService.AttachFiles(c.Request.Context(), uint(sheetID), paths)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, "Files uploaded", sheet)
}

// Grade runs the AI grading path over a submitted sheet.
func (h *GradingHandler) Grade(c *gin.Context) {
	sheetID := h.parseIDParam(c, "id")
	if sheetID == 0 {
		return
	}

	h.LogRequest(c, "Grading answer sheet", "sheet_id", sheetID)

	sheet, err := h.gradingService.Grade(c.Request.Context(), sheetID, h.getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, "Answer sheet graded", sheet)
}

// Results returns the grading state of a sheet.
func (h *GradingHandler) Results(c *gin.Context) {
	sheetID := h.parseIDParam(c, "id")
	if sheetID == 0 {
		return
	}

	sheet, err := h.gradingService.Results(c.Request.Context(), sheetID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, "Grading results retrieved", sheet)
}

// Review applies a manual review, superseding any earlier grading.
func (h *GradingHandler) Review(c *gin.Context) {
	sheetID := h.parseIDParam(c, "id")
	if sheetID == 0 {
		return
	}

	h.LogRequest(c, "Reviewing answer sheet", "sheet_id", sheetID)

	var req models.ReviewGradingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	sheet, err := h.gradingService.Review(c.Request.Context(), sheetID, req, h.getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, "Review applied", sheet)
}
