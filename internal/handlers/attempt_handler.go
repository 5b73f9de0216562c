package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/services"
	"github.com/edusarathi/content-service/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	exportService  services.ExportService
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	exportService services.ExportService,
	logger utils.Logger,
	development bool,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger, development),
		attemptService: attemptService,
		exportService:  exportService,
	}
}

// Start opens a new attempt on a quiz for the calling student.
func (h *AttemptHandler) Start(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	h.LogRequest(c, "Starting quiz attempt", "quiz_id", quizID)

	sheet, err := h.attemptService.Start(c.Request.Context(), quizID, h.getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusCreated, "Attempt started", sheet)
}

// Submit records the answers of an in-progress attempt and auto-grades
// the objective questions.
func (h *AttemptHandler) Submit(c *gin.Context) {
	sheetID := h.parseIDParam(c, "id")
	if sheetID == 0 {
		return
	}

	h.LogRequest(c, "Submitting quiz attempt", "sheet_id", sheetID)

	var req models.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	sheet, err := h.attemptService.Submit(c.Request.Context(), sheetID, req, h.getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, "Attempt submitted", sheet)
}

// Get returns a single answer sheet.
func (h *AttemptHandler) Get(c *gin.Context) {
	sheetID := h.parseIDParam(c, "id")
	if sheetID == 0 {
		return
	}

	sheet, err := h.attemptService.GetByID(c.Request.Context(), sheetID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, "Attempt retrieved", sheet)
}

// ListByQuiz returns the attempts made against one quiz.
func (h *AttemptHandler) ListByQuiz(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	filters := h.parseSheetFilters(c)

	sheets, page, err := h.attemptService.ListByQuiz(c.Request.Context(), quizID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondList(c, "Attempts retrieved", sheets, page)
}

// ExportResults streams the quiz results as an xlsx workbook.
func (h *AttemptHandler) ExportResults(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	h.LogRequest(c, "Exporting quiz results", "quiz_id", quizID)

	content, filename, err := h.exportService.ExportQuizResults(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
