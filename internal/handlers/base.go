package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/services"
	"github.com/edusarathi/content-service/internal/uploads"
	"github.com/edusarathi/content-service/internal/utils"
	"github.com/edusarathi/content-service/internal/validator"
)

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse adds pagination to the success envelope.
type ListResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       interface{}     `json:"data"`
	Pagination models.PageInfo `json:"pagination"`
}

// ErrorResponse is the envelope for failed responses. Error carries the
// raw error string only in development.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler provides shared logging, parsing and error translation for
// all handlers.
type BaseHandler struct {
	logger      utils.Logger
	development bool
}

func NewBaseHandler(logger utils.Logger, development bool) BaseHandler {
	return BaseHandler{logger: logger, development: development}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c, h.logger).Error(msg, args...)
}

func (h *BaseHandler) respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}

func (h *BaseHandler) respondList(c *gin.Context, message string, data interface{}, page models.PageInfo) {
	c.JSON(http.StatusOK, ListResponse{Success: true, Message: message, Data: data, Pagination: page})
}

func (h *BaseHandler) respondError(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Success: false, Message: message, Details: details})
}

func (h *BaseHandler) getUserID(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.respondError(c, http.StatusBadRequest, "Invalid "+param, idStr)
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (h *BaseHandler) parseArtifactFilters(c *gin.Context) repositories.ArtifactFilters {
	filters := repositories.ArtifactFilters{
		Page:      h.parseIntQuery(c, "page", 1),
		Limit:     h.parseIntQuery(c, "limit", 10),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if subject := c.Query("subject"); subject != "" {
		filters.Subject = &subject
	}
	if gradeStr := c.Query("grade"); gradeStr != "" {
		if grade, err := strconv.Atoi(gradeStr); err == nil {
			filters.Grade = &grade
		}
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		d := models.DifficultyLevel(difficulty)
		filters.Difficulty = &d
	}
	if status := c.Query("status"); status != "" {
		s := models.ArtifactStatus(status)
		filters.Status = &s
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		filters.CreatedBy = &createdBy
	}
	return filters
}

func (h *BaseHandler) parseSheetFilters(c *gin.Context) repositories.SheetFilters {
	filters := repositories.SheetFilters{
		Page:  h.parseIntQuery(c, "page", 1),
		Limit: h.parseIntQuery(c, "limit", 10),
	}
	if status := c.Query("status"); status != "" {
		s := models.SheetStatus(status)
		filters.Status = &s
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	return filters
}

// handleServiceError translates service-layer errors into HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.respondError(c, http.StatusBadRequest, "Validation failed", validationErrors.FieldMap())
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.respondError(c, http.StatusForbidden, "Access denied", map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		h.respondError(c, http.StatusUnprocessableEntity, businessRuleError.Message, map[string]interface{}{
			"rule": businessRuleError.Rule,
		})
		return
	}

	var uploadError *uploads.UploadError
	if errors.As(err, &uploadError) {
		h.respondError(c, http.StatusBadRequest, uploadError.Reason, map[string]interface{}{
			"filename": uploadError.Filename,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrCurriculumNotFound):
		h.respondError(c, http.StatusNotFound, "Curriculum not found", nil)
	case errors.Is(err, services.ErrQuizNotFound):
		h.respondError(c, http.StatusNotFound, "Quiz not found", nil)
	case errors.Is(err, services.ErrLecturePlanNotFound):
		h.respondError(c, http.StatusNotFound, "Lecture plan not found", nil)
	case errors.Is(err, services.ErrSlideDeckNotFound):
		h.respondError(c, http.StatusNotFound, "Slide deck not found", nil)
	case errors.Is(err, services.ErrMindMapNotFound):
		h.respondError(c, http.StatusNotFound, "Mind map not found", nil)
	case errors.Is(err, services.ErrSheetNotFound):
		h.respondError(c, http.StatusNotFound, "Answer sheet not found", nil)
	case errors.Is(err, services.ErrAttemptLimitReached):
		h.respondError(c, http.StatusBadRequest, "Attempt limit reached for this quiz", nil)
	case errors.Is(err, services.ErrAttemptAlreadySubmitted):
		h.respondError(c, http.StatusConflict, "Attempt already submitted", nil)
	case errors.Is(err, services.ErrSheetNotSubmitted):
		h.respondError(c, http.StatusConflict, "Answer sheet has not been submitted", nil)
	case errors.Is(err, services.ErrSheetNotGradable):
		h.respondError(c, http.StatusConflict, "Answer sheet cannot be graded in its current status", nil)
	case errors.Is(err, services.ErrInvalidStatusChange):
		h.respondError(c, http.StatusUnprocessableEntity, "Invalid status change", nil)
	case errors.Is(err, ai.ErrExhausted):
		h.respondError(c, http.StatusServiceUnavailable, "Generation service unavailable, please retry later", nil)
	default:
		h.LogError(c, err, "Unexpected service error")
		resp := ErrorResponse{Success: false, Message: "Internal server error"}
		if h.development {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}
