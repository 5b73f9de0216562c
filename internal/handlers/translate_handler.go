package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/services"
	"github.com/edusarathi/content-service/internal/utils"
)

type TranslateHandler struct {
	BaseHandler
	translateService services.TranslateService
}

func NewTranslateHandler(translateService services.TranslateService, logger utils.Logger, development bool) *TranslateHandler {
	return &TranslateHandler{
		BaseHandler:      NewBaseHandler(logger, development),
		translateService: translateService,
	}
}

// Translate translates text through the provider chain.
func (h *TranslateHandler) Translate(c *gin.Context) {
	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := h.translateService.Translate(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, "Text translated", result)
}

// Languages lists the supported translation targets.
func (h *TranslateHandler) Languages(c *gin.Context) {
	h.respond(c, http.StatusOK, "Supported languages", h.translateService.Languages())
}
