package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/services"
	"github.com/edusarathi/content-service/internal/utils"
)

// ArtifactHandler serves one artifact family. The five kinds share the
// same HTTP surface, so the handler is generic over the model and its
// generation request.
type ArtifactHandler[T any, R any] struct {
	BaseHandler
	service services.ArtifactService[T, R]
	label   string
}

func NewArtifactHandler[T any, R any](
	service services.ArtifactService[T, R],
	label string,
	logger utils.Logger,
	development bool,
) *ArtifactHandler[T, R] {
	return &ArtifactHandler[T, R]{
		BaseHandler: NewBaseHandler(logger, development),
		service:     service,
		label:       label,
	}
}

// Generate creates a new artifact through the provider chain.
func (h *ArtifactHandler[T, R]) Generate(c *gin.Context) {
	h.LogRequest(c, "Generating "+h.label)

	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	artifact, err := h.service.Generate(c.Request.Context(), req, h.getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusCreated, h.label+" generated successfully", artifact)
}

// List returns a filtered, paginated page of artifacts.
func (h *ArtifactHandler[T, R]) List(c *gin.Context) {
	filters := h.parseArtifactFilters(c)

	artifacts, page, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondList(c, h.label+" list retrieved", artifacts, page)
}

// Get returns a single artifact by id.
func (h *ArtifactHandler[T, R]) Get(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	artifact, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, h.label+" retrieved", artifact)
}

// Update applies a partial update to an artifact.
func (h *ArtifactHandler[T, R]) Update(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating "+h.label, "id", id)

	var req models.UpdateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	artifact, err := h.service.Update(c.Request.Context(), id, req, h.getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, h.label+" updated successfully", artifact)
}

// Delete removes an artifact.
func (h *ArtifactHandler[T, R]) Delete(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting "+h.label, "id", id)

	if err := h.service.Delete(c.Request.Context(), id, h.getUserID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, h.label+" deleted successfully", nil)
}

// Rate records the caller's rating of an artifact, replacing any prior
// rating from the same user.
func (h *ArtifactHandler[T, R]) Rate(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req models.RateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	artifact, err := h.service.Rate(c.Request.Context(), id, req, h.getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, "Rating recorded", artifact)
}

// Publish moves an artifact to the published status.
func (h *ArtifactHandler[T, R]) Publish(c *gin.Context) {
	h.updateStatus(c, models.StatusPublished, h.label+" published successfully")
}

// Archive moves an artifact to the archived status.
func (h *ArtifactHandler[T, R]) Archive(c *gin.Context) {
	h.updateStatus(c, models.StatusArchived, h.label+" archived successfully")
}

func (h *ArtifactHandler[T, R]) updateStatus(c *gin.Context, status models.ArtifactStatus, message string) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	artifact, err := h.service.UpdateStatus(c.Request.Context(), id, status, h.getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respond(c, http.StatusOK, message, artifact)
}
