package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/services"
	"github.com/edusarathi/content-service/internal/utils"
)

type HealthHandler struct {
	BaseHandler
	serviceManager services.ServiceManager
}

func NewHealthHandler(serviceManager services.ServiceManager, logger utils.Logger, development bool) *HealthHandler {
	return &HealthHandler{
		BaseHandler:    NewBaseHandler(logger, development),
		serviceManager: serviceManager,
	}
}

// Health reports process liveness.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "content-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// AIHealth probes every generation tier and reports per-tier status.
func (h *HealthHandler) AIHealth(c *gin.Context) {
	tiers, healthy := h.serviceManager.AIChain().Health(c.Request.Context())

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"success": healthy,
		"data":    gin.H{"tiers": tiers},
	})
}

type preflightComponent struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Preflight aggregates the dependency checks a frontend runs before
// letting a teacher start generating. Checks run in parallel.
func (h *HealthHandler) Preflight(c *gin.Context) {
	var (
		dbComponent preflightComponent
		aiComponent preflightComponent
		aiTiers     []ai.TierHealth
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		dbComponent.Status = "healthy"
		if err := h.serviceManager.HealthCheck(ctx); err != nil {
			dbComponent = preflightComponent{Status: "unhealthy", Error: err.Error()}
		}
		return nil
	})
	g.Go(func() error {
		tiers, healthy := h.serviceManager.AIChain().Health(ctx)
		aiTiers = tiers
		aiComponent.Status = "healthy"
		if !healthy {
			aiComponent.Status = "unhealthy"
		}
		return nil
	})
	// Checks record their own failures and never return an error.
	_ = g.Wait()

	healthy := dbComponent.Status == "healthy" && aiComponent.Status == "healthy"
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"success": healthy,
		"data": gin.H{
			"database": dbComponent,
			"ai":       aiComponent,
			"tiers":    aiTiers,
		},
	})
}
