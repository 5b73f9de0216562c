package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/edusarathi/content-service/internal/config"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/services"
	"github.com/edusarathi/content-service/internal/uploads"
	"github.com/edusarathi/content-service/internal/utils"
)

type HandlerManager struct {
	curriculumHandler  *ArtifactHandler[models.Curriculum, models.GenerateCurriculumRequest]
	quizHandler        *ArtifactHandler[models.Quiz, models.GenerateQuizRequest]
	lecturePlanHandler *ArtifactHandler[models.LecturePlan, models.GenerateLecturePlanRequest]
	slideDeckHandler   *ArtifactHandler[models.SlideDeck, models.GenerateSlidesRequest]
	mindMapHandler     *ArtifactHandler[models.MindMap, models.GenerateMindMapRequest]
	attemptHandler     *AttemptHandler
	gradingHandler     *GradingHandler
	translateHandler   *TranslateHandler
	healthHandler      *HealthHandler
	authMiddleware     *AuthMiddleware
	rateLimiter        *RateLimiter
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	cfg *config.Config,
	uploadStore *uploads.Store,
	redisClient *redis.Client,
) *HandlerManager {
	dev := cfg.IsDevelopment()

	return &HandlerManager{
		curriculumHandler:  NewArtifactHandler(serviceManager.Curriculum(), "Curriculum", logger, dev),
		quizHandler:        NewArtifactHandler(serviceManager.Quiz(), "Quiz", logger, dev),
		lecturePlanHandler: NewArtifactHandler(serviceManager.LecturePlan(), "Lecture plan", logger, dev),
		slideDeckHandler:   NewArtifactHandler(serviceManager.SlideDeck(), "Slide deck", logger, dev),
		mindMapHandler:     NewArtifactHandler(serviceManager.MindMap(), "Mind map", logger, dev),
		attemptHandler:     NewAttemptHandler(serviceManager.Attempt(), serviceManager.Export(), logger, dev),
		gradingHandler:     NewGradingHandler(serviceManager.Grading(), uploadStore, logger, dev),
		translateHandler:   NewTranslateHandler(serviceManager.Translate(), logger, dev),
		healthHandler:      NewHealthHandler(serviceManager, logger, dev),
		authMiddleware:     NewAuthMiddleware(cfg.Casdoor),
		rateLimiter:        NewRateLimiter(redisClient, cfg.RateLimit, logger),
	}
}

// SetupRoutes wires the full HTTP surface.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthHandler.Health)

	// Rate limiting covers the whole /api prefix; health probes above
	// stay exempt.
	api := router.Group("/api/v1")
	api.Use(hm.rateLimiter.Middleware())

	api.GET("/ai-health", hm.healthHandler.AIHealth)
	api.GET("/preflight", hm.healthHandler.Preflight)

	v1 := api.Group("")
	v1.Use(hm.authMiddleware.Authenticate())
	{
		registerArtifactRoutes(v1.Group("/curriculum"), hm.curriculumHandler, hm.authMiddleware)
		registerArtifactRoutes(v1.Group("/lecture-plan"), hm.lecturePlanHandler, hm.authMiddleware)
		registerArtifactRoutes(v1.Group("/slides"), hm.slideDeckHandler, hm.authMiddleware)
		registerArtifactRoutes(v1.Group("/mindmap"), hm.mindMapHandler, hm.authMiddleware)

		teacherOnly := hm.authMiddleware.RequireRole(models.RoleTeacher)

		quiz := v1.Group("/quiz")
		registerArtifactRoutes(quiz, hm.quizHandler, hm.authMiddleware)
		{
			quiz.POST("/:id/attempts/start", hm.attemptHandler.Start)
			quiz.GET("/:id/attempts", teacherOnly, hm.attemptHandler.ListByQuiz)
			quiz.GET("/:id/results/export", teacherOnly, hm.attemptHandler.ExportResults)
		}

		attempts := v1.Group("/attempts")
		{
			attempts.POST("/:id/submit", hm.attemptHandler.Submit)
			attempts.GET("/:id", hm.attemptHandler.Get)
		}

		grading := v1.Group("/grading")
		grading.Use(teacherOnly)
		{
			grading.POST("/upload", hm.gradingHandler.Upload)
			grading.POST("/:id/grade", hm.gradingHandler.Grade)
			grading.GET("/:id/results", hm.gradingHandler.Results)
			grading.POST("/:id/review", hm.gradingHandler.Review)
		}

		translate := v1.Group("/translate")
		{
			translate.POST("", hm.translateHandler.Translate)
			translate.GET("/languages", hm.translateHandler.Languages)
		}
	}
}

func registerArtifactRoutes[T any, R any](g *gin.RouterGroup, h *ArtifactHandler[T, R], auth *AuthMiddleware) {
	teacherOnly := auth.RequireRole(models.RoleTeacher)

	g.POST("/generate", teacherOnly, h.Generate)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", teacherOnly, h.Update)
	g.DELETE("/:id", teacherOnly, h.Delete)
	g.POST("/:id/rating", h.Rate)
	g.POST("/:id/publish", teacherOnly, h.Publish)
	g.POST("/:id/archive", teacherOnly, h.Archive)
}
