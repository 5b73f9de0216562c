package services

import (
	"context"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
)

// ArtifactService is the application surface shared by every artifact kind:
// generation through the provider chain plus CRUD, rating and lifecycle.
type ArtifactService[T any, R any] interface {
	Generate(ctx context.Context, req R, userID string) (*T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, filters repositories.ArtifactFilters) ([]*T, models.PageInfo, error)
	Update(ctx context.Context, id uint, req models.UpdateArtifactRequest, userID string) (*T, error)
	Delete(ctx context.Context, id uint, userID string) error
	Rate(ctx context.Context, id uint, req models.RateArtifactRequest, userID string) (*T, error)
	UpdateStatus(ctx context.Context, id uint, status models.ArtifactStatus, userID string) (*T, error)
}

type (
	CurriculumService  = ArtifactService[models.Curriculum, models.GenerateCurriculumRequest]
	QuizService        = ArtifactService[models.Quiz, models.GenerateQuizRequest]
	LecturePlanService = ArtifactService[models.LecturePlan, models.GenerateLecturePlanRequest]
	SlideDeckService   = ArtifactService[models.SlideDeck, models.GenerateSlidesRequest]
	MindMapService     = ArtifactService[models.MindMap, models.GenerateMindMapRequest]
)

// AttemptService drives the quiz attempt lifecycle:
// in_progress -> submitted -> graded -> reviewed.
type AttemptService interface {
	Start(ctx context.Context, quizID uint, studentID string) (*models.AnswerSheet, error)
	Submit(ctx context.Context, sheetID uint, req models.SubmitAttemptRequest, studentID string) (*models.AnswerSheet, error)
	GetByID(ctx context.Context, sheetID uint) (*models.AnswerSheet, error)
	ListByQuiz(ctx context.Context, quizID uint, filters repositories.SheetFilters) ([]*models.AnswerSheet, models.PageInfo, error)
}

// GradingService covers the offline grading flow: scan uploads, the AI
// grading path and manual review.
type GradingService interface {
	AttachFiles(ctx context.Context, sheetID uint, paths []string) (*models.AnswerSheet, error)
	Grade(ctx context.Context, sheetID uint, graderID string) (*models.AnswerSheet, error)
	Results(ctx context.Context, sheetID uint) (*models.AnswerSheet, error)
	Review(ctx context.Context, sheetID uint, req models.ReviewGradingRequest, reviewerID string) (*models.AnswerSheet, error)
}

type TranslateService interface {
	Translate(ctx context.Context, req models.TranslateRequest) (*models.TranslateResponse, error)
	Languages() []Language
}

// Language is a supported translation target.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ExportService renders quiz results as spreadsheets.
type ExportService interface {
	ExportQuizResults(ctx context.Context, quizID uint) ([]byte, string, error)
}

// ServiceManager provides access to all business services.
type ServiceManager interface {
	Curriculum() CurriculumService
	Quiz() QuizService
	LecturePlan() LecturePlanService
	SlideDeck() SlideDeckService
	MindMap() MindMapService
	Attempt() AttemptService
	Grading() GradingService
	Translate() TranslateService
	Export() ExportService

	AIChain() *ai.Chain
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
