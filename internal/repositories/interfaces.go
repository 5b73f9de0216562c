package repositories

import (
	"context"

	"github.com/edusarathi/content-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ArtifactFilters struct {
	Subject    *string                 `json:"subject"`
	Grade      *int                    `json:"grade"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	Status     *models.ArtifactStatus  `json:"status"`
	CreatedBy  *string                 `json:"created_by"`
	Search     string                  `json:"search"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	SortBy     string                  `json:"sort_by"`    // "created_at", "updated_at", "title", "subject", "grade"
	SortOrder  string                  `json:"sort_order"` // "asc", "desc"
}

// Normalize clamps pagination to sane bounds: page >= 1, 1 <= limit <= 100.
func (f *ArtifactFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func (f ArtifactFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

type SheetFilters struct {
	QuizID    *uint               `json:"quiz_id"`
	StudentID *string             `json:"student_id"`
	Status    *models.SheetStatus `json:"status"`
	Page      int                 `json:"page"`
	Limit     int                 `json:"limit"`
}

func (f *SheetFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func (f SheetFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ===== REPOSITORY INTERFACES =====

// ArtifactRepository is the storage contract shared by every artifact kind.
// The five kinds differ only in content payload, so one generic interface
// keeps the storage surface uniform.
type ArtifactRepository[T any] interface {
	Create(ctx context.Context, artifact *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, artifact *T) error
	Save(ctx context.Context, artifact *T) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters ArtifactFilters) ([]*T, int64, error)
}

type (
	CurriculumRepository  = ArtifactRepository[models.Curriculum]
	QuizRepository        = ArtifactRepository[models.Quiz]
	LecturePlanRepository = ArtifactRepository[models.LecturePlan]
	SlideDeckRepository   = ArtifactRepository[models.SlideDeck]
	MindMapRepository     = ArtifactRepository[models.MindMap]
)

// RatingRepository stores per-user artifact ratings. Replace drops any prior
// rating from the same user before inserting the new one (last write wins).
type RatingRepository interface {
	Replace(ctx context.Context, rating *models.Rating) error
	ListForArtifact(ctx context.Context, artifactType string, artifactID uint) ([]models.Rating, error)
	DeleteForArtifact(ctx context.Context, artifactType string, artifactID uint) error
}

type SheetRepository interface {
	Create(ctx context.Context, sheet *models.AnswerSheet) error
	GetByID(ctx context.Context, id uint) (*models.AnswerSheet, error)
	Save(ctx context.Context, sheet *models.AnswerSheet) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters SheetFilters) ([]*models.AnswerSheet, int64, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.AnswerSheet, error)
	CountByQuizAndStudent(ctx context.Context, quizID uint, studentID string) (int64, error)
	DeleteByQuiz(ctx context.Context, quizID uint) error
}

// Repository aggregates all sub-repositories.
type Repository interface {
	Curriculum() CurriculumRepository
	Quiz() QuizRepository
	LecturePlan() LecturePlanRepository
	SlideDeck() SlideDeckRepository
	MindMap() MindMapRepository
	Rating() RatingRepository
	Sheet() SheetRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager handles repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
