package models

import (
	"time"

	"gorm.io/datatypes"
)

type ArtifactStatus string

const (
	StatusDraft     ArtifactStatus = "draft"
	StatusPublished ArtifactStatus = "published"
	StatusArchived  ArtifactStatus = "archived"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// GenerationTier records which provider produced an artifact.
type GenerationTier string

const (
	TierPrimary GenerationTier = "primary"
	TierLegacy  GenerationTier = "legacy"
	TierMock    GenerationTier = "mock"
)

// ArtifactMeta is descriptive metadata shared by every generated artifact.
// Embedded in each artifact model so filters and list queries stay uniform.
type ArtifactMeta struct {
	Title       string          `json:"title" gorm:"not null;size:300;index" validate:"required,min=1,max=300"`
	Description string          `json:"description" gorm:"type:text"`
	Subject     string          `json:"subject" gorm:"not null;size:100;index" validate:"required,max=100"`
	Topic       string          `json:"topic" gorm:"size:200;index"`
	Grade       int             `json:"grade" gorm:"index" validate:"omitempty,min=1,max=12"`
	Difficulty  DifficultyLevel `json:"difficulty" gorm:"default:medium;index" validate:"omitempty,oneof=easy medium hard"`
	Language    string          `json:"language" gorm:"size:10;default:en"`
	Tags        datatypes.JSON  `json:"tags" gorm:"type:jsonb"` // []string
	Status      ArtifactStatus  `json:"status" gorm:"default:draft;index" validate:"omitempty,oneof=draft published archived"`
	CreatedBy   string          `json:"created_by" gorm:"index;size:255"`
}

// GenerationMeta is provenance for a generated artifact: which tier and
// model produced it and how long generation took.
type GenerationMeta struct {
	GeneratedBy    GenerationTier `json:"generated_by" gorm:"column:generated_by;size:20"`
	ModelName      string         `json:"model_name" gorm:"size:100"`
	GenerationMs   int64          `json:"generation_ms"`
	PromptLanguage string         `json:"prompt_language" gorm:"size:10"`
}

// UsageStats tracks popularity counters. Mutated by read-modify-save cycles;
// increments are not atomic under concurrent requests.
type UsageStats struct {
	Views        int `json:"views" gorm:"default:0"`
	Downloads    int `json:"downloads" gorm:"default:0"`
	Interactions int `json:"interactions" gorm:"default:0"`
}

// Rating is a single user's rating of an artifact. One row per
// (artifact kind, artifact id, user) is maintained by replace-on-write,
// not by a uniqueness constraint.
type Rating struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ArtifactType string    `json:"artifact_type" gorm:"not null;size:30;index:idx_rating_artifact"`
	ArtifactID   uint      `json:"artifact_id" gorm:"not null;index:idx_rating_artifact"`
	UserID       string    `json:"user_id" gorm:"not null;size:255;index"`
	Value        int       `json:"value" gorm:"not null" validate:"required,min=1,max=5"`
	Feedback     *string   `json:"feedback" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

// ReplaceRating applies last-write-wins de-duplication on a rating set:
// any prior rating from the same user is dropped before the new one is
// appended. Pure so the policy is testable without a database.
func ReplaceRating(ratings []Rating, next Rating) []Rating {
	out := make([]Rating, 0, len(ratings)+1)
	for _, r := range ratings {
		if r.UserID != next.UserID {
			out = append(out, r)
		}
	}
	return append(out, next)
}

// AverageRating is computed on demand and never persisted.
func AverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings))
}

const (
	KindCurriculum  = "curriculum"
	KindQuiz        = "quiz"
	KindLecturePlan = "lecture_plan"
	KindSlideDeck   = "slide_deck"
	KindMindMap     = "mindmap"
)
