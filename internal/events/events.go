package events

import (
	"time"

	"github.com/edusarathi/content-service/internal/models"
)

// Event names published on the service topic.
const (
	ArtifactGenerated = "artifact.generated"
	AttemptSubmitted  = "attempt.submitted"
	AttemptGraded     = "attempt.graded"
	GradingReviewed   = "grading.reviewed"
)

// Envelope wraps every published payload with its name and timestamp.
type Envelope struct {
	Name       string      `json:"name"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type ArtifactGeneratedPayload struct {
	Kind       string                `json:"kind"`
	ArtifactID uint                  `json:"artifact_id"`
	CreatedBy  string                `json:"created_by"`
	Tier       models.GenerationTier `json:"tier"`
	Model      string                `json:"model"`
}

type AttemptSubmittedPayload struct {
	SheetID   uint   `json:"sheet_id"`
	QuizID    uint   `json:"quiz_id"`
	StudentID string `json:"student_id"`
}

type AttemptGradedPayload struct {
	SheetID    uint    `json:"sheet_id"`
	QuizID     uint    `json:"quiz_id"`
	StudentID  string  `json:"student_id"`
	TotalScore float64 `json:"total_score"`
	MaxScore   int     `json:"max_score"`
	GradedBy   string  `json:"graded_by"`
}

type GradingReviewedPayload struct {
	SheetID    uint    `json:"sheet_id"`
	QuizID     uint    `json:"quiz_id"`
	ReviewedBy string  `json:"reviewed_by"`
	TotalScore float64 `json:"total_score"`
}
