package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type SheetStatus string

const (
	SheetInProgress SheetStatus = "in_progress"
	SheetSubmitted  SheetStatus = "submitted"
	SheetGraded     SheetStatus = "graded"
	SheetReviewed   SheetStatus = "reviewed"
)

// AnswerSheet is a student's attempt at a quiz. Status moves strictly
// forward except that manual review may re-grade an already graded sheet.
type AnswerSheet struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	QuizID    uint   `json:"quiz_id" gorm:"not null;index"`
	StudentID string `json:"student_id" gorm:"not null;size:255;index"`

	AttemptNumber int         `json:"attempt_number" gorm:"not null;default:1"`
	Status        SheetStatus `json:"status" gorm:"default:in_progress;index"`

	// []SheetAnswer
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	// Uploaded scan paths for offline grading ([]string).
	Attachments datatypes.JSON `json:"attachments" gorm:"type:jsonb"`

	StartedAt      *time.Time `json:"started_at"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	ElapsedMinutes int        `json:"elapsed_minutes"`

	TotalScore float64 `json:"total_score"`
	MaxScore   int     `json:"max_score"`

	GradedBy   *string    `json:"graded_by" gorm:"size:255"`
	GradedAt   *time.Time `json:"graded_at"`
	ReviewedBy *string    `json:"reviewed_by" gorm:"size:255"`
	ReviewedAt *time.Time `json:"reviewed_at"`

	Generation GenerationMeta `json:"generation" gorm:"embedded;embeddedPrefix:gen_"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Quiz Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
}

func (AnswerSheet) TableName() string {
	return "answer_sheets"
}

type SheetAnswer struct {
	QuestionID int     `json:"questionId"`
	Answer     string  `json:"answer"`
	Score      float64 `json:"score"`
	MaxScore   int     `json:"maxScore"`
	IsCorrect  *bool   `json:"isCorrect,omitempty"` // nil while free text is pending
	Feedback   string  `json:"feedback,omitempty"`
}

func (s *AnswerSheet) DecodeAnswers() ([]SheetAnswer, error) {
	if len(s.Answers) == 0 {
		return nil, nil
	}
	var answers []SheetAnswer
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// RecalculateScore recomputes the sheet total as the sum of per-answer
// scores. Idempotent; invoked by the submit, grade and review paths.
func (s *AnswerSheet) RecalculateScore() error {
	answers, err := s.DecodeAnswers()
	if err != nil {
		return err
	}
	total := 0.0
	max := 0
	for _, a := range answers {
		total += a.Score
		max += a.MaxScore
	}
	s.TotalScore = total
	s.MaxScore = max
	return nil
}
