package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMCQ        QuestionType = "mcq"
	QuestionTrueFalse  QuestionType = "true_false"
	QuestionFillBlank  QuestionType = "fill_blank"
	QuestionShortText  QuestionType = "short_answer"
	QuestionLongAnswer QuestionType = "long_answer"
)

// ObjectiveType reports whether a question type can be graded by exact
// match. Free-text types stay pending until manual or AI grading.
func (t QuestionType) Objective() bool {
	switch t {
	case QuestionMCQ, QuestionTrueFalse, QuestionFillBlank:
		return true
	}
	return false
}

type Quiz struct {
	ID uint `json:"id" gorm:"primaryKey"`

	ArtifactMeta `json:"meta" gorm:"embedded"`

	// Questions stored as a JSONB tree ([]QuizQuestion).
	Questions datatypes.JSON `json:"questions" gorm:"type:jsonb"`

	TotalQuestions int `json:"total_questions"`
	TotalPoints    int `json:"total_points"`
	TimeLimit      int `json:"time_limit" gorm:"default:30"` // minutes

	Settings QuizSettings `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`

	Usage      UsageStats     `json:"usage" gorm:"embedded;embeddedPrefix:usage_"`
	Generation GenerationMeta `json:"generation" gorm:"embedded;embeddedPrefix:gen_"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Ratings []Rating `json:"ratings,omitempty" gorm:"polymorphic:Artifact;polymorphicValue:quiz"`

	AverageRating float64 `json:"average_rating" gorm:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type QuizSettings struct {
	AttemptsAllowed    int  `json:"attempts_allowed" gorm:"default:1" validate:"omitempty,min=1,max=10"`
	ShuffleQuestions   bool `json:"shuffle_questions" gorm:"default:false"`
	ShowCorrectAnswers bool `json:"show_correct_answers" gorm:"default:true"`
}

// ===== QUIZ CONTENT SCHEMA =====

type QuizQuestion struct {
	ID            int          `json:"id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
	Points        int          `json:"points"`
}

// DecodeQuestions unmarshals the JSONB question tree.
func (q *Quiz) DecodeQuestions() ([]QuizQuestion, error) {
	if len(q.Questions) == 0 {
		return nil, nil
	}
	var questions []QuizQuestion
	if err := json.Unmarshal(q.Questions, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// RecalculateTotals recomputes TotalQuestions and TotalPoints from the
// question tree. Saving twice without modifying questions yields the same
// totals.
func (q *Quiz) RecalculateTotals() {
	questions, err := q.DecodeQuestions()
	if err != nil {
		return
	}
	q.TotalQuestions = len(questions)
	total := 0
	for _, question := range questions {
		total += question.Points
	}
	q.TotalPoints = total
}
