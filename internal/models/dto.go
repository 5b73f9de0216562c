package models

import "encoding/json"

// ===== GENERATION REQUESTS =====

type GenerateCurriculumRequest struct {
	Subject            string   `json:"subject" validate:"required,max=100"`
	Grade              int      `json:"grade" validate:"required,min=1,max=12"`
	Duration           string   `json:"duration" validate:"required,max=50"`
	FocusAreas         []string `json:"focusAreas"`
	LearningObjectives []string `json:"learningObjectives"`
	Difficulty         string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Language           string   `json:"language" validate:"omitempty,max=10"`
	IncludeAssessments *bool    `json:"includeAssessments"`
}

type GenerateQuizRequest struct {
	Subject       string   `json:"subject" validate:"required,max=100"`
	Topic         string   `json:"topic" validate:"required,max=200"`
	Grade         int      `json:"grade" validate:"omitempty,min=1,max=12"`
	QuestionCount int      `json:"questionCount" validate:"omitempty,min=1,max=50"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	QuestionTypes []string `json:"questionTypes" validate:"omitempty,dive,oneof=mcq true_false fill_blank short_answer long_answer"`
	Language      string   `json:"language" validate:"omitempty,max=10"`
}

type GenerateLecturePlanRequest struct {
	Subject    string `json:"subject" validate:"required,max=100"`
	Topic      string `json:"topic" validate:"required,max=200"`
	Grade      int    `json:"grade" validate:"required,min=1,max=12"`
	Duration   int    `json:"duration" validate:"omitempty,min=15,max=180"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Language   string `json:"language" validate:"omitempty,max=10"`
}

type GenerateSlidesRequest struct {
	Subject    string `json:"subject" validate:"required,max=100"`
	Topic      string `json:"topic" validate:"required,max=200"`
	Grade      int    `json:"grade" validate:"omitempty,min=1,max=12"`
	SlideCount int    `json:"slideCount" validate:"omitempty,min=3,max=40"`
	Theme      string `json:"theme" validate:"omitempty,max=50"`
	Language   string `json:"language" validate:"omitempty,max=10"`
}

type GenerateMindMapRequest struct {
	Subject  string `json:"subject" validate:"required,max=100"`
	Topic    string `json:"topic" validate:"required,max=200"`
	Grade    int    `json:"grade" validate:"omitempty,min=1,max=12"`
	Depth    int    `json:"depth" validate:"omitempty,min=1,max=5"`
	Language string `json:"language" validate:"omitempty,max=10"`
}

// ===== MUTATION REQUESTS =====

type RateArtifactRequest struct {
	Value    int     `json:"value" validate:"required,min=1,max=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=1000"`
}

// UpdateArtifactRequest carries a client's partial update. Server-owned
// fields (created_by, usage counters, generation metadata) are never bound
// here, so clients cannot forge provenance or popularity data.
type UpdateArtifactRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=1,max=300"`
	Description *string         `json:"description" validate:"omitempty,max=5000"`
	Subject     *string         `json:"subject" validate:"omitempty,max=100"`
	Topic       *string         `json:"topic" validate:"omitempty,max=200"`
	Grade       *int            `json:"grade" validate:"omitempty,min=1,max=12"`
	Difficulty  *string         `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Language    *string         `json:"language" validate:"omitempty,max=10"`
	Tags        []string        `json:"tags"`
	Status      *ArtifactStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
	Content     json.RawMessage `json:"content"` // kind-specific tree replacement
}

// ===== ATTEMPT REQUESTS =====

type StartAttemptRequest struct {
	QuizID uint `json:"quiz_id" validate:"required"`
}

type AttemptAnswer struct {
	QuestionID int    `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
}

type SubmitAttemptRequest struct {
	Answers        []AttemptAnswer `json:"answers" validate:"required,dive"`
	ElapsedMinutes int             `json:"elapsed_minutes" validate:"min=0"`
}

type ReviewAnswer struct {
	QuestionID int     `json:"questionId" validate:"required"`
	Score      float64 `json:"score" validate:"min=0"`
	Feedback   string  `json:"feedback" validate:"omitempty,max=2000"`
}

type ReviewGradingRequest struct {
	Answers []ReviewAnswer `json:"answers" validate:"required,min=1,dive"`
}

// ===== TRANSLATE =====

type TranslateRequest struct {
	Text           string `json:"text" validate:"required,max=10000"`
	SourceLanguage string `json:"source_language" validate:"omitempty,max=10"`
	TargetLanguage string `json:"target_language" validate:"required,max=10"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Model          string `json:"model,omitempty"`
}

// ===== PAGINATION =====

type PageInfo struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// NewPageInfo derives pagination flags from a total count and the
// requested page/limit.
func NewPageInfo(total int64, page, limit int) PageInfo {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageInfo{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
}
