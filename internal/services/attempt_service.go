package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/events"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/utils"
	"github.com/edusarathi/content-service/internal/validator"
)

const autoGrader = "auto"

type attemptService struct {
	repo      repositories.Repository
	publisher events.Publisher
	logger    utils.Logger
	validator *validator.Validator
}

func NewAttemptService(repo repositories.Repository, publisher events.Publisher, logger utils.Logger, v *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// Start opens a new attempt when the student is under the quiz attempt
// limit. No row is created on refusal.
func (s *attemptService) Start(ctx context.Context, quizID uint, studentID string) (*models.AnswerSheet, error) {
	if studentID == "" {
		return nil, NewPermissionError(studentID, quizID, "attempt", "start", "missing student identity")
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	prior, err := s.repo.Sheet().CountByQuizAndStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, err
	}

	allowed := quiz.Settings.AttemptsAllowed
	if allowed <= 0 {
		allowed = 1
	}
	if prior >= int64(allowed) {
		return nil, ErrAttemptLimitReached
	}

	now := time.Now()
	sheet := &models.AnswerSheet{
		QuizID:        quizID,
		StudentID:     studentID,
		AttemptNumber: int(prior) + 1,
		Status:        models.SheetInProgress,
		StartedAt:     &now,
		MaxScore:      quiz.TotalPoints,
	}

	if err := s.repo.Sheet().Create(ctx, sheet); err != nil {
		return nil, err
	}

	return sheet, nil
}

// Submit records the answers and immediately auto-grades objective
// questions. Free-text answers stay pending with a zero score until manual
// or AI grading.
func (s *attemptService) Submit(ctx context.Context, sheetID uint, req models.SubmitAttemptRequest, studentID string) (*models.AnswerSheet, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sheet, err := s.repo.Sheet().GetByID(ctx, sheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, err
	}

	if studentID != "" && sheet.StudentID != studentID {
		return nil, NewPermissionError(studentID, sheetID, "attempt", "submit", "not owned by student")
	}
	if sheet.Status != models.SheetInProgress {
		return nil, ErrAttemptAlreadySubmitted
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, sheet.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	questions, err := quiz.DecodeQuestions()
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[int]string, len(req.Answers))
	for _, a := range req.Answers {
		byQuestion[a.QuestionID] = a.Answer
	}

	answers := make([]models.SheetAnswer, 0, len(questions))
	for _, q := range questions {
		answer := models.SheetAnswer{
			QuestionID: q.ID,
			Answer:     byQuestion[q.ID],
			MaxScore:   q.Points,
		}
		if q.Type.Objective() {
			correct := ai.NormalizeAnswer(answer.Answer) == ai.NormalizeAnswer(q.CorrectAnswer)
			answer.IsCorrect = &correct
			if correct {
				answer.Score = float64(q.Points)
			}
		}
		answers = append(answers, answer)
	}

	now := time.Now()
	sheet.Answers = models.MustJSON(answers)
	sheet.SubmittedAt = &now
	sheet.ElapsedMinutes = req.ElapsedMinutes
	if sheet.ElapsedMinutes <= 0 && sheet.StartedAt != nil {
		sheet.ElapsedMinutes = int(now.Sub(*sheet.StartedAt).Minutes())
	}

	if err := sheet.RecalculateScore(); err != nil {
		return nil, err
	}

	grader := autoGrader
	sheet.Status = models.SheetGraded
	sheet.GradedBy = &grader
	sheet.GradedAt = &now

	if err := s.repo.Sheet().Save(ctx, sheet); err != nil {
		return nil, err
	}

	s.publish(ctx, events.AttemptSubmitted, events.AttemptSubmittedPayload{
		SheetID:   sheet.ID,
		QuizID:    sheet.QuizID,
		StudentID: sheet.StudentID,
	})
	s.publish(ctx, events.AttemptGraded, events.AttemptGradedPayload{
		SheetID:    sheet.ID,
		QuizID:     sheet.QuizID,
		StudentID:  sheet.StudentID,
		TotalScore: sheet.TotalScore,
		MaxScore:   sheet.MaxScore,
		GradedBy:   autoGrader,
	})

	return sheet, nil
}

func (s *attemptService) GetByID(ctx context.Context, sheetID uint) (*models.AnswerSheet, error) {
	sheet, err := s.repo.Sheet().GetByID(ctx, sheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, err
	}
	return sheet, nil
}

func (s *attemptService) ListByQuiz(ctx context.Context, quizID uint, filters repositories.SheetFilters) ([]*models.AnswerSheet, models.PageInfo, error) {
	filters.QuizID = &quizID
	filters.Normalize()

	sheets, total, err := s.repo.Sheet().List(ctx, filters)
	if err != nil {
		return nil, models.PageInfo{}, err
	}

	return sheets, models.NewPageInfo(total, filters.Page, filters.Limit), nil
}

func (s *attemptService) publish(ctx context.Context, name string, payload interface{}) {
	if err := s.publisher.Publish(ctx, name, payload); err != nil {
		s.logger.Warn("event publish failed", "event", name, "error", err)
	}
}
