package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/events"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/utils"
	"github.com/edusarathi/content-service/internal/validator"
)

type gradingService struct {
	repo      repositories.Repository
	chain     *ai.Chain
	publisher events.Publisher
	logger    utils.Logger
	validator *validator.Validator
}

func NewGradingService(repo repositories.Repository, chain *ai.Chain, publisher events.Publisher, logger utils.Logger, v *validator.Validator) GradingService {
	return &gradingService{
		repo:      repo,
		chain:     chain,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// AttachFiles records uploaded scan paths on an answer sheet.
func (s *gradingService) AttachFiles(ctx context.Context, sheetID uint, paths []string) (*models.AnswerSheet, error) {
	sheet, err := s.getSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	attachments := append(decodeStrings(sheet.Attachments), paths...)
	sheet.Attachments = models.MustJSON(attachments)

	if err := s.repo.Sheet().Save(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// Grade runs the AI grading path over free-text answers. Objective answers
// keep their exact-match scores. A reviewed sheet is final; AI grading never
// overrides manual review.
func (s *gradingService) Grade(ctx context.Context, sheetID uint, graderID string) (*models.AnswerSheet, error) {
	sheet, err := s.getSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	switch sheet.Status {
	case models.SheetInProgress:
		return nil, ErrSheetNotSubmitted
	case models.SheetReviewed:
		return nil, ErrSheetNotGradable
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
	byID := make(map[int]models.QuizQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answers, err := sheet.DecodeAnswers()
	if err != nil {
		return nil, err
	}

	var pending []ai.GradeAnswerInput
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok || q.Type.Objective() {
			continue
		}
		pending = append(pending, ai.GradeAnswerInput{
			QuestionID:    a.QuestionID,
			Question:      q.Text,
			Type:          string(q.Type),
			CorrectAnswer: q.CorrectAnswer,
			StudentAnswer: a.Answer,
			MaxScore:      q.Points,
		})
	}

	now := time.Now()
	grader := graderID
	if grader == "" {
		grader = autoGrader
	}

	if len(pending) > 0 {
		result, err := s.chain.Grade(ctx, pending)
		if err != nil {
			return nil, err
		}

		graded := make(map[int]ai.GradedAnswer, len(result.Answers))
		for _, g := range result.Answers {
			graded[g.QuestionID] = g
		}
		for i := range answers {
			g, ok := graded[answers[i].QuestionID]
			if !ok {
				continue
			}
			answers[i].Score = g.Score
			answers[i].IsCorrect = g.IsCorrect
			answers[i].Feedback = g.Feedback
		}

		sheet.Generation = models.GenerationMeta{
			GeneratedBy:  result.Tier,
			ModelName:    result.Model,
			GenerationMs: result.Elapsed.Milliseconds(),
		}
	}

	sheet.Answers = models.MustJSON(answers)
	if err := sheet.RecalculateScore(); err != nil {
		return nil, err
	}
	sheet.Status = models.SheetGraded
	sheet.GradedBy = &grader
	sheet.GradedAt = &now

	if err := s.repo.Sheet().Save(ctx, sheet); err != nil {
		return nil, err
	}

	s.publish(ctx, events.AttemptGraded, events.AttemptGradedPayload{
		SheetID:    sheet.ID,
		QuizID:     sheet.QuizID,
		StudentID:  sheet.StudentID,
		TotalScore: sheet.TotalScore,
		MaxScore:   sheet.MaxScore,
		GradedBy:   grader,
	})

	return sheet, nil
}

func (s *gradingService) Results(ctx context.Context, sheetID uint) (*models.AnswerSheet, error) {
	return s.getSheet(ctx, sheetID)
}

// Review applies a teacher's per-answer scores and moves the sheet to
// reviewed. Re-review of a graded or already reviewed sheet is allowed;
// review supersedes any AI grading.
func (s *gradingService) Review(ctx context.Context, sheetID uint, req models.ReviewGradingRequest, reviewerID string) (*models.AnswerSheet, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sheet, err := s.getSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if sheet.Status == models.SheetInProgress {
		return nil, ErrSheetNotSubmitted
	}

	answers, err := sheet.DecodeAnswers()
	if err != nil {
		return nil, err
	}
	byID := make(map[int]int, len(answers))
	for i, a := range answers {
		byID[a.QuestionID] = i
	}

	for _, r := range req.Answers {
		i, ok := byID[r.QuestionID]
		if !ok {
			return nil, NewBusinessRuleError("unknown_question",
				fmt.Sprintf("question %d is not part of this answer sheet", r.QuestionID))
		}
		if r.Score > float64(answers[i].MaxScore) {
			return nil, NewBusinessRuleError("score_exceeds_max",
				fmt.Sprintf("score %.1f exceeds maximum %d for question %d", r.Score, answers[i].MaxScore, r.QuestionID))
		}

		answers[i].Score = r.Score
		answers[i].Feedback = r.Feedback
		correct := r.Score >= float64(answers[i].MaxScore)
		answers[i].IsCorrect = &correct
	}

	now := time.Now()
	sheet.Answers = models.MustJSON(answers)
	if err := sheet.RecalculateScore(); err != nil {
		return nil, err
	}
	sheet.Status = models.SheetReviewed
	sheet.ReviewedBy = &reviewerID
	sheet.ReviewedAt = &now

	if err := s.repo.Sheet().Save(ctx, sheet); err != nil {
		return nil, err
	}

	s.publish(ctx, events.GradingReviewed, events.GradingReviewedPayload{
		SheetID:    sheet.ID,
		QuizID:     sheet.QuizID,
		ReviewedBy: reviewerID,
		TotalScore: sheet.TotalScore,
	})

	return sheet, nil
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func (s *gradingService) getSheet(ctx context.Context, sheetID uint) (*models.AnswerSheet, error) {
	sheet, err := s.repo.Sheet().GetByID(ctx, sheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, err
	}
	return sheet, nil
}

func (s *gradingService) publish(ctx context.Context, name string, payload interface{}) {
	if err := s.publisher.Publish(ctx, name, payload); err != nil {
		s.logger.Warn("event publish failed", "event", name, "error", err)
	}
}
