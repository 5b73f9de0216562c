package postgres

import (
	"context"
	"fmt"

	"github.com/edusarathi/content-service/internal/cache"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"gorm.io/gorm"
)

type SheetPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSheetPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SheetRepository {
	return &SheetPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (s *SheetPostgreSQL) Create(ctx context.Context, sheet *models.AnswerSheet) error {
	if err := s.db.WithContext(ctx).Create(sheet).Error; err != nil {
		return fmt.Errorf("failed to create answer sheet: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, s.cacheManager.Sheet, fmt.Sprintf("quiz:%d:*", sheet.QuizID))
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Sheet, "list:*")
	return nil
}

func (s *SheetPostgreSQL) GetByID(ctx context.Context, id uint) (*models.AnswerSheet, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var sheet models.AnswerSheet

	err := s.cacheManager.Sheet.CacheOrExecute(ctx, cacheKey, &sheet, cache.SheetCacheConfig.TTL, func() (interface{}, error) {
		var fromDB models.AnswerSheet
		if err := s.db.WithContext(ctx).First(&fromDB, id).Error; err != nil {
			return nil, fmt.Errorf("failed to get answer sheet: %w", err)
		}
		return &fromDB, nil
	})

	if err != nil {
		return nil, err
	}

	return &sheet, nil
}

func (s *SheetPostgreSQL) Save(ctx context.Context, sheet *models.AnswerSheet) error {
	if err := s.db.WithContext(ctx).Save(sheet).Error; err != nil {
		return fmt.Errorf("failed to save answer sheet: %w", err)
	}

	cache.InvalidateSheetCache(ctx, s.cacheManager, sheet.ID, sheet.QuizID)
	return nil
}

func (s *SheetPostgreSQL) Delete(ctx context.Context, id uint) error {
	var sheet models.AnswerSheet
	if err := s.db.WithContext(ctx).Select("id, quiz_id").First(&sheet, id).Error; err != nil {
		return fmt.Errorf("failed to get answer sheet before delete: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.AnswerSheet{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete answer sheet: %w", err)
	}

	cache.InvalidateSheetCache(ctx, s.cacheManager, id, sheet.QuizID)
	return nil
}

func (s *SheetPostgreSQL) List(ctx context.Context, filters repositories.SheetFilters) ([]*models.AnswerSheet, int64, error) {
	filters.Normalize()

	query := s.db.WithContext(ctx).Model(&models.AnswerSheet{})
	query = s.helpers.ApplySheetFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count answer sheets: %w", err)
	}

	query = s.helpers.ApplyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset())

	var sheets []*models.AnswerSheet
	if err := query.Find(&sheets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list answer sheets: %w", err)
	}

	return sheets, total, nil
}

func (s *SheetPostgreSQL) ListByQuiz(ctx context.Context, quizID uint) ([]*models.AnswerSheet, error) {
	var sheets []*models.AnswerSheet
	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("student_id ASC, attempt_number ASC").
		Find(&sheets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list answer sheets for quiz: %w", err)
	}
	return sheets, nil
}

func (s *SheetPostgreSQL) CountByQuizAndStudent(ctx context.Context, quizID uint, studentID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.AnswerSheet{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error
	return count, err
}

// DeleteByQuiz removes every sheet belonging to a quiz. Callers run this
// alongside the quiz delete itself; the two operations are not wrapped in a
// shared transaction.
func (s *SheetPostgreSQL) DeleteByQuiz(ctx context.Context, quizID uint) error {
	if err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Delete(&models.AnswerSheet{}).Error; err != nil {
		return fmt.Errorf("failed to delete answer sheets for quiz: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, s.cacheManager.Sheet, fmt.Sprintf("quiz:%d:*", quizID))
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Sheet, "list:*")
	return nil
}
