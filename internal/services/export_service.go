package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/utils"
)

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var resultColumns = []string{"Student", "Attempt", "Status", "Score", "Max Score", "Percent", "Elapsed (min)", "Submitted At"}

// ExportQuizResults renders one row per answer sheet of a quiz as an xlsx
// workbook.
func (s *exportService) ExportQuizResults(ctx context.Context, quizID uint) ([]byte, string, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrQuizNotFound
		}
		return nil, "", err
	}

	sheets, err := s.repo.Sheet().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Results"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	for col, header := range resultColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, "", err
		}
	}

	for row, sheet := range sheets {
		percent := 0.0
		if sheet.MaxScore > 0 {
			percent = sheet.TotalScore / float64(sheet.MaxScore) * 100
		}
		submittedAt := ""
		if sheet.SubmittedAt != nil {
			submittedAt = sheet.SubmittedAt.Format("2006-01-02 15:04")
		}

		values := []interface{}{
			sheet.StudentID,
			sheet.AttemptNumber,
			string(sheet.Status),
			sheet.TotalScore,
			sheet.MaxScore,
			fmt.Sprintf("%.1f%%", percent),
			sheet.ElapsedMinutes,
			submittedAt,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("quiz-%d-results.xlsx", quiz.ID)
	return buf.Bytes(), filename, nil
}
