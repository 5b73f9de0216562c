package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/edusarathi/content-service/internal/models"
)

func TestExportQuizResults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewExportService(repo, testLogger())
	quiz := seedQuiz(t, repo, 2, geographyQuestions())

	submitted := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	sheets := []*models.AnswerSheet{
		{
			QuizID:        quiz.ID,
			StudentID:     "student-1",
			AttemptNumber: 1,
			Status:        models.SheetGraded,
			TotalScore:    6,
			MaxScore:      8,
			SubmittedAt:   &submitted,
		},
		{
			QuizID:        quiz.ID,
			StudentID:     "student-2",
			AttemptNumber: 1,
			Status:        models.SheetInProgress,
			MaxScore:      8,
		},
	}
	for _, sheet := range sheets {
		if err := repo.Sheet().Create(context.Background(), sheet); err != nil {
			t.Fatalf("seed sheet: %v", err)
		}
	}

	data, filename, err := svc.ExportQuizResults(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("ExportQuizResults() error = %v", err)
	}
	if want := "quiz-1-results.xlsx"; filename != want {
		t.Errorf("filename = %q, want %q", filename, want)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Results")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 results", len(rows))
	}
	if rows[0][0] != "Student" || rows[0][3] != "Score" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][0] != "student-1" {
		t.Errorf("first result student = %q, want student-1", rows[1][0])
	}
	if rows[1][5] != "75.0%" {
		t.Errorf("first result percent = %q, want 75.0%%", rows[1][5])
	}
	if rows[1][7] != "2026-03-14 10:30" {
		t.Errorf("first result submitted at = %q", rows[1][7])
	}
	if rows[2][2] != string(models.SheetInProgress) {
		t.Errorf("second result status = %q, want %q", rows[2][2], models.SheetInProgress)
	}
}

func TestExportUnknownQuiz(t *testing.T) {
	repo := newFakeRepo()
	svc := NewExportService(repo, testLogger())

	if _, _, err := svc.ExportQuizResults(context.Background(), 404); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("ExportQuizResults() error = %v, want ErrQuizNotFound", err)
	}
}
