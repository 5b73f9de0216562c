package services

import (
	"context"
	"errors"
	"testing"

	"github.com/edusarathi/content-service/internal/events"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/validator"
)

func newQuizFixture(t *testing.T) (*fakeRepo, QuizService) {
	t.Helper()
	repo := newFakeRepo()
	svc := NewQuizService(repo, mockChain(), events.NopPublisher{}, testLogger(), newTestValidator())
	return repo, svc
}

func TestGenerateQuizPersists(t *testing.T) {
	_, svc := newQuizFixture(t)

	req := models.GenerateQuizRequest{
		Subject:       "Geography",
		Topic:         "Rivers",
		Grade:         6,
		QuestionCount: 5,
	}
	quiz, err := svc.Generate(context.Background(), req, "teacher-1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if quiz.ID == 0 {
		t.Error("expected a persisted quiz with a non-zero id")
	}
	if quiz.CreatedBy != "teacher-1" {
		t.Errorf("CreatedBy = %q, want teacher-1", quiz.CreatedBy)
	}
	if quiz.Status != models.StatusDraft {
		t.Errorf("Status = %q, want %q", quiz.Status, models.StatusDraft)
	}
	if quiz.TotalQuestions != 5 {
		t.Errorf("TotalQuestions = %d, want 5", quiz.TotalQuestions)
	}
	if quiz.Generation.GeneratedBy != models.TierMock {
		t.Errorf("GeneratedBy = %q, want %q", quiz.Generation.GeneratedBy, models.TierMock)
	}
}

func TestGenerateQuizValidation(t *testing.T) {
	_, svc := newQuizFixture(t)

	_, err := svc.Generate(context.Background(), models.GenerateQuizRequest{Topic: "Rivers"}, "teacher-1")
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Generate() error = %v, want ValidationErrors", err)
	}
	if _, ok := verrs.FieldMap()["subject"]; !ok {
		t.Errorf("FieldMap() = %v, want a subject entry", verrs.FieldMap())
	}
}

func TestGetByIDUnknown(t *testing.T) {
	_, svc := newQuizFixture(t)
	if _, err := svc.GetByID(context.Background(), 404); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrQuizNotFound", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo, svc := newQuizFixture(t)
	quiz := seedQuiz(t, repo, 1, geographyQuestions())

	title := "Rivers of the World"
	grade := 8
	req := models.UpdateArtifactRequest{Title: &title, Grade: &grade}
	updated, err := svc.Update(context.Background(), quiz.ID, req, "teacher-1")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Title != "Rivers of the World" {
		t.Errorf("Title = %q", updated.Title)
	}
	if updated.Grade != 8 {
		t.Errorf("Grade = %d, want 8", updated.Grade)
	}
	// Untouched fields keep their values.
	if updated.Subject != "Geography" {
		t.Errorf("Subject = %q, want Geography", updated.Subject)
	}
}

func TestUpdateReplacesContent(t *testing.T) {
	repo, svc := newQuizFixture(t)
	quiz := seedQuiz(t, repo, 1, geographyQuestions())

	content := models.MustJSON([]models.QuizQuestion{
		{ID: 1, Type: models.QuestionMCQ, Text: "Pick one.", CorrectAnswer: "a", Points: 4},
		{ID: 2, Type: models.QuestionShortText, Text: "Explain.", Points: 6},
	})
	req := models.UpdateArtifactRequest{Content: []byte(content)}
	updated, err := svc.Update(context.Background(), quiz.ID, req, "teacher-1")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", updated.TotalQuestions)
	}
	if updated.TotalPoints != 10 {
		t.Errorf("TotalPoints = %d, want 10", updated.TotalPoints)
	}
}

func TestUpdateByNonCreator(t *testing.T) {
	repo, svc := newQuizFixture(t)
	quiz := seedQuiz(t, repo, 1, geographyQuestions())

	title := "Hijacked"
	_, err := svc.Update(context.Background(), quiz.ID, models.UpdateArtifactRequest{Title: &title}, "teacher-2")
	var perm *PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("Update() error = %v, want PermissionError", err)
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	repo, svc := newQuizFixture(t)
	quiz := seedQuiz(t, repo, 1, geographyQuestions())
	quiz.Status = models.StatusDraft
	if err := repo.Quiz().Save(context.Background(), quiz); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	published, err := svc.UpdateStatus(context.Background(), quiz.ID, models.StatusPublished, "teacher-1")
	if err != nil {
		t.Fatalf("publish error = %v", err)
	}
	if published.Status != models.StatusPublished {
		t.Errorf("Status = %q, want %q", published.Status, models.StatusPublished)
	}

	// Re-publishing an already published quiz is a no-op.
	if _, err := svc.UpdateStatus(context.Background(), quiz.ID, models.StatusPublished, "teacher-1"); err != nil {
		t.Errorf("re-publish error = %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), quiz.ID, models.StatusDraft, "teacher-1"); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("back-to-draft error = %v, want ErrInvalidStatusChange", err)
	}

	archived, err := svc.UpdateStatus(context.Background(), quiz.ID, models.StatusArchived, "teacher-1")
	if err != nil {
		t.Fatalf("archive error = %v", err)
	}
	if archived.Status != models.StatusArchived {
		t.Errorf("Status = %q, want %q", archived.Status, models.StatusArchived)
	}
}

func TestRateReplacesPerUser(t *testing.T) {
	repo, svc := newQuizFixture(t)
	quiz := seedQuiz(t, repo, 1, geographyQuestions())

	if _, err := svc.Rate(context.Background(), quiz.ID, models.RateArtifactRequest{Value: 4}, "student-1"); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	rated, err := svc.Rate(context.Background(), quiz.ID, models.RateArtifactRequest{Value: 2}, "student-1")
	if err != nil {
		t.Fatalf("second Rate() error = %v", err)
	}

	if len(rated.Ratings) != 1 {
		t.Fatalf("got %d ratings, want 1", len(rated.Ratings))
	}
	if rated.AverageRating != 2 {
		t.Errorf("AverageRating = %v, want 2", rated.AverageRating)
	}

	rated, err = svc.Rate(context.Background(), quiz.ID, models.RateArtifactRequest{Value: 4}, "student-2")
	if err != nil {
		t.Fatalf("Rate() by second user error = %v", err)
	}
	if len(rated.Ratings) != 2 {
		t.Fatalf("got %d ratings, want 2", len(rated.Ratings))
	}
	if rated.AverageRating != 3 {
		t.Errorf("AverageRating = %v, want 3", rated.AverageRating)
	}
}

func TestRateValidation(t *testing.T) {
	repo, svc := newQuizFixture(t)
	quiz := seedQuiz(t, repo, 1, geographyQuestions())

	_, err := svc.Rate(context.Background(), quiz.ID, models.RateArtifactRequest{Value: 9}, "student-1")
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Rate() error = %v, want ValidationErrors", err)
	}
}

func TestDeleteQuizRemovesDependents(t *testing.T) {
	repo, svc := newQuizFixture(t)
	quiz := seedQuiz(t, repo, 2, geographyQuestions())

	attempt := NewAttemptService(repo, events.NopPublisher{}, testLogger(), newTestValidator())
	if _, err := attempt.Start(context.Background(), quiz.ID, "student-1"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.Rate(context.Background(), quiz.ID, models.RateArtifactRequest{Value: 5}, "student-1"); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}

	if err := svc.Delete(context.Background(), quiz.ID, "teacher-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := svc.GetByID(context.Background(), quiz.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrQuizNotFound", err)
	}
	count, err := repo.Sheet().CountByQuizAndStudent(context.Background(), quiz.ID, "student-1")
	if err != nil {
		t.Fatalf("CountByQuizAndStudent() error = %v", err)
	}
	if count != 0 {
		t.Errorf("sheet count after delete = %d, want 0", count)
	}
	ratings, err := repo.Rating().ListForArtifact(context.Background(), models.KindQuiz, quiz.ID)
	if err != nil {
		t.Fatalf("ListForArtifact() error = %v", err)
	}
	if len(ratings) != 0 {
		t.Errorf("ratings after delete = %d, want 0", len(ratings))
	}
}

func TestDeleteByNonCreator(t *testing.T) {
	repo, svc := newQuizFixture(t)
	quiz := seedQuiz(t, repo, 1, geographyQuestions())

	err := svc.Delete(context.Background(), quiz.ID, "teacher-2")
	var perm *PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("Delete() error = %v, want PermissionError", err)
	}
}

func TestListPaginates(t *testing.T) {
	repo, svc := newQuizFixture(t)
	for i := 0; i < 3; i++ {
		seedQuiz(t, repo, 1, geographyQuestions())
	}

	quizzes, page, err := svc.List(context.Background(), repositories.ArtifactFilters{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(quizzes) != 1 {
		t.Errorf("got %d quizzes on page 2, want 1", len(quizzes))
	}
	if page.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Total)
	}
	if !page.HasPrevPage || page.HasNextPage {
		t.Errorf("page flags = prev %v next %v, want prev true next false", page.HasPrevPage, page.HasNextPage)
	}
}

func TestGetByIDCountsViews(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCurriculumService(repo, mockChain(), events.NopPublisher{}, testLogger(), newTestValidator())

	curriculum := &models.Curriculum{
		ArtifactMeta: models.ArtifactMeta{
			Title:     "Grade 6 Science",
			Subject:   "Science",
			CreatedBy: "teacher-1",
		},
	}
	if err := repo.Curriculum().Create(context.Background(), curriculum); err != nil {
		t.Fatalf("seed curriculum: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.GetByID(context.Background(), curriculum.ID); err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
	}

	stored, err := repo.Curriculum().GetByID(context.Background(), curriculum.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Usage.Views != 2 {
		t.Errorf("Views = %d, want 2", stored.Usage.Views)
	}
}
