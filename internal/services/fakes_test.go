package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/utils"
	"github.com/edusarathi/content-service/internal/validator"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mockChain() *ai.Chain {
	return ai.NewChain(testLogger(), ai.NewMockProvider())
}

// fakeArtifacts is an in-memory ArtifactRepository. Values are stored and
// returned by copy so that mutations only persist through Save/Update, the
// same contract a database gives the services.
type fakeArtifacts[T any] struct {
	mu     sync.Mutex
	items  map[uint]T
	nextID uint
	getID  func(*T) uint
	setID  func(*T, uint)
}

func newFakeArtifacts[T any](getID func(*T) uint, setID func(*T, uint)) *fakeArtifacts[T] {
	return &fakeArtifacts[T]{
		items: make(map[uint]T),
		getID: getID,
		setID: setID,
	}
}

func (f *fakeArtifacts[T]) Create(ctx context.Context, artifact *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.setID(artifact, f.nextID)
	f.items[f.nextID] = *artifact
	return nil
}

func (f *fakeArtifacts[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (f *fakeArtifacts[T]) Update(ctx context.Context, artifact *T) error {
	return f.Save(ctx, artifact)
}

func (f *fakeArtifacts[T]) Save(ctx context.Context, artifact *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.getID(artifact)
	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[id] = *artifact
	return nil
}

func (f *fakeArtifacts[T]) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items, id)
	return nil
}

// List returns all items ordered by id and applies pagination only. The
// services under test exercise filtering through the real repository.
func (f *fakeArtifacts[T]) List(ctx context.Context, filters repositories.ArtifactFilters) ([]*T, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]uint, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	start := filters.Offset()
	if start > len(ids) {
		start = len(ids)
	}
	end := start + filters.Limit
	if end > len(ids) {
		end = len(ids)
	}

	out := make([]*T, 0, end-start)
	for _, id := range ids[start:end] {
		item := f.items[id]
		out = append(out, &item)
	}
	return out, total, nil
}

type fakeRatings struct {
	mu     sync.Mutex
	rows   []models.Rating
	nextID uint
}

func (f *fakeRatings) Replace(ctx context.Context, rating *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var same, others []models.Rating
	for _, r := range f.rows {
		if r.ArtifactType == rating.ArtifactType && r.ArtifactID == rating.ArtifactID {
			same = append(same, r)
		} else {
			others = append(others, r)
		}
	}
	f.nextID++
	rating.ID = f.nextID
	f.rows = append(others, models.ReplaceRating(same, *rating)...)
	return nil
}

func (f *fakeRatings) ListForArtifact(ctx context.Context, artifactType string, artifactID uint) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rating
	for _, r := range f.rows {
		if r.ArtifactType == artifactType && r.ArtifactID == artifactID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatings) DeleteForArtifact(ctx context.Context, artifactType string, artifactID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.ArtifactType == artifactType && r.ArtifactID == artifactID {
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return nil
}

type fakeSheets struct {
	mu     sync.Mutex
	items  map[uint]models.AnswerSheet
	nextID uint
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{items: make(map[uint]models.AnswerSheet)}
}

func (f *fakeSheets) Create(ctx context.Context, sheet *models.AnswerSheet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sheet.ID = f.nextID
	f.items[sheet.ID] = *sheet
	return nil
}

func (f *fakeSheets) GetByID(ctx context.Context, id uint) (*models.AnswerSheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sheet, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sheet, nil
}

func (f *fakeSheets) Save(ctx context.Context, sheet *models.AnswerSheet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[sheet.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[sheet.ID] = *sheet
	return nil
}

func (f *fakeSheets) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeSheets) List(ctx context.Context, filters repositories.SheetFilters) ([]*models.AnswerSheet, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := f.sortedLocked(func(s models.AnswerSheet) bool {
		if filters.QuizID != nil && s.QuizID != *filters.QuizID {
			return false
		}
		if filters.StudentID != nil && s.StudentID != *filters.StudentID {
			return false
		}
		if filters.Status != nil && s.Status != *filters.Status {
			return false
		}
		return true
	})

	total := int64(len(matched))
	start := filters.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filters.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeSheets) ListByQuiz(ctx context.Context, quizID uint) ([]*models.AnswerSheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked(func(s models.AnswerSheet) bool { return s.QuizID == quizID }), nil
}

func (f *fakeSheets) CountByQuizAndStudent(ctx context.Context, quizID uint, studentID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, s := range f.items {
		if s.QuizID == quizID && s.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSheets) DeleteByQuiz(ctx context.Context, quizID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.items {
		if s.QuizID == quizID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeSheets) sortedLocked(match func(models.AnswerSheet) bool) []*models.AnswerSheet {
	ids := make([]uint, 0, len(f.items))
	for id, s := range f.items {
		if match(s) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*models.AnswerSheet, 0, len(ids))
	for _, id := range ids {
		sheet := f.items[id]
		out = append(out, &sheet)
	}
	return out
}

type fakeRepo struct {
	curricula    *fakeArtifacts[models.Curriculum]
	quizzes      *fakeArtifacts[models.Quiz]
	lecturePlans *fakeArtifacts[models.LecturePlan]
	slideDecks   *fakeArtifacts[models.SlideDeck]
	mindMaps     *fakeArtifacts[models.MindMap]
	ratings      *fakeRatings
	sheets       *fakeSheets
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		curricula: newFakeArtifacts(
			func(c *models.Curriculum) uint { return c.ID },
			func(c *models.Curriculum, id uint) { c.ID = id },
		),
		quizzes: newFakeArtifacts(
			func(q *models.Quiz) uint { return q.ID },
			func(q *models.Quiz, id uint) { q.ID = id },
		),
		lecturePlans: newFakeArtifacts(
			func(p *models.LecturePlan) uint { return p.ID },
			func(p *models.LecturePlan, id uint) { p.ID = id },
		),
		slideDecks: newFakeArtifacts(
			func(d *models.SlideDeck) uint { return d.ID },
			func(d *models.SlideDeck, id uint) { d.ID = id },
		),
		mindMaps: newFakeArtifacts(
			func(m *models.MindMap) uint { return m.ID },
			func(m *models.MindMap, id uint) { m.ID = id },
		),
		ratings: &fakeRatings{},
		sheets:  newFakeSheets(),
	}
}

func (r *fakeRepo) Curriculum() repositories.CurriculumRepository   { return r.curricula }
func (r *fakeRepo) Quiz() repositories.QuizRepository               { return r.quizzes }
func (r *fakeRepo) LecturePlan() repositories.LecturePlanRepository { return r.lecturePlans }
func (r *fakeRepo) SlideDeck() repositories.SlideDeckRepository     { return r.slideDecks }
func (r *fakeRepo) MindMap() repositories.MindMapRepository         { return r.mindMaps }
func (r *fakeRepo) Rating() repositories.RatingRepository           { return r.ratings }
func (r *fakeRepo) Sheet() repositories.SheetRepository             { return r.sheets }

func (r *fakeRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) Ping(ctx context.Context) error { return nil }
func (r *fakeRepo) Close() error                   { return nil }

// geographyQuestions is the standard question set used across attempt and
// grading tests: two objective questions worth 3 points and one free-text
// question worth 5.
func geographyQuestions() []models.QuizQuestion {
	return []models.QuizQuestion{
		{
			ID:            1,
			Type:          models.QuestionMCQ,
			Text:          "What is the capital of France?",
			Options:       []string{"Paris", "Lyon", "Marseille", "Nice"},
			CorrectAnswer: "Paris",
			Points:        2,
		},
		{
			ID:            2,
			Type:          models.QuestionTrueFalse,
			Text:          "The Nile flows through France.",
			Options:       []string{"True", "False"},
			CorrectAnswer: "False",
			Points:        1,
		},
		{
			ID:     3,
			Type:   models.QuestionShortText,
			Text:   "Describe how rivers shape valleys.",
			Points: 5,
		},
	}
}

func seedQuiz(t *testing.T, repo *fakeRepo, attemptsAllowed int, questions []models.QuizQuestion) *models.Quiz {
	t.Helper()
	quiz := &models.Quiz{
		ArtifactMeta: models.ArtifactMeta{
			Title:     "Geography Quiz",
			Subject:   "Geography",
			Topic:     "Rivers",
			Status:    models.StatusPublished,
			CreatedBy: "teacher-1",
		},
		Questions: models.MustJSON(questions),
		Settings:  models.QuizSettings{AttemptsAllowed: attemptsAllowed},
	}
	quiz.RecalculateTotals()
	if err := repo.Quiz().Create(context.Background(), quiz); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return quiz
}

func newTestValidator() *validator.Validator {
	return validator.New()
}
