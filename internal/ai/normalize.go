package ai

import (
	"encoding/json"
	"fmt"

	"github.com/edusarathi/content-service/internal/models"
)

// Defaults derives fallback values for optional artifact fields from the
// request metadata. All generation-time defaulting lives here so providers
// and services never fill fields ad hoc.
type Defaults struct {
	Subject    string
	Topic      string
	Grade      int
	Difficulty string
	Language   string
}

func (d Defaults) normalized() Defaults {
	if d.Difficulty == "" {
		d.Difficulty = string(models.DifficultyMedium)
	}
	if d.Language == "" {
		d.Language = "en"
	}
	return d
}

func (d Defaults) tags() []string {
	tags := []string{d.Subject}
	if d.Topic != "" {
		tags = append(tags, d.Topic)
	}
	if d.Grade > 0 {
		tags = append(tags, fmt.Sprintf("grade-%d", d.Grade))
	}
	return tags
}

func (d Defaults) meta(title, description string) models.ArtifactMeta {
	return models.ArtifactMeta{
		Title:       title,
		Description: description,
		Subject:     d.Subject,
		Topic:       d.Topic,
		Grade:       d.Grade,
		Difficulty:  models.DifficultyLevel(d.Difficulty),
		Language:    d.Language,
		Tags:        models.MustJSON(d.tags()),
		Status:      models.StatusDraft,
	}
}

func provenance(res *Result, language string) models.GenerationMeta {
	return models.GenerationMeta{
		GeneratedBy:    res.Tier,
		ModelName:      res.Model,
		GenerationMs:   res.Elapsed.Milliseconds(),
		PromptLanguage: language,
	}
}

// ===== PER-KIND ASSEMBLY =====

type generatedCurriculum struct {
	Title              string                      `json:"title"`
	Description        string                      `json:"description"`
	VisionStatement    string                      `json:"visionStatement"`
	Objectives         []string                    `json:"objectives"`
	Units              []models.CurriculumUnit     `json:"units"`
	AssessmentStrategy *models.AssessmentStrategy  `json:"assessmentStrategy"`
	Resources          *models.CurriculumResources `json:"resources"`
}

// BuildCurriculum decodes generated content into a Curriculum model,
// filling omitted optional fields with request-derived defaults.
func BuildCurriculum(req models.GenerateCurriculumRequest, res *Result) (*models.Curriculum, error) {
	var content generatedCurriculum
	if err := json.Unmarshal(res.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode curriculum content: %w", err)
	}

	d := Defaults{
		Subject:    req.Subject,
		Grade:      req.Grade,
		Difficulty: req.Difficulty,
		Language:   req.Language,
	}.normalized()

	if content.Title == "" {
		content.Title = fmt.Sprintf("%s Curriculum - Grade %d", req.Subject, req.Grade)
	}
	if content.VisionStatement == "" {
		content.VisionStatement = fmt.Sprintf("Build a deep, lasting understanding of %s.", req.Subject)
	}
	if len(content.Objectives) == 0 {
		content.Objectives = req.LearningObjectives
	}
	if content.AssessmentStrategy == nil {
		content.AssessmentStrategy = &models.AssessmentStrategy{
			Philosophy:           "Assess for learning, not just of learning.",
			FormativeAssessments: []string{"Weekly quizzes"},
			SummativeAssessments: []string{"Unit tests"},
		}
	}
	if content.Resources == nil {
		content.Resources = &models.CurriculumResources{
			Textbooks: []models.TextbookRef{
				{Title: fmt.Sprintf("NCERT %s, Grade %d", req.Subject, req.Grade), Type: "primary"},
			},
		}
	}

	curriculum := &models.Curriculum{
		ArtifactMeta:       d.meta(content.Title, content.Description),
		Duration:           req.Duration,
		VisionStatement:    content.VisionStatement,
		Objectives:         models.MustJSON(content.Objectives),
		Units:              models.MustJSON(content.Units),
		AssessmentStrategy: models.MustJSON(content.AssessmentStrategy),
		Resources:          models.MustJSON(content.Resources),
		Generation:         provenance(res, d.Language),
	}
	curriculum.RecalculateTotals()
	return curriculum, nil
}

type generatedQuiz struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Questions   []models.QuizQuestion `json:"questions"`
	TimeLimit   int                   `json:"timeLimit"`
}

func BuildQuiz(req models.GenerateQuizRequest, res *Result) (*models.Quiz, error) {
	var content generatedQuiz
	if err := json.Unmarshal(res.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode quiz content: %w", err)
	}
	if len(content.Questions) == 0 {
		return nil, fmt.Errorf("generated quiz has no questions")
	}

	d := Defaults{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Grade:      req.Grade,
		Difficulty: req.Difficulty,
		Language:   req.Language,
	}.normalized()

	if content.Title == "" {
		content.Title = fmt.Sprintf("%s Quiz: %s", req.Subject, req.Topic)
	}
	if content.TimeLimit <= 0 {
		content.TimeLimit = 30
	}
	for i := range content.Questions {
		if content.Questions[i].ID == 0 {
			content.Questions[i].ID = i + 1
		}
		if content.Questions[i].Points <= 0 {
			content.Questions[i].Points = pointsFor(content.Questions[i].Type)
		}
	}

	quiz := &models.Quiz{
		ArtifactMeta: d.meta(content.Title, content.Description),
		Questions:    models.MustJSON(content.Questions),
		TimeLimit:    content.TimeLimit,
		Settings: models.QuizSettings{
			AttemptsAllowed:    1,
			ShowCorrectAnswers: true,
		},
		Generation: provenance(res, d.Language),
	}
	quiz.RecalculateTotals()
	return quiz, nil
}

type generatedLecturePlan struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Duration    int                      `json:"duration"`
	Objectives  []string                 `json:"objectives"`
	Activities  []models.LectureActivity `json:"activities"`
	Resources   []string                 `json:"resources"`
	Assessments []string                 `json:"assessments"`
	Homework    string                   `json:"homework"`
}

func BuildLecturePlan(req models.GenerateLecturePlanRequest, res *Result) (*models.LecturePlan, error) {
	var content generatedLecturePlan
	if err := json.Unmarshal(res.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode lecture plan content: %w", err)
	}

	d := Defaults{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Grade:      req.Grade,
		Difficulty: req.Difficulty,
		Language:   req.Language,
	}.normalized()

	if content.Title == "" {
		content.Title = fmt.Sprintf("%s: %s (Grade %d)", req.Subject, req.Topic, req.Grade)
	}
	if content.Duration <= 0 {
		if req.Duration > 0 {
			content.Duration = req.Duration
		} else {
			content.Duration = 45
		}
	}
	if len(content.Resources) == 0 {
		content.Resources = []string{"Textbook chapter"}
	}
	if len(content.Assessments) == 0 {
		content.Assessments = []string{"Exit ticket"}
	}

	plan := &models.LecturePlan{
		ArtifactMeta: d.meta(content.Title, content.Description),
		Duration:     content.Duration,
		Objectives:   models.MustJSON(content.Objectives),
		Activities:   models.MustJSON(content.Activities),
		Resources:    models.MustJSON(content.Resources),
		Assessments:  models.MustJSON(content.Assessments),
		Generation:   provenance(res, d.Language),
	}
	if content.Homework != "" {
		plan.Homework = &content.Homework
	}
	plan.RecalculateTotals()
	return plan, nil
}

type generatedSlides struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Theme       string         `json:"theme"`
	Slides      []models.Slide `json:"slides"`
}

func BuildSlideDeck(req models.GenerateSlidesRequest, res *Result) (*models.SlideDeck, error) {
	var content generatedSlides
	if err := json.Unmarshal(res.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode slide content: %w", err)
	}
	if len(content.Slides) == 0 {
		return nil, fmt.Errorf("generated deck has no slides")
	}

	d := Defaults{
		Subject:  req.Subject,
		Topic:    req.Topic,
		Grade:    req.Grade,
		Language: req.Language,
	}.normalized()

	if content.Title == "" {
		content.Title = fmt.Sprintf("%s Slides: %s", req.Subject, req.Topic)
	}
	theme := content.Theme
	if theme == "" {
		theme = req.Theme
	}
	if theme == "" {
		theme = "light"
	}
	for i := range content.Slides {
		if content.Slides[i].SlideNumber == 0 {
			content.Slides[i].SlideNumber = i + 1
		}
	}

	deck := &models.SlideDeck{
		ArtifactMeta: d.meta(content.Title, content.Description),
		Theme:        theme,
		Slides:       models.MustJSON(content.Slides),
		Generation:   provenance(res, d.Language),
	}
	deck.RecalculateTotals()
	return deck, nil
}

type generatedMindMap struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Layout      string               `json:"layout"`
	Nodes       []models.MindMapNode `json:"nodes"`
	Edges       []models.MindMapEdge `json:"edges"`
}

func BuildMindMap(req models.GenerateMindMapRequest, res *Result) (*models.MindMap, error) {
	var content generatedMindMap
	if err := json.Unmarshal(res.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode mind map content: %w", err)
	}
	if len(content.Nodes) == 0 {
		return nil, fmt.Errorf("generated mind map has no nodes")
	}

	d := Defaults{
		Subject:  req.Subject,
		Topic:    req.Topic,
		Grade:    req.Grade,
		Language: req.Language,
	}.normalized()

	if content.Title == "" {
		content.Title = fmt.Sprintf("%s Mind Map: %s", req.Subject, req.Topic)
	}
	if content.Layout == "" {
		content.Layout = "radial"
	}

	mindMap := &models.MindMap{
		ArtifactMeta: d.meta(content.Title, content.Description),
		Layout:       content.Layout,
		Nodes:        models.MustJSON(content.Nodes),
		Edges:        models.MustJSON(content.Edges),
		Generation:   provenance(res, d.Language),
	}
	mindMap.RecalculateTotals()
	return mindMap, nil
}
