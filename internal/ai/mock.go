package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edusarathi/content-service/internal/models"
)

// MockProvider generates canned content locally so the service stays usable
// when every remote tier is down. It never fails.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Tier() models.GenerationTier {
	return models.TierMock
}

func (m *MockProvider) Health(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	var content interface{}

	switch payload := req.Payload.(type) {
	case models.GenerateCurriculumRequest:
		content = m.curriculum(payload)
	case models.GenerateQuizRequest:
		content = m.quiz(payload)
	case models.GenerateLecturePlanRequest:
		content = m.lecturePlan(payload)
	case models.GenerateSlidesRequest:
		content = m.slides(payload)
	case models.GenerateMindMapRequest:
		content = m.mindMap(payload)
	default:
		return nil, fmt.Errorf("unsupported payload type %T", req.Payload)
	}

	return &Result{
		Content: json.RawMessage(models.MustJSON(content)),
		Model:   "template",
		Tier:    models.TierMock,
	}, nil
}

func (m *MockProvider) Translate(ctx context.Context, req models.TranslateRequest) (*models.TranslateResponse, error) {
	// Without a remote model the text passes through untranslated.
	return &models.TranslateResponse{
		TranslatedText: req.Text,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Model:          "template",
	}, nil
}

// Grade scores objective answers by normalized exact match and leaves free
// text pending for manual review.
func (m *MockProvider) Grade(ctx context.Context, answers []GradeAnswerInput) (*GradeResult, error) {
	graded := make([]GradedAnswer, 0, len(answers))
	for _, a := range answers {
		g := GradedAnswer{QuestionID: a.QuestionID}
		if models.QuestionType(a.Type).Objective() {
			correct := NormalizeAnswer(a.StudentAnswer) == NormalizeAnswer(a.CorrectAnswer)
			g.IsCorrect = &correct
			if correct {
				g.Score = float64(a.MaxScore)
			}
		} else {
			g.Feedback = "Pending manual review"
		}
		graded = append(graded, g)
	}

	return &GradeResult{
		Answers: graded,
		Model:   "template",
		Tier:    models.TierMock,
	}, nil
}

// NormalizeAnswer prepares an answer string for exact-match comparison.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ===== CANNED TEMPLATES =====

// unitTemplates holds per-subject unit titles for curriculum generation.
// Subjects outside the map fall back to generic titles built from the
// subject name.
var unitTemplates = map[string][]string{
	"mathematics": {"Number Systems", "Algebraic Expressions", "Geometry Fundamentals", "Data Handling and Statistics"},
	"physics":     {"Motion and Forces", "Energy and Work", "Light and Optics", "Electricity and Magnetism"},
	"science":     {"Matter and Materials", "Living Organisms", "Forces and Motion", "Our Environment"},
	"chemistry":   {"Atomic Structure", "Chemical Bonding", "Acids, Bases and Salts", "Chemical Reactions"},
	"english":     {"Reading Comprehension", "Grammar and Usage", "Creative Writing", "Literature Appreciation"},
}

func subjectKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

func (m *MockProvider) curriculum(req models.GenerateCurriculumRequest) map[string]interface{} {
	titles, ok := unitTemplates[subjectKey(req.Subject)]
	if !ok {
		titles = []string{
			"Introduction to " + req.Subject,
			"Core Concepts of " + req.Subject,
			"Applying " + req.Subject,
			req.Subject + " in the Real World",
		}
	}

	units := make([]models.CurriculumUnit, 0, len(titles))
	for i, title := range titles {
		units = append(units, models.CurriculumUnit{
			UnitNumber:  i + 1,
			Title:       title,
			Duration:    "4 weeks",
			Description: fmt.Sprintf("A grade %d unit covering %s.", req.Grade, title),
			EssentialQuestions: []string{
				fmt.Sprintf("What are the key ideas behind %s?", title),
			},
			LearningObjectives: []models.LearningObjective{
				{
					Objective:        fmt.Sprintf("Explain the core concepts of %s", title),
					BloomsLevel:      "Understand",
					AssessmentMethod: "Written test",
				},
				{
					Objective:        fmt.Sprintf("Apply %s concepts to solve problems", title),
					BloomsLevel:      "Apply",
					AssessmentMethod: "Practice worksheet",
				},
			},
			KeyVocabulary: []string{title},
			Concepts: []models.CurriculumConcept{
				{
					Concept:              title,
					Description:          fmt.Sprintf("Foundational treatment of %s for grade %d.", title, req.Grade),
					RealWorldConnections: []string{fmt.Sprintf("%s in daily life", title)},
				},
			},
			Assessments: models.CurriculumAssessments{
				Formative: []string{"Exit tickets", "Class discussion"},
				Summative: []string{"Unit test"},
				Rubrics:   []string{"Unit mastery rubric"},
			},
		})
	}

	return map[string]interface{}{
		"title":           fmt.Sprintf("%s Curriculum - Grade %d", req.Subject, req.Grade),
		"description":     fmt.Sprintf("A %s curriculum for grade %d covering the full academic span of %s.", req.Subject, req.Grade, req.Duration),
		"visionStatement": fmt.Sprintf("Build a deep, lasting understanding of %s through inquiry and practice.", req.Subject),
		"objectives":      req.LearningObjectives,
		"units":           units,
		"assessmentStrategy": models.AssessmentStrategy{
			Philosophy:           "Assess for learning, not just of learning.",
			FormativeAssessments: []string{"Weekly quizzes", "Peer review"},
			SummativeAssessments: []string{"Unit tests", "End of term examination"},
		},
		"resources": models.CurriculumResources{
			Textbooks: []models.TextbookRef{
				{Title: fmt.Sprintf("NCERT %s, Grade %d", req.Subject, req.Grade), Type: "primary"},
			},
			SupplementaryMaterials: []string{"Practice workbooks", "Online simulations"},
		},
	}
}

func (m *MockProvider) quiz(req models.GenerateQuizRequest) map[string]interface{} {
	count := req.QuestionCount
	if count <= 0 {
		count = 10
	}
	types := req.QuestionTypes
	if len(types) == 0 {
		types = []string{string(models.QuestionMCQ)}
	}

	questions := make([]models.QuizQuestion, 0, count)
	for i := 0; i < count; i++ {
		qType := models.QuestionType(types[i%len(types)])
		q := models.QuizQuestion{
			ID:     i + 1,
			Type:   qType,
			Points: pointsFor(qType),
		}

		switch qType {
		case models.QuestionMCQ:
			q.Text = fmt.Sprintf("Which statement about %s is correct?", req.Topic)
			q.Options = []string{
				fmt.Sprintf("%s is a core concept of %s", req.Topic, req.Subject),
				fmt.Sprintf("%s is unrelated to %s", req.Topic, req.Subject),
				"Neither of the above",
				"Both of the above",
			}
			q.CorrectAnswer = q.Options[0]
			q.Explanation = fmt.Sprintf("%s is studied as part of %s.", req.Topic, req.Subject)
		case models.QuestionTrueFalse:
			q.Text = fmt.Sprintf("%s is a topic studied in %s.", req.Topic, req.Subject)
			q.Options = []string{"True", "False"}
			q.CorrectAnswer = "True"
		case models.QuestionFillBlank:
			q.Text = fmt.Sprintf("The study of %s belongs to the subject of ____.", req.Topic)
			q.CorrectAnswer = req.Subject
		case models.QuestionShortText:
			q.Text = fmt.Sprintf("Briefly describe %s in your own words.", req.Topic)
		default:
			q.Text = fmt.Sprintf("Write a detailed explanation of %s, with examples.", req.Topic)
		}

		questions = append(questions, q)
	}

	return map[string]interface{}{
		"title":       fmt.Sprintf("%s Quiz: %s", req.Subject, req.Topic),
		"description": fmt.Sprintf("A quiz on %s generated for %s.", req.Topic, req.Subject),
		"questions":   questions,
	}
}

func pointsFor(t models.QuestionType) int {
	switch t {
	case models.QuestionShortText:
		return 3
	case models.QuestionLongAnswer:
		return 5
	}
	return 1
}

func (m *MockProvider) lecturePlan(req models.GenerateLecturePlanRequest) map[string]interface{} {
	duration := req.Duration
	if duration <= 0 {
		duration = 45
	}

	activities := []models.LectureActivity{
		{
			Phase:          "warmup",
			Title:          "Hook and prior knowledge",
			Duration:       duration / 9 * 1,
			Description:    fmt.Sprintf("Activate what students already know about %s.", req.Topic),
			TeacherActions: []string{"Pose an opening question", "Collect quick responses"},
			StudentActions: []string{"Discuss with a partner", "Share answers"},
			Materials:      []string{"Whiteboard"},
		},
		{
			Phase:          "instruction",
			Title:          fmt.Sprintf("Introducing %s", req.Topic),
			Duration:       duration / 9 * 4,
			Description:    fmt.Sprintf("Direct instruction on the core ideas of %s.", req.Topic),
			TeacherActions: []string{"Explain key concepts", "Work through examples"},
			StudentActions: []string{"Take notes", "Ask clarifying questions"},
			Materials:      []string{"Slides", "Textbook"},
		},
		{
			Phase:          "practice",
			Title:          "Guided practice",
			Duration:       duration / 9 * 3,
			Description:    "Students apply the new concepts with teacher support.",
			TeacherActions: []string{"Circulate and assist", "Check for understanding"},
			StudentActions: []string{"Solve practice problems", "Compare answers in pairs"},
			Materials:      []string{"Worksheet"},
		},
		{
			Phase:          "closure",
			Title:          "Summary and exit ticket",
			Duration:       duration / 9 * 1,
			Description:    "Consolidate the lesson and collect evidence of learning.",
			TeacherActions: []string{"Summarize key points", "Hand out exit tickets"},
			StudentActions: []string{"Complete the exit ticket"},
			Materials:      []string{"Exit ticket slips"},
		},
	}

	homework := fmt.Sprintf("Complete the practice set on %s and note one question for next class.", req.Topic)

	return map[string]interface{}{
		"title":       fmt.Sprintf("%s: %s (Grade %d)", req.Subject, req.Topic, req.Grade),
		"description": fmt.Sprintf("A %d minute lesson plan on %s.", duration, req.Topic),
		"duration":    duration,
		"objectives": []string{
			fmt.Sprintf("Describe the key ideas of %s", req.Topic),
			fmt.Sprintf("Apply %s concepts to guided practice problems", req.Topic),
		},
		"activities":  activities,
		"resources":   []string{"Textbook chapter", "Practice worksheet"},
		"assessments": []string{"Exit ticket", "Observation during guided practice"},
		"homework":    homework,
	}
}

func (m *MockProvider) slides(req models.GenerateSlidesRequest) map[string]interface{} {
	count := req.SlideCount
	if count <= 0 {
		count = 10
	}

	slides := make([]models.Slide, 0, count)
	slides = append(slides, models.Slide{
		SlideNumber:  1,
		Title:        fmt.Sprintf("%s: %s", req.Subject, req.Topic),
		Layout:       "title",
		SpeakerNotes: fmt.Sprintf("Introduce the topic of %s and today's goals.", req.Topic),
	})

	for i := 2; i < count; i++ {
		slides = append(slides, models.Slide{
			SlideNumber: i,
			Title:       fmt.Sprintf("%s: Key Idea %d", req.Topic, i-1),
			Layout:      "bullets",
			BulletPoints: []string{
				fmt.Sprintf("Concept %d of %s", i-1, req.Topic),
				"Worked example",
				"Common misconception",
			},
			SpeakerNotes: fmt.Sprintf("Walk through key idea %d with an example.", i-1),
		})
	}

	slides = append(slides, models.Slide{
		SlideNumber:  count,
		Title:        "Summary",
		Layout:       "bullets",
		BulletPoints: []string{"What we learned", "Where to go next"},
		SpeakerNotes: "Recap and assign follow-up work.",
	})

	return map[string]interface{}{
		"title":       fmt.Sprintf("%s Slides: %s", req.Subject, req.Topic),
		"description": fmt.Sprintf("A %d slide deck on %s.", count, req.Topic),
		"slides":      slides,
	}
}

func (m *MockProvider) mindMap(req models.GenerateMindMapRequest) map[string]interface{} {
	branches := []string{"Definition", "Key Concepts", "Examples", "Applications", "Common Mistakes"}

	nodes := []models.MindMapNode{
		{ID: "root", Label: req.Topic, Level: 0},
	}
	edges := make([]models.MindMapEdge, 0, len(branches)*2)

	for i, branch := range branches {
		branchID := fmt.Sprintf("n%d", i+1)
		nodes = append(nodes, models.MindMapNode{
			ID:    branchID,
			Label: branch,
			Level: 1,
		})
		edges = append(edges, models.MindMapEdge{From: "root", To: branchID})

		leafID := branchID + "a"
		nodes = append(nodes, models.MindMapNode{
			ID:    leafID,
			Label: fmt.Sprintf("%s of %s", branch, req.Topic),
			Level: 2,
		})
		edges = append(edges, models.MindMapEdge{From: branchID, To: leafID})
	}

	return map[string]interface{}{
		"title":       fmt.Sprintf("%s Mind Map: %s", req.Subject, req.Topic),
		"description": fmt.Sprintf("A concept map of %s.", req.Topic),
		"layout":      "radial",
		"nodes":       nodes,
		"edges":       edges,
	}
}
