package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func quizRequest() Request {
	return Request{
		Kind: models.KindQuiz,
		Payload: models.GenerateQuizRequest{
			Subject:       "Mathematics",
			Topic:         "Fractions",
			Grade:         6,
			QuestionCount: 3,
		},
	}
}

func TestChainPrimarySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate/quiz" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"model":"gemini-pro","data":{"title":"Quiz","questions":[{"id":1,"type":"mcq","points":1}]}}`))
	}))
	defer server.Close()

	chain := NewChain(testLogger(),
		NewHTTPProvider(models.TierPrimary, server.URL, time.Second),
		NewMockProvider(),
	)

	result, err := chain.Generate(context.Background(), quizRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Tier != models.TierPrimary {
		t.Errorf("Tier = %s, want primary", result.Tier)
	}
	if result.Model != "gemini-pro" {
		t.Errorf("Model = %s, want gemini-pro", result.Model)
	}
}

func TestChainResultBuildsQuiz(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"model":"gemini-pro","data":{"title":"Motion Quiz","questions":[` +
			`{"id":1,"type":"mcq","text":"Q1","correctAnswer":"a","points":1},` +
			`{"id":2,"type":"mcq","text":"Q2","correctAnswer":"b","points":1}]}}`))
	}))
	defer server.Close()

	chain := NewChain(testLogger(), NewHTTPProvider(models.TierPrimary, server.URL, time.Second))

	result, err := chain.Generate(context.Background(), quizRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	quiz, err := BuildQuiz(quizRequest().Payload.(models.GenerateQuizRequest), result)
	if err != nil {
		t.Fatalf("BuildQuiz: %v", err)
	}
	if quiz.TotalQuestions != 2 || quiz.TotalPoints != 2 {
		t.Errorf("totals = (%d, %d), want (2, 2)", quiz.TotalQuestions, quiz.TotalPoints)
	}
	if quiz.Generation.GeneratedBy != models.TierPrimary {
		t.Errorf("GeneratedBy = %s, want primary", quiz.Generation.GeneratedBy)
	}
}

func TestChainFallsBackToMock(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	chain := NewChain(testLogger(),
		NewHTTPProvider(models.TierPrimary, failing.URL, time.Second),
		NewHTTPProvider(models.TierLegacy, "http://127.0.0.1:1", 100*time.Millisecond),
		NewMockProvider(),
	)

	result, err := chain.Generate(context.Background(), quizRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Tier != models.TierMock {
		t.Errorf("Tier = %s, want mock", result.Tier)
	}
	if result.Model != "template" {
		t.Errorf("Model = %s, want template", result.Model)
	}
}

func TestChainExhaustedWithoutMock(t *testing.T) {
	chain := NewChain(testLogger(),
		NewHTTPProvider(models.TierPrimary, "http://127.0.0.1:1", 100*time.Millisecond),
		NewHTTPProvider(models.TierLegacy, "http://127.0.0.1:1", 100*time.Millisecond),
	)

	_, err := chain.Generate(context.Background(), quizRequest())
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
}

func TestChainTierOrder(t *testing.T) {
	var calls []string
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "primary")
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer primary.Close()
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "legacy")
		w.Write([]byte(`{"success":true,"model":"openrouter","data":{"questions":[{"id":1,"type":"mcq","points":1}]}}`))
	}))
	defer legacy.Close()

	chain := NewChain(testLogger(),
		NewHTTPProvider(models.TierPrimary, primary.URL, time.Second),
		NewHTTPProvider(models.TierLegacy, legacy.URL, time.Second),
		NewMockProvider(),
	)

	result, err := chain.Generate(context.Background(), quizRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Tier != models.TierLegacy {
		t.Errorf("Tier = %s, want legacy", result.Tier)
	}
	if len(calls) != 2 || calls[0] != "primary" || calls[1] != "legacy" {
		t.Errorf("calls = %v, want [primary legacy]", calls)
	}
}

func TestChainHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	chain := NewChain(testLogger(),
		NewHTTPProvider(models.TierPrimary, "http://127.0.0.1:1", 100*time.Millisecond),
		NewHTTPProvider(models.TierLegacy, healthy.URL, time.Second),
	)

	tiers, anyHealthy := chain.Health(context.Background())
	if !anyHealthy {
		t.Fatal("anyHealthy = false, want true")
	}
	if len(tiers) != 2 {
		t.Fatalf("len(tiers) = %d, want 2", len(tiers))
	}
	if tiers[0].Healthy || tiers[0].Error == "" {
		t.Errorf("primary tier should be unhealthy with an error, got %+v", tiers[0])
	}
	if !tiers[1].Healthy {
		t.Errorf("legacy tier should be healthy, got %+v", tiers[1])
	}
}

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Paris", "paris"},
		{"  PARIS  ", "paris"},
		{"new\tdelhi", "new delhi"},
		{"New   Delhi ", "new delhi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeAnswer(tt.in); got != tt.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMockGrade(t *testing.T) {
	mock := NewMockProvider()

	result, err := mock.Grade(context.Background(), []GradeAnswerInput{
		{QuestionID: 1, Type: "mcq", CorrectAnswer: "True", StudentAnswer: " true ", MaxScore: 1},
		{QuestionID: 2, Type: "mcq", CorrectAnswer: "True", StudentAnswer: "False", MaxScore: 1},
		{QuestionID: 3, Type: "long_answer", StudentAnswer: "An essay.", MaxScore: 5},
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}

	if result.Answers[0].Score != 1 || result.Answers[0].IsCorrect == nil || !*result.Answers[0].IsCorrect {
		t.Errorf("answer 1 should be correct, got %+v", result.Answers[0])
	}
	if result.Answers[1].Score != 0 || result.Answers[1].IsCorrect == nil || *result.Answers[1].IsCorrect {
		t.Errorf("answer 2 should be incorrect, got %+v", result.Answers[1])
	}
	if result.Answers[2].IsCorrect != nil {
		t.Errorf("free text answer should stay pending, got %+v", result.Answers[2])
	}
}
