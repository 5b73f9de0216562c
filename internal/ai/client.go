package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edusarathi/content-service/internal/models"
)

// generatePaths maps artifact kinds to the remote service's endpoints.
var generatePaths = map[string]string{
	models.KindCurriculum:  "/generate/curriculum",
	models.KindQuiz:        "/generate/quiz",
	models.KindLecturePlan: "/generate/lecture-plan",
	models.KindSlideDeck:   "/generate/slides",
	models.KindMindMap:     "/generate/mindmap",
}

// remoteEnvelope is the response wrapper the AI microservice uses.
type remoteEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Model   string          `json:"model"`
	Error   string          `json:"error,omitempty"`
}

// HTTPProvider talks to one remote AI service tier over JSON/HTTP with a
// bounded per-request timeout.
type HTTPProvider struct {
	tier    models.GenerationTier
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(tier models.GenerationTier, baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		tier:    tier,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) Tier() models.GenerationTier {
	return p.tier
}

func (p *HTTPProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	path, ok := generatePaths[req.Kind]
	if !ok {
		return nil, fmt.Errorf("unsupported artifact kind: %s", req.Kind)
	}

	envelope, err := p.post(ctx, path, req.Payload)
	if err != nil {
		return nil, err
	}

	return &Result{
		Content: envelope.Data,
		Model:   envelope.Model,
		Tier:    p.tier,
	}, nil
}

func (p *HTTPProvider) Translate(ctx context.Context, req models.TranslateRequest) (*models.TranslateResponse, error) {
	envelope, err := p.post(ctx, "/translate", req)
	if err != nil {
		return nil, err
	}

	var resp models.TranslateResponse
	if err := json.Unmarshal(envelope.Data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode translation response: %w", err)
	}
	if resp.Model == "" {
		resp.Model = envelope.Model
	}
	return &resp, nil
}

func (p *HTTPProvider) Grade(ctx context.Context, answers []GradeAnswerInput) (*GradeResult, error) {
	payload := map[string]interface{}{"answers": answers}
	envelope, err := p.post(ctx, "/grade", payload)
	if err != nil {
		return nil, err
	}

	var graded struct {
		Answers []GradedAnswer `json:"answers"`
	}
	if err := json.Unmarshal(envelope.Data, &graded); err != nil {
		return nil, fmt.Errorf("failed to decode grading response: %w", err)
	}

	return &GradeResult{
		Answers: graded.Answers,
		Model:   envelope.Model,
		Tier:    p.tier,
	}, nil
}

func (p *HTTPProvider) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ai service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ai service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (p *HTTPProvider) post(ctx context.Context, path string, payload interface{}) (*remoteEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ai service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai service returned status %d: %s", resp.StatusCode, truncate(respBody, 512))
	}

	var envelope remoteEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode ai service response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("ai service reported failure: %s", envelope.Error)
	}
	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("ai service returned empty content")
	}

	return &envelope, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
