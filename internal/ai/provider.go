package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/utils"
)

// ErrExhausted is returned when every provider in the chain has failed and
// no fallback remains. Handlers translate it to 503.
var ErrExhausted = errors.New("all generation providers exhausted")

// Request is a generation request routed through the provider chain.
// Payload is the kind-specific DTO, forwarded to remote providers as JSON.
type Request struct {
	Kind    string
	Payload interface{}
}

// Result is a generated content payload with provenance.
type Result struct {
	Content json.RawMessage
	Model   string
	Tier    models.GenerationTier
	Elapsed time.Duration
}

// GradeAnswerInput is one student answer sent to a grading provider.
type GradeAnswerInput struct {
	QuestionID    int    `json:"questionId"`
	Question      string `json:"question"`
	Type          string `json:"type"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	StudentAnswer string `json:"studentAnswer"`
	MaxScore      int    `json:"maxScore"`
}

type GradedAnswer struct {
	QuestionID int     `json:"questionId"`
	Score      float64 `json:"score"`
	IsCorrect  *bool   `json:"isCorrect,omitempty"`
	Feedback   string  `json:"feedback,omitempty"`
}

// GradeResult carries per-answer grades with provenance.
type GradeResult struct {
	Answers []GradedAnswer
	Model   string
	Tier    models.GenerationTier
	Elapsed time.Duration
}

// Provider is one tier of the generation chain.
type Provider interface {
	Tier() models.GenerationTier
	Generate(ctx context.Context, req Request) (*Result, error)
	Translate(ctx context.Context, req models.TranslateRequest) (*models.TranslateResponse, error)
	Grade(ctx context.Context, answers []GradeAnswerInput) (*GradeResult, error)
	Health(ctx context.Context) error
}

// Chain tries providers strictly in order and returns the first success.
// There is no retry, backoff or circuit breaking; worst-case latency is the
// sum of the per-provider timeouts.
type Chain struct {
	providers []Provider
	logger    utils.Logger
}

func NewChain(logger utils.Logger, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		logger:    logger,
	}
}

// Tiers lists the configured tiers in order.
func (c *Chain) Tiers() []models.GenerationTier {
	tiers := make([]models.GenerationTier, len(c.providers))
	for i, p := range c.providers {
		tiers[i] = p.Tier()
	}
	return tiers
}

func (c *Chain) Generate(ctx context.Context, req Request) (*Result, error) {
	var lastErr error
	for _, provider := range c.providers {
		start := time.Now()
		result, err := provider.Generate(ctx, req)
		if err == nil {
			result.Tier = provider.Tier()
			result.Elapsed = time.Since(start)
			return result, nil
		}

		lastErr = err
		c.logger.Warn("generation provider failed, trying next tier",
			"tier", provider.Tier(),
			"kind", req.Kind,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrExhausted, lastErr.Error())
	}
	return nil, ErrExhausted
}

func (c *Chain) Translate(ctx context.Context, req models.TranslateRequest) (*models.TranslateResponse, error) {
	var lastErr error
	for _, provider := range c.providers {
		resp, err := provider.Translate(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		c.logger.Warn("translation provider failed, trying next tier",
			"tier", provider.Tier(),
			"error", err,
		)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrExhausted, lastErr.Error())
	}
	return nil, ErrExhausted
}

func (c *Chain) Grade(ctx context.Context, answers []GradeAnswerInput) (*GradeResult, error) {
	var lastErr error
	for _, provider := range c.providers {
		start := time.Now()
		result, err := provider.Grade(ctx, answers)
		if err == nil {
			result.Tier = provider.Tier()
			result.Elapsed = time.Since(start)
			return result, nil
		}

		lastErr = err
		c.logger.Warn("grading provider failed, trying next tier",
			"tier", provider.Tier(),
			"error", err,
		)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrExhausted, lastErr.Error())
	}
	return nil, ErrExhausted
}

// TierHealth is the reachability of a single provider tier.
type TierHealth struct {
	Tier    models.GenerationTier `json:"tier"`
	Healthy bool                  `json:"healthy"`
	Error   string                `json:"error,omitempty"`
}

// Health probes every tier and reports per-tier status. The chain itself is
// healthy when at least one tier responds.
func (c *Chain) Health(ctx context.Context) ([]TierHealth, bool) {
	statuses := make([]TierHealth, 0, len(c.providers))
	anyHealthy := false

	for _, provider := range c.providers {
		status := TierHealth{Tier: provider.Tier(), Healthy: true}
		if err := provider.Health(ctx); err != nil {
			status.Healthy = false
			status.Error = err.Error()
		} else {
			anyHealthy = true
		}
		statuses = append(statuses, status)
	}

	return statuses, anyHealthy
}
