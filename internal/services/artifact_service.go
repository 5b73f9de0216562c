package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/events"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/utils"
	"github.com/edusarathi/content-service/internal/validator"
)

// artifactHooks carries the kind-specific pieces of the shared artifact
// service: how to build a model from generated content and how to reach
// into the model's common blocks.
type artifactHooks[T any, R any] struct {
	kind     string
	notFound error

	build      func(R, *ai.Result) (*T, error)
	meta       func(*T) *models.ArtifactMeta
	usage      func(*T) *models.UsageStats
	id         func(*T) uint
	setRatings func(*T, []models.Rating)

	// setContent replaces the kind-specific content tree from a client
	// update and recomputes derived totals.
	setContent func(*T, json.RawMessage) error

	// countViews enables the view counter bump on reads.
	countViews bool

	// afterDelete runs follow-up cleanup outside any transaction.
	afterDelete func(ctx context.Context, id uint) error
}

type artifactService[T any, R any] struct {
	store     repositories.ArtifactRepository[T]
	ratings   repositories.RatingRepository
	chain     *ai.Chain
	publisher events.Publisher
	logger    utils.Logger
	validator *validator.Validator
	hooks     artifactHooks[T, R]
}

func newArtifactService[T any, R any](
	store repositories.ArtifactRepository[T],
	ratings repositories.RatingRepository,
	chain *ai.Chain,
	publisher events.Publisher,
	logger utils.Logger,
	v *validator.Validator,
	hooks artifactHooks[T, R],
) *artifactService[T, R] {
	return &artifactService[T, R]{
		store:     store,
		ratings:   ratings,
		chain:     chain,
		publisher: publisher,
		logger:    logger,
		validator: v,
		hooks:     hooks,
	}
}

func (s *artifactService[T, R]) Generate(ctx context.Context, req R, userID string) (*T, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	result, err := s.chain.Generate(ctx, ai.Request{Kind: s.hooks.kind, Payload: req})
	if err != nil {
		return nil, err
	}

	artifact, err := s.hooks.build(req, result)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble generated %s: %w", s.hooks.kind, err)
	}
	s.hooks.meta(artifact).CreatedBy = userID

	if err := s.store.Create(ctx, artifact); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ArtifactGenerated, events.ArtifactGeneratedPayload{
		Kind:       s.hooks.kind,
		ArtifactID: s.hooks.id(artifact),
		CreatedBy:  userID,
		Tier:       result.Tier,
		Model:      result.Model,
	})

	s.logger.Info("artifact generated",
		"kind", s.hooks.kind,
		"id", s.hooks.id(artifact),
		"tier", result.Tier,
		"model", result.Model,
		"elapsed_ms", result.Elapsed.Milliseconds(),
	)

	return artifact, nil
}

func (s *artifactService[T, R]) GetByID(ctx context.Context, id uint) (*T, error) {
	artifact, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.hooks.notFound
		}
		return nil, err
	}

	if s.hooks.countViews {
		// Read-modify-save; concurrent reads may lose increments, and the
		// read may come from the cache, so a stale copy can overwrite a
		// write that landed since the cache entry was populated. Bounded
		// by the cache TTL; the counter is advisory.
		s.hooks.usage(artifact).Views++
		if err := s.store.Save(ctx, artifact); err != nil {
			s.logger.Warn("failed to persist view counter", "kind", s.hooks.kind, "id", id, "error", err)
		}
	}

	s.refreshRatings(ctx, artifact)
	return artifact, nil
}

func (s *artifactService[T, R]) List(ctx context.Context, filters repositories.ArtifactFilters) ([]*T, models.PageInfo, error) {
	filters.Normalize()

	items, total, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, models.PageInfo{}, err
	}

	return items, models.NewPageInfo(total, filters.Page, filters.Limit), nil
}

func (s *artifactService[T, R]) Update(ctx context.Context, id uint, req models.UpdateArtifactRequest, userID string) (*T, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	artifact, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.hooks.notFound
		}
		return nil, err
	}

	meta := s.hooks.meta(artifact)
	if err := s.checkOwnership(meta, userID, id, "update"); err != nil {
		return nil, err
	}

	applyMetaUpdate(meta, req)

	if len(req.Content) > 0 && s.hooks.setContent != nil {
		if err := s.hooks.setContent(artifact, req.Content); err != nil {
			return nil, fmt.Errorf("invalid %s content: %w", s.hooks.kind, err)
		}
	}

	if err := s.store.Update(ctx, artifact); err != nil {
		return nil, err
	}

	s.refreshRatings(ctx, artifact)
	return artifact, nil
}

func (s *artifactService[T, R]) Delete(ctx context.Context, id uint, userID string) error {
	artifact, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.hooks.notFound
		}
		return err
	}

	if err := s.checkOwnership(s.hooks.meta(artifact), userID, id, "delete"); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	// Cleanup of dependents runs after the delete as independent operations.
	if err := s.ratings.DeleteForArtifact(ctx, s.hooks.kind, id); err != nil {
		s.logger.Warn("failed to delete artifact ratings", "kind", s.hooks.kind, "id", id, "error", err)
	}
	if s.hooks.afterDelete != nil {
		if err := s.hooks.afterDelete(ctx, id); err != nil {
			s.logger.Warn("artifact delete cleanup failed", "kind", s.hooks.kind, "id", id, "error", err)
		}
	}

	return nil
}

func (s *artifactService[T, R]) Rate(ctx context.Context, id uint, req models.RateArtifactRequest, userID string) (*T, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	artifact, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.hooks.notFound
		}
		return nil, err
	}

	rating := &models.Rating{
		ArtifactType: s.hooks.kind,
		ArtifactID:   id,
		UserID:       userID,
		Value:        req.Value,
		Feedback:     req.Feedback,
	}
	if err := s.ratings.Replace(ctx, rating); err != nil {
		return nil, err
	}

	s.refreshRatings(ctx, artifact)
	return artifact, nil
}

func (s *artifactService[T, R]) UpdateStatus(ctx context.Context, id uint, status models.ArtifactStatus, userID string) (*T, error) {
	artifact, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.hooks.notFound
		}
		return nil, err
	}

	meta := s.hooks.meta(artifact)
	if err := s.checkOwnership(meta, userID, id, "update_status"); err != nil {
		return nil, err
	}

	if meta.Status == status {
		return artifact, nil
	}
	if status == models.StatusDraft {
		return nil, fmt.Errorf("%w: cannot move %s back to draft", ErrInvalidStatusChange, s.hooks.kind)
	}

	meta.Status = status
	if err := s.store.Update(ctx, artifact); err != nil {
		return nil, err
	}

	return artifact, nil
}

// checkOwnership limits mutations to the creator. Artifacts without an
// owner, and requests without an identity, pass through unchecked.
func (s *artifactService[T, R]) checkOwnership(meta *models.ArtifactMeta, userID string, id uint, action string) error {
	if meta.CreatedBy == "" || userID == "" || meta.CreatedBy == userID {
		return nil
	}
	return NewPermissionError(userID, id, s.hooks.kind, action, "not the creator")
}

// refreshRatings loads current ratings and recomputes the average.
func (s *artifactService[T, R]) refreshRatings(ctx context.Context, artifact *T) {
	ratings, err := s.ratings.ListForArtifact(ctx, s.hooks.kind, s.hooks.id(artifact))
	if err != nil {
		s.logger.Warn("failed to load ratings", "kind", s.hooks.kind, "id", s.hooks.id(artifact), "error", err)
		return
	}
	s.hooks.setRatings(artifact, ratings)
}

func (s *artifactService[T, R]) publish(ctx context.Context, name string, payload interface{}) {
	if err := s.publisher.Publish(ctx, name, payload); err != nil {
		s.logger.Warn("event publish failed", "event", name, "error", err)
	}
}

// applyMetaUpdate copies client-supplied metadata fields onto the artifact.
// Server-owned fields (created_by, usage, generation) are not reachable from
// the DTO.
func applyMetaUpdate(meta *models.ArtifactMeta, req models.UpdateArtifactRequest) {
	if req.Title != nil {
		meta.Title = *req.Title
	}
	if req.Description != nil {
		meta.Description = *req.Description
	}
	if req.Subject != nil {
		meta.Subject = *req.Subject
	}
	if req.Topic != nil {
		meta.Topic = *req.Topic
	}
	if req.Grade != nil {
		meta.Grade = *req.Grade
	}
	if req.Difficulty != nil {
		meta.Difficulty = models.DifficultyLevel(*req.Difficulty)
	}
	if req.Language != nil {
		meta.Language = *req.Language
	}
	if req.Tags != nil {
		meta.Tags = models.MustJSON(req.Tags)
	}
	if req.Status != nil {
		meta.Status = *req.Status
	}
}
