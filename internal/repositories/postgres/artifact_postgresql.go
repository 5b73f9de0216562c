package postgres

import (
	"context"
	"fmt"

	"github.com/edusarathi/content-service/internal/cache"
	"github.com/edusarathi/content-service/internal/repositories"
	"gorm.io/gorm"
)

// ArtifactPostgreSQL is the shared storage implementation for all artifact
// kinds. The kind string namespaces cache keys; the accessor funcs extract
// key fields for cache invalidation without constraining T.
type ArtifactPostgreSQL[T any] struct {
	db           *gorm.DB
	kind         string
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
	idOf         func(*T) uint
	creatorOf    func(*T) string
}

func NewArtifactPostgreSQL[T any](db *gorm.DB, cacheManager *cache.CacheManager, kind string, idOf func(*T) uint, creatorOf func(*T) string) repositories.ArtifactRepository[T] {
	return &ArtifactPostgreSQL[T]{
		db:           db,
		kind:         kind,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
		idOf:         idOf,
		creatorOf:    creatorOf,
	}
}

func (a *ArtifactPostgreSQL[T]) Create(ctx context.Context, artifact *T) error {
	if err := a.db.WithContext(ctx).Create(artifact).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", a.kind, err)
	}

	cache.SafeInvalidatePattern(ctx, a.cacheManager.Artifact, fmt.Sprintf("%s:list:*", a.kind))
	if creator := a.creatorOf(artifact); creator != "" {
		cache.SafeInvalidatePattern(ctx, a.cacheManager.Artifact, fmt.Sprintf("%s:creator:%s:*", a.kind, creator))
	}

	return nil
}

func (a *ArtifactPostgreSQL[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	cacheKey := fmt.Sprintf("%s:id:%d", a.kind, id)
	var artifact T

	err := a.cacheManager.Artifact.CacheOrExecute(ctx, cacheKey, &artifact, cache.ArtifactCacheConfig.TTL, func() (interface{}, error) {
		var fromDB T
		err := a.db.WithContext(ctx).
			Preload("Ratings").
			First(&fromDB, id).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", a.kind, err)
		}
		return &fromDB, nil
	})

	if err != nil {
		return nil, err
	}

	return &artifact, nil
}

// Update persists the full artifact and invalidates every cached view of it.
func (a *ArtifactPostgreSQL[T]) Update(ctx context.Context, artifact *T) error {
	if err := a.db.WithContext(ctx).Save(artifact).Error; err != nil {
		return fmt.Errorf("failed to update %s: %w", a.kind, err)
	}

	a.invalidate(ctx, artifact)
	return nil
}

// Save persists the full artifact but only drops its single cached entry.
// Used for counter bumps where list ordering is unaffected.
func (a *ArtifactPostgreSQL[T]) Save(ctx context.Context, artifact *T) error {
	if err := a.db.WithContext(ctx).Save(artifact).Error; err != nil {
		return fmt.Errorf("failed to save %s: %w", a.kind, err)
	}

	cache.SafeDelete(ctx, a.cacheManager.Artifact, fmt.Sprintf("%s:id:%d", a.kind, a.idOf(artifact)))
	return nil
}

func (a *ArtifactPostgreSQL[T]) Delete(ctx context.Context, id uint) error {
	// Fetch the owner first so creator-scoped cache entries can be dropped.
	var artifact T
	if err := a.db.WithContext(ctx).Select("id, created_by").First(&artifact, id).Error; err != nil {
		return fmt.Errorf("failed to get %s before delete: %w", a.kind, err)
	}

	var zero T
	if err := a.db.WithContext(ctx).Delete(&zero, id).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", a.kind, err)
	}

	cache.InvalidateArtifactCache(ctx, a.cacheManager, a.kind, id, a.creatorOf(&artifact))
	return nil
}

func (a *ArtifactPostgreSQL[T]) List(ctx context.Context, filters repositories.ArtifactFilters) ([]*T, int64, error) {
	filters.Normalize()

	var zero T
	query := a.db.WithContext(ctx).Model(&zero)
	query = a.helpers.ApplyArtifactFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count %s list: %w", a.kind, err)
	}

	query = a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset())

	var artifacts []*T
	if err := query.Find(&artifacts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", a.kind, err)
	}

	return artifacts, total, nil
}

func (a *ArtifactPostgreSQL[T]) invalidate(ctx context.Context, artifact *T) {
	cache.InvalidateArtifactCache(ctx, a.cacheManager, a.kind, a.idOf(artifact), a.creatorOf(artifact))
}
