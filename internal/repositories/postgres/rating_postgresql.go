package postgres

import (
	"context"
	"fmt"

	"github.com/edusarathi/content-service/internal/cache"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"gorm.io/gorm"
)

type RatingPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewRatingPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.RatingRepository {
	return &RatingPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Replace deletes any existing rating by the same user on the same artifact,
// then inserts the new one. The two statements are deliberately independent;
// concurrent ratings by the same user resolve to whichever insert lands last.
func (r *RatingPostgreSQL) Replace(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).
		Where("artifact_type = ? AND artifact_id = ? AND user_id = ?",
			rating.ArtifactType, rating.ArtifactID, rating.UserID).
		Delete(&models.Rating{}).Error; err != nil {
		return fmt.Errorf("failed to delete prior rating: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}

	cache.SafeDelete(ctx, r.cacheManager.Artifact, fmt.Sprintf("%s:id:%d", rating.ArtifactType, rating.ArtifactID))
	return nil
}

func (r *RatingPostgreSQL) ListForArtifact(ctx context.Context, artifactType string, artifactID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("artifact_type = ? AND artifact_id = ?", artifactType, artifactID).
		Order("created_at ASC").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}

func (r *RatingPostgreSQL) DeleteForArtifact(ctx context.Context, artifactType string, artifactID uint) error {
	err := r.db.WithContext(ctx).
		Where("artifact_type = ? AND artifact_id = ?", artifactType, artifactID).
		Delete(&models.Rating{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete artifact ratings: %w", err)
	}
	return nil
}
