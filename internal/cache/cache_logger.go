package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates cache entries matching a pattern and
// logs failures without propagating them. Stale cache is tolerable; a
// failed write is not.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if helper == nil {
		return
	}

	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.Warn("cache invalidation failed",
			"pattern", pattern,
			"error", err,
		)
	}
}

// SafeDelete deletes specific cache keys and logs failures without
// propagating them.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if helper == nil || len(keys) == 0 {
		return
	}

	if err := helper.Delete(ctx, keys...); err != nil {
		slog.Warn("cache delete failed",
			"keys", keys,
			"error", err,
		)
	}
}

// InvalidateArtifactCache removes cached entries for a single artifact,
// its kind-scoped lists, and the creator's filtered views.
func InvalidateArtifactCache(ctx context.Context, cm *CacheManager, kind string, artifactID uint, createdBy string) {
	if cm == nil {
		return
	}

	SafeDelete(ctx, cm.Artifact, fmt.Sprintf("%s:id:%d", kind, artifactID))
	SafeInvalidatePattern(ctx, cm.Artifact, fmt.Sprintf("%s:list:*", kind))
	if createdBy != "" {
		SafeInvalidatePattern(ctx, cm.Artifact, fmt.Sprintf("%s:creator:%s:*", kind, createdBy))
	}
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("%s:*", kind))
}

// InvalidateSheetCache removes cached entries for an answer sheet and the
// quiz-scoped sheet lists it appears in.
func InvalidateSheetCache(ctx context.Context, cm *CacheManager, sheetID uint, quizID uint) {
	if cm == nil {
		return
	}

	SafeDelete(ctx, cm.Sheet, fmt.Sprintf("id:%d", sheetID))
	SafeInvalidatePattern(ctx, cm.Sheet, fmt.Sprintf("quiz:%d:*", quizID))
	SafeInvalidatePattern(ctx, cm.Sheet, "list:*")
}
