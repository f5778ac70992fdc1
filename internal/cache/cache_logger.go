package cache

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of failing
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of failing
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateUserCache drops a cached user and every course that may embed the user's name
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userIDs ...uuid.UUID) {
	if len(userIDs) == 0 {
		return
	}
	SafeDelete(ctx, cm.User, idKeys(userIDs)...)
	SafeInvalidatePattern(ctx, cm.Course, "*")
}

// InvalidateCourseCache drops cached courses and every assessment that may embed a course title
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseIDs ...uuid.UUID) {
	if len(courseIDs) == 0 {
		return
	}
	SafeDelete(ctx, cm.Course, idKeys(courseIDs)...)
	SafeInvalidatePattern(ctx, cm.Assessment, "*")
}

// InvalidateAssessmentCache drops cached assessments
func InvalidateAssessmentCache(ctx context.Context, cm *CacheManager, assessmentIDs ...uuid.UUID) {
	if len(assessmentIDs) == 0 {
		return
	}
	SafeDelete(ctx, cm.Assessment, idKeys(assessmentIDs)...)
}

func idKeys(ids []uuid.UUID) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = IDKey(id)
	}
	return keys
}
