package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/cache"
	"github.com/SAP-F-2025/edusync-service/internal/cascade"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
)

// CascadePostgreSQL reads the relation graph for the planner and executes deletion plans
type CascadePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCascadePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CascadeRepository {
	return &CascadePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (c *CascadePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// Graph returns a relation reader bound to tx
func (c *CascadePostgreSQL) Graph(tx *gorm.DB) cascade.Graph {
	return &relationGraph{db: c.getDB(tx)}
}

// Execute deletes plan step by step. Every step must remove exactly the rows it
// planned; anything less means a concurrent writer got there first.
func (c *CascadePostgreSQL) Execute(ctx context.Context, tx *gorm.DB, plan *cascade.Plan) error {
	db := c.getDB(tx).WithContext(ctx)

	for _, step := range plan.Steps() {
		model, err := modelFor(step.Kind)
		if err != nil {
			return err
		}

		result := db.Where("id IN ?", step.IDs).Delete(model)
		if result.Error != nil {
			return fmt.Errorf("failed to delete %s rows: %w", step.Kind, result.Error)
		}
		if result.RowsAffected != int64(len(step.IDs)) {
			return fmt.Errorf("deleted %d of %d %s rows: %w",
				result.RowsAffected, len(step.IDs), step.Kind, repositories.ErrWriteConflict)
		}
	}

	return nil
}

// Invalidate runs after commit. Clearing earlier would let a reader outside the
// transaction cache a row that is about to disappear.
func (c *CascadePostgreSQL) Invalidate(ctx context.Context, plan *cascade.Plan) {
	if plan == nil {
		return
	}

	deleted := make(map[cascade.Kind][]uuid.UUID)
	for _, step := range plan.Steps() {
		deleted[step.Kind] = append(deleted[step.Kind], step.IDs...)
	}

	cache.InvalidateUserCache(ctx, c.cacheManager, deleted[cascade.KindUser]...)
	cache.InvalidateCourseCache(ctx, c.cacheManager, deleted[cascade.KindCourse]...)
	cache.InvalidateAssessmentCache(ctx, c.cacheManager, deleted[cascade.KindAssessment]...)
}

func modelFor(kind cascade.Kind) (interface{}, error) {
	switch kind {
	case cascade.KindResult:
		return &models.Result{}, nil
	case cascade.KindAssessment:
		return &models.Assessment{}, nil
	case cascade.KindCourse:
		return &models.Course{}, nil
	case cascade.KindUser:
		return &models.User{}, nil
	}
	return nil, fmt.Errorf("unsupported entity kind %q", kind)
}

type relationGraph struct {
	db *gorm.DB
}

func (g *relationGraph) CourseIDsByInstructor(ctx context.Context, instructorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := g.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("instructor_id = ?", instructorID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (g *relationGraph) AssessmentIDsByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(courseIDs) == 0 {
		return ids, nil
	}
	err := g.db.WithContext(ctx).
		Model(&models.Assessment{}).
		Where("course_id IN ?", courseIDs).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (g *relationGraph) ResultIDsByAssessments(ctx context.Context, assessmentIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(assessmentIDs) == 0 {
		return ids, nil
	}
	err := g.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("assessment_id IN ?", assessmentIDs).
		Order("attempt_date ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (g *relationGraph) ResultIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := g.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("user_id = ?", userID).
		Order("attempt_date ASC").
		Pluck("id", &ids).Error
	return ids, err
}
