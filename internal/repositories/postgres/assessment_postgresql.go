package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/cache"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
)

type AssessmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAssessmentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (a *AssessmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *AssessmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	if err := a.getDB(tx).WithContext(ctx).Omit("Course").Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// GetByID retrieves an assessment with its course. The course carries the
// instructor id used for ownership checks.
func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Assessment, error) {
	fetch := func() (interface{}, error) {
		var assessment models.Assessment
		err := a.getDB(tx).WithContext(ctx).
			Preload("Course").
			Where("id = ?", id).
			First(&assessment).Error
		if err != nil {
			return nil, notFoundOr(err, "failed to get assessment")
		}
		return &assessment, nil
	}

	if tx != nil {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		return v.(*models.Assessment), nil
	}

	var assessment models.Assessment
	if err := a.cacheManager.Assessment.CacheOrExecute(ctx, cache.IDKey(id), &assessment, cache.AssessmentCacheConfig.TTL, fetch); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// List retrieves assessments matching every non-nil filter
func (a *AssessmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, error) {
	db := a.getDB(tx).WithContext(ctx)
	query := applyAssessmentFilters(db, db.Model(&models.Assessment{}), filters)

	var assessments []*models.Assessment
	if err := query.
		Preload("Course").
		Order("assessments.created_at ASC").
		Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

// applyAssessmentFilters builds subqueries from db so they share the caller's transaction
func applyAssessmentFilters(db, query *gorm.DB, filters repositories.AssessmentFilters) *gorm.DB {
	if filters.CourseID != nil {
		query = query.Where("assessments.course_id = ?", *filters.CourseID)
	}
	if filters.InstructorID != nil {
		query = query.Where("assessments.course_id IN (?)",
			db.Model(&models.Course{}).Select("id").Where("instructor_id = ?", *filters.InstructorID))
	}
	if filters.EnrolledUserID != nil {
		query = query.Where("assessments.course_id IN (?)",
			db.Model(&models.Enrollment{}).Select("course_id").Where("user_id = ?", *filters.EnrolledUserID))
	}
	return query
}

func (a *AssessmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	result := a.getDB(tx).WithContext(ctx).Model(&models.Assessment{}).Where("id = ?", assessment.ID).Updates(map[string]interface{}{
		"title":     assessment.Title,
		"questions": assessment.Questions,
		"max_score": assessment.MaxScore,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateAssessmentCache(ctx, a.cacheManager, assessment.ID)
	return nil
}
