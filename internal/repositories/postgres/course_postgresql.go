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

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if err := c.getDB(tx).WithContext(ctx).Omit("Instructor").Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// GetByID retrieves a course with its instructor, caching reads made outside a transaction
func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Course, error) {
	fetch := func() (interface{}, error) {
		var course models.Course
		err := c.getDB(tx).WithContext(ctx).
			Preload("Instructor").
			Where("id = ?", id).
			First(&course).Error
		if err != nil {
			return nil, notFoundOr(err, "failed to get course")
		}
		return &course, nil
	}

	if tx != nil {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		return v.(*models.Course), nil
	}

	var course models.Course
	if err := c.cacheManager.Course.CacheOrExecute(ctx, cache.IDKey(id), &course, cache.CourseCacheConfig.TTL, fetch); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Course, error) {
	var courses []*models.Course
	if err := c.getDB(tx).WithContext(ctx).
		Preload("Instructor").
		Order("created_at ASC").
		Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	result := c.getDB(tx).WithContext(ctx).Model(&models.Course{}).Where("id = ?", course.ID).Updates(map[string]interface{}{
		"title":       course.Title,
		"description": course.Description,
		"media_url":   course.MediaURL,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	return nil
}
