package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if err := e.getDB(tx).WithContext(ctx).Omit("Course", "User").Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("student %s already enrolled in course %s: %w",
				enrollment.UserID, enrollment.CourseID, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

func (e *EnrollmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) error {
	result := e.getDB(tx).WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ListCoursesByStudent returns the courses a student is enrolled in, with instructors loaded
func (e *EnrollmentPostgreSQL) ListCoursesByStudent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*models.Course, error) {
	var courses []*models.Course
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Course{}).
		Joins("JOIN student_courses ON student_courses.course_id = courses.id").
		Where("student_courses.user_id = ?", userID).
		Preload("Instructor").
		Order("student_courses.created_at ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
	}
	return courses, nil
}

func (e *EnrollmentPostgreSQL) ListStudentsByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*models.User, error) {
	var users []*models.User
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN student_courses ON student_courses.user_id = users.id").
		Where("student_courses.course_id = ?", courseID).
		Order("users.name ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled students: %w", err)
	}
	return users, nil
}

func (e *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}
