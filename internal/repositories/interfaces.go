package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/cascade"
	"github.com/SAP-F-2025/edusync-service/internal/models"
)

// All repository methods take an optional transaction; nil means the default connection.

// ===== FILTER STRUCTS =====

// AssessmentFilters narrows assessment listings. Nil fields are ignored.
type AssessmentFilters struct {
	InstructorID   *uuid.UUID `json:"instructor_id"`    // courses taught by this user
	EnrolledUserID *uuid.UUID `json:"enrolled_user_id"` // courses this user is enrolled in
	CourseID       *uuid.UUID `json:"course_id"`
}

type ResultFilters struct {
	UserID       *uuid.UUID `json:"user_id"`
	AssessmentID *uuid.UUID `json:"assessment_id"`
}

// ===== REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	ListByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) ([]*models.User, error)
	// Update writes name, email and role; a missing row yields ErrNotFound
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID *uuid.UUID) (bool, error)
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Course, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Course, error)
	// Update writes title, description and media url; a missing row yields ErrNotFound
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
}

type AssessmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Assessment, error)
	List(ctx context.Context, tx *gorm.DB, filters AssessmentFilters) ([]*models.Assessment, error)
	// Update writes title, questions and max score; a missing row yields ErrNotFound
	Update(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
}

type ResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *models.Result) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Result, error)
	List(ctx context.Context, tx *gorm.DB, filters ResultFilters) ([]*models.Result, error)
	// Update writes score and attempt date; a missing row yields ErrNotFound
	Update(ctx context.Context, tx *gorm.DB, result *models.Result) error
}

type EnrollmentRepository interface {
	// Create fails with ErrDuplicate when the pair already exists
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Exists(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) (bool, error)
	// Delete removes the pair; a missing pair yields ErrNotFound
	Delete(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) error
	ListCoursesByStudent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*models.Course, error)
	ListStudentsByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*models.User, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
}

type FailedEventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.FailedEvent) error
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*models.FailedEvent, error)
}

// CascadeRepository exposes the relation graph to the planner and executes plans
type CascadeRepository interface {
	Graph(tx *gorm.DB) cascade.Graph
	// Execute deletes every target of plan in order; it must run inside tx.
	// A step that removes fewer rows than planned returns ErrWriteConflict.
	Execute(ctx context.Context, tx *gorm.DB, plan *cascade.Plan) error
	// Invalidate drops cached copies of every target of plan.
	// Call it only after the deleting transaction has committed.
	Invalidate(ctx context.Context, plan *cascade.Plan)
}
