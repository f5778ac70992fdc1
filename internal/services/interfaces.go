package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateUserRequest = validator.UserCreateRequest
type UpdateUserRequest = validator.UserUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateAssessmentRequest = validator.AssessmentCreateRequest
type UpdateAssessmentRequest = validator.AssessmentUpdateRequest
type CreateResultRequest = validator.ResultCreateRequest
type UpdateResultRequest = validator.ResultUpdateRequest
type StudentEnrollmentRequest = validator.StudentEnrollmentRequest
type InstructorEnrollmentRequest = validator.InstructorEnrollmentRequest

// FileUpload is an optional media file attached to a course request
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*models.LoginResponse, error)
}

type UserService interface {
	// List returns every Student account
	List(ctx context.Context, actor policy.Actor) ([]*models.UserResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.UserResponse, error)
	Create(ctx context.Context, actor policy.Actor, req *CreateUserRequest) (*models.UserResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req *UpdateUserRequest) error
	// Delete removes the user with everything they taught or submitted
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

type CourseService interface {
	List(ctx context.Context, actor policy.Actor) ([]*models.CourseResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.CourseResponse, error)
	Create(ctx context.Context, actor policy.Actor, req *CreateCourseRequest, file *FileUpload) (*models.CourseResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req *UpdateCourseRequest, file *FileUpload) error
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

type AssessmentService interface {
	List(ctx context.Context, actor policy.Actor) ([]*models.AssessmentResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.AssessmentResponse, error)
	Create(ctx context.Context, actor policy.Actor, req *CreateAssessmentRequest) (*models.AssessmentResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req *UpdateAssessmentRequest) error
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

type ResultService interface {
	List(ctx context.Context, actor policy.Actor) ([]*models.ResultResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.ResultResponse, error)
	// Create stores a submitted result and then publishes a result.submitted event
	Create(ctx context.Context, actor policy.Actor, req *CreateResultRequest) (*models.ResultResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req *UpdateResultRequest) error
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
	// Export writes every result as an XLSX workbook
	Export(ctx context.Context, actor policy.Actor, w io.Writer) error
}

type EnrollmentService interface {
	ListCourses(ctx context.Context, actor policy.Actor) ([]*models.EnrollmentResponse, error)
	EnrollSelf(ctx context.Context, actor policy.Actor, req *StudentEnrollmentRequest) error
	EnrollStudent(ctx context.Context, actor policy.Actor, req *InstructorEnrollmentRequest) error
	UnenrollSelf(ctx context.Context, actor policy.Actor, courseID uuid.UUID) error
	UnenrollStudent(ctx context.Context, actor policy.Actor, courseID, studentID uuid.UUID) error
	ListStudents(ctx context.Context, actor policy.Actor, courseID uuid.UUID) ([]*models.UserResponse, error)
}

// ServiceManager owns every service and their lifecycle
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Course() CourseService
	Assessment() AssessmentService
	Result() ResultService
	Enrollment() EnrollmentService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
