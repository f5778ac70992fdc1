package validator

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,not_blank,max=2000"`
	Email    string `json:"email" validate:"required,email,max=300"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Role     string `json:"role" validate:"required,user_role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserCreateRequest is used by instructors creating accounts
type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,not_blank,max=2000"`
	Email    string `json:"email" validate:"required,email,max=300"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	// Role is checked by the create-user rule, which forbids anything but Student
	Role string `json:"role"`
}

type UserUpdateRequest struct {
	Name  string `json:"name" validate:"required,not_blank,max=2000"`
	Email string `json:"email" validate:"required,email,max=300"`
	Role  string `json:"role" validate:"required,user_role"`
}

// CourseCreateRequest is bound from multipart form fields; the file is passed separately
type CourseCreateRequest struct {
	Title       string  `form:"title" validate:"required,not_blank,max=200"`
	Description *string `form:"description" validate:"omitempty,max=200"`
}

type CourseUpdateRequest = CourseCreateRequest

type AssessmentCreateRequest struct {
	Title     string    `json:"title" validate:"required,not_blank,max=2000"`
	Questions string    `json:"questions" validate:"required,json_payload"`
	MaxScore  int       `json:"maxScore" validate:"gte=0"`
	CourseID  uuid.UUID `json:"courseId" validate:"required"`
}

type AssessmentUpdateRequest struct {
	Title     string `json:"title" validate:"required,not_blank,max=2000"`
	Questions string `json:"questions" validate:"required,json_payload"`
	MaxScore  int    `json:"maxScore" validate:"gte=0"`
}

type ResultCreateRequest struct {
	Score        int       `json:"score" validate:"gte=0"`
	AttemptDate  time.Time `json:"attemptDate" validate:"required"`
	AssessmentID uuid.UUID `json:"assessmentId" validate:"required"`
	UserID       uuid.UUID `json:"userId"`
}

type ResultUpdateRequest struct {
	Score       int       `json:"score" validate:"gte=0"`
	AttemptDate time.Time `json:"attemptDate" validate:"required"`
}

type StudentEnrollmentRequest struct {
	CourseID uuid.UUID `json:"courseId" validate:"required"`
}

type InstructorEnrollmentRequest struct {
	CourseID  uuid.UUID `json:"courseId" validate:"required"`
	StudentID uuid.UUID `json:"studentId" validate:"required"`
}
