package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *enrollmentService) ListCourses(ctx context.Context, actor policy.Actor) ([]*models.EnrollmentResponse, error) {
	if err := authorize(actor, policy.ListEnrollments, "enrollment", policy.Resource{}); err != nil {
		return nil, err
	}

	courses, err := s.repo.Enrollment().ListCoursesByStudent(ctx, nil, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
	}

	responses := make([]*models.EnrollmentResponse, len(courses))
	for i, c := range courses {
		responses[i] = models.NewEnrollmentResponse(c)
	}
	return responses, nil
}

func (s *enrollmentService) EnrollSelf(ctx context.Context, actor policy.Actor, req *StudentEnrollmentRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	course, err := s.getCourse(ctx, req.CourseID)
	if err != nil {
		return err
	}

	enrolled, err := s.isEnrolled(ctx, course.ID, actor.ID)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.EnrollSelf, "enrollment", policy.Resource{Enrolled: enrolled}); err != nil {
		return err
	}

	if err := s.create(ctx, course.ID, actor.ID, "You are already enrolled in this course"); err != nil {
		return err
	}

	s.logger.Info("Student enrolled", "course_id", course.ID, "user_id", actor.ID)
	return nil
}

func (s *enrollmentService) EnrollStudent(ctx context.Context, actor policy.Actor, req *InstructorEnrollmentRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	course, err := s.getCourse(ctx, req.CourseID)
	if err != nil {
		return err
	}

	student, err := s.repo.User().GetByID(ctx, nil, req.StudentID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to get student: %w", err)
		}
		// Ownership is settled before revealing whether the student exists
		denial := authorize(actor, policy.EnrollStudent, "enrollment", policy.Resource{CourseInstructorID: course.InstructorID})
		if denial != nil && !IsNotFound(denial) {
			return denial
		}
		return newServiceError(ErrUserNotFound, "Student not found")
	}

	enrolled, err := s.isEnrolled(ctx, course.ID, student.ID)
	if err != nil {
		return err
	}

	res := policy.Resource{
		CourseInstructorID: course.InstructorID,
		TargetUserID:       student.ID,
		TargetUserRole:     student.Role,
		Enrolled:           enrolled,
	}
	if err := authorize(actor, policy.EnrollStudent, "enrollment", res); err != nil {
		return err
	}

	if err := s.create(ctx, course.ID, student.ID, "Student is already enrolled in this course"); err != nil {
		return err
	}

	s.logger.Info("Student enrolled by instructor", "course_id", course.ID, "user_id", student.ID, "instructor_id", actor.ID)
	return nil
}

func (s *enrollmentService) UnenrollSelf(ctx context.Context, actor policy.Actor, courseID uuid.UUID) error {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return err
	}

	enrolled, err := s.isEnrolled(ctx, course.ID, actor.ID)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.UnenrollSelf, "enrollment", policy.Resource{Enrolled: enrolled}); err != nil {
		return err
	}

	if err := s.delete(ctx, course.ID, actor.ID, "You are not enrolled in this course"); err != nil {
		return err
	}

	s.logger.Info("Student unenrolled", "course_id", course.ID, "user_id", actor.ID)
	return nil
}

func (s *enrollmentService) UnenrollStudent(ctx context.Context, actor policy.Actor, courseID, studentID uuid.UUID) error {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return err
	}

	enrolled, err := s.isEnrolled(ctx, course.ID, studentID)
	if err != nil {
		return err
	}

	res := policy.Resource{CourseInstructorID: course.InstructorID, TargetUserID: studentID, Enrolled: enrolled}
	if err := authorize(actor, policy.UnenrollStudent, "enrollment", res); err != nil {
		return err
	}

	if err := s.delete(ctx, course.ID, studentID, "Student not found in the course"); err != nil {
		return err
	}

	s.logger.Info("Student unenrolled by instructor", "course_id", course.ID, "user_id", studentID, "instructor_id", actor.ID)
	return nil
}

func (s *enrollmentService) ListStudents(ctx context.Context, actor policy.Actor, courseID uuid.UUID) ([]*models.UserResponse, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, policy.ListEnrolledStudents, "enrollment", policy.Resource{CourseInstructorID: course.InstructorID}); err != nil {
		return nil, err
	}

	students, err := s.repo.Enrollment().ListStudentsByCourse(ctx, nil, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	responses := make([]*models.UserResponse, len(students))
	for i, u := range students {
		responses[i] = models.NewUserResponse(u)
	}
	return responses, nil
}

// ===== HELPERS =====

func (s *enrollmentService) getCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrCourseNotFound, "Course not found")
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *enrollmentService) isEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	enrolled, err := s.repo.Enrollment().Exists(ctx, nil, courseID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return enrolled, nil
}

// create inserts the pair; a concurrent insert that wins the race is reported as a conflict
func (s *enrollmentService) create(ctx context.Context, courseID, userID uuid.UUID, conflictMsg string) error {
	err := s.repo.Enrollment().Create(ctx, nil, &models.Enrollment{CourseID: courseID, UserID: userID})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return newServiceError(ErrConflict, "%s", conflictMsg)
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// delete removes the pair; a concurrent delete that wins the race is reported as not found
func (s *enrollmentService) delete(ctx context.Context, courseID, userID uuid.UUID, notFoundMsg string) error {
	if err := s.repo.Enrollment().Delete(ctx, nil, courseID, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return newServiceError(ErrNotFound, "%s", notFoundMsg)
		}
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return nil
}
