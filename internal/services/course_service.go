package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/cascade"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
	"github.com/SAP-F-2025/edusync-service/internal/storage"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

const courseMediaPrefix = "courses"

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	bucket    storage.BucketService
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, bucket storage.BucketService) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		bucket:    bucket,
	}
}

func (s *courseService) List(ctx context.Context, actor policy.Actor) ([]*models.CourseResponse, error) {
	if err := authorize(actor, policy.ListCourses, "course", policy.Resource{}); err != nil {
		return nil, err
	}

	courses, err := s.repo.Course().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	responses := make([]*models.CourseResponse, len(courses))
	for i, c := range courses {
		responses[i] = models.NewCourseResponse(c)
	}
	return responses, nil
}

func (s *courseService) GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.CourseResponse, error) {
	if err := authorize(actor, policy.ViewCourse, "course", policy.Resource{}); err != nil {
		return nil, err
	}

	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, actor policy.Actor, req *CreateCourseRequest, file *FileUpload) (*models.CourseResponse, error) {
	s.logger.Info("Creating course", "instructor_id", actor.ID, "title", req.Title)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.CreateCourse, "course", policy.Resource{}); err != nil {
		return nil, err
	}

	// The token role is not enough: the stored account must still be an instructor
	instructor, err := s.repo.User().GetByID(ctx, nil, actor.ID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load instructor: %w", err)
	}
	if err != nil || instructor.Role != models.RoleInstructor {
		return nil, NewPermissionError(actor.ID, "course", string(policy.CreateCourse), "Only instructors can create courses")
	}

	course := &models.Course{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		InstructorID: actor.ID,
	}

	key, url, err := s.uploadMedia(ctx, file)
	if err != nil {
		return nil, err
	}
	if key != "" {
		course.MediaURL = &url
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		s.discardMedia(ctx, key)
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	course.Instructor = instructor

	s.logger.Info("Course created", "course_id", course.ID, "instructor_id", actor.ID)
	return models.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req *UpdateCourseRequest, file *FileUpload) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.UpdateCourse, "course", policy.Resource{CourseInstructorID: course.InstructorID}); err != nil {
		return err
	}

	course.Title = strings.TrimSpace(req.Title)
	course.Description = req.Description

	key, url, err := s.uploadMedia(ctx, file)
	if err != nil {
		return err
	}
	if key != "" {
		course.MediaURL = &url
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		s.discardMedia(ctx, key)
		if repositories.IsNotFoundError(err) {
			return newServiceError(ErrCourseNotFound, "Course not found")
		}
		return fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", id, "instructor_id", actor.ID)
	return nil
}

func (s *courseService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.DeleteCourse, "course", policy.Resource{CourseInstructorID: course.InstructorID}); err != nil {
		return err
	}

	if err := deleteCascade(ctx, s.repo, cascade.KindCourse, id); err != nil {
		return err
	}

	s.logger.Info("Course deleted", "course_id", id, "instructor_id", actor.ID)
	return nil
}

func (s *courseService) getCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrCourseNotFound, "Course not found")
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// uploadMedia stores file and returns its object key and URL; both are empty when no file was sent
func (s *courseService) uploadMedia(ctx context.Context, file *FileUpload) (string, string, error) {
	if file == nil {
		return "", "", nil
	}

	if errs := s.validator.GetBusinessValidator().ValidateCourseMedia(file.Filename, file.Size); len(errs) > 0 {
		return "", "", errs
	}

	key := storage.ObjectKey(courseMediaPrefix, file.Filename)
	url, err := s.bucket.Upload(ctx, key, file.Content)
	if err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return "", "", newServiceError(ErrBadRequest, "File uploads are not enabled")
		}
		return "", "", fmt.Errorf("failed to upload course media: %w", err)
	}

	s.logger.Info("Course media uploaded", "key", key, "size", file.Size)
	return key, url, nil
}

func (s *courseService) discardMedia(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to remove orphaned course media", "key", key, "error", err)
	}
}
