package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/cascade"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

type assessmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAssessmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AssessmentService {
	return &assessmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *assessmentService) List(ctx context.Context, actor policy.Actor) ([]*models.AssessmentResponse, error) {
	scope, d := policy.ScopeAssessments(actor)
	if err := fromDenial(actor, policy.ListAssessments, "assessment", d); err != nil {
		return nil, err
	}

	var filters repositories.AssessmentFilters
	switch scope.Kind {
	case policy.ScopeTaughtCourses:
		filters.InstructorID = &scope.UserID
	case policy.ScopeEnrolledCourses:
		filters.EnrolledUserID = &scope.UserID
	}

	assessments, err := s.repo.Assessment().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	responses := make([]*models.AssessmentResponse, len(assessments))
	for i, a := range assessments {
		responses[i] = models.NewAssessmentResponse(a)
	}
	return responses, nil
}

func (s *assessmentService) GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	res := policy.Resource{CourseInstructorID: courseOwner(assessment)}
	if actor.Role == models.RoleStudent {
		enrolled, err := s.repo.Enrollment().Exists(ctx, nil, assessment.CourseID, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		res.Enrolled = enrolled
	}

	if err := authorize(actor, policy.ViewAssessment, "assessment", res); err != nil {
		return nil, err
	}

	return models.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Create(ctx context.Context, actor policy.Actor, req *CreateAssessmentRequest) (*models.AssessmentResponse, error) {
	s.logger.Info("Creating assessment", "creator_id", actor.ID, "course_id", req.CourseID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, nil, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrBadRequest, "Course with ID %s not found", req.CourseID)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := authorize(actor, policy.CreateAssessment, "assessment", policy.Resource{CourseInstructorID: course.InstructorID}); err != nil {
		return nil, err
	}

	assessment := &models.Assessment{
		Title:     strings.TrimSpace(req.Title),
		Questions: req.Questions,
		MaxScore:  req.MaxScore,
		CourseID:  course.ID,
	}
	if err := s.repo.Assessment().Create(ctx, nil, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	assessment.Course = course

	s.logger.Info("Assessment created successfully", "assessment_id", assessment.ID)
	return models.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req *UpdateAssessmentRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.UpdateAssessment, "assessment", policy.Resource{CourseInstructorID: courseOwner(assessment)}); err != nil {
		return err
	}

	assessment.Title = strings.TrimSpace(req.Title)
	assessment.Questions = req.Questions
	assessment.MaxScore = req.MaxScore

	if err := s.repo.Assessment().Update(ctx, nil, assessment); err != nil {
		if repositories.IsNotFoundError(err) {
			return newServiceError(ErrAssessmentNotFound, "Assessment not found")
		}
		return fmt.Errorf("failed to update assessment: %w", err)
	}

	s.logger.Info("Assessment updated", "assessment_id", id)
	return nil
}

func (s *assessmentService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.DeleteAssessment, "assessment", policy.Resource{CourseInstructorID: courseOwner(assessment)}); err != nil {
		return err
	}

	if err := deleteCascade(ctx, s.repo, cascade.KindAssessment, id); err != nil {
		return err
	}

	s.logger.Info("Assessment deleted", "assessment_id", id)
	return nil
}

// ===== HELPERS =====

func (s *assessmentService) getAssessment(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrAssessmentNotFound, "Assessment not found")
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

func courseOwner(a *models.Assessment) uuid.UUID {
	if a.Course == nil {
		return uuid.Nil
	}
	return a.Course.InstructorID
}
