package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/edusync-service/internal/cascade"
	"github.com/SAP-F-2025/edusync-service/internal/events"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

type resultService struct {
	repo        repositories.Repository
	logger      *slog.Logger
	validator   *validator.Validator
	publisher   events.EventPublisher
	resultTopic string
}

func NewResultService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, resultTopic string) ResultService {
	return &resultService{
		repo:        repo,
		logger:      logger,
		validator:   validator,
		publisher:   publisher,
		resultTopic: resultTopic,
	}
}

func (s *resultService) List(ctx context.Context, actor policy.Actor) ([]*models.ResultResponse, error) {
	results, err := s.listAll(ctx, actor, policy.ListResults)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ResultResponse, len(results))
	for i, r := range results {
		responses[i] = models.NewResultResponse(r)
	}
	return responses, nil
}

func (s *resultService) GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.ResultResponse, error) {
	result, err := s.getResult(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, policy.ViewResult, "result", policy.Resource{ResultOwnerID: result.UserID}); err != nil {
		return nil, err
	}

	return models.NewResultResponse(result), nil
}

func (s *resultService) Create(ctx context.Context, actor policy.Actor, req *CreateResultRequest) (*models.ResultResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.UserID == uuid.Nil {
		req.UserID = actor.ID
	}

	assessment, err := s.repo.Assessment().GetByID(ctx, nil, req.AssessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrBadRequest, "Invalid Assessment ID")
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	if err := authorize(actor, policy.SubmitResult, "result", policy.Resource{SubjectUserID: req.UserID}); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, nil, req.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrBadRequest, "User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	result := &models.Result{
		Score:        req.Score,
		AttemptDate:  req.AttemptDate.UTC(),
		AssessmentID: assessment.ID,
		UserID:       user.ID,
	}
	if err := s.repo.Result().Create(ctx, nil, result); err != nil {
		return nil, fmt.Errorf("failed to create result: %w", err)
	}
	result.Assessment = assessment
	result.User = user

	s.logger.Info("Result submitted", "result_id", result.ID, "assessment_id", assessment.ID, "user_id", user.ID)

	// The result is already committed; a failed publish is recorded, not returned
	s.publishResultSubmitted(ctx, result)

	return models.NewResultResponse(result), nil
}

func (s *resultService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req *UpdateResultRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	result, err := s.getResult(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.UpdateResult, "result", policy.Resource{ResultOwnerID: result.UserID}); err != nil {
		return err
	}

	result.Score = req.Score
	result.AttemptDate = req.AttemptDate.UTC()

	if err := s.repo.Result().Update(ctx, nil, result); err != nil {
		if repositories.IsNotFoundError(err) {
			return newServiceError(ErrResultNotFound, "Result not found")
		}
		return fmt.Errorf("failed to update result: %w", err)
	}

	s.logger.Info("Result updated", "result_id", id, "updated_by", actor.ID)
	return nil
}

func (s *resultService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	result, err := s.getResult(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.DeleteResult, "result", policy.Resource{ResultOwnerID: result.UserID}); err != nil {
		return err
	}

	if err := deleteCascade(ctx, s.repo, cascade.KindResult, id); err != nil {
		return err
	}

	s.logger.Info("Result deleted", "result_id", id, "deleted_by", actor.ID)
	return nil
}

func (s *resultService) Export(ctx context.Context, actor policy.Actor, w io.Writer) error {
	results, err := s.listAll(ctx, actor, policy.ExportResults)
	if err != nil {
		return err
	}

	if err := writeResultsWorkbook(w, results); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}

	s.logger.Info("Results exported", "count", len(results), "exported_by", actor.ID)
	return nil
}

// ===== HELPERS =====

func (s *resultService) listAll(ctx context.Context, actor policy.Actor, action policy.Action) ([]*models.Result, error) {
	if err := authorize(actor, action, "result", policy.Resource{}); err != nil {
		return nil, err
	}

	results, err := s.repo.Result().List(ctx, nil, repositories.ResultFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (s *resultService) getResult(ctx context.Context, id uuid.UUID) (*models.Result, error) {
	result, err := s.repo.Result().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrResultNotFound, "Result not found")
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}

func (s *resultService) publishResultSubmitted(ctx context.Context, result *models.Result) {
	data := events.ResultSubmittedEvent{
		ResultID:     result.ID.String(),
		AssessmentID: result.AssessmentID.String(),
		UserID:       result.UserID.String(),
		Score:        result.Score,
		AttemptDate:  result.AttemptDate,
	}
	if result.Assessment != nil {
		data.MaxScore = result.Assessment.MaxScore
	}
	event := events.NewEvent(events.ResultSubmitted, data)

	err := s.publisher.Publish(ctx, s.resultTopic, event)
	if err == nil {
		return
	}

	s.logger.Error("Failed to publish result event",
		"result_id", result.ID,
		"event_id", event.ID,
		"topic", s.resultTopic,
		"error", err)

	payload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		s.logger.Error("Failed to encode result event", "event_id", event.ID, "error", marshalErr)
		return
	}

	failed := &models.FailedEvent{
		Topic:     s.resultTopic,
		EventType: event.Type,
		Payload:   datatypes.JSON(payload),
		Error:     err.Error(),
	}
	if err := s.repo.FailedEvent().Create(context.WithoutCancel(ctx), nil, failed); err != nil {
		s.logger.Error("Failed to record unpublished event", "event_id", event.ID, "error", err)
	}
}
