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

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) List(ctx context.Context, actor policy.Actor) ([]*models.UserResponse, error) {
	if err := authorize(actor, policy.ListUsers, "user", policy.Resource{}); err != nil {
		return nil, err
	}

	users, err := s.repo.User().ListByRole(ctx, nil, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*models.UserResponse, len(users))
	for i, u := range users {
		responses[i] = models.NewUserResponse(u)
	}
	return responses, nil
}

func (s *userService) GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.UserResponse, error) {
	// Students are refused before the lookup so another user's existence is not revealed
	if err := authorize(actor, policy.ViewUser, "user", policy.Resource{TargetUserID: id}); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewUserResponse(user), nil
}

func (s *userService) Create(ctx context.Context, actor policy.Actor, req *CreateUserRequest) (*models.UserResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// An unknown or empty role stays zero and is refused by the create-user rule
	role, _ := models.ParseRole(req.Role)

	if err := authorize(actor, policy.CreateUser, "user", policy.Resource{RequestedRole: role}); err != nil {
		return nil, err
	}

	user, err := createAccount(ctx, s.repo, req.Name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID, "created_by", actor.ID)
	return models.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req *UpdateUserRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return newServiceError(ErrBadRequest, "Invalid user role")
	}

	target, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	res := policy.Resource{
		TargetUserID:   target.ID,
		TargetUserRole: target.Role,
		RequestedRole:  role,
	}
	if err := authorize(actor, policy.UpdateUser, "user", res); err != nil {
		return err
	}

	email := normalizeEmail(req.Email)
	exists, err := s.repo.User().ExistsByEmail(ctx, nil, email, &target.ID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return newServiceError(ErrConflict, "Email already exists")
	}

	target.Name = strings.TrimSpace(req.Name)
	target.Email = email
	target.Role = role

	if err := s.repo.User().Update(ctx, nil, target); err != nil {
		switch {
		case repositories.IsDuplicateError(err):
			return newServiceError(ErrConflict, "Email already exists")
		case repositories.IsNotFoundError(err):
			return newServiceError(ErrUserNotFound, "User not found")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "user_id", id, "updated_by", actor.ID)
	return nil
}

func (s *userService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	target, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	res := policy.Resource{TargetUserID: target.ID, TargetUserRole: target.Role}
	if err := authorize(actor, policy.DeleteUser, "user", res); err != nil {
		return err
	}

	if err := deleteCascade(ctx, s.repo, cascade.KindUser, id); err != nil {
		return err
	}

	s.logger.Info("User deleted", "user_id", id, "deleted_by", actor.ID)
	return nil
}

func (s *userService) getUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrUserNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
