package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/edusync-service/internal/auth"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

const msgInvalidCredentials = "Invalid email or password"

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.UserResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, newServiceError(ErrBadRequest, "Invalid user role")
	}

	user, err := createAccount(ctx, s.repo, req.Name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return models.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, normalizeEmail(req.Email))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newServiceError(ErrUnauthorized, msgInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("Login rejected", "user_id", user.ID)
		return nil, newServiceError(ErrUnauthorized, msgInvalidCredentials)
	}

	token, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{Token: token, Role: user.Role}, nil
}

// createAccount hashes the password and stores a new user, rejecting taken emails
func createAccount(ctx context.Context, repo repositories.Repository, name, email, password string, role models.UserRole) (*models.User, error) {
	email = normalizeEmail(email)

	exists, err := repo.User().ExistsByEmail(ctx, nil, email, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, newServiceError(ErrConflict, "Email already exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, newServiceError(ErrConflict, "Email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
