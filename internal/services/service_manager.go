package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/edusync-service/internal/auth"
	"github.com/SAP-F-2025/edusync-service/internal/events"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
	"github.com/SAP-F-2025/edusync-service/internal/storage"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

// ServiceManagerConfig holds the collaborators shared by every service
type ServiceManagerConfig struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator

	Tokens      *auth.TokenManager
	Bucket      storage.BucketService
	Publisher   events.EventPublisher
	ResultTopic string
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	config ServiceManagerConfig
	logger *slog.Logger

	// Service instances
	authService       AuthService
	userService       UserService
	courseService     CourseService
	assessmentService AssessmentService
	resultService     ResultService
	enrollmentService EnrollmentService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		config: config,
		logger: config.Logger,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := sm.validateConfig(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.logger.Info("Initializing service manager")

	cfg := sm.config
	sm.authService = NewAuthService(cfg.Repo, cfg.Logger, cfg.Validator, cfg.Tokens)
	sm.userService = NewUserService(cfg.Repo, cfg.Logger, cfg.Validator)
	sm.courseService = NewCourseService(cfg.Repo, cfg.Logger, cfg.Validator, cfg.Bucket)
	sm.assessmentService = NewAssessmentService(cfg.Repo, cfg.Logger, cfg.Validator)
	sm.resultService = NewResultService(cfg.Repo, cfg.Logger, cfg.Validator, cfg.Publisher, cfg.ResultTopic)
	sm.enrollmentService = NewEnrollmentService(cfg.Repo, cfg.Logger, cfg.Validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) validateConfig() error {
	var errs []error
	if sm.config.Repo == nil {
		errs = append(errs, errors.New("repository is required"))
	}
	if sm.config.Logger == nil {
		errs = append(errs, errors.New("logger is required"))
	}
	if sm.config.Validator == nil {
		errs = append(errs, errors.New("validator is required"))
	}
	if sm.config.Tokens == nil {
		errs = append(errs, errors.New("token manager is required"))
	}
	if sm.config.Bucket == nil {
		errs = append(errs, errors.New("bucket service is required"))
	}
	if sm.config.Publisher == nil {
		errs = append(errs, errors.New("event publisher is required"))
	}
	if sm.config.ResultTopic == "" {
		errs = append(errs, errors.New("result topic is required"))
	}
	return errors.Join(errs...)
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.courseService
}

func (sm *serviceManager) Assessment() AssessmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.assessmentService
}

func (sm *serviceManager) Result() ResultService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.resultService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.enrollmentService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.config.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.config.Publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	if closer, ok := sm.config.Bucket.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			sm.logger.Error("Failed to close bucket client", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
