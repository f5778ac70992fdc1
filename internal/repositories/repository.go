package repositories

import "context"

// Repository groups every repository the service uses
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Assessment() AssessmentRepository
	Result() ResultRepository
	Enrollment() EnrollmentRepository
	FailedEvent() FailedEventRepository

	// Cascade plans and executes multi-table deletes
	Cascade() CascadeRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
