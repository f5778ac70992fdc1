package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/auth"
	"github.com/SAP-F-2025/edusync-service/internal/config"
	"github.com/SAP-F-2025/edusync-service/internal/events"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
	"github.com/SAP-F-2025/edusync-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/edusync-service/internal/storage"
	"github.com/SAP-F-2025/edusync-service/internal/testutil"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

const testResultTopic = "edusync.results.submitted"

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	services  ServiceManager
	publisher *events.MockEventPublisher
	bucket    *storage.MemoryBucket
	tokens    *auth.TokenManager
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnv(t, nil)
}

// setupServicesWithCache backs the repositories with an in-memory redis
func setupServicesWithCache(t *testing.T) (*testEnv, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return newTestEnv(t, client), mr
}

func newTestEnv(t *testing.T, redisClient *redis.Client) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testutil.NewTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, RedisClient: redisClient})

	env := &testEnv{
		db:        db,
		repo:      repo,
		publisher: events.NewMockEventPublisher(logger),
		bucket:    storage.NewMemoryBucket("media"),
		tokens: auth.NewTokenManager(config.JWTConfig{
			Secret:   "test-secret",
			Issuer:   "edusync",
			Audience: "edusync-clients",
			Expiry:   time.Hour,
		}),
	}

	env.services = NewServiceManager(ServiceManagerConfig{
		Repo:        repo,
		Logger:      logger,
		Validator:   validator.New(),
		Tokens:      env.tokens,
		Bucket:      env.bucket,
		Publisher:   env.publisher,
		ResultTopic: testResultTopic,
	})
	if err := env.services.Initialize(t.Context()); err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	return env
}

func actorOf(u *models.User) policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role}
}
