package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/auth"
	"github.com/SAP-F-2025/edusync-service/internal/config"
	"github.com/SAP-F-2025/edusync-service/internal/events"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/edusync-service/internal/services"
	"github.com/SAP-F-2025/edusync-service/internal/storage"
	"github.com/SAP-F-2025/edusync-service/internal/testutil"
	"github.com/SAP-F-2025/edusync-service/internal/utils"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

var testJWTConfig = config.JWTConfig{
	Secret:   "test-secret",
	Issuer:   "edusync",
	Audience: "edusync-clients",
	Expiry:   time.Hour,
}

type testServer struct {
	router    *gin.Engine
	db        *gorm.DB
	tokens    *auth.TokenManager
	publisher *events.MockEventPublisher
	bucket    *storage.MemoryBucket
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	slogLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogLogger)
	db := testutil.NewTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})

	ts := &testServer{
		db:        db,
		tokens:    auth.NewTokenManager(testJWTConfig),
		publisher: events.NewMockEventPublisher(slogLogger),
		bucket:    storage.NewMemoryBucket("media"),
	}

	serviceManager := services.NewServiceManager(services.ServiceManagerConfig{
		Repo:        repo,
		Logger:      slogLogger,
		Validator:   validator.New(),
		Tokens:      ts.tokens,
		Bucket:      ts.bucket,
		Publisher:   ts.publisher,
		ResultTopic: "edusync.results.submitted",
	})
	if err := serviceManager.Initialize(t.Context()); err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	ts.router = gin.New()
	SetupMiddleware(ts.router, logger, []string{"http://localhost:3000"})
	NewHandlerManager(serviceManager, ts.tokens, logger).SetupRoutes(ts.router)

	return ts
}

func (ts *testServer) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := ts.tokens.Generate(u.ID, u.Email, string(u.Role))
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// do sends body as JSON when it is not already a reader
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		if _, isReader := body.(io.Reader); !isReader {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func expectMessage(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, w, status)
	var resp ErrorResponse
	decode(t, w, &resp)
	if resp.Message != message {
		t.Errorf("Expected message %q, got %q", message, resp.Message)
	}
}

func newPreflight(path, origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	return req
}

func serve(ts *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}
