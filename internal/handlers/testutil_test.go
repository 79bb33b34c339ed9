package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/KNehe/alx-files-manager/internal/cache"
	"github.com/KNehe/alx-files-manager/internal/config"
	"github.com/KNehe/alx-files-manager/internal/database"
	"github.com/KNehe/alx-files-manager/internal/middleware"
	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/internal/queue"
	"github.com/KNehe/alx-files-manager/internal/services"
	"github.com/KNehe/alx-files-manager/internal/storage"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/KNehe/alx-files-manager/pkg/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	cache    *cache.MemoryCache
	notifier *recordingNotifier
	root     string
}

// recordingNotifier stands in for the thumbnail queue and remembers every
// emission. Setting err simulates a broken queue.
type recordingNotifier struct {
	mu   sync.Mutex
	jobs []queue.Job
	err  error
}

func (r *recordingNotifier) Enqueue(userID, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.jobs = append(r.jobs, queue.Job{UserID: userID, FileID: fileID})
	return nil
}

func (r *recordingNotifier) recorded() []queue.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.Job(nil), r.jobs...)
}

func (r *recordingNotifier) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating models: %v", err)
	}

	tokenCache := cache.NewMemory()
	localStorage := storage.NewLocal(config.StorageConfig{FolderPath: t.TempDir()})
	notifier := &recordingNotifier{}

	sessionService := services.NewSessionService(db, tokenCache, time.Hour)
	fileService := services.NewFileService(db, localStorage, notifier)

	appHandler := NewAppHandler(db, tokenCache)
	usersHandler := NewUsersHandler(db)
	authHandler := NewAuthHandler(sessionService)
	filesHandler := NewFilesHandler(fileService)

	session := middleware.NewSessionMiddleware(sessionService)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(session.Load)

	app.Get("/status", appHandler.Status)
	app.Get("/stats", appHandler.Stats)

	app.Post("/users", usersHandler.Register)
	app.Get("/users/me", usersHandler.Me)

	app.Get("/connect", authHandler.Connect)
	app.Get("/disconnect", authHandler.Disconnect)

	app.Post("/files", filesHandler.Upload)
	app.Get("/files", filesHandler.List)
	app.Get("/files/:id", filesHandler.Show)
	app.Get("/files/:id/data", filesHandler.Data)

	return &testEnv{
		app:      app,
		db:       db,
		cache:    tokenCache,
		notifier: notifier,
		root:     localStorage.Root(),
	}
}

func createTestUser(t *testing.T, env *testEnv, email, password string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token := uuid.New().String()
	if err := env.cache.Set(context.Background(), "auth_"+token, user.ID.String(), time.Hour); err != nil {
		t.Fatalf("failed storing session token: %v", err)
	}

	return user, token
}

func tokenHeaders(token string) map[string]string {
	return map[string]string{"X-Token": token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func decodeJSONList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload []map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON list response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertErrorBody(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %+v", expected, body)
	}
}
