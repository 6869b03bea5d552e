package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "correct-horse-battery"

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Env:                 "test",
		Port:                "0",
		JWTSecret:           "test-secret-that-is-at-least-32-chars",
		ListCacheTTLSeconds: 60,
	}
}

// setupTestServer wires a full app over in-memory sqlite and miniredis.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *miniredis.Miniredis) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := newServer(testConfig(), db, rdb)
	s.userService.WithBcryptCost(bcrypt.MinCost)

	app := NewApp()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return s, app, mr
}

func registerUser(t *testing.T, s *Server, username string) (*models.User, string) {
	t.Helper()
	user, err := s.userService.Register(t.Context(), service.RegisterInput{
		Username: username,
		Password: testPassword,
	})
	require.NoError(t, err)
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func insertPost(t *testing.T, s *Server, author *models.User, title string, minute int) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:     title,
		Content:   "Body of " + title,
		UserID:    author.ID,
		CreatedAt: epoch.Add(time.Duration(minute) * time.Minute),
	}
	require.NoError(t, s.db.Omit("User").Create(p).Error)
	return p
}

func doRequest(t *testing.T, app *fiber.App, method, target, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
