package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"scribe/internal/config"
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetCredentials(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func newMockedAuthApp(repo *MockUserRepository) *fiber.App {
	s := &Server{
		config:      &config.Config{JWTSecret: "test-secret-that-is-at-least-32-chars"},
		userService: service.NewUserService(repo),
	}
	app := fiber.New()
	app.Post("/signup", s.Signup)
	app.Post("/login", s.Login)
	return app
}

func TestLogin_RepositoryFailureIsInternal(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "alice").Return(nil, models.NewInternalError(errors.New("db down")))
	app := newMockedAuthApp(repo)

	resp := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeJSON[models.ErrorResponse](t, resp)
	assert.Equal(t, models.CodeInternal, body.Code)
	assert.Empty(t, body.Details)
	repo.AssertExpectations(t)
}

func TestSignup_ExistingUsernameConflicts(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)
	app := newMockedAuthApp(repo)

	resp := doRequest(t, app, http.MethodPost, "/signup", "", map[string]string{"username": " alice ", "password": testPassword})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignupAndLogin(t *testing.T) {
	_, app, _ := setupTestServer(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"valid", map[string]string{"username": "alice", "password": testPassword}, http.StatusCreated},
		{"duplicate", map[string]string{"username": "alice", "password": testPassword}, http.StatusConflict},
		{"numeric password", map[string]string{"username": "bobby", "password": "1234567890"}, http.StatusBadRequest},
		{"short password", map[string]string{"username": "bobby", "password": "abc"}, http.StatusBadRequest},
		{"password contains username", map[string]string{"username": "carol", "password": "carol-rocks-hard"}, http.StatusBadRequest},
		{"missing fields", map[string]string{"username": ""}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[map[string]any](t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	resp = doRequest(t, app, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired_RejectsBadTokens(t *testing.T) {
	s, app, _ := setupTestServer(t)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "iss": "someone-else", "aud": tokenAudience,
	})
	foreignToken, err := foreign.SignedString([]byte(s.config.JWTSecret))
	require.NoError(t, err)

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "iss": tokenIssuer, "aud": tokenAudience,
	}).SignedString([]byte("a-completely-different-secret-value"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"wrong issuer", foreignToken},
		{"wrong key", wrongKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, "/api/users/me", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	s, app, _ := setupTestServer(t)
	_, token := registerUser(t, s, "alice")

	resp := doRequest(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))

	resp = doRequest(t, app, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token has been revoked", decodeJSON[models.ErrorResponse](t, resp).Error)
}

func TestLogout_UnrevokedTokenIsUnavailable(t *testing.T) {
	t.Run("redis not configured", func(t *testing.T) {
		s, app, _ := setupTestServer(t)
		_, token := registerUser(t, s, "alice")
		s.redis = nil

		resp := doRequest(t, app, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))
		assert.Equal(t, models.CodeUnavailable, decodeJSON[models.ErrorResponse](t, resp).Code)

		resp = doRequest(t, app, http.MethodGet, "/api/users/me", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("redis down", func(t *testing.T) {
		s, app, mr := setupTestServer(t)
		_, token := registerUser(t, s, "bob")
		mr.Close()

		resp := doRequest(t, app, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "Logout unavailable: token was not revoked",
			decodeJSON[models.ErrorResponse](t, resp).Error)
	})
}

func TestChangePassword_ReportsUnrevokedToken(t *testing.T) {
	s, app, _ := setupTestServer(t)
	_, token := registerUser(t, s, "alice")
	s.redis = nil

	resp := doRequest(t, app, http.MethodPut, "/api/users/me/password", token, map[string]string{
		"old_password": testPassword, "new_password": "another-fine-phrase",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, false, body["previous_token_revoked"])
	assert.NotEmpty(t, body["token"])
}

func TestChangePassword(t *testing.T) {
	s, app, _ := setupTestServer(t)
	_, token := registerUser(t, s, "alice")

	resp := doRequest(t, app, http.MethodPut, "/api/users/me/password", token, map[string]string{
		"old_password": "not-my-password", "new_password": "another-fine-phrase",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/api/users/me/password", token, map[string]string{
		"old_password": testPassword, "new_password": "another-fine-phrase",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[map[string]any](t, resp)
	newToken, _ := body["token"].(string)
	require.NotEmpty(t, newToken)
	assert.Equal(t, true, body["previous_token_revoked"])

	resp = doRequest(t, app, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/users/me", newToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "another-fine-phrase"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
