package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rongwang/shiftlog-server/internal/api"
	"github.com/rongwang/shiftlog-server/internal/config"
	"github.com/rongwang/shiftlog-server/internal/models"
	"github.com/rongwang/shiftlog-server/internal/repository"
	"github.com/rongwang/shiftlog-server/internal/service"
)

const testJWTSecret = "test-secret-key"

// TestUser is a stored user and a signed token for it
type TestUser struct {
	ID    string
	Name  string
	Email string
	JWT   string
}

// TestContext holds all dependencies for tests
type TestContext struct {
	Router     *gin.Engine
	Repository *repository.MemoryRepository
	Service    service.Service
	JWTSecret  []byte
	// CategoryIDs maps the seeded category codes to their ids
	CategoryIDs map[string]string

	TestUserID  string
	TestUserJWT string
	// Operator is a second, non-admin user
	Operator TestUser
	Admin    TestUser
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg := config.AuthConfig{
		JWTSecret:   testJWTSecret,
		TokenTTL:    time.Hour,
		AdminEmails: []string{"admin@example.com", "chief@example.com"},
	}

	repo := repository.NewMemoryRepository()
	categoryIDs := seedCategories(t, repo)

	svc := service.NewDefaultService(repo, cfg, zap.NewNop())
	handler := api.NewHandler(svc, zap.NewNop())

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.JWTSecret))
		c.Next()
	})

	handler.SetupRoutes(router)

	user := CreateTestUser(t, repo, "testuser@example.com", "Иванов", false)
	operator := CreateTestUser(t, repo, "operator@example.com", "Петров", false)
	admin := CreateTestUser(t, repo, "admin@example.com", "Администратор", true)

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		JWTSecret:   []byte(cfg.JWTSecret),
		CategoryIDs: categoryIDs,
		TestUserID:  user.ID,
		TestUserJWT: user.JWT,
		Operator:    operator,
		Admin:       admin,
	}
}

// CleanupTestContext releases test resources. The in-memory store needs
// nothing beyond dropping the references.
func CleanupTestContext(t *TestContext) {
	t.Router = nil
	t.Repository = nil
}

func seedCategories(t *testing.T, repo repository.Repository) map[string]string {
	ids := make(map[string]string)
	for _, def := range config.DefaultCategories {
		category := &models.Category{
			Code:      def.Code,
			Name:      def.Name,
			IsActive:  true,
			SortOrder: def.SortOrder,
		}
		require.NoError(t, repo.CreateCategory(context.Background(), category))
		ids[def.Code] = category.ID
	}
	return ids
}

// CreateTestUser stores a user with password "testpassword" and signs a
// token carrying its identity claims.
func CreateTestUser(t *testing.T, repo repository.Repository, email, name string, isAdmin bool) TestUser {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.MinCost)

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
		IsAdmin:  isAdmin,
	}

	err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"adm":  user.IsAdmin,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return TestUser{ID: user.ID, Name: name, Email: email, JWT: tokenString}
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// DecodeJSON unmarshals a recorded response body into v
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", strings.TrimSpace(w.Body.String()))
}

// ErrorCode returns the code of an ErrorResponse body
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	DecodeJSON(t, w, &resp)
	return resp.Code
}
