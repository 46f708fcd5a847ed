package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/auth"
	"brand-studio-backend/internal/config"
	"brand-studio-backend/internal/middleware"
	"brand-studio-backend/internal/models"
)

type sessions map[string]uuid.UUID

func (s sessions) Lookup(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := s[token]
	if !ok {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id, nil
}

type users map[uuid.UUID]*models.User

func (u users) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return user, nil
}

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret:     "test-secret-key-for-jwt-signing-must-be-long-enough",
		SessionCookieName: "brand_session",
	}
}

func newRouter(cfg *config.Config, s sessions, check func(*gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(cfg, s))
	router.GET("/test", func(c *gin.Context) {
		if check != nil {
			check(c)
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	router := newRouter(testConfig(), nil, nil)

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := newRouter(testConfig(), nil, nil)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	tokenString, _, err := auth.IssueToken(cfg.SessionSecret, userID, time.Hour)
	assert.NoError(t, err)

	router := newRouter(cfg, nil, func(c *gin.Context) {
		got, exists := c.Get(middleware.UserIDKey)
		assert.True(t, exists)
		assert.Equal(t, userID.String(), got)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_NonUUIDSubject(t *testing.T) {
	cfg := testConfig()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"})
	tokenString, _ := token.SignedString([]byte(cfg.SessionSecret))

	router := newRouter(cfg, nil, nil)
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_SessionCookie(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	router := newRouter(cfg, sessions{"good": userID}, func(c *gin.Context) {
		assert.Equal(t, userID.String(), c.GetString(middleware.UserIDKey))
		assert.Equal(t, "good", c.GetString(middleware.SessionTokenKey))
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: "stale"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	member := &models.User{ID: uuid.New(), Role: models.RoleUser}
	store := users{admin.ID: admin, member.ID: member}

	for _, tc := range []struct {
		userID string
		want   int
	}{
		{admin.ID.String(), http.StatusOK},
		{member.ID.String(), http.StatusForbidden},
		{uuid.NewString(), http.StatusForbidden},
		{"", http.StatusUnauthorized},
	} {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if tc.userID != "" {
				c.Set(middleware.UserIDKey, tc.userID)
			}
		}, middleware.RequireAdmin(store))
		router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

		req, _ := http.NewRequest("GET", "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, tc.userID)
	}
}
