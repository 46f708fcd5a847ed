package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/auth"
	"brand-studio-backend/internal/config"
	"brand-studio-backend/internal/models"
)

const (
	UserIDKey       = "user_id"
	SessionTokenKey = "session_token"
)

// SessionLookup resolves a session cookie to a user id.
type SessionLookup interface {
	Lookup(ctx context.Context, token string) (uuid.UUID, error)
}

type UserGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthMiddleware accepts the session cookie first and falls back to an
// HS256 bearer token whose subject is the user id.
func AuthMiddleware(cfg *config.Config, sessions SessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cfg.SessionCookieName); err == nil && token != "" && sessions != nil {
			userID, err := sessions.Lookup(c.Request.Context(), token)
			if err == nil {
				c.Set(UserIDKey, userID.String())
				c.Set(SessionTokenKey, token)
				c.Next()
				return
			}
			if !errors.Is(err, apperr.ErrUnauthorized) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
				c.Abort()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			c.Abort()
			return
		}

		sub, err := auth.ParseToken(cfg.SessionSecret, tokenString)
		if err != nil {
			var errorMsg string
			switch {
			case strings.Contains(err.Error(), "signature is invalid"):
				errorMsg = "token signature is invalid"
			case strings.Contains(err.Error(), "token is expired"):
				errorMsg = "token has expired"
			case strings.Contains(err.Error(), "token is malformed"):
				errorMsg = "token is malformed"
			default:
				errorMsg = err.Error()
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "message": errorMsg})
			c.Abort()
			return
		}
		if _, err := uuid.Parse(sub); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, sub)
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString(UserIDKey))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil || !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
