package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/middleware"
	"brand-studio-backend/internal/models"
)

// respondError writes err as an ErrorResponse. Redirects are followed
// instead of reported.
func respondError(c *gin.Context, err error) {
	if redirect, ok := apperr.AsRedirect(err); ok {
		c.Redirect(redirect.Status, redirect.URL)
		return
	}
	status := apperr.StatusCode(err)
	resp := models.ErrorResponse{Error: http.StatusText(status), Message: err.Error()}
	if status >= http.StatusInternalServerError && !errors.Is(err, apperr.ErrUnavailable) {
		var apiErr *apperr.Error
		if !errors.As(err, &apiErr) {
			resp.Message = "internal error"
		}
	}
	c.JSON(status, resp)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func unavailable(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: what + " not available"})
}
