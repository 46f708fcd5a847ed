package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/services"
)

type AdminHandler struct {
	users *services.UserService
	keys  *services.APIKeyService
}

func NewAdminHandler(users *services.UserService, keys *services.APIKeyService) *AdminHandler {
	return &AdminHandler{users: users, keys: keys}
}

// ListUsers godoc
// @Summary     List users
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UserListResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.UserListResponse{Users: users})
}

// SetRole godoc
// @Summary     Change a user's role
// @Tags        admin
// @Accept      json
// @Security    Bearer
// @Param       id      path string                true "User ID (UUID)"
// @Param       request body models.SetRoleRequest true "Role"
// @Success     204
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/users/{id}/role [patch]
func (h *AdminHandler) SetRole(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req models.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	if err := h.users.SetRole(c.Request.Context(), actorID, id, req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAPIKeys godoc
// @Summary     List provider API keys
// @Description Secrets are masked to their last four characters
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.APIKeyListResponse
// @Router      /admin/api-keys [get]
func (h *AdminHandler) ListAPIKeys(c *gin.Context) {
	keys, err := h.keys.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIKeyListResponse{Keys: keys})
}

// PutAPIKey godoc
// @Summary     Store a provider API key
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       provider path string                  true "Provider name" example(openai)
// @Param       request  body models.PutAPIKeyRequest true "Key"
// @Success     200 {object} models.APIKeySummary
// @Failure     400 {object} models.ErrorResponse
// @Router      /admin/api-keys/{provider} [put]
func (h *AdminHandler) PutAPIKey(c *gin.Context) {
	var req models.PutAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	provider := strings.ToLower(c.Param("provider"))
	summary, err := h.keys.Put(c.Request.Context(), provider, req.APIKey, enabled, req.Models)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DeleteAPIKey godoc
// @Summary     Remove a stored provider API key
// @Tags        admin
// @Security    Bearer
// @Param       provider path string true "Provider name"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/api-keys/{provider} [delete]
func (h *AdminHandler) DeleteAPIKey(c *gin.Context) {
	if err := h.keys.Delete(c.Request.Context(), strings.ToLower(c.Param("provider"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
