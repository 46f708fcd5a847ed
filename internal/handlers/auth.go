package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"brand-studio-backend/internal/auth"
	"brand-studio-backend/internal/config"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/services"
)

type AuthHandler struct {
	cfg      *config.Config
	oauth    *auth.OAuthService
	sessions *auth.SessionStore
	users    *services.UserService
}

func NewAuthHandler(cfg *config.Config, oauth *auth.OAuthService, sessions *auth.SessionStore, users *services.UserService) *AuthHandler {
	return &AuthHandler{cfg: cfg, oauth: oauth, sessions: sessions, users: users}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, token, maxAge, "/", "", h.cfg.IsProduction(), true)
}

// Login godoc
// @Summary     Start OAuth sign-in
// @Description Redirects the browser to the provider's consent page
// @Tags        auth
// @Param       provider path string true "OAuth provider" Enums(github, discord)
// @Success     302
// @Failure     404 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /auth/{provider}/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	if h.oauth == nil {
		unavailable(c, "oauth")
		return
	}
	url, err := h.oauth.LoginURL(c.Request.Context(), c.Param("provider"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback godoc
// @Summary     Finish OAuth sign-in
// @Description Exchanges the code, creates a session cookie and redirects to the app
// @Tags        auth
// @Param       provider path  string true  "OAuth provider"
// @Param       code     query string false "Authorization code"
// @Param       state    query string false "State issued at login"
// @Success     302
// @Router      /auth/{provider}/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	if h.oauth == nil {
		unavailable(c, "oauth")
		return
	}
	res, err := h.oauth.Callback(c.Request.Context(), c.Param("provider"), c.Query("state"), c.Query("code"), c.Query("error"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, res.Token, int(h.sessions.TTL().Seconds()))
	c.Redirect(http.StatusFound, res.RedirectURL)
}

// Logout godoc
// @Summary     Sign out
// @Description Revokes the current session and clears the cookie
// @Tags        auth
// @Success     204
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.SessionCookieName); err == nil && token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary     Current user
// @Tags        auth
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.User
// @Failure     401 {object} models.ErrorResponse
// @Router      /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// IssueToken godoc
// @Summary     Issue an API token
// @Description Returns a bearer token for API clients, valid for the session lifetime
// @Tags        auth
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.TokenResponse
// @Router      /me/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	token, expires, err := auth.IssueToken(h.cfg.SessionSecret, userID, h.cfg.SessionTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token, ExpiresAt: expires})
}

// SetOAuthCredentials godoc
// @Summary     Configure an OAuth app
// @Tags        admin
// @Accept      json
// @Security    Bearer
// @Param       provider path string                         true "OAuth provider"
// @Param       request  body models.OAuthCredentialsRequest true "Client credentials"
// @Success     204
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /admin/oauth/{provider} [put]
func (h *AuthHandler) SetOAuthCredentials(c *gin.Context) {
	if h.oauth == nil {
		unavailable(c, "oauth")
		return
	}
	var req models.OAuthCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	err := h.oauth.SetCredentials(c.Request.Context(), strings.ToLower(c.Param("provider")), auth.Credentials{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
