package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/onboarding"
	"brand-studio-backend/internal/services"
)

type OnboardingHandler struct {
	onboarding *services.OnboardingService
}

func NewOnboardingHandler(svc *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: svc}
}

func startSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
}

func sendEvent(c *gin.Context, name string, data any) {
	c.SSEvent(name, data)
	c.Writer.Flush()
}

// Chat godoc
// @Summary     Onboarding chat turn
// @Description Streams the assistant reply as server-sent events: "delta" events carry text, a final "done" event carries the step outcome. Omit profileId to start a new brand.
// @Tags        onboarding
// @Accept      json
// @Produce     text/event-stream
// @Security    Bearer
// @Param       request body models.ChatRequest true "User message"
// @Success     200 {object} services.ChatResult
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /onboarding/chat [post]
func (h *OnboardingHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	in := services.ChatInput{UserID: userID, Message: req.Message}
	if strings.TrimSpace(req.ProfileID) != "" {
		id, err := uuid.Parse(req.ProfileID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid profileId"})
			return
		}
		in.ProfileID = &id
	}
	if len(req.Attachments) > 0 {
		raw, err := json.Marshal(req.Attachments)
		if err != nil {
			respondError(c, apperr.Invalid("invalid attachments"))
			return
		}
		in.Attachments = raw
	}

	started := false
	result, err := h.onboarding.Chat(c.Request.Context(), in, func(delta string) error {
		if !started {
			startSSE(c)
			started = true
		}
		sendEvent(c, "delta", gin.H{"text": delta})
		return c.Request.Context().Err()
	})
	if err != nil {
		if !started {
			respondError(c, err)
			return
		}
		sendEvent(c, "error", models.ErrorResponse{Error: http.StatusText(apperr.StatusCode(err)), Message: err.Error()})
		return
	}
	if !started {
		startSSE(c)
	}
	sendEvent(c, "done", result)
}

// Messages godoc
// @Summary     Onboarding transcript
// @Tags        onboarding
// @Produce     json
// @Security    Bearer
// @Param       profile_id path string true "Profile ID (UUID)"
// @Success     200 {object} models.MessagesResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /onboarding/{profile_id}/messages [get]
func (h *OnboardingHandler) Messages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "profile_id")
	if !ok {
		return
	}
	msgs, err := h.onboarding.History(c.Request.Context(), userID, profileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessagesResponse{Messages: msgs})
}

// SetStep godoc
// @Summary     Move the onboarding step
// @Tags        onboarding
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       profile_id path string             true "Profile ID (UUID)"
// @Param       request    body models.StepRequest true "Direction"
// @Success     200 {object} models.StepResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /onboarding/{profile_id}/step [post]
func (h *OnboardingHandler) SetStep(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "profile_id")
	if !ok {
		return
	}
	var req models.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	step, err := h.onboarding.SetStep(c.Request.Context(), userID, profileID, req.Direction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, step)
}

// Steps godoc
// @Summary     Onboarding step sequence
// @Tags        onboarding
// @Produce     json
// @Success     200 {array} onboarding.Step
// @Router      /onboarding/steps [get]
func (h *OnboardingHandler) Steps(c *gin.Context) {
	c.JSON(http.StatusOK, onboarding.Steps())
}
