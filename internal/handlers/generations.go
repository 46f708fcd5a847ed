package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/services"
)

type GenerationsHandler struct {
	generations *services.GenerationService
	poller      *services.VideoPoller
}

func NewGenerationsHandler(generations *services.GenerationService, poller *services.VideoPoller) *GenerationsHandler {
	return &GenerationsHandler{generations: generations, poller: poller}
}

// GenerateImage godoc
// @Summary     Generate an image
// @Description Runs synchronously. Vendor failures are recorded on the returned generation with status "failed".
// @Tags        generations
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.ImageGenerationRequest true "Image request"
// @Success     201 {object} models.Generation
// @Failure     400 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /generations/image [post]
func (h *GenerationsHandler) GenerateImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.ImageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	g, err := h.generations.GenerateImage(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// GenerateAudio godoc
// @Summary     Generate speech
// @Tags        generations
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.AudioGenerationRequest true "Speech request"
// @Success     201 {object} models.Generation
// @Failure     400 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /generations/audio [post]
func (h *GenerationsHandler) GenerateAudio(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.AudioGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	g, err := h.generations.GenerateAudio(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// GenerateVideo godoc
// @Summary     Request a video
// @Description Submits the job and returns immediately; follow progress on /generations/{id}/stream
// @Tags        generations
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.VideoGenerationRequest true "Video request"
// @Success     202 {object} models.Generation
// @Failure     400 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /generations/video [post]
func (h *GenerationsHandler) GenerateVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.VideoGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	g, err := h.generations.RequestAIVideoGeneration(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, g)
}

// GetGeneration godoc
// @Summary     Get a generation
// @Tags        generations
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Generation ID (UUID)"
// @Success     200 {object} models.Generation
// @Failure     404 {object} models.ErrorResponse
// @Router      /generations/{id} [get]
func (h *GenerationsHandler) GetGeneration(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	g, err := h.generations.GetAIGeneration(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Models godoc
// @Summary     Video model catalogue
// @Tags        generations
// @Produce     json
// @Security    Bearer
// @Success     200 {object} map[string][]providers.Model
// @Router      /generations/models [get]
func (h *GenerationsHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, h.generations.AvailableModels())
}
