package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
)

// StreamGeneration godoc
// @Summary     Follow a video generation
// @Description Server-sent events, one "data: {json}" message per provider poll. The stream ends on complete, error or timeout.
// @Tags        generations
// @Produce     text/event-stream
// @Security    Bearer
// @Param       id path string true "Generation ID (UUID)"
// @Success     200 {object} services.StatusEvent
// @Failure     404 {object} models.ErrorResponse
// @Router      /generations/{id}/stream [get]
func (h *GenerationsHandler) StreamGeneration(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	g, err := h.generations.OwnedGeneration(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	events := h.poller.Watch(c.Request.Context(), g)
	startSSE(c)
	for ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
			return
		}
		c.Writer.Flush()
	}
}
