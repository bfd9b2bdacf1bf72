package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// QueueStats handles GET /api/v1/notifications/stats (managers only)
func (h *Handler) QueueStats(c *gin.Context) {
	stats, err := h.jobStore.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to read queue stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
