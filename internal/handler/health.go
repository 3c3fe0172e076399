package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health of the service and the upstream sentiment API
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	upstream := "unknown"
	if h.upstream != nil {
		if h.upstream.Health(c.Request.Context()) {
			upstream = "healthy"
		} else {
			upstream = "unreachable"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "upstream": upstream})
}
