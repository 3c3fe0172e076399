package handler

import (
	"net/http"
	"strings"

	"riskpulse/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetAssessment godoc
// @Summary      Latest risk assessment
// @Description  Returns the most recently published snapshot: market, readings, assessment
// @Tags         risk
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/assessment [get]
func (h *Handler) GetAssessment(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-assessment")
	defer span.End()

	snap := h.snapshots.Latest()
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot published yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// TriggerRefresh godoc
// @Summary      Trigger a refresh cycle manually
// @Description  Requests one refresh; bursts are debounced and coalesced by the coordinator
// @Tags         risk
// @Produce      json
// @Success      202  {object}  map[string]string
// @Router       /api/refresh [post]
func (h *Handler) TriggerRefresh(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.trigger-refresh")
	defer span.End()

	h.coord.Trigger(domain.TriggerManual, "")
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh requested"})
}

type contextRequest struct {
	URL string `json:"url" binding:"required"`
}

// SetContext godoc
// @Summary      Report a navigation event
// @Description  Updates the observed page context and triggers a refresh against it
// @Tags         risk
// @Accept       json
// @Produce      json
// @Param        context  body  contextRequest  true  "observed page URL"
// @Success      202  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/context [post]
func (h *Handler) SetContext(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.set-context")
	defer span.End()

	var req contextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	h.contexts.Set(url)
	h.coord.Trigger(domain.TriggerNavigation, url)
	c.JSON(http.StatusAccepted, gin.H{"status": "context updated"})
}
