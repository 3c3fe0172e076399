package handler

import (
	"net/http"
	"strings"
	"time"

	"riskpulse/internal/domain"

	"github.com/gin-gonic/gin"
)

type settingsResponse struct {
	RefreshIntervalSecs int  `json:"refresh_interval_secs"`
	AutoRefresh         bool `json:"auto_refresh"`
}

type settingsRequest struct {
	RefreshIntervalSecs *int  `json:"refresh_interval_secs"`
	AutoRefresh         *bool `json:"auto_refresh"`
}

// GetSettings godoc
// @Summary      Current refresh settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  settingsResponse
// @Router       /api/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	s := h.coord.CurrentSettings()
	c.JSON(http.StatusOK, settingsResponse{
		RefreshIntervalSecs: int(s.PeriodicInterval / time.Second),
		AutoRefresh:         s.AutoRefresh,
	})
}

// UpdateSettings godoc
// @Summary      Update refresh settings
// @Description  Rebuilds the periodic timer; the interval is clamped to 5-300 seconds
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        settings  body  settingsRequest  true  "settings patch"
// @Success      200  {object}  settingsResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.update-settings")
	defer span.End()

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	s := h.coord.CurrentSettings()
	if req.RefreshIntervalSecs != nil {
		s.PeriodicInterval = time.Duration(*req.RefreshIntervalSecs) * time.Second
	}
	if req.AutoRefresh != nil {
		s.AutoRefresh = *req.AutoRefresh
	}
	h.coord.ApplySettings(s)
	h.coord.Trigger(domain.TriggerSettings, "")

	applied := h.coord.CurrentSettings()
	c.JSON(http.StatusOK, settingsResponse{
		RefreshIntervalSecs: int(applied.PeriodicInterval / time.Second),
		AutoRefresh:         applied.AutoRefresh,
	})
}

type credentialsRequest struct {
	InstallID string `json:"install_id"`
	APIKey    string `json:"api_key"`
}

// UpdateCredentials godoc
// @Summary      Update API credentials
// @Description  Swaps install id and API key, drops the cached plan, and revalidates on the next refresh
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        credentials  body  credentialsRequest  true  "new credentials"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/credentials [put]
func (h *Handler) UpdateCredentials(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.update-credentials")
	defer span.End()

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials payload"})
		return
	}
	if strings.TrimSpace(req.InstallID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "install_id is required"})
		return
	}

	h.creds.SetCredentials(strings.TrimSpace(req.InstallID), strings.TrimSpace(req.APIKey))
	h.accounts.Invalidate()
	h.coord.Trigger(domain.TriggerSettings, "")
	c.JSON(http.StatusOK, gin.H{"status": "credentials updated"})
}
