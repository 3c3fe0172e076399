package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetPlan godoc
// @Summary      Current plan state
// @Description  Returns the cached key validation result; stale state is served when the backend is down
// @Tags         account
// @Produce      json
// @Success      200  {object}  domain.PlanState
// @Failure      502  {object}  map[string]string
// @Router       /api/plan [get]
func (h *Handler) GetPlan(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-plan")
	defer span.End()

	state, err := h.accounts.Plan(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetQuota godoc
// @Summary      Per-symbol pair-access quota
// @Tags         account
// @Produce      json
// @Param        symbol  query  string  true  "trading symbol, e.g. BTCUSDT"
// @Success      200  {object}  domain.QuotaState
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/quota [get]
func (h *Handler) GetQuota(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-quota")
	defer span.End()

	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol query parameter is required"})
		return
	}

	quota, err := h.accounts.Quota(ctx, symbol)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quota)
}
