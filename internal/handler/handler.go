package handler

import (
	"context"

	"riskpulse/internal/coordinator"
	"riskpulse/internal/domain"
	"riskpulse/internal/store"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// RefreshCoordinator is the coordinator surface the API drives.
type RefreshCoordinator interface {
	Trigger(reason domain.TriggerReason, pageURL string)
	ApplySettings(s coordinator.Settings)
	CurrentSettings() coordinator.Settings
}

// AccountReader serves plan and quota state.
type AccountReader interface {
	Plan(ctx context.Context) (*domain.PlanState, error)
	Quota(ctx context.Context, symbol string) (*domain.QuotaState, error)
	Invalidate()
}

// CredentialSetter swaps API credentials at runtime.
type CredentialSetter interface {
	SetCredentials(installID, apiKey string)
}

// UpstreamProber checks the sentiment API's liveness endpoint.
type UpstreamProber interface {
	Health(ctx context.Context) bool
}

type Handler struct {
	tracer    trace.Tracer
	snapshots *store.SnapshotStore
	contexts  *store.ContextStore
	coord     RefreshCoordinator
	accounts  AccountReader
	creds     CredentialSetter
	upstream  UpstreamProber
}

func New(
	tracer trace.Tracer,
	snapshots *store.SnapshotStore,
	contexts *store.ContextStore,
	coord RefreshCoordinator,
	accounts AccountReader,
	creds CredentialSetter,
	upstream UpstreamProber,
) *Handler {
	return &Handler{
		tracer:    tracer,
		snapshots: snapshots,
		contexts:  contexts,
		coord:     coord,
		accounts:  accounts,
		creds:     creds,
		upstream:  upstream,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.GET("/assessment", h.GetAssessment)
	api.POST("/refresh", h.TriggerRefresh)
	api.POST("/context", h.SetContext)
	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.UpdateSettings)
	api.PUT("/credentials", h.UpdateCredentials)
	api.GET("/plan", h.GetPlan)
	api.GET("/quota", h.GetQuota)
}
