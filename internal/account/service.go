package account

import (
	"context"
	"log"
	"time"

	"riskpulse/internal/cache"
	"riskpulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	// Plan validation is expensive server-side and changes rarely.
	planTTL = 6 * time.Hour
	// Quota is short-lived: long enough to absorb rapid symbol flapping,
	// short enough to update promptly after a symbol change.
	quotaTTL = 3500 * time.Millisecond

	planKey = "plan"
)

// Validator is the slice of the sentiment client the account service needs.
type Validator interface {
	ValidateKey(ctx context.Context) (*domain.PlanState, error)
	FetchQuota(ctx context.Context, symbol string) (*domain.QuotaState, error)
}

// Service is the read-through plan/quota layer. Both resources sit behind
// TTL caches with per-key single-flight, and validation failures degrade to
// the last-known state so they can never block a sentiment refresh.
type Service struct {
	tracer trace.Tracer
	client Validator
	plans  *cache.TTL[*domain.PlanState]
	quotas *cache.TTL[*domain.QuotaState]
}

func NewService(tracer trace.Tracer, client Validator) *Service {
	return &Service{
		tracer: tracer,
		client: client,
		plans:  cache.NewTTL[*domain.PlanState](planTTL),
		quotas: cache.NewTTL[*domain.QuotaState](quotaTTL),
	}
}

// Plan returns the cached plan state, validating through the API when stale.
// On a failed validation the last-known (possibly stale) state is returned
// instead of the error.
func (s *Service) Plan(ctx context.Context) (*domain.PlanState, error) {
	_, span := s.tracer.Start(ctx, "account.plan")
	defer span.End()

	state, err := s.plans.Get(ctx, planKey, func(ctx context.Context) (*domain.PlanState, error) {
		return s.client.ValidateKey(ctx)
	})
	if err == nil {
		return state, nil
	}

	if stale, ok := s.plans.Peek(planKey); ok {
		log.Printf("plan validation failed, serving last-known state: %v", err)
		return stale, nil
	}
	return nil, err
}

// Quota returns the cached per-symbol quota, fetching through the API when
// stale. Concurrent callers for the same symbol share one fetch.
func (s *Service) Quota(ctx context.Context, symbol string) (*domain.QuotaState, error) {
	_, span := s.tracer.Start(ctx, "account.quota")
	defer span.End()

	return s.quotas.Get(ctx, symbol, func(ctx context.Context) (*domain.QuotaState, error) {
		return s.client.FetchQuota(ctx, symbol)
	})
}

// Invalidate drops the cached plan so the next read revalidates. Called when
// credentials change.
func (s *Service) Invalidate() {
	s.plans.Invalidate(planKey)
}
