package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"riskpulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const defaultFetchTimeout = 10 * time.Second

// SentimentClient fetches per-timeframe sentiment readings and the ancillary
// plan/quota/health resources from the remote API. The transport is
// pluggable: direct HTTP or the message-passing relay.
type SentimentClient struct {
	transport Transport
	baseURL   string
	timeout   time.Duration
	tracer    trace.Tracer
	limiter   *RateLimiter
	fallback  FallbackPolicy
	now       func() time.Time

	// credMu guards the credential pair: SetCredentials can land from the
	// API while fetch goroutines are building headers.
	credMu    sync.Mutex
	installID string
	apiKey    string
}

// Options configure a SentimentClient beyond its required collaborators.
type Options struct {
	InstallID string
	APIKey    string
	Timeout   time.Duration
	// Fallback, when non-nil, substitutes a synthesized degraded reading
	// for a failed fetch instead of returning the classified error.
	Fallback FallbackPolicy
}

func NewSentimentClient(tracer trace.Tracer, transport Transport, baseURL string, opts Options) *SentimentClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &SentimentClient{
		transport: transport,
		baseURL:   trimRight(baseURL),
		installID: opts.InstallID,
		apiKey:    opts.APIKey,
		timeout:   timeout,
		tracer:    tracer,
		limiter:   newFetchLimiter(),
		fallback:  opts.Fallback,
		now:       time.Now,
	}
}

// SetCredentials swaps the API credentials; the next request uses them.
func (c *SentimentClient) SetCredentials(installID, apiKey string) {
	c.credMu.Lock()
	c.installID = installID
	c.apiKey = apiKey
	c.credMu.Unlock()
}

func (c *SentimentClient) headers() map[string]string {
	c.credMu.Lock()
	installID, apiKey := c.installID, c.apiKey
	c.credMu.Unlock()

	h := map[string]string{
		"Accept":        "application/json",
		"Cache-Control": "no-cache",
	}
	if installID != "" {
		h["X-Install-Id"] = installID
	}
	if apiKey != "" {
		h["X-Api-Key"] = apiKey
	}
	return h
}

// FetchReading fetches one timeframe's sentiment reading. Failures are
// classified per the error taxonomy; a quota refusal comes back as a
// quota_exceeded error, never as a degraded value. When a fallback policy is
// configured, transport and status failures are substituted by a synthetic
// degraded reading instead.
func (c *SentimentClient) FetchReading(ctx context.Context, symbol string, tf domain.Timeframe) (*domain.SentimentReading, error) {
	_, span := c.tracer.Start(ctx, "sentiment.fetch-reading")
	defer span.End()

	if !tf.IsValid() {
		return nil, &APIError{Kind: KindMalformed, Timeframe: tf, Message: fmt.Sprintf("invalid timeframe %q", tf)}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Kind: KindTimeout, Timeframe: tf, Message: "rate limiter wait: " + err.Error(), Err: err}
	}

	reqURL := fmt.Sprintf("%s/api/fng?symbol=%s&tf=%s", c.baseURL, url.QueryEscape(symbol), tf)
	resp, err := c.transport.Do(ctx, Request{
		URL:       reqURL,
		Headers:   c.headers(),
		TimeoutMs: int(c.timeout / time.Millisecond),
	})
	if err != nil {
		return c.failReading(symbol, tf, err)
	}
	if !resp.OK {
		return c.failReading(symbol, tf, c.tagTimeframe(statusError(resp.Status, truncate(resp.Data, 200)), tf))
	}

	payload, err := unwrapPayload(resp.Data)
	if err != nil {
		return c.failReading(symbol, tf, c.tagTimeframe(err, tf))
	}

	// A quota refusal is a successful exchange at the transport level; it
	// must surface as its own notice, so the fallback never papers over it.
	if payload.Status == statusLimitExceeded {
		return nil, &APIError{Kind: KindQuotaExceeded, Timeframe: tf, Message: "pair quota exceeded"}
	}
	if payload.Value == nil {
		return c.failReading(symbol, tf, &APIError{Kind: KindMalformed, Timeframe: tf, Message: "response has no value"})
	}

	observedAt := c.now().UTC()
	if payload.UpdatedAt != "" {
		if ts, parseErr := time.Parse(time.RFC3339, payload.UpdatedAt); parseErr == nil {
			observedAt = ts.UTC()
		}
	}

	return &domain.SentimentReading{
		Timeframe:  tf,
		Value:      payload.Value,
		Label:      payload.Label,
		ObservedAt: observedAt,
	}, nil
}

func (c *SentimentClient) failReading(symbol string, tf domain.Timeframe, err error) (*domain.SentimentReading, error) {
	if c.fallback == nil || IsKind(err, KindQuotaExceeded) {
		return nil, err
	}
	return c.fallback.Synthesize(symbol, tf), nil
}

func (c *SentimentClient) tagTimeframe(err error, tf domain.Timeframe) error {
	if apiErr, ok := err.(*APIError); ok {
		apiErr.Timeframe = tf
	}
	return err
}

// ValidateKey checks the configured API key against the backend.
func (c *SentimentClient) ValidateKey(ctx context.Context) (*domain.PlanState, error) {
	_, span := c.tracer.Start(ctx, "sentiment.validate-key")
	defer span.End()

	resp, err := c.transport.Do(ctx, Request{
		URL:       c.baseURL + "/api/validate-key",
		Headers:   c.headers(),
		TimeoutMs: int(c.timeout / time.Millisecond),
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, statusError(resp.Status, truncate(resp.Data, 200))
	}

	var body struct {
		Plan   string `json:"plan"`
		Valid  bool   `json:"valid"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Data, &body); err != nil {
		return nil, &APIError{Kind: KindMalformed, Message: "decode validate-key response: " + err.Error(), Err: err}
	}

	plan := domain.Plan(body.Plan)
	if plan == "" {
		plan = domain.PlanFree
	}
	return &domain.PlanState{
		Plan:            plan,
		Valid:           body.Valid,
		Status:          body.Status,
		LastValidatedAt: c.now().UTC(),
	}, nil
}

// FetchQuota reads the per-symbol pair-access quota.
func (c *SentimentClient) FetchQuota(ctx context.Context, symbol string) (*domain.QuotaState, error) {
	_, span := c.tracer.Start(ctx, "sentiment.fetch-quota")
	defer span.End()

	resp, err := c.transport.Do(ctx, Request{
		URL:       c.baseURL + "/api/quota?symbol=" + url.QueryEscape(symbol),
		Headers:   c.headers(),
		TimeoutMs: int(c.timeout / time.Millisecond),
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, statusError(resp.Status, truncate(resp.Data, 200))
	}

	var body struct {
		Plan      string `json:"plan"`
		Used      int    `json:"used"`
		Limit     int    `json:"limit"`
		Remaining int    `json:"remaining"`
	}
	if err := json.Unmarshal(resp.Data, &body); err != nil {
		return nil, &APIError{Kind: KindMalformed, Message: "decode quota response: " + err.Error(), Err: err}
	}

	return &domain.QuotaState{
		Plan:       domain.Plan(body.Plan),
		Symbol:     symbol,
		Used:       body.Used,
		Limit:      body.Limit,
		Remaining:  body.Remaining,
		ObservedAt: c.now().UTC(),
	}, nil
}

// Health probes the upstream liveness endpoint.
func (c *SentimentClient) Health(ctx context.Context) bool {
	_, span := c.tracer.Start(ctx, "sentiment.health")
	defer span.End()

	resp, err := c.transport.Do(ctx, Request{
		URL:       c.baseURL + "/health",
		Headers:   map[string]string{"Accept": "application/json"},
		TimeoutMs: int(c.timeout / time.Millisecond),
	})
	return err == nil && resp.OK
}

func trimRight(base string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
