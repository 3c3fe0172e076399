package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"riskpulse/internal/coordinator"
	"riskpulse/internal/domain"
	"riskpulse/internal/store"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type fakeCoordinator struct {
	triggers []domain.TriggerReason
	urls     []string
	settings coordinator.Settings
	applied  []coordinator.Settings
}

func (f *fakeCoordinator) Trigger(reason domain.TriggerReason, pageURL string) {
	f.triggers = append(f.triggers, reason)
	f.urls = append(f.urls, pageURL)
}

func (f *fakeCoordinator) ApplySettings(s coordinator.Settings) {
	if s.PeriodicInterval < 5*time.Second {
		s.PeriodicInterval = 5 * time.Second
	}
	if s.PeriodicInterval > 300*time.Second {
		s.PeriodicInterval = 300 * time.Second
	}
	f.settings = s
	f.applied = append(f.applied, s)
}

func (f *fakeCoordinator) CurrentSettings() coordinator.Settings { return f.settings }

type fakeAccounts struct {
	plan        *domain.PlanState
	planErr     error
	quota       *domain.QuotaState
	quotaErr    error
	quotaSymbol string
	invalidated int
}

func (f *fakeAccounts) Plan(ctx context.Context) (*domain.PlanState, error) {
	return f.plan, f.planErr
}

func (f *fakeAccounts) Quota(ctx context.Context, symbol string) (*domain.QuotaState, error) {
	f.quotaSymbol = symbol
	return f.quota, f.quotaErr
}

func (f *fakeAccounts) Invalidate() { f.invalidated++ }

type fakeCreds struct {
	installID string
	apiKey    string
}

func (f *fakeCreds) SetCredentials(installID, apiKey string) {
	f.installID = installID
	f.apiKey = apiKey
}

type fakeProber struct{ healthy bool }

func (f fakeProber) Health(ctx context.Context) bool { return f.healthy }

type testEnv struct {
	router    *gin.Engine
	coord     *fakeCoordinator
	accounts  *fakeAccounts
	creds     *fakeCreds
	snapshots *store.SnapshotStore
	contexts  *store.ContextStore
}

func newTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		coord: &fakeCoordinator{settings: coordinator.Settings{
			PeriodicInterval: 60 * time.Second,
			AutoRefresh:      true,
		}},
		accounts:  &fakeAccounts{},
		creds:     &fakeCreds{},
		snapshots: store.NewSnapshotStore(nil),
		contexts:  store.NewContextStore(),
	}

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	h := New(tracer, env.snapshots, env.contexts, env.coord, env.accounts, env.creds, fakeProber{healthy: true})

	env.router = gin.New()
	h.RegisterRoutes(env.router, apiKey)
	return env
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthReportsUpstream(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy status, got %q", body["status"])
	}
	if body["upstream"] != "healthy" {
		t.Errorf("expected healthy upstream, got %q", body["upstream"])
	}
}

func TestGetAssessmentBeforeFirstPublish(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("GET", "/api/assessment", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestGetAssessmentReturnsLatestSnapshot(t *testing.T) {
	env := newTestEnv(t, "")

	v := 42.0
	env.snapshots.Publish(domain.Snapshot{
		Market: &domain.Market{Venue: domain.VenueBinance, Symbol: "BTCUSDT"},
		Readings: domain.ReadingSet{
			domain.Timeframe15m: {Timeframe: domain.Timeframe15m, Value: &v, Label: "Fear"},
		},
		Reason:    domain.TriggerManual,
		FetchedAt: time.Now(),
	})

	w := env.do("GET", "/api/assessment", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if snap.Market == nil || snap.Market.Symbol != "BTCUSDT" {
		t.Errorf("unexpected market in snapshot: %+v", snap.Market)
	}
	if snap.Reason != domain.TriggerManual {
		t.Errorf("expected manual reason, got %q", snap.Reason)
	}
}

func TestTriggerRefresh(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("POST", "/api/refresh", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", w.Code)
	}
	if len(env.coord.triggers) != 1 || env.coord.triggers[0] != domain.TriggerManual {
		t.Errorf("expected one manual trigger, got %v", env.coord.triggers)
	}
}

func TestSetContextUpdatesStoreAndTriggers(t *testing.T) {
	env := newTestEnv(t, "")

	url := "https://www.binance.com/en/trade/ETH_USDT"
	w := env.do("POST", "/api/context", map[string]string{"url": url})
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", w.Code)
	}
	if got := env.contexts.Current(); got != url {
		t.Errorf("expected stored context %q, got %q", url, got)
	}
	if len(env.coord.triggers) != 1 || env.coord.triggers[0] != domain.TriggerNavigation {
		t.Fatalf("expected one navigation trigger, got %v", env.coord.triggers)
	}
	if env.coord.urls[0] != url {
		t.Errorf("expected trigger url %q, got %q", url, env.coord.urls[0])
	}
}

func TestSetContextRejectsMissingURL(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("POST", "/api/context", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if len(env.coord.triggers) != 0 {
		t.Errorf("expected no trigger on bad request, got %v", env.coord.triggers)
	}
}

func TestGetSettings(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("GET", "/api/settings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body settingsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.RefreshIntervalSecs != 60 || !body.AutoRefresh {
		t.Errorf("unexpected settings: %+v", body)
	}
}

func TestUpdateSettingsPatchesAndClamps(t *testing.T) {
	env := newTestEnv(t, "")

	interval := 2
	w := env.do("PUT", "/api/settings", settingsRequest{RefreshIntervalSecs: &interval})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body settingsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.RefreshIntervalSecs != 5 {
		t.Errorf("expected interval clamped to 5, got %d", body.RefreshIntervalSecs)
	}
	if !body.AutoRefresh {
		t.Errorf("untouched auto_refresh should stay true")
	}
	if len(env.coord.triggers) != 1 || env.coord.triggers[0] != domain.TriggerSettings {
		t.Errorf("expected one settings trigger, got %v", env.coord.triggers)
	}
}

func TestUpdateCredentials(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("PUT", "/api/credentials", credentialsRequest{InstallID: " inst-1 ", APIKey: "key-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if env.creds.installID != "inst-1" || env.creds.apiKey != "key-1" {
		t.Errorf("credentials not applied: %+v", env.creds)
	}
	if env.accounts.invalidated != 1 {
		t.Errorf("expected plan cache invalidation, got %d", env.accounts.invalidated)
	}
	if len(env.coord.triggers) != 1 || env.coord.triggers[0] != domain.TriggerSettings {
		t.Errorf("expected one settings trigger, got %v", env.coord.triggers)
	}
}

func TestUpdateCredentialsRequiresInstallID(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("PUT", "/api/credentials", credentialsRequest{APIKey: "key-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if env.creds.installID != "" {
		t.Errorf("credentials must not change on bad request")
	}
}

func TestGetPlan(t *testing.T) {
	env := newTestEnv(t, "")
	env.accounts.plan = &domain.PlanState{Plan: domain.PlanPro, Valid: true, Status: "ok"}

	w := env.do("GET", "/api/plan", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var state domain.PlanState
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if state.Plan != domain.PlanPro || !state.Valid {
		t.Errorf("unexpected plan state: %+v", state)
	}
}

func TestGetPlanBackendDown(t *testing.T) {
	env := newTestEnv(t, "")
	env.accounts.planErr = errors.New("validate key: connection refused")

	w := env.do("GET", "/api/plan", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
}

func TestGetQuotaUppercasesSymbol(t *testing.T) {
	env := newTestEnv(t, "")
	env.accounts.quota = &domain.QuotaState{Plan: domain.PlanFree, Symbol: "SOLUSDT", Used: 2, Limit: 3, Remaining: 1}

	w := env.do("GET", "/api/quota?symbol=solusdt", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if env.accounts.quotaSymbol != "SOLUSDT" {
		t.Errorf("expected uppercased symbol, got %q", env.accounts.quotaSymbol)
	}
}

func TestGetQuotaRequiresSymbol(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("GET", "/api/quota", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
