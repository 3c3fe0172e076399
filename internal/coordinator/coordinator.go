package coordinator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"riskpulse/internal/domain"
	"riskpulse/internal/provider"
	"riskpulse/internal/resolver"
	"riskpulse/internal/risk"

	"go.opentelemetry.io/otel/trace"
)

const (
	defaultDebounce = 500 * time.Millisecond

	minPeriodicInterval = 5 * time.Second
	maxPeriodicInterval = 300 * time.Second

	// noSymbolLogEvery keeps poll-driven triggers from spamming the log
	// while the user sits on a page with no tradable symbol.
	noSymbolLogEvery = 30 * time.Second

	// quotaNoticeCooldown bounds user-visible quota notices.
	quotaNoticeCooldown = 60 * time.Second
)

// SentimentReader is the slice of the provider the coordinator fans out over.
type SentimentReader interface {
	FetchReading(ctx context.Context, symbol string, tf domain.Timeframe) (*domain.SentimentReading, error)
}

// Sink receives the published snapshot after each completed cycle. Clear is
// the atomic invalidation hook invoked before any fetch for a new symbol.
type Sink interface {
	Publish(snap domain.Snapshot)
	Clear()
}

// ContextSource supplies the currently observed page context when a trigger
// arrives without one.
type ContextSource interface {
	Current() string
}

// Settings are the user-tunable knobs. The periodic interval is clamped to
// [5s, 300s]; changing either field tears down and recreates the timer.
type Settings struct {
	PeriodicInterval time.Duration
	AutoRefresh      bool
}

// Coordinator owns refresh orchestration: trigger debouncing, single-flight
// execution with latest-wins coalescing, and the periodic timer. All state
// transitions happen under one mutex; the cycle itself runs outside it.
type Coordinator struct {
	tracer   trace.Tracer
	client   SentimentReader
	sink     Sink
	contexts ContextSource
	resolve  func(string) (domain.Market, bool)
	debounce time.Duration
	now      func() time.Time

	ctx context.Context

	mu            sync.Mutex
	inFlight      bool
	queued        bool
	pendingReason domain.TriggerReason
	pendingURL    string
	debounceTimer *time.Timer
	// seq counts triggers; handledSeq is the last one consumed by a cycle.
	// A fire observing seq == handledSeq is a timer that was re-armed after
	// expiry and carries nothing new.
	seq        uint64
	handledSeq uint64

	currentSymbol   string
	lastNoSymbolLog time.Time
	lastQuotaNotice time.Time

	settings     Settings
	periodicStop chan struct{}

	closed bool
}

func New(tracer trace.Tracer, client SentimentReader, sink Sink, contexts ContextSource, debounce time.Duration) *Coordinator {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Coordinator{
		tracer:   tracer,
		client:   client,
		sink:     sink,
		contexts: contexts,
		resolve:  resolver.Resolve,
		debounce: debounce,
		now:      time.Now,
		ctx:      context.Background(),
	}
}

// Start binds the coordinator to a lifecycle context. Cycles started after
// ctx is cancelled still run their publish phase; only the network calls are
// cut short by their own timeouts.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
}

// Trigger requests a refresh. Bursts within the debounce window collapse to
// one execution; only the latest pending reason and context survive.
func (c *Coordinator) Trigger(reason domain.TriggerReason, pageURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if pageURL == "" && c.contexts != nil {
		pageURL = c.contexts.Current()
	}
	c.pendingReason = reason
	c.pendingURL = pageURL
	c.seq++

	if c.debounceTimer != nil {
		c.debounceTimer.Reset(c.debounce)
		return
	}
	c.debounceTimer = time.AfterFunc(c.debounce, c.fire)
}

// fire runs after the debounce quiet period. If a cycle is already in
// flight it only marks the queued flag: the running fire loop picks it up on
// completion, so missed triggers coalesce to exactly one follow-up. The
// timer stays armed across fires; a Reset that lands between expiry and the
// lock acquisition here just produces a later fire with a stale seq, which
// is dropped.
func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.seq == c.handledSeq {
		c.mu.Unlock()
		return
	}
	if c.inFlight {
		c.queued = true
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	for {
		reason, pageURL := c.pendingReason, c.pendingURL
		c.handledSeq = c.seq
		c.mu.Unlock()

		c.runCycle(reason, pageURL)

		c.mu.Lock()
		if !c.queued {
			c.inFlight = false
			c.mu.Unlock()
			return
		}
		c.queued = false
	}
}

// runCycle is one refresh: resolve, fan out the four timeframe fetches,
// score, publish. It never runs concurrently with itself.
func (c *Coordinator) runCycle(reason domain.TriggerReason, pageURL string) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "coordinator.refresh-cycle")
	defer span.End()

	market, ok := c.resolve(pageURL)
	if !ok {
		c.handleNoSymbol(reason, pageURL)
		return
	}

	if c.noteSymbol(market.Symbol) {
		// Symbol changed: invalidate the published readings and assessment
		// before the first fetch for the new symbol is dispatched.
		c.sink.Clear()
	}

	readings, errs := c.fetchAll(ctx, market.Symbol)

	snap := domain.Snapshot{
		Market:     &market,
		Readings:   readings,
		Assessment: risk.FromReadingSet(readings),
		Reason:     reason,
		FetchedAt:  c.now().UTC(),
	}

	var failures []string
	for _, err := range errs {
		if provider.IsKind(err, provider.KindQuotaExceeded) {
			if c.allowQuotaNotice() {
				snap.QuotaExceeded = true
				log.Printf("pair quota exceeded for %s", market.Symbol)
			}
			continue
		}
		failures = append(failures, err.Error())
	}

	// Transient per-timeframe failures on poll-driven cycles would flicker
	// in the UI; the summary is only surfaced for deliberate refreshes.
	if len(failures) > 0 && reason != domain.TriggerPoll {
		snap.ErrorSummary = fmt.Sprintf("%d of %d timeframes failed: %s",
			len(failures), len(domain.Timeframes), strings.Join(failures, "; "))
		log.Printf("refresh cycle for %s: %s", market.Symbol, snap.ErrorSummary)
	}

	c.sink.Publish(snap)
}

// fetchAll issues the four timeframe fetches concurrently. Failures are
// isolated per timeframe and never cancel the siblings.
func (c *Coordinator) fetchAll(ctx context.Context, symbol string) (domain.ReadingSet, []error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings = domain.ReadingSet{}
		errs     []error
	)
	for _, tf := range domain.Timeframes {
		wg.Add(1)
		go func(tf domain.Timeframe) {
			defer wg.Done()
			reading, err := c.client.FetchReading(ctx, symbol, tf)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			readings[tf] = reading
		}(tf)
	}
	wg.Wait()
	return readings, errs
}

func (c *Coordinator) handleNoSymbol(reason domain.TriggerReason, pageURL string) {
	c.mu.Lock()
	c.currentSymbol = ""
	shouldLog := reason != domain.TriggerPoll || c.now().Sub(c.lastNoSymbolLog) >= noSymbolLogEvery
	if shouldLog {
		c.lastNoSymbolLog = c.now()
	}
	c.mu.Unlock()

	c.sink.Clear()
	if shouldLog {
		log.Printf("no tradable symbol in context %q", pageURL)
	}
}

// noteSymbol records the cycle's symbol and reports whether it changed.
func (c *Coordinator) noteSymbol(symbol string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if symbol == c.currentSymbol {
		return false
	}
	c.currentSymbol = symbol
	return true
}

func (c *Coordinator) allowQuotaNotice() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now().Sub(c.lastQuotaNotice) < quotaNoticeCooldown {
		return false
	}
	c.lastQuotaNotice = c.now()
	return true
}

// ApplySettings reconfigures the periodic timer. The old timer is always
// torn down first so intervals never drift or overlap.
func (c *Coordinator) ApplySettings(s Settings) {
	if s.PeriodicInterval < minPeriodicInterval {
		s.PeriodicInterval = minPeriodicInterval
	}
	if s.PeriodicInterval > maxPeriodicInterval {
		s.PeriodicInterval = maxPeriodicInterval
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s

	if c.periodicStop != nil {
		close(c.periodicStop)
		c.periodicStop = nil
	}
	if c.closed || !s.AutoRefresh {
		return
	}
	stop := make(chan struct{})
	c.periodicStop = stop
	go c.periodicLoop(stop, s.PeriodicInterval)
}

// CurrentSettings returns the clamped settings in effect.
func (c *Coordinator) CurrentSettings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Coordinator) periodicLoop(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Trigger(domain.TriggerPeriodic, "")
		}
	}
}

// Close stops the debounce and periodic timers. In-flight cycles complete;
// new triggers are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
		c.debounceTimer = nil
	}
	if c.periodicStop != nil {
		close(c.periodicStop)
		c.periodicStop = nil
	}
}
