package job

import (
	"context"
	"log"
	"time"

	"riskpulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const defaultWatchInterval = 900 * time.Millisecond

// Triggerer is the coordinator surface the watcher drives.
type Triggerer interface {
	Trigger(reason domain.TriggerReason, pageURL string)
}

// ContextSource supplies the currently observed page context.
type ContextSource interface {
	Current() string
}

// ContextWatcher is the short-period liveness poll: it watches the observed
// context and fires a refresh trigger only when the URL actually changed
// since the last tick. Unchanged ticks are no-ops, not fetches.
type ContextWatcher struct {
	tracer   trace.Tracer
	contexts ContextSource
	target   Triggerer
	interval time.Duration

	lastSeen string
}

func NewContextWatcher(tracer trace.Tracer, contexts ContextSource, target Triggerer, interval time.Duration) *ContextWatcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	return &ContextWatcher{
		tracer:   tracer,
		contexts: contexts,
		target:   target,
		interval: interval,
	}
}

// Start blocks until ctx is cancelled.
func (w *ContextWatcher) Start(ctx context.Context) {
	log.Println("Context watcher starting...")

	w.lastSeen = w.contexts.Current()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Context watcher stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ContextWatcher) tick(ctx context.Context) {
	_, span := w.tracer.Start(ctx, "context-watcher.tick")
	defer span.End()

	current := w.contexts.Current()
	if current == w.lastSeen {
		return
	}
	w.lastSeen = current
	w.target.Trigger(domain.TriggerPoll, current)
}
