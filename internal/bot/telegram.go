package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"riskpulse/internal/domain"
	"riskpulse/internal/store"

	tele "gopkg.in/telebot.v3"
)

// QuotaReader serves per-symbol pair-access quota state.
type QuotaReader interface {
	Quota(ctx context.Context, symbol string) (*domain.QuotaState, error)
}

func StartTelegramBot(snapshots *store.SnapshotStore, accounts QuotaReader) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/risk", func(c tele.Context) error {
		snap := snapshots.Latest()
		return c.Send(formatRisk(snap))
	})

	b.Handle("/quota", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /quota BTCUSDT")
		}
		symbol := strings.ToUpper(args[0])
		quota, err := accounts.Quota(context.Background(), symbol)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching quota for %s: %v", symbol, err))
		}
		return c.Send(formatQuota(quota))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatRisk(snap *domain.Snapshot) string {
	if snap == nil {
		return "No assessment yet. Open a trading page or trigger a refresh first."
	}
	if snap.Market == nil {
		return "No trading symbol detected on the current page."
	}
	header := fmt.Sprintf("%s (%s)", snap.Market.Symbol, snap.Market.Venue)
	if snap.Assessment == nil {
		if snap.ErrorSummary != "" {
			return fmt.Sprintf("%s\nAssessment unavailable: %s", header, snap.ErrorSummary)
		}
		return fmt.Sprintf("%s\nAssessment unavailable: incomplete readings", header)
	}
	a := snap.Assessment
	lines := []string{
		header,
		fmt.Sprintf("Risk: %.1f (%s)", a.Score, a.Level),
		fmt.Sprintf("Extremity: %.1f%%", a.Extremity),
		fmt.Sprintf("Zone spread: %d", a.ZoneSpread),
		fmt.Sprintf("Impulse: %.1f", a.Impulse),
	}
	if snap.QuotaExceeded {
		lines = append(lines, "Pair quota exceeded, readings may be degraded")
	}
	return strings.Join(lines, "\n")
}

func formatQuota(q *domain.QuotaState) string {
	return fmt.Sprintf(
		"%s pair quota (%s plan)\nUsed: %d of %d\nRemaining: %d",
		q.Symbol, q.Plan, q.Used, q.Limit, q.Remaining,
	)
}
