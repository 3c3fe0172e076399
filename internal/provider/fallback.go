package provider

import (
	"hash/fnv"
	"time"

	"riskpulse/internal/domain"
)

// FallbackPolicy synthesizes a reading when the network fetch fails. Nil
// means strict mode: failures propagate as classified errors. The synthetic
// policy is opt-in because silently substituting data can mask a real
// outage.
type FallbackPolicy interface {
	Synthesize(symbol string, tf domain.Timeframe) *domain.SentimentReading
}

// SyntheticFallback derives a deterministic pseudo-reading from a hash of
// symbol and timeframe, scaled into [0,100]. The same inputs always yield
// the same value, so a degraded UI stays stable across retries.
type SyntheticFallback struct {
	now func() time.Time
}

func NewSyntheticFallback() *SyntheticFallback {
	return &SyntheticFallback{now: time.Now}
}

func (f *SyntheticFallback) Synthesize(symbol string, tf domain.Timeframe) *domain.SentimentReading {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	h.Write([]byte{'|'})
	h.Write([]byte(tf))

	value := float64(h.Sum32()%1001) / 10 // one decimal in [0,100]
	return &domain.SentimentReading{
		Timeframe:  tf,
		Value:      &value,
		Label:      labelFor(value),
		ObservedAt: f.now().UTC(),
		Degraded:   true,
	}
}

// labelFor mirrors the API's five sentiment bands.
func labelFor(v float64) string {
	switch {
	case v < 25:
		return "Extreme Fear"
	case v < 45:
		return "Fear"
	case v <= 55:
		return "Neutral"
	case v < 76:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}
