package domain

import "time"

// Timeframe is one of the four fixed sampling horizons the sentiment API
// serves. Order matters for display only.
type Timeframe string

const (
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
)

// Timeframes lists all supported timeframes in display order.
var Timeframes = []Timeframe{Timeframe15m, Timeframe1h, Timeframe4h, Timeframe1d}

func (tf Timeframe) IsValid() bool {
	switch tf {
	case Timeframe15m, Timeframe1h, Timeframe4h, Timeframe1d:
		return true
	}
	return false
}

// Venue identifies the exchange a symbol was resolved from.
type Venue string

const (
	VenueBinance     Venue = "BINANCE"
	VenueBybit       Venue = "BYBIT"
	VenueOKX         Venue = "OKX"
	VenueKraken      Venue = "KRAKEN"
	VenueCoinbase    Venue = "COINBASE"
	VenueMEXC        Venue = "MEXC"
	VenueGate        Venue = "GATE"
	VenueTradingView Venue = "TRADINGVIEW"
	VenueUnknown     Venue = "UNKNOWN"
)

// Market is a resolved (venue, symbol) pair.
type Market struct {
	Venue  Venue  `json:"venue"`
	Symbol string `json:"symbol"`
}

// SentimentReading is a single timeframe's sentiment sample. Value is nil
// when the API returned no usable number. Degraded marks a locally
// synthesized fallback reading rather than a network result.
type SentimentReading struct {
	Timeframe  Timeframe `json:"timeframe"`
	Value      *float64  `json:"value,omitempty"`
	Label      string    `json:"label,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
	Degraded   bool      `json:"degraded,omitempty"`
}

// ReadingSet maps timeframe to its latest reading for the current symbol.
// It is replaced wholesale on each completed refresh cycle, never patched
// timeframe by timeframe.
type ReadingSet map[Timeframe]*SentimentReading

// Complete reports whether all four timeframes carry a numeric value.
func (rs ReadingSet) Complete() bool {
	for _, tf := range Timeframes {
		r, ok := rs[tf]
		if !ok || r == nil || r.Value == nil {
			return false
		}
	}
	return true
}

// RiskLevel buckets a composite risk score.
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskExtreme RiskLevel = "EXTREME"
)

// RiskAssessment is the fused risk signal derived from a complete ReadingSet.
type RiskAssessment struct {
	Score      float64   `json:"score"`
	Level      RiskLevel `json:"level"`
	Extremity  float64   `json:"extremity"`
	ZoneSpread int       `json:"zone_spread"`
	Impulse    float64   `json:"impulse"`
	Components []string  `json:"components"`
}

// TriggerReason says why a refresh was requested. Only the latest pending
// trigger matters; reasons are never queued per occurrence.
type TriggerReason string

const (
	TriggerManual     TriggerReason = "manual"
	TriggerNavigation TriggerReason = "navigation"
	TriggerPoll       TriggerReason = "poll"
	TriggerPeriodic   TriggerReason = "periodic"
	TriggerSettings   TriggerReason = "settings"
)

// Plan is the subscription tier reported by the validation endpoint.
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
	PlanVIP  Plan = "VIP"
)

// PlanState is the cached result of an API key validation.
type PlanState struct {
	Plan            Plan      `json:"plan"`
	Valid           bool      `json:"valid"`
	Status          string    `json:"status"`
	LastValidatedAt time.Time `json:"last_validated_at"`
}

// QuotaState is the cached per-symbol pair-access quota.
type QuotaState struct {
	Plan       Plan      `json:"plan"`
	Symbol     string    `json:"symbol"`
	Used       int       `json:"used"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ObservedAt time.Time `json:"observed_at"`
}

// Snapshot is what the coordinator publishes after each completed cycle:
// the resolved market, the wholesale reading set, and the assessment when
// all four timeframes came back.
type Snapshot struct {
	Market        *Market         `json:"market,omitempty"`
	Readings      ReadingSet      `json:"readings,omitempty"`
	Assessment    *RiskAssessment `json:"assessment,omitempty"`
	Reason        TriggerReason   `json:"reason"`
	FetchedAt     time.Time       `json:"fetched_at"`
	ErrorSummary  string          `json:"error_summary,omitempty"`
	QuotaExceeded bool            `json:"quota_exceeded,omitempty"`
}
