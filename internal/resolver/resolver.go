package resolver

import (
	"net/url"
	"regexp"
	"strings"

	"riskpulse/internal/domain"
)

// Resolver maps an observed page URL to a (venue, symbol) pair. Resolution
// is pure string matching: no network, no side effects, never panics on
// malformed input.

var venueHosts = []struct {
	substr string
	venue  domain.Venue
}{
	{"binance.", domain.VenueBinance},
	{"bybit.", domain.VenueBybit},
	{"okx.", domain.VenueOKX},
	{"kraken.", domain.VenueKraken},
	{"coinbase.", domain.VenueCoinbase},
	{"mexc.", domain.VenueMEXC},
	{"gate.", domain.VenueGate},
	{"tradingview.", domain.VenueTradingView},
}

// Path segments that introduce a symbol on exchange trade pages.
var tradeSegments = map[string]bool{
	"trade":    true,
	"spot":     true,
	"futures":  true,
	"margin":   true,
	"symbols":  true,
	"price":    true,
	"markets":  true,
	"exchange": true,
}

var symbolQueryKeys = []string{"symbol", "pair", "market"}

// A plausible ticker after normalization: base asset plus a known quote.
var symbolRx = regexp.MustCompile(`^[A-Z0-9]{2,15}(USDT|USDC|TUSD|FDUSD|BUSD|USD|EUR|GBP|BTC|ETH|BNB|PERP)$`)

// Resolve parses a page-context URL and returns the normalized market it
// refers to. ok is false when no symbol pattern matches.
func Resolve(context string) (domain.Market, bool) {
	context = strings.TrimSpace(context)
	if context == "" {
		return domain.Market{}, false
	}

	u, err := url.Parse(context)
	if err != nil || u.Host == "" {
		return domain.Market{}, false
	}

	venue := venueForHost(u.Host)

	// Explicit symbol query parameters win over path heuristics. A
	// colon-delimited ticker (EXCHANGE:SYMBOL) carries its own venue.
	q := u.Query()
	for _, key := range symbolQueryKeys {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		if v, sym, ok := splitExchangeTicker(raw); ok {
			return domain.Market{Venue: v, Symbol: sym}, true
		}
		if sym, ok := normalizeSymbol(raw); ok {
			return domain.Market{Venue: venue, Symbol: sym}, true
		}
	}

	segments := splitPath(u.EscapedPath())

	// Venue trade pages: a marker segment followed by the ticker, e.g.
	// /trade/BTC_USDT or /en/futures/SOLUSDT.
	for i, seg := range segments {
		if !tradeSegments[strings.ToLower(seg)] || i+1 >= len(segments) {
			continue
		}
		candidate := segments[i+1]
		// TradingView-style /chart/XYZ/?symbol=... pages put the pair one
		// level deeper; a bare pair segment also appears as BASE_QUOTE or
		// as an EXCHANGE:SYMBOL ticker.
		if v, sym, ok := splitExchangeTicker(candidate); ok {
			return domain.Market{Venue: v, Symbol: sym}, true
		}
		if sym, ok := normalizeSymbol(candidate); ok {
			return domain.Market{Venue: venue, Symbol: sym}, true
		}
	}

	// Generic heuristic for unknown layouts: any path segment that
	// normalizes into a plausible ticker.
	for _, seg := range segments {
		if v, sym, ok := splitExchangeTicker(seg); ok {
			return domain.Market{Venue: v, Symbol: sym}, true
		}
		if sym, ok := normalizeSymbol(seg); ok {
			return domain.Market{Venue: venue, Symbol: sym}, true
		}
	}

	return domain.Market{}, false
}

func venueForHost(host string) domain.Venue {
	host = strings.ToLower(host)
	for _, entry := range venueHosts {
		if strings.Contains(host, entry.substr) {
			return entry.venue
		}
	}
	return domain.VenueUnknown
}

// splitExchangeTicker handles EXCHANGE:SYMBOL tickers (TradingView chart
// URLs and symbol query params).
func splitExchangeTicker(raw string) (domain.Venue, string, bool) {
	raw = strings.TrimSpace(raw)
	idx := strings.IndexByte(raw, ':')
	if idx <= 0 || idx == len(raw)-1 {
		return domain.VenueUnknown, "", false
	}
	venue := venueForHost(strings.ToLower(raw[:idx]) + ".")
	sym, ok := normalizeSymbol(raw[idx+1:])
	if !ok {
		return domain.VenueUnknown, "", false
	}
	return venue, sym, true
}

var separatorReplacer = strings.NewReplacer("-", "", "_", "", "/", "", ":", "")

// normalizeSymbol strips pair separators, uppercases, and accepts the result
// only when it looks like a real ticker.
func normalizeSymbol(raw string) (string, bool) {
	sym := separatorReplacer.Replace(strings.ToUpper(strings.TrimSpace(raw)))
	if !symbolRx.MatchString(sym) {
		return "", false
	}
	return sym, true
}

func splitPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
