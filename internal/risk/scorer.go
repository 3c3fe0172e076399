package risk

import (
	"fmt"
	"math"

	"riskpulse/internal/domain"
)

// Inputs are the four timeframe sentiment values, each in [0,100].
type Inputs struct {
	V15m float64
	V1h  float64
	V4h  float64
	V1d  float64
}

// Longer timeframes weigh more: slower signals are structurally more
// significant than short-horizon noise.
var extremityWeights = []struct {
	tf     domain.Timeframe
	weight float64
}{
	{domain.Timeframe15m, 0.15},
	{domain.Timeframe1h, 0.20},
	{domain.Timeframe4h, 0.30},
	{domain.Timeframe1d, 0.35},
}

// Disagreement between timeframe zones is penalized super-linearly: a wide
// spread signals regime instability.
var spreadPenalty = map[int]float64{
	0: 0,
	1: 15,
	2: 35,
	3: 60,
}

const spreadPenaltyMax = 80

// FromReadingSet scores a complete reading set. Returns nil when any
// timeframe is missing a value: a partial set never yields an assessment.
func FromReadingSet(rs domain.ReadingSet) *domain.RiskAssessment {
	if !rs.Complete() {
		return nil
	}
	a := Score(Inputs{
		V15m: *rs[domain.Timeframe15m].Value,
		V1h:  *rs[domain.Timeframe1h].Value,
		V4h:  *rs[domain.Timeframe4h].Value,
		V1d:  *rs[domain.Timeframe1d].Value,
	})
	return &a
}

// Score fuses four timeframe sentiment values into one risk assessment.
// Pure and deterministic: identical inputs always produce identical output.
func Score(in Inputs) domain.RiskAssessment {
	values := map[domain.Timeframe]float64{
		domain.Timeframe15m: clamp(in.V15m, 0, 100),
		domain.Timeframe1h:  clamp(in.V1h, 0, 100),
		domain.Timeframe4h:  clamp(in.V4h, 0, 100),
		domain.Timeframe1d:  clamp(in.V1d, 0, 100),
	}

	// Extremity: weighted mean distance from neutral (50), as a percentage.
	extremity := 0.0
	for _, entry := range extremityWeights {
		extremity += entry.weight * math.Abs(values[entry.tf]-50) / 50
	}
	extremity *= 100

	// Zone disagreement across timeframes.
	minZone, maxZone := 4, 0
	for _, v := range values {
		z := Zone(v)
		if z < minZone {
			minZone = z
		}
		if z > maxZone {
			maxZone = z
		}
	}
	spread := maxZone - minZone
	disagreement, ok := spreadPenalty[spread]
	if !ok {
		disagreement = spreadPenaltyMax
	}

	// Impulse: short-horizon acceleration, independent of absolute level.
	d1h := math.Abs(values[domain.Timeframe15m] - values[domain.Timeframe1h])
	d4h := math.Abs(values[domain.Timeframe15m] - values[domain.Timeframe4h])
	imp := math.Max(d1h, d4h)
	impulse := impulseBand(imp)

	score := clamp(0.55*extremity+0.30*disagreement+0.15*impulse, 0, 100)

	return domain.RiskAssessment{
		Score:      score,
		Level:      levelFor(score),
		Extremity:  extremity,
		ZoneSpread: spread,
		Impulse:    impulse,
		Components: []string{
			fmt.Sprintf("extremity=%.1f%%", extremity),
			fmt.Sprintf("zone spread=%d", spread),
			fmt.Sprintf("delta 15m/1h=%.1f", d1h),
			fmt.Sprintf("delta 15m/4h=%.1f", d4h),
		},
	}
}

// Zone maps a 0-100 sentiment value to one of five ordinal bands, extreme
// fear (0) through extreme greed (4).
func Zone(v float64) int {
	switch {
	case v < 25:
		return 0
	case v < 45:
		return 1
	case v <= 55:
		return 2
	case v < 76:
		return 3
	default:
		return 4
	}
}

func impulseBand(imp float64) float64 {
	switch {
	case imp < 6:
		return 0
	case imp < 12:
		return 25
	case imp < 18:
		return 50
	case imp < 25:
		return 75
	default:
		return 90
	}
}

func levelFor(score float64) domain.RiskLevel {
	switch {
	case score < 30:
		return domain.RiskLow
	case score < 55:
		return domain.RiskMedium
	case score < 75:
		return domain.RiskHigh
	default:
		return domain.RiskExtreme
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
