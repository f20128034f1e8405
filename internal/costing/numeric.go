package costing

import "math"

// safeFloat coerces NaN and ±Inf to 0. Malformed numeric input is never
// propagated through the engine; it collapses to a zero contribution.
func safeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// minYieldPercent guards against division blow-ups for near-zero yields.
const minYieldPercent = 0.0001

// clampYieldPercent maps a raw yield percent into (minYieldPercent, 100].
// Invalid values (NaN, Inf, ≤ 0) fall back to the default of 100.
func clampYieldPercent(v float64) float64 {
	v = safeFloat(v)
	if v <= 0 {
		return 100
	}
	if v > 100 {
		return 100
	}
	if v < minYieldPercent {
		return minYieldPercent
	}
	return v
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(safeFloat(v)*100) / 100
}
