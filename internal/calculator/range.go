package calculator

import "math"

// WithinRangeOf reports whether price sits within pct (relative, strict) of
// bound, measured against the price itself: |price-bound|/price < pct.
// Returns false for non-positive prices.
func WithinRangeOf(price, bound, pct float64) bool {
	if price <= 0 {
		return false
	}
	return math.Abs(price-bound)/price < pct
}
