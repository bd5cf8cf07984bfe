package scorer

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// FormatMoney renders whole dollars with thousands separators ("$225,000").
func FormatMoney(v float64) string {
	return message.NewPrinter(language.English).Sprintf("$%.0f", v)
}

// valueBasis returns the valuation a property's debt and margin are measured
// against: market value when credible (> 0), otherwise assessed value.
func valueBasis(marketValue, assessedValue float64, hasMarket, hasAssessed bool) (basis float64, usedMarket, ok bool) {
	if hasMarket && marketValue > 0 {
		return marketValue, true, true
	}
	if hasAssessed && assessedValue > 0 {
		return assessedValue, false, true
	}
	return 0, false, false
}
