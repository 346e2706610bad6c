package value

import "strings"

// PriceTrend is the short-term direction of an item's price.
type PriceTrend string

const (
	TrendRising   PriceTrend = "rising"
	TrendFalling  PriceTrend = "falling"
	TrendStable   PriceTrend = "stable"
	TrendVolatile PriceTrend = "volatile"
)

// ParsePriceTrend normalizes a stored trend. Unknown values are kept as is so
// that risk lookups can fall back to their default.
func ParsePriceTrend(s string) PriceTrend {
	return PriceTrend(strings.ToLower(strings.TrimSpace(s)))
}

func (t PriceTrend) String() string {
	return string(t)
}
