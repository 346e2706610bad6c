package risk

// Factor names.
const (
	factorPriceVolatility  = "price_volatility"
	factorMarketImpact     = "market_impact"
	factorCorrelation      = "correlation_risk"
	factorTimelinePressure = "timeline_pressure"
	factorTradeLimit       = "ge_constraint"
	factorMarketTiming     = "market_timing"
	factorVolumeAdequacy   = "volume_adequacy"
	factorBidAskSpread     = "bid_ask_spread"
	factorHHI              = "herfindahl_index"
	factorUtilization      = "capital_utilization"
	factorItemCount        = "item_complexity"
	factorSlotContention   = "slot_contention"
	factorExecVolatility   = "volatility_exposure"
)

//nolint:gochecknoglobals
var descriptions = map[string]string{
	factorPriceVolatility:  "Average price volatility of the selected items",
	factorMarketImpact:     "Share of the allocation that exceeds the daily traded volume",
	factorCorrelation:      "Items sit in a narrow price band and tend to move together",
	factorTimelinePressure: "Estimated duration exceeds the preferred timeframe",
	factorTradeLimit:       "Share of items that need a day or more to acquire",
	factorMarketTiming:     "Exposure to market changes over the estimated duration",
	factorVolumeAdequacy:   "Required daily purchases relative to daily traded volume",
	factorBidAskSpread:     "Expected spread between buy and sell prices",
	factorHHI:              "Herfindahl-Hirschman index of the allocation",
	factorUtilization:      "Share of available capital tied up in the strategy",
	factorItemCount:        "Number of distinct items to manage",
	factorSlotContention:   "Concurrent trade slots required",
	factorExecVolatility:   "Price movement while orders are being filled",
}

//nolint:gochecknoglobals
var mitigations = map[string]string{
	factorPriceVolatility:  "Use limit orders and re-check prices before each purchase batch",
	factorMarketImpact:     "Split purchases across several days to stay below daily volume",
	factorCorrelation:      "Add items from different price ranges to reduce correlated moves",
	factorTimelinePressure: "Extend the timeframe or raise the risk tolerance",
	factorTradeLimit:       "Plan purchases around trade limit resets",
	factorMarketTiming:     "Re-run the plan regularly to refresh prices",
	factorVolumeAdequacy:   "Choose items with higher daily volume or buy fewer units",
	factorBidAskSpread:     "Margin-check expensive items before committing capital",
	factorHHI:              "Diversify across more items",
	factorUtilization:      "Keep a capital reserve instead of investing everything",
	factorItemCount:        "Reduce the number of items to simplify execution",
	factorSlotContention:   "Stagger purchases so no more than eight orders are open at once",
	factorExecVolatility:   "Buy in smaller batches and monitor fills",
}

const (
	recommendHighOverall     = "Overall risk is high: consider the conservative strategy or a smaller goal"
	recommendModerateOverall = "Overall risk is moderate: monitor prices closely while executing"
)
