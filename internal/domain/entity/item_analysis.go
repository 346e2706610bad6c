package entity

import (
	"time"

	"gp_planner/internal/domain/value"
)

// ItemRisk is the four-factor risk vector of a single item.
type ItemRisk struct {
	PriceVolatility float64 `json:"price_volatility"`
	VolumeRisk      float64 `json:"volume_risk"`
	MarginRisk      float64 `json:"margin_risk"`
	TrendRisk       float64 `json:"trend_risk"`
	OverallRisk     float64 `json:"overall_risk"`
}

// ItemAnalysis is the normalized profitability view of one item for a given
// amount of available capital.
type ItemAnalysis struct {
	ItemID          int64
	Name            string
	BuyPrice        int64
	ProfitPerUnit   int64
	ProfitMarginPct float64
	DailyVolume     *int64
	PriceTrend      value.PriceTrend
	TradeLimit      value.TradeLimit
	LastUpdated     time.Time

	UnitsAffordable      int64
	TotalProfitPotential int64
	DaysToComplete       float64
	Risk                 ItemRisk
	VolumeScore          float64
}

// CapitalRequired is the GP needed to buy every affordable unit.
func (a ItemAnalysis) CapitalRequired() int64 {
	return a.UnitsAffordable * a.BuyPrice
}
