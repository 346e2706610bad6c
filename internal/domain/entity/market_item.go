package entity

import (
	"time"

	"gp_planner/internal/domain/value"
)

// MarketItem is one market snapshot row joined with item metadata.
type MarketItem struct {
	ItemID          int64            `json:"item_id"`
	Name            string           `json:"name"`
	BuyPrice        int64            `json:"buy_price"`
	SellPrice       int64            `json:"sell_price"`
	ProfitPerUnit   int64            `json:"profit_per_unit"`
	ProfitMarginPct float64          `json:"profit_margin_pct"`
	DailyVolume     *int64           `json:"daily_volume,omitempty"` // nil when the market has no volume data
	PriceTrend      value.PriceTrend `json:"price_trend"`
	TradeLimit      value.TradeLimit `json:"-"`
	IsMembersOnly   bool             `json:"is_members_only"`
	LastUpdated     time.Time        `json:"last_updated"`
}
