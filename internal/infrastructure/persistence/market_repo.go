package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gp_planner/internal/domain"
	"gp_planner/internal/domain/entity"
	"gp_planner/pkg/errcodes"
)

type MarketRepository struct {
	db *sqlx.DB
}

func NewMarketRepository(db *sqlx.DB) *MarketRepository {
	return &MarketRepository{db: db}
}

// ListProfitableItems reads one snapshot of active, alchemy-eligible items that
// make a profit and cost at most maxBuyPrice.
func (r *MarketRepository) ListProfitableItems(ctx context.Context, maxBuyPrice int64) ([]entity.MarketItem, error) {
	query := `
		SELECT
			i.id AS item_id, i.name, p.buy_price, p.sell_price, p.profit_per_unit, p.profit_margin_pct,
			p.daily_volume, p.price_trend, i.trade_limit, i.is_members_only, p.last_updated
		FROM item_prices p
		JOIN items i ON i.id = p.item_id
		WHERE i.is_active
			AND i.is_alchemy_eligible
			AND p.profit_per_unit > 0
			AND p.buy_price > 0
			AND p.buy_price <= $1
		ORDER BY p.item_id`

	var schemas []marketItemSchema
	if err := r.db.SelectContext(ctx, &schemas, query, maxBuyPrice); err != nil {
		return nil, domain.WrapError(err, errcodes.MarketDataUnavailable, "failed to list profitable items")
	}

	result := make([]entity.MarketItem, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}

	return result, nil
}

// SaveItems upserts item metadata and the latest price row of every item.
func (r *MarketRepository) SaveItems(ctx context.Context, items []entity.MarketItem) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, it := range items {
			schema := marketItemSchema{
				ItemID:          it.ItemID,
				Name:            it.Name,
				BuyPrice:        it.BuyPrice,
				SellPrice:       it.SellPrice,
				ProfitPerUnit:   it.ProfitPerUnit,
				ProfitMarginPct: it.ProfitMarginPct,
				DailyVolume:     nullInt64(it.DailyVolume),
				PriceTrend:      it.PriceTrend.String(),
				TradeLimit:      nullInt64(it.TradeLimit.Ptr()),
				IsMembersOnly:   it.IsMembersOnly,
				LastUpdated:     it.LastUpdated,
			}

			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO items (id, name, trade_limit, is_members_only)
				VALUES (:item_id, :name, :trade_limit, :is_members_only)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					trade_limit = EXCLUDED.trade_limit,
					is_members_only = EXCLUDED.is_members_only`, schema); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to save item")
			}

			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO item_prices (
					item_id, buy_price, sell_price, profit_per_unit, profit_margin_pct,
					daily_volume, price_trend, last_updated
				) VALUES (
					:item_id, :buy_price, :sell_price, :profit_per_unit, :profit_margin_pct,
					:daily_volume, :price_trend, :last_updated
				)
				ON CONFLICT (item_id) DO UPDATE SET
					buy_price = EXCLUDED.buy_price,
					sell_price = EXCLUDED.sell_price,
					profit_per_unit = EXCLUDED.profit_per_unit,
					profit_margin_pct = EXCLUDED.profit_margin_pct,
					daily_volume = EXCLUDED.daily_volume,
					price_trend = EXCLUDED.price_trend,
					last_updated = EXCLUDED.last_updated`, schema); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to save item price")
			}
		}

		return nil
	})
}
