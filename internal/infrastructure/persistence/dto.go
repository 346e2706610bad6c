package persistence

import (
	"database/sql"
	"time"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/value"
)

// marketItemSchema is one row of items joined with item_prices.
type marketItemSchema struct {
	ItemID          int64         `db:"item_id"`
	Name            string        `db:"name"`
	BuyPrice        int64         `db:"buy_price"`
	SellPrice       int64         `db:"sell_price"`
	ProfitPerUnit   int64         `db:"profit_per_unit"`
	ProfitMarginPct float64       `db:"profit_margin_pct"`
	DailyVolume     sql.NullInt64 `db:"daily_volume"`
	PriceTrend      string        `db:"price_trend"`
	TradeLimit      sql.NullInt64 `db:"trade_limit"`
	IsMembersOnly   bool          `db:"is_members_only"`
	LastUpdated     time.Time     `db:"last_updated"`
}

func (s *marketItemSchema) toDomain() entity.MarketItem {
	return entity.MarketItem{
		ItemID:          s.ItemID,
		Name:            s.Name,
		BuyPrice:        s.BuyPrice,
		SellPrice:       s.SellPrice,
		ProfitPerUnit:   s.ProfitPerUnit,
		ProfitMarginPct: s.ProfitMarginPct,
		DailyVolume:     nullInt64Ptr(s.DailyVolume),
		PriceTrend:      value.PriceTrend(s.PriceTrend),
		TradeLimit:      value.TradeLimitFromPtr(nullInt64Ptr(s.TradeLimit)),
		IsMembersOnly:   s.IsMembersOnly,
		LastUpdated:     s.LastUpdated,
	}
}

// goalPlanSchema maps the goal_plans table.
type goalPlanSchema struct {
	ID                     int64         `db:"id"`
	CurrentGP              int64         `db:"current_gp"`
	GoalGP                 int64         `db:"goal_gp"`
	RequiredProfit         int64         `db:"required_profit"`
	RiskTolerance          string        `db:"risk_tolerance"`
	PreferredTimeframeDays sql.NullInt32 `db:"preferred_timeframe_days"`
	Status                 string        `db:"status"`
	FailureReason          string        `db:"failure_reason"`
	IsActive               bool          `db:"is_active"`
	IsAchievable           bool          `db:"is_achievable"`
	CreatedAt              time.Time     `db:"created_at"`
	UpdatedAt              time.Time     `db:"updated_at"`
}

func fromGoalPlan(p *entity.GoalPlan) *goalPlanSchema {
	s := &goalPlanSchema{
		ID:             p.ID,
		CurrentGP:      p.CurrentGP,
		GoalGP:         p.GoalGP,
		RequiredProfit: p.RequiredProfit,
		RiskTolerance:  p.RiskTolerance.String(),
		Status:         p.Status.String(),
		FailureReason:  p.FailureReason,
		IsActive:       p.IsActive,
		IsAchievable:   p.IsAchievable,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	if p.PreferredTimeframeDays != nil {
		s.PreferredTimeframeDays = sql.NullInt32{Int32: int32(*p.PreferredTimeframeDays), Valid: true} //nolint:gosec // validated positive
	}

	return s
}

func (s *goalPlanSchema) toDomain() *entity.GoalPlan {
	p := &entity.GoalPlan{
		ID:             s.ID,
		CurrentGP:      s.CurrentGP,
		GoalGP:         s.GoalGP,
		RequiredProfit: s.RequiredProfit,
		RiskTolerance:  value.RiskTolerance(s.RiskTolerance),
		Status:         value.PlanStatus(s.Status),
		FailureReason:  s.FailureReason,
		IsActive:       s.IsActive,
		IsAchievable:   s.IsAchievable,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}

	if s.PreferredTimeframeDays.Valid {
		days := int(s.PreferredTimeframeDays.Int32)
		p.PreferredTimeframeDays = &days
	}

	return p
}

// strategySchema maps the strategies table.
type strategySchema struct {
	ID               int64     `db:"id"`
	GoalPlanID       int64     `db:"goal_plan_id"`
	Name             string    `db:"name"`
	StrategyType     string    `db:"strategy_type"`
	TotalInvestment  int64     `db:"total_investment"`
	TotalProfit      int64     `db:"total_profit"`
	EstimatedDays    float64   `db:"estimated_days"`
	RiskScore        float64   `db:"risk_score"`
	FeasibilityScore float64   `db:"feasibility_score"`
	IsRecommended    bool      `db:"is_recommended"`
	IsActive         bool      `db:"is_active"`
	CreatedAt        time.Time `db:"created_at"`
}

func fromStrategy(s *entity.Strategy) *strategySchema {
	return &strategySchema{
		ID:               s.ID,
		GoalPlanID:       s.GoalPlanID,
		Name:             s.Name,
		StrategyType:     s.Type.String(),
		TotalInvestment:  s.TotalInvestment,
		TotalProfit:      s.TotalProfit,
		EstimatedDays:    s.EstimatedDays,
		RiskScore:        s.RiskScore,
		FeasibilityScore: s.FeasibilityScore,
		IsRecommended:    s.IsRecommended,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
	}
}

func (s *strategySchema) toDomain() entity.Strategy {
	return entity.Strategy{
		ID:               s.ID,
		GoalPlanID:       s.GoalPlanID,
		Name:             s.Name,
		Type:             value.StrategyType(s.StrategyType),
		TotalInvestment:  s.TotalInvestment,
		TotalProfit:      s.TotalProfit,
		EstimatedDays:    s.EstimatedDays,
		RiskScore:        s.RiskScore,
		FeasibilityScore: s.FeasibilityScore,
		IsRecommended:    s.IsRecommended,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
	}
}

// strategyItemSchema maps the strategy_items table.
type strategyItemSchema struct {
	ID                   int64         `db:"id"`
	StrategyID           int64         `db:"strategy_id"`
	Position             int           `db:"position"`
	ItemID               int64         `db:"item_id"`
	ItemName             string        `db:"item_name"`
	UnitsToBuy           int64         `db:"units_to_buy"`
	BuyPrice             int64         `db:"buy_price"`
	ProfitPerItem        int64         `db:"profit_per_item"`
	TotalCost            int64         `db:"total_cost"`
	TotalProfit          int64         `db:"total_profit"`
	GELimit              sql.NullInt64 `db:"ge_limit"`
	EstimatedHours       float64       `db:"estimated_hours"`
	AllocationPercentage float64       `db:"allocation_percentage"`
	DailyVolume          sql.NullInt64 `db:"daily_volume"`
	PriceVolatility      float64       `db:"price_volatility"`
	RiskScore            float64       `db:"risk_score"`
	DataUpdatedAt        time.Time     `db:"data_updated_at"`
}

func fromStrategyItem(strategyID int64, it *entity.StrategyItem) *strategyItemSchema {
	return &strategyItemSchema{
		ID:                   it.ID,
		StrategyID:           strategyID,
		Position:             it.Position,
		ItemID:               it.ItemID,
		ItemName:             it.ItemName,
		UnitsToBuy:           it.UnitsToBuy,
		BuyPrice:             it.BuyPrice,
		ProfitPerItem:        it.ProfitPerItem,
		TotalCost:            it.TotalCost,
		TotalProfit:          it.TotalProfit,
		GELimit:              nullInt64(it.GELimit.Ptr()),
		EstimatedHours:       it.EstimatedHours,
		AllocationPercentage: it.AllocationPercentage,
		DailyVolume:          nullInt64(it.DailyVolume),
		PriceVolatility:      it.PriceVolatility,
		RiskScore:            it.RiskScore,
		DataUpdatedAt:        it.DataUpdatedAt,
	}
}

func (s *strategyItemSchema) toDomain() entity.StrategyItem {
	return entity.StrategyItem{
		ID:                   s.ID,
		StrategyID:           s.StrategyID,
		Position:             s.Position,
		ItemID:               s.ItemID,
		ItemName:             s.ItemName,
		UnitsToBuy:           s.UnitsToBuy,
		BuyPrice:             s.BuyPrice,
		ProfitPerItem:        s.ProfitPerItem,
		TotalCost:            s.TotalCost,
		TotalProfit:          s.TotalProfit,
		GELimit:              value.TradeLimitFromPtr(nullInt64Ptr(s.GELimit)),
		EstimatedHours:       s.EstimatedHours,
		AllocationPercentage: s.AllocationPercentage,
		DailyVolume:          nullInt64Ptr(s.DailyVolume),
		PriceVolatility:      s.PriceVolatility,
		RiskScore:            s.RiskScore,
		DataUpdatedAt:        s.DataUpdatedAt,
	}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
