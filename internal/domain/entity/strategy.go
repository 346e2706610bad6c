package entity

import (
	"time"

	"gp_planner/internal/domain/value"
)

// Allocation is one item purchase inside a strategy candidate. Snapshot fields
// are frozen at generation time.
type Allocation struct {
	ItemID         int64
	ItemName       string
	UnitsToBuy     int64
	BuyPrice       int64
	TotalCost      int64
	ProfitPerUnit  int64
	TotalProfit    int64
	EstimatedHours float64
	RiskScore      float64

	DailyVolume     *int64
	PriceVolatility float64
	TradeLimit      value.TradeLimit
	DataUpdatedAt   time.Time
}

// StrategyCandidate is the in-memory result of one generator run.
type StrategyCandidate struct {
	Type             value.StrategyType
	Items            []Allocation
	TotalInvestment  int64
	TotalProfit      int64
	EstimatedDays    float64
	RiskScore        float64
	FeasibilityScore float64
}

// NewStrategyCandidate computes the aggregate metrics of an allocation list.
func NewStrategyCandidate(
	strategyType value.StrategyType,
	items []Allocation,
	requiredProfit int64,
	dailyActiveHours float64,
) StrategyCandidate {
	c := StrategyCandidate{
		Type:  strategyType,
		Items: items,
	}

	var hours, risk float64
	for _, it := range items {
		c.TotalInvestment += it.TotalCost
		c.TotalProfit += it.TotalProfit
		hours += it.EstimatedHours
		risk += it.RiskScore
	}

	if dailyActiveHours > 0 {
		c.EstimatedDays = hours / dailyActiveHours
	}
	if len(items) > 0 {
		c.RiskScore = risk / float64(len(items))
	}
	c.FeasibilityScore = Feasibility(c.TotalProfit, requiredProfit)

	return c
}

// Feasibility is min(1, profit/required). A non-positive requirement is
// already met.
func Feasibility(profit, requiredProfit int64) float64 {
	if requiredProfit <= 0 {
		return 1
	}
	return min(1.0, float64(profit)/float64(requiredProfit))
}

// Strategy is a persisted candidate belonging to one goal plan.
type Strategy struct {
	ID               int64              `json:"id"`
	GoalPlanID       int64              `json:"goal_plan_id"`
	Name             string             `json:"name"`
	Type             value.StrategyType `json:"strategy_type"`
	TotalInvestment  int64              `json:"total_investment"`
	TotalProfit      int64              `json:"total_profit"`
	EstimatedDays    float64            `json:"estimated_days"`
	RiskScore        float64            `json:"risk_score"`
	FeasibilityScore float64            `json:"feasibility_score"`
	IsRecommended    bool               `json:"is_recommended"`
	IsActive         bool               `json:"is_active"`
	CreatedAt        time.Time          `json:"created_at"`
	Items            []StrategyItem     `json:"items"`
}

// StrategyItem is the frozen allocation snapshot of one item in a strategy.
type StrategyItem struct {
	ID                   int64            `json:"id"`
	StrategyID           int64            `json:"strategy_id"`
	Position             int              `json:"position"`
	ItemID               int64            `json:"item_id"`
	ItemName             string           `json:"item_name"`
	UnitsToBuy           int64            `json:"units_to_buy"`
	BuyPrice             int64            `json:"buy_price"`
	ProfitPerItem        int64            `json:"profit_per_item"`
	TotalCost            int64            `json:"total_cost"`
	TotalProfit          int64            `json:"total_profit"`
	GELimit              value.TradeLimit `json:"-"`
	EstimatedHours       float64          `json:"estimated_hours"`
	AllocationPercentage float64          `json:"allocation_percentage"`
	DailyVolume          *int64           `json:"daily_volume,omitempty"`
	PriceVolatility      float64          `json:"price_volatility"`
	RiskScore            float64          `json:"risk_score"`
	DataUpdatedAt        time.Time        `json:"data_updated_at"`
}

// NewStrategy converts a candidate into a strategy ready to be saved.
func NewStrategy(planID int64, c StrategyCandidate) Strategy {
	s := Strategy{
		GoalPlanID:       planID,
		Name:             c.Type.DisplayName(),
		Type:             c.Type,
		TotalInvestment:  c.TotalInvestment,
		TotalProfit:      c.TotalProfit,
		EstimatedDays:    c.EstimatedDays,
		RiskScore:        c.RiskScore,
		FeasibilityScore: c.FeasibilityScore,
		IsActive:         true,
		Items:            make([]StrategyItem, 0, len(c.Items)),
	}

	for i, a := range c.Items {
		var pct float64
		if c.TotalInvestment > 0 {
			pct = float64(a.TotalCost) / float64(c.TotalInvestment) * 100
		}

		s.Items = append(s.Items, StrategyItem{
			Position:             i,
			ItemID:               a.ItemID,
			ItemName:             a.ItemName,
			UnitsToBuy:           a.UnitsToBuy,
			BuyPrice:             a.BuyPrice,
			ProfitPerItem:        a.ProfitPerUnit,
			TotalCost:            a.TotalCost,
			TotalProfit:          a.TotalProfit,
			GELimit:              a.TradeLimit,
			EstimatedHours:       a.EstimatedHours,
			AllocationPercentage: pct,
			DailyVolume:          a.DailyVolume,
			PriceVolatility:      a.PriceVolatility,
			RiskScore:            a.RiskScore,
			DataUpdatedAt:        a.DataUpdatedAt,
		})
	}

	return s
}
