package rest

import "time"

type CreateGoalPlanRequest struct {
	CurrentGP              int64  `json:"current_gp" validate:"gte=0"`
	GoalGP                 int64  `json:"goal_gp" validate:"gt=0"`
	RiskTolerance          string `json:"risk_tolerance" validate:"required"`
	PreferredTimeframeDays *int   `json:"preferred_timeframe_days,omitempty" validate:"omitempty,gt=0"`
}

type GoalPlan struct {
	ID                     int64     `json:"id"`
	CurrentGP              int64     `json:"current_gp"`
	GoalGP                 int64     `json:"goal_gp"`
	RequiredProfit         int64     `json:"required_profit"`
	RiskTolerance          string    `json:"risk_tolerance"`
	PreferredTimeframeDays *int      `json:"preferred_timeframe_days,omitempty"`
	Status                 string    `json:"status"`
	FailureReason          string    `json:"failure_reason,omitempty"`
	IsAchievable           bool      `json:"is_achievable"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type GoalPlanResponse struct {
	Plan       GoalPlan   `json:"plan"`
	Strategies []Strategy `json:"strategies"`
}

type Strategy struct {
	ID               int64          `json:"id"`
	GoalPlanID       int64          `json:"goal_plan_id"`
	Name             string         `json:"name"`
	StrategyType     string         `json:"strategy_type"`
	TotalInvestment  int64          `json:"total_investment"`
	TotalProfit      int64          `json:"total_profit"`
	EstimatedDays    float64        `json:"estimated_days"`
	RiskScore        float64        `json:"risk_score"`
	FeasibilityScore float64        `json:"feasibility_score"`
	IsRecommended    bool           `json:"is_recommended"`
	IsActive         bool           `json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
	Items            []StrategyItem `json:"items"`
}

type StrategyItem struct {
	ItemID               int64     `json:"item_id"`
	ItemName             string    `json:"item_name"`
	UnitsToBuy           int64     `json:"units_to_buy"`
	BuyPrice             int64     `json:"buy_price"`
	ProfitPerItem        int64     `json:"profit_per_item"`
	TotalCost            int64     `json:"total_cost"`
	TotalProfit          int64     `json:"total_profit"`
	GELimit              *int64    `json:"ge_limit,omitempty"`
	EstimatedHours       float64   `json:"estimated_hours"`
	AllocationPercentage float64   `json:"allocation_percentage"`
	DailyVolume          *int64    `json:"daily_volume,omitempty"`
	PriceVolatility      float64   `json:"price_volatility"`
	RiskScore            float64   `json:"risk_score"`
	DataUpdatedAt        time.Time `json:"data_updated_at"`
}

type RegenerateResponse struct {
	PlanID int64  `json:"plan_id"`
	TaskID string `json:"task_id"`
}

type RiskFactor struct {
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Mitigation  string  `json:"mitigation,omitempty"`
}

type RiskProfile struct {
	StrategyID         int64              `json:"strategy_id"`
	OverallRiskScore   float64            `json:"overall_risk_score"`
	RiskLevel          string             `json:"risk_level"`
	ConfidenceScore    float64            `json:"confidence_score"`
	CategoryScores     map[string]float64 `json:"category_scores"`
	RiskFactors        []RiskFactor       `json:"risk_factors"`
	MarketRisks        map[string]float64 `json:"market_risks"`
	TimeRisks          map[string]float64 `json:"time_risks"`
	LiquidityRisks     map[string]float64 `json:"liquidity_risks"`
	ConcentrationRisks map[string]float64 `json:"concentration_risks"`
	CapitalRisks       map[string]float64 `json:"capital_risks"`
	ExecutionRisks     map[string]float64 `json:"execution_risks"`
	CapitalUtilization float64            `json:"capital_utilization"`
	Recommendations    []string           `json:"recommendations"`
	AnalyzedAt         time.Time          `json:"analyzed_at"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId"`
}

type ErrorCode string
