package entity

import (
	"time"

	"gp_planner/internal/domain/value"
)

type RiskCategory string

const (
	RiskMarket        RiskCategory = "market"
	RiskLiquidity     RiskCategory = "liquidity"
	RiskTime          RiskCategory = "time"
	RiskConcentration RiskCategory = "concentration"
	RiskCapital       RiskCategory = "capital"
	RiskExecution     RiskCategory = "execution"
)

// RiskCategories lists categories in reporting order.
var RiskCategories = []RiskCategory{ //nolint:gochecknoglobals
	RiskMarket, RiskLiquidity, RiskTime, RiskConcentration, RiskCapital, RiskExecution,
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type RiskFactor struct {
	Category    RiskCategory `json:"category"`
	Name        string       `json:"name"`
	Score       float64      `json:"score"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
	Mitigation  string       `json:"mitigation,omitempty"`
}

// RiskProfile holds category and factor scores in [0,1]. CapitalUtilization is
// the raw investment/capital ratio and may exceed 1.
type RiskProfile struct {
	StrategyID         int64                    `json:"strategy_id,omitempty"`
	OverallRiskScore   float64                  `json:"overall_risk_score"`
	RiskLevel          value.RiskLevel          `json:"risk_level"`
	ConfidenceScore    float64                  `json:"confidence_score"`
	CategoryScores     map[RiskCategory]float64 `json:"category_scores"`
	RiskFactors        []RiskFactor             `json:"risk_factors"`
	MarketRisks        map[string]float64       `json:"market_risks"`
	TimeRisks          map[string]float64       `json:"time_risks"`
	LiquidityRisks     map[string]float64       `json:"liquidity_risks"`
	ConcentrationRisks map[string]float64       `json:"concentration_risks"`
	CapitalRisks       map[string]float64       `json:"capital_risks"`
	ExecutionRisks     map[string]float64       `json:"execution_risks"`
	CapitalUtilization float64                  `json:"capital_utilization"`
	Recommendations    []string                 `json:"recommendations"`
	AnalyzedAt         time.Time                `json:"analyzed_at"`
}
