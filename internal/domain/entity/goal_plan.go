package entity

import (
	"time"

	"gp_planner/internal/domain/value"
)

// GoalRequest is a user's request to reach GoalGP starting from CurrentGP.
type GoalRequest struct {
	CurrentGP              int64
	GoalGP                 int64
	RiskTolerance          value.RiskTolerance
	PreferredTimeframeDays *int
}

type GoalPlan struct {
	ID                     int64               `json:"id"`
	CurrentGP              int64               `json:"current_gp"`
	GoalGP                 int64               `json:"goal_gp"`
	RequiredProfit         int64               `json:"required_profit"`
	RiskTolerance          value.RiskTolerance `json:"risk_tolerance"`
	PreferredTimeframeDays *int                `json:"preferred_timeframe_days,omitempty"`
	Status                 value.PlanStatus    `json:"status"`
	FailureReason          string              `json:"failure_reason,omitempty"`
	IsActive               bool                `json:"is_active"`
	IsAchievable           bool                `json:"is_achievable"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}

func NewGoalPlan(req GoalRequest) *GoalPlan {
	p := &GoalPlan{
		CurrentGP:              req.CurrentGP,
		GoalGP:                 req.GoalGP,
		RiskTolerance:          req.RiskTolerance,
		PreferredTimeframeDays: req.PreferredTimeframeDays,
		Status:                 value.PlanStatusCreated,
		IsActive:               true,
		IsAchievable:           true,
	}
	p.RecomputeRequiredProfit()

	return p
}

// RecomputeRequiredProfit must run before every save.
func (p *GoalPlan) RecomputeRequiredProfit() {
	p.RequiredProfit = max(0, p.GoalGP-p.CurrentGP)
}

func (p *GoalPlan) StartAnalysis() {
	p.Status = value.PlanStatusAnalyzing
	p.FailureReason = ""
}

func (p *GoalPlan) MarkReady() {
	p.Status = value.PlanStatusReady
	p.FailureReason = ""
	p.IsAchievable = true
}

func (p *GoalPlan) MarkFailed(reason string) {
	p.Status = value.PlanStatusFailed
	p.FailureReason = reason
	p.IsAchievable = false
}
