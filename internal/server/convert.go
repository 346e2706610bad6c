package server

import (
	"fmt"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/service/goalplan"
	"gp_planner/internal/domain/value"
	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/lox"
	"gp_planner/pkg/rest"
)

func parseID(raw string, code failure.ErrorCode) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid id %q", raw),
			failure.WithCode(code),
			failure.WithDescription("id must be a positive integer"),
		)
	}

	return id, nil
}

func newDomainGoalRequest(request rest.CreateGoalPlanRequest) (entity.GoalRequest, error) {
	tolerance, err := value.ParseRiskTolerance(request.RiskTolerance)
	if err != nil {
		return entity.GoalRequest{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseRiskTolerance: %w", err),
			failure.WithCode(errcodes.InvalidRiskTolerance),
			failure.WithDescription("risk_tolerance must be one of conservative, moderate, aggressive"),
		)
	}

	return entity.GoalRequest{
		CurrentGP:              request.CurrentGP,
		GoalGP:                 request.GoalGP,
		RiskTolerance:          tolerance,
		PreferredTimeframeDays: request.PreferredTimeframeDays,
	}, nil
}

func newRESTGoalPlanResponse(res goalplan.PlanResult) rest.GoalPlanResponse {
	return rest.GoalPlanResponse{
		Plan:       newRESTGoalPlan(res.Plan),
		Strategies: lox.Map(res.Strategies, newRESTStrategy),
	}
}

func newRESTGoalPlan(p *entity.GoalPlan) rest.GoalPlan {
	return rest.GoalPlan{
		ID:                     p.ID,
		CurrentGP:              p.CurrentGP,
		GoalGP:                 p.GoalGP,
		RequiredProfit:         p.RequiredProfit,
		RiskTolerance:          p.RiskTolerance.String(),
		PreferredTimeframeDays: p.PreferredTimeframeDays,
		Status:                 p.Status.String(),
		FailureReason:          p.FailureReason,
		IsAchievable:           p.IsAchievable,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

func newRESTStrategy(s entity.Strategy) rest.Strategy {
	return rest.Strategy{
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
		Items:            lox.Map(s.Items, newRESTStrategyItem),
	}
}

func newRESTStrategyItem(it entity.StrategyItem) rest.StrategyItem {
	return rest.StrategyItem{
		ItemID:               it.ItemID,
		ItemName:             it.ItemName,
		UnitsToBuy:           it.UnitsToBuy,
		BuyPrice:             it.BuyPrice,
		ProfitPerItem:        it.ProfitPerItem,
		TotalCost:            it.TotalCost,
		TotalProfit:          it.TotalProfit,
		GELimit:              it.GELimit.Ptr(),
		EstimatedHours:       it.EstimatedHours,
		AllocationPercentage: it.AllocationPercentage,
		DailyVolume:          it.DailyVolume,
		PriceVolatility:      it.PriceVolatility,
		RiskScore:            it.RiskScore,
		DataUpdatedAt:        it.DataUpdatedAt,
	}
}

func newRESTRiskProfile(p entity.RiskProfile) rest.RiskProfile {
	return rest.RiskProfile{
		StrategyID:       p.StrategyID,
		OverallRiskScore: p.OverallRiskScore,
		RiskLevel:        p.RiskLevel.String(),
		ConfidenceScore:  p.ConfidenceScore,
		CategoryScores: lo.MapKeys(p.CategoryScores, func(_ float64, c entity.RiskCategory) string {
			return string(c)
		}),
		RiskFactors: lox.Map(p.RiskFactors, func(f entity.RiskFactor) rest.RiskFactor {
			return rest.RiskFactor{
				Category:    string(f.Category),
				Name:        f.Name,
				Score:       f.Score,
				Severity:    string(f.Severity),
				Description: f.Description,
				Mitigation:  f.Mitigation,
			}
		}),
		MarketRisks:        p.MarketRisks,
		TimeRisks:          p.TimeRisks,
		LiquidityRisks:     p.LiquidityRisks,
		ConcentrationRisks: p.ConcentrationRisks,
		CapitalRisks:       p.CapitalRisks,
		ExecutionRisks:     p.ExecutionRisks,
		CapitalUtilization: p.CapitalUtilization,
		Recommendations:    p.Recommendations,
		AnalyzedAt:         p.AnalyzedAt,
	}
}
