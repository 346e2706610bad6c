package goalplan

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/patrickmn/go-cache"

	"gp_planner/internal/domain/entity"
	"gp_planner/pkg/logx"
)

// StrategyRisk scores a stored strategy. Strategies are immutable snapshots, so
// profiles are cached by strategy id.
func (s *Service) StrategyRisk(ctx context.Context, strategyID int64) (entity.RiskProfile, error) {
	key := strconv.FormatInt(strategyID, 10)

	if cached, ok := s.riskCache.Get(key); ok {
		if profile, ok := cached.(entity.RiskProfile); ok {
			return profile, nil
		}
	}

	st, err := s.plans.GetStrategy(ctx, strategyID)
	if err != nil {
		return entity.RiskProfile{}, fmt.Errorf("plans.GetStrategy: %w", err)
	}

	plan, err := s.plans.GetPlan(ctx, st.GoalPlanID)
	if err != nil {
		return entity.RiskProfile{}, fmt.Errorf("plans.GetPlan: %w", err)
	}

	profile := s.risk.AnalyzeStrategy(plan, st)

	logger(ctx).Debug("strategy risk analyzed",
		slog.Int64(logx.FieldStrategyID, strategyID),
		slog.Float64("overall", profile.OverallRiskScore),
		slog.String("level", profile.RiskLevel.String()),
	)

	s.riskCache.Set(key, profile, cache.DefaultExpiration)

	return profile, nil
}

// CandidateRisk scores a candidate that has not been stored.
func (s *Service) CandidateRisk(plan *entity.GoalPlan, c entity.StrategyCandidate) entity.RiskProfile {
	return s.risk.AnalyzeCandidate(plan, c)
}
