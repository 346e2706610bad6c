package goalplan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"git.appkode.ru/pub/go/failure"
	"golang.org/x/sync/errgroup"

	"gp_planner/internal/domain"
	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/service/strategy"
	"gp_planner/internal/domain/value"
	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/logx"
)

const recommendedFeasibility = 0.8

// Failure reasons stored on the plan.
const (
	ReasonNoProfitableItems = "no profitable items"
	ReasonNoStrategies      = "no strategy could be generated for this goal"
	ReasonMarketData        = "market data unavailable"
	ReasonPersistence       = "failed to save strategies"
)

// CreatePlan validates the request, stores a new plan and computes its strategies.
// An infeasible goal is not an error: the returned plan is failed with a reason.
func (s *Service) CreatePlan(ctx context.Context, req entity.GoalRequest) (PlanResult, error) {
	if err := validateRequest(req); err != nil {
		return PlanResult{}, err
	}

	plan := entity.NewGoalPlan(req)
	plan.StartAnalysis()

	if err := s.plans.CreatePlan(ctx, plan); err != nil {
		return PlanResult{}, fmt.Errorf("plans.CreatePlan: %w", err)
	}

	logger(ctx).Info("goal plan created",
		slog.Int64(logx.FieldGoalPlanID, plan.ID),
		slog.Int64("required-profit", plan.RequiredProfit),
		slog.String("risk-tolerance", plan.RiskTolerance.String()),
	)

	return s.compute(ctx, plan)
}

// RegeneratePlan recomputes strategies of an existing plan. Previous strategies
// are deactivated, never modified.
func (s *Service) RegeneratePlan(ctx context.Context, planID int64) (PlanResult, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return PlanResult{}, fmt.Errorf("plans.GetPlan: %w", err)
	}

	return s.compute(ctx, plan)
}

func (s *Service) GetPlan(ctx context.Context, planID int64) (PlanResult, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return PlanResult{}, fmt.Errorf("plans.GetPlan: %w", err)
	}

	strategies, err := s.plans.ListStrategies(ctx, planID)
	if err != nil {
		return PlanResult{}, fmt.Errorf("plans.ListStrategies: %w", err)
	}

	return PlanResult{Plan: plan, Strategies: strategies}, nil
}

// ListStrategies returns the active strategies of a plan.
func (s *Service) ListStrategies(ctx context.Context, planID int64) ([]entity.Strategy, error) {
	if _, err := s.plans.GetPlan(ctx, planID); err != nil {
		return nil, fmt.Errorf("plans.GetPlan: %w", err)
	}

	strategies, err := s.plans.ListStrategies(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("plans.ListStrategies: %w", err)
	}

	return strategies, nil
}

func (s *Service) GetStrategy(ctx context.Context, strategyID int64) (entity.Strategy, error) {
	st, err := s.plans.GetStrategy(ctx, strategyID)
	if err != nil {
		return entity.Strategy{}, fmt.Errorf("plans.GetStrategy: %w", err)
	}

	return st, nil
}

func (s *Service) compute(ctx context.Context, plan *entity.GoalPlan) (PlanResult, error) {
	key := lockKey(plan.ID)

	locked, err := s.locker.TryLock(ctx, key)
	if err != nil {
		return PlanResult{}, domain.WrapError(err, errcodes.InternalServerError, "failed to lock goal plan")
	}
	if !locked {
		return PlanResult{}, domain.NewError(errcodes.PlanComputationInProgress, "goal plan is being computed")
	}

	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), key); err != nil {
			logger(ctx).Warn("goal plan unlock failed", slog.Int64(logx.FieldGoalPlanID, plan.ID), logx.Error(err))
		}
	}()

	started := time.Now()

	result, err := s.runPipeline(ctx, plan)

	s.observer.PlanFinished(plan.Status, time.Since(started))

	return result, err
}

func (s *Service) runPipeline(ctx context.Context, plan *entity.GoalPlan) (PlanResult, error) {
	plan.RecomputeRequiredProfit()

	if plan.Status != value.PlanStatusAnalyzing {
		plan.StartAnalysis()

		if err := s.plans.UpdatePlan(ctx, plan); err != nil {
			return PlanResult{}, fmt.Errorf("plans.UpdatePlan: %w", err)
		}
	}

	items, err := s.market.ListProfitableItems(ctx, plan.CurrentGP)
	if err != nil {
		_ = s.fail(ctx, plan, ReasonMarketData)
		return PlanResult{Plan: plan}, domain.WrapError(err, errcodes.MarketDataUnavailable, "failed to load market data")
	}

	pool := s.analyzer.Analyze(ctx, plan.CurrentGP, items)
	if len(pool) == 0 {
		return PlanResult{Plan: plan}, s.fail(ctx, plan, ReasonNoProfitableItems)
	}

	candidates := s.generate(ctx, plan, pool)
	if len(candidates) == 0 {
		return PlanResult{Plan: plan}, s.fail(ctx, plan, ReasonNoStrategies)
	}

	strategies := make([]entity.Strategy, 0, len(candidates))
	for _, c := range candidates {
		strategies = append(strategies, entity.NewStrategy(plan.ID, c))
	}
	strategies[SelectRecommended(candidates)].IsRecommended = true

	plan.MarkReady()

	saved, err := s.plans.SaveStrategies(ctx, plan, strategies)
	if err != nil {
		_ = s.fail(ctx, plan, ReasonPersistence)
		return PlanResult{Plan: plan}, fmt.Errorf("plans.SaveStrategies: %w", err)
	}

	logger(ctx).Info("goal plan ready",
		slog.Int64(logx.FieldGoalPlanID, plan.ID),
		slog.Int("strategies", len(saved)),
	)

	return PlanResult{Plan: plan, Strategies: saved}, nil
}

// fail moves the plan to failed and retires its active strategies. The returned
// error is non-nil only when the status could not be stored.
func (s *Service) fail(ctx context.Context, plan *entity.GoalPlan, reason string) error {
	plan.MarkFailed(reason)

	logger(ctx).Warn("goal plan failed",
		slog.Int64(logx.FieldGoalPlanID, plan.ID),
		slog.String("reason", reason),
	)

	if err := s.plans.FailPlan(ctx, plan); err != nil {
		logger(ctx).Error("failed to store plan status", slog.Int64(logx.FieldGoalPlanID, plan.ID), logx.Error(err))
		return fmt.Errorf("plans.FailPlan: %w", err)
	}

	return nil
}

// generate runs every generator concurrently over the same pool. Results keep
// the order of the policies.
func (s *Service) generate(ctx context.Context, plan *entity.GoalPlan, pool []entity.ItemAnalysis) []entity.StrategyCandidate {
	policies := s.policies(plan.RiskTolerance)
	goal := strategy.GoalOf(plan)
	slots := make([]*entity.StrategyCandidate, len(policies))

	var g errgroup.Group

	for i, p := range policies {
		g.Go(func() error {
			c, ok, err := s.generateSafe(p, pool, goal)

			switch {
			case err != nil:
				logger(ctx).Warn("strategy generator failed",
					slog.Int64(logx.FieldGoalPlanID, plan.ID),
					slog.String(logx.FieldStrategyType, p.Type.String()),
					logx.Error(err),
				)
				s.observer.GeneratorFinished(p.Type, OutcomeError)
			case !ok:
				s.observer.GeneratorFinished(p.Type, OutcomeEmpty)
			default:
				slots[i] = &c
				s.observer.GeneratorFinished(p.Type, OutcomeCandidate)
			}

			return nil
		})
	}

	_ = g.Wait()

	candidates := make([]entity.StrategyCandidate, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}

	return candidates
}

func (s *Service) generateSafe(
	p strategy.Policy,
	pool []entity.ItemAnalysis,
	goal strategy.Goal,
) (c entity.StrategyCandidate, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator %s panic: %v", p.Type, rec)
		}
	}()

	c, ok = s.allocator.Generate(p, pool, goal)

	return c, ok, nil
}

// SelectRecommended returns the index of the first candidate with feasibility
// of at least 0.8, or of the most feasible one. Earlier candidates win ties.
func SelectRecommended(candidates []entity.StrategyCandidate) int {
	best := 0

	for i, c := range candidates {
		if c.FeasibilityScore >= recommendedFeasibility {
			return i
		}
		if c.FeasibilityScore > candidates[best].FeasibilityScore {
			best = i
		}
	}

	return best
}

func validateRequest(req entity.GoalRequest) error {
	var reasons []error

	if req.CurrentGP < 0 {
		reasons = append(reasons, errors.New("current_gp must not be negative"))
	}
	if req.GoalGP <= req.CurrentGP {
		reasons = append(reasons, errors.New("goal_gp must be greater than current_gp"))
	}
	if req.PreferredTimeframeDays != nil && *req.PreferredTimeframeDays <= 0 {
		reasons = append(reasons, errors.New("preferred_timeframe_days must be positive"))
	}

	if !req.RiskTolerance.Valid() {
		return failure.NewInvalidArgumentError(
			fmt.Sprintf("unknown risk tolerance %q", req.RiskTolerance),
			failure.WithCode(errcodes.InvalidRiskTolerance),
			failure.WithDescription("risk_tolerance must be one of conservative, moderate, aggressive"),
		)
	}

	if len(reasons) > 0 {
		err := errors.Join(reasons...)

		return failure.NewInvalidArgumentError(
			"invalid goal",
			failure.WithCode(errcodes.InvalidGoal),
			failure.WithDescription(err.Error()),
		)
	}

	return nil
}

func lockKey(planID int64) string {
	return "goal_plan:" + strconv.FormatInt(planID, 10)
}
