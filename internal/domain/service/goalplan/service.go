package goalplan

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/service/analyzer"
	"gp_planner/internal/domain/service/risk"
	"gp_planner/internal/domain/service/strategy"
	"gp_planner/internal/domain/value"
	"gp_planner/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	riskCacheTTL     = 30 * time.Minute
	riskCacheCleanup = time.Hour
)

type PlanRepository interface {
	CreatePlan(ctx context.Context, plan *entity.GoalPlan) error
	UpdatePlan(ctx context.Context, plan *entity.GoalPlan) error
	GetPlan(ctx context.Context, id int64) (*entity.GoalPlan, error)
	// SaveStrategies deactivates the plan's active strategies, inserts the new
	// ones with their items and updates the plan in one transaction.
	SaveStrategies(ctx context.Context, plan *entity.GoalPlan, strategies []entity.Strategy) ([]entity.Strategy, error)
	// FailPlan deactivates the plan's active strategies and updates the plan in
	// one transaction.
	FailPlan(ctx context.Context, plan *entity.GoalPlan) error
	ListStrategies(ctx context.Context, planID int64) ([]entity.Strategy, error)
	GetStrategy(ctx context.Context, id int64) (entity.Strategy, error)
}

type MarketRepository interface {
	// ListProfitableItems returns active profitable items priced at most maxBuyPrice.
	ListProfitableItems(ctx context.Context, maxBuyPrice int64) ([]entity.MarketItem, error)
}

// Locker guards a plan against concurrent computations.
type Locker interface {
	TryLock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Observer receives pipeline outcomes.
type Observer interface {
	PlanFinished(status value.PlanStatus, elapsed time.Duration)
	GeneratorFinished(strategyType value.StrategyType, outcome string)
}

// Generator outcomes reported to the Observer.
const (
	OutcomeCandidate = "candidate"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
)

// PlanResult is a plan with its active strategies.
type PlanResult struct {
	Plan       *entity.GoalPlan
	Strategies []entity.Strategy
}

type Service struct {
	plans  PlanRepository
	market MarketRepository

	analyzer  *analyzer.Analyzer
	allocator *strategy.Allocator
	risk      *risk.Analyzer

	policies  func(value.RiskTolerance) []strategy.Policy
	locker    Locker
	observer  Observer
	riskCache *cache.Cache
}

func NewService(
	plans PlanRepository,
	market MarketRepository,
	itemAnalyzer *analyzer.Analyzer,
	allocator *strategy.Allocator,
	riskAnalyzer *risk.Analyzer,
) *Service {
	return &Service{
		plans:     plans,
		market:    market,
		analyzer:  itemAnalyzer,
		allocator: allocator,
		risk:      riskAnalyzer,
		policies:  allocator.Policies,
		locker:    nopLocker{},
		observer:  nopObserver{},
		riskCache: cache.New(riskCacheTTL, riskCacheCleanup),
	}
}

func (s *Service) WithLocker(locker Locker) *Service {
	s.locker = locker
	return s
}

// WithPolicies replaces the generator set chosen for a risk tolerance.
func (s *Service) WithPolicies(policies func(value.RiskTolerance) []strategy.Policy) *Service {
	s.policies = policies
	return s
}

func (s *Service) WithObserver(observer Observer) *Service {
	s.observer = observer
	return s
}

func (s *Service) WithRiskCacheTTL(ttl time.Duration) *Service {
	s.riskCache = cache.New(ttl, riskCacheCleanup)
	return s
}

type nopLocker struct{}

func (nopLocker) TryLock(context.Context, string) (bool, error) { return true, nil }
func (nopLocker) Unlock(context.Context, string) error { return nil }

type nopObserver struct{}

func (nopObserver) PlanFinished(value.PlanStatus, time.Duration) {}
func (nopObserver) GeneratorFinished(value.StrategyType, string) {}
