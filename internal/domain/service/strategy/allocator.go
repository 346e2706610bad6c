package strategy

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/value"
)

// AllocationMode tells the allocator how much budget one item may consume.
type AllocationMode int

const (
	// Greedy lets every item spend the whole remaining budget.
	Greedy AllocationMode = iota
	// EvenSplit caps every item at remaining_budget / remaining_candidates.
	EvenSplit
)

// Policy is the part of a generator that differs between strategy types.
// Either Score or Select orders the candidates; Select wins when both are set.
type Policy struct {
	Type value.StrategyType

	Filter func(a entity.ItemAnalysis) bool
	Score  func(a entity.ItemAnalysis) float64
	Select func(pool []entity.ItemAnalysis) []entity.ItemAnalysis

	Mode AllocationMode
	// MinCandidates is the smallest ordered list the policy accepts.
	MinCandidates int
}

type Config struct {
	// ConservativeMinMargin applies to moderate plans, StrictConservativeMinMargin
	// to conservative ones.
	ConservativeMinMargin       float64
	StrictConservativeMinMargin float64
}

func DefaultConfig() Config {
	return Config{
		ConservativeMinMargin:       3.0,
		StrictConservativeMinMargin: 5.0,
	}
}

// Goal is the constraint every generator works under.
type Goal struct {
	AvailableCapital int64
	RequiredProfit   int64
}

func GoalOf(plan *entity.GoalPlan) Goal {
	return Goal{
		AvailableCapital: plan.CurrentGP,
		RequiredProfit:   plan.RequiredProfit,
	}
}

// Timing converts unit counts into processing time. The item analyzer
// implements it, so allocations and analyses share one trade rate.
type Timing interface {
	Hours(units int64) float64
	DailyActiveHours() float64
}

// Allocator runs the shared greedy loop for any Policy.
type Allocator struct {
	cfg    Config
	timing Timing
}

func NewAllocator(cfg Config, timing Timing) *Allocator {
	return &Allocator{cfg: cfg, timing: timing}
}

// Policies returns the generators for a plan in their fixed order.
func (a *Allocator) Policies(tolerance value.RiskTolerance) []Policy {
	policies := []Policy{MaxProfit(), TimeOptimal(), Balanced()}

	if tolerance.AllowsConservative() {
		minMargin := a.cfg.ConservativeMinMargin
		if tolerance == value.RiskToleranceConservative {
			minMargin = a.cfg.StrictConservativeMinMargin
		}

		policies = append(policies, Conservative(minMargin))
	}

	return append(policies, Portfolio())
}

// Generate builds one candidate. ok is false when the policy allocated nothing.
// The pool is never modified.
func (a *Allocator) Generate(p Policy, pool []entity.ItemAnalysis, goal Goal) (entity.StrategyCandidate, bool) {
	ordered := a.order(p, pool)
	if len(ordered) == 0 || len(ordered) < p.MinCandidates {
		return entity.StrategyCandidate{}, false
	}

	remainingProfit := goal.RequiredProfit
	remainingBudget := max(0, goal.AvailableCapital)

	items := make([]entity.Allocation, 0, len(ordered))

	for i, it := range ordered {
		if remainingProfit <= 0 {
			break
		}

		budget := remainingBudget
		if p.Mode == EvenSplit {
			budget = remainingBudget / int64(len(ordered)-i)
		}

		units := min(budget/it.BuyPrice, ceilDiv(remainingProfit, it.ProfitPerUnit), it.UnitsAffordable)
		if units <= 0 {
			continue
		}

		alloc := a.allocate(it, units)
		items = append(items, alloc)

		remainingBudget -= alloc.TotalCost
		remainingProfit -= alloc.TotalProfit
	}

	if len(items) == 0 {
		return entity.StrategyCandidate{}, false
	}

	return entity.NewStrategyCandidate(p.Type, items, goal.RequiredProfit, a.timing.DailyActiveHours()), true
}

func (a *Allocator) order(p Policy, pool []entity.ItemAnalysis) []entity.ItemAnalysis {
	candidates := lo.Filter(pool, func(it entity.ItemAnalysis, _ int) bool {
		if it.BuyPrice <= 0 || it.ProfitPerUnit <= 0 {
			return false
		}
		return p.Filter == nil || p.Filter(it)
	})

	if p.Select != nil {
		return p.Select(candidates)
	}

	if p.Score != nil {
		slices.SortStableFunc(candidates, func(x, y entity.ItemAnalysis) int {
			if c := cmp.Compare(p.Score(y), p.Score(x)); c != 0 {
				return c
			}
			return cmp.Compare(x.ItemID, y.ItemID)
		})
	}

	return candidates
}

func (a *Allocator) allocate(it entity.ItemAnalysis, units int64) entity.Allocation {
	return entity.Allocation{
		ItemID:          it.ItemID,
		ItemName:        it.Name,
		UnitsToBuy:      units,
		BuyPrice:        it.BuyPrice,
		TotalCost:       units * it.BuyPrice,
		ProfitPerUnit:   it.ProfitPerUnit,
		TotalProfit:     units * it.ProfitPerUnit,
		EstimatedHours:  a.timing.Hours(units),
		RiskScore:       it.Risk.OverallRisk,
		DailyVolume:     it.DailyVolume,
		PriceVolatility: it.Risk.PriceVolatility,
		TradeLimit:      it.TradeLimit,
		DataUpdatedAt:   it.LastUpdated,
	}
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
