package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/service/analyzer"
	"gp_planner/internal/domain/service/strategy"
	"gp_planner/internal/domain/value"
)

type itemOpt func(a *entity.ItemAnalysis)

func withRisk(r float64) itemOpt {
	return func(a *entity.ItemAnalysis) { a.Risk.OverallRisk = r }
}

func withVolumeScore(v float64) itemOpt {
	return func(a *entity.ItemAnalysis) { a.VolumeScore = v }
}

func withMargin(m float64) itemOpt {
	return func(a *entity.ItemAnalysis) { a.ProfitMarginPct = m }
}

func analysis(id, price, profit, units int64, opts ...itemOpt) entity.ItemAnalysis {
	a := entity.ItemAnalysis{
		ItemID:               id,
		Name:                 "item",
		BuyPrice:             price,
		ProfitPerUnit:        profit,
		ProfitMarginPct:      float64(profit) / float64(price) * 100,
		UnitsAffordable:      units,
		TotalProfitPotential: units * profit,
		DaysToComplete:       float64(units) * 1.2 / 3600 / 4,
		Risk:                 entity.ItemRisk{OverallRisk: 0.3, PriceVolatility: 0.2},
		VolumeScore:          0.5,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func newAllocator() *strategy.Allocator {
	return strategy.NewAllocator(strategy.DefaultConfig(), analyzer.New(analyzer.DefaultConfig()))
}

func allPolicies() []strategy.Policy {
	return []strategy.Policy{
		strategy.MaxProfit(),
		strategy.TimeOptimal(),
		strategy.Balanced(),
		strategy.Conservative(3),
		strategy.Portfolio(),
	}
}

func TestGenerate_MaxProfitScenario(t *testing.T) {
	rq := require.New(t)

	plan := entity.NewGoalPlan(entity.GoalRequest{
		CurrentGP:     300_000,
		GoalGP:        2_000_000,
		RiskTolerance: value.RiskToleranceModerate,
	})

	pool := []entity.ItemAnalysis{analysis(1, 2_000, 400, 150)}

	c, ok := newAllocator().Generate(strategy.MaxProfit(), pool, strategy.GoalOf(plan))
	rq.True(ok)
	rq.Len(c.Items, 1)
	rq.Equal(int64(150), c.Items[0].UnitsToBuy)
	rq.Equal(int64(300_000), c.TotalInvestment)
	rq.Equal(int64(60_000), c.TotalProfit)
	rq.InDelta(0.0353, c.FeasibilityScore, 1e-4)
	rq.Equal(value.StrategyMaxProfit, c.Type)
}

func TestGenerate_TimingFollowsAnalyzer(t *testing.T) {
	rq := require.New(t)

	cfg := analyzer.DefaultConfig()
	cfg.SecondsPerUnit = 3.6
	cfg.DailyActiveHours = 2
	items := analyzer.New(cfg)

	pool := []entity.ItemAnalysis{analysis(1, 100, 10, 5_000)}

	c, ok := strategy.NewAllocator(strategy.DefaultConfig(), items).
		Generate(strategy.MaxProfit(), pool, strategy.Goal{AvailableCapital: 500_000, RequiredProfit: 40_000})
	rq.True(ok)
	rq.Equal(int64(4_000), c.Items[0].UnitsToBuy)

	// 4000 units at 3.6s each is 4 hours, two days of 2 active hours.
	rq.InDelta(items.Hours(4_000), c.Items[0].EstimatedHours, 1e-9)
	rq.InDelta(4.0, c.Items[0].EstimatedHours, 1e-9)
	rq.InDelta(2.0, c.EstimatedDays, 1e-9)
}

func TestGenerate_BudgetAndFeasibility(t *testing.T) {
	pool := []entity.ItemAnalysis{
		analysis(1, 1_000, 50, 40, withRisk(0.2), withVolumeScore(0.9)),
		analysis(2, 250, 30, 200, withRisk(0.5), withVolumeScore(0.6)),
		analysis(3, 5_000, 400, 8, withRisk(0.1), withVolumeScore(0.3)),
		analysis(4, 80, 4, 500, withRisk(0.35), withVolumeScore(0.1)),
		analysis(5, 12_000, 900, 3, withRisk(0.7), withVolumeScore(0.05)),
	}

	goals := []strategy.Goal{
		{AvailableCapital: 40_000, RequiredProfit: 3_000},
		{AvailableCapital: 40_000, RequiredProfit: 1_000_000},
		{AvailableCapital: 1_500, RequiredProfit: 500},
	}

	for _, goal := range goals {
		for _, p := range allPolicies() {
			t.Run(string(p.Type), func(t *testing.T) {
				rq := require.New(t)

				c, ok := newAllocator().Generate(p, pool, goal)
				if !ok {
					return
				}

				rq.LessOrEqual(c.TotalInvestment, goal.AvailableCapital)
				rq.NotEmpty(c.Items)

				var profit int64
				for _, it := range c.Items {
					rq.GreaterOrEqual(it.UnitsToBuy, int64(1))
					rq.Equal(it.UnitsToBuy*it.BuyPrice, it.TotalCost)
					profit += it.TotalProfit
				}

				rq.Equal(profit, c.TotalProfit)
				rq.InDelta(min(1.0, float64(c.TotalProfit)/float64(goal.RequiredProfit)), c.FeasibilityScore, 1e-9)
			})
		}
	}
}

func TestGenerate_StopsWhenGoalReached(t *testing.T) {
	rq := require.New(t)

	pool := []entity.ItemAnalysis{
		analysis(1, 1_000, 100, 100),
		analysis(2, 1_000, 50, 100),
	}

	c, ok := newAllocator().Generate(strategy.MaxProfit(), pool, strategy.Goal{
		AvailableCapital: 1_000_000,
		RequiredProfit:   1_000,
	})
	rq.True(ok)
	rq.Len(c.Items, 1)
	rq.Equal(int64(10), c.Items[0].UnitsToBuy)
	rq.InDelta(1.0, c.FeasibilityScore, 1e-9)
}

func TestGenerate_ConservativeRejectsRiskyPool(t *testing.T) {
	rq := require.New(t)

	pool := []entity.ItemAnalysis{
		analysis(1, 100, 10, 100, withRisk(0.6)),
		analysis(2, 200, 30, 100, withRisk(0.6)),
		analysis(3, 300, 50, 100, withRisk(0.6)),
	}

	_, ok := newAllocator().Generate(strategy.Conservative(3), pool, strategy.Goal{
		AvailableCapital: 100_000,
		RequiredProfit:   10_000,
	})
	rq.False(ok)
}

func TestGenerate_ConservativeMargin(t *testing.T) {
	rq := require.New(t)

	pool := []entity.ItemAnalysis{
		analysis(1, 100, 4, 100, withRisk(0.2), withMargin(4)),
	}
	goal := strategy.Goal{AvailableCapital: 100_000, RequiredProfit: 10_000}

	_, ok := newAllocator().Generate(strategy.Conservative(3), pool, goal)
	rq.True(ok)

	_, ok = newAllocator().Generate(strategy.Conservative(5), pool, goal)
	rq.False(ok)
}

func TestGenerate_PortfolioEvenSplit(t *testing.T) {
	rq := require.New(t)

	pool := []entity.ItemAnalysis{
		analysis(1, 100, 10, 1_000, withRisk(0.2), withVolumeScore(0.1)),
		analysis(2, 100, 10, 1_000, withRisk(0.2), withVolumeScore(0.1)),
		analysis(3, 100, 10, 1_000, withRisk(0.2), withVolumeScore(0.1)),
		analysis(4, 100, 10, 1_000, withRisk(0.2), withVolumeScore(0.1)),
	}

	c, ok := newAllocator().Generate(strategy.Portfolio(), pool, strategy.Goal{
		AvailableCapital: 10_000,
		RequiredProfit:   1_000_000,
	})
	rq.True(ok)
	rq.Len(c.Items, 3)

	units := []int64{c.Items[0].UnitsToBuy, c.Items[1].UnitsToBuy, c.Items[2].UnitsToBuy}
	rq.Equal([]int64{33, 33, 34}, units)
	rq.Equal([]int64{1, 2, 3}, []int64{c.Items[0].ItemID, c.Items[1].ItemID, c.Items[2].ItemID})
	rq.LessOrEqual(c.TotalInvestment, int64(10_000))
}

func TestGenerate_PortfolioBucketsDeduplicated(t *testing.T) {
	rq := require.New(t)

	pool := []entity.ItemAnalysis{
		analysis(1, 100, 10, 1_000, withRisk(0.2), withVolumeScore(0.9)),
		analysis(2, 100, 10, 500, withRisk(0.5), withVolumeScore(0.8)),
		analysis(3, 100, 10, 100, withRisk(0.9), withVolumeScore(0.7)),
	}

	c, ok := newAllocator().Generate(strategy.Portfolio(), pool, strategy.Goal{
		AvailableCapital: 100_000,
		RequiredProfit:   1_000_000,
	})
	rq.True(ok)
	rq.Len(c.Items, 2)
	rq.Equal(int64(1), c.Items[0].ItemID)
	rq.Equal(int64(2), c.Items[1].ItemID)
}

func TestGenerate_PortfolioNeedsTwoItems(t *testing.T) {
	rq := require.New(t)

	pool := []entity.ItemAnalysis{
		analysis(1, 100, 10, 1_000, withRisk(0.2), withVolumeScore(0.9)),
		analysis(2, 100, 10, 1_000, withRisk(0.9), withVolumeScore(0.1)),
	}

	_, ok := newAllocator().Generate(strategy.Portfolio(), pool, strategy.Goal{
		AvailableCapital: 100_000,
		RequiredProfit:   10_000,
	})
	rq.False(ok)
}

func TestGenerate_EmptyPool(t *testing.T) {
	rq := require.New(t)

	for _, p := range allPolicies() {
		_, ok := newAllocator().Generate(p, nil, strategy.Goal{AvailableCapital: 1_000, RequiredProfit: 10})
		rq.False(ok, p.Type)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	rq := require.New(t)

	pool := []entity.ItemAnalysis{
		analysis(3, 300, 20, 100, withRisk(0.1), withVolumeScore(0.9)),
		analysis(1, 100, 10, 300, withRisk(0.3), withVolumeScore(0.6)),
		analysis(2, 200, 30, 200, withRisk(0.5), withVolumeScore(0.4)),
	}
	snapshot := append([]entity.ItemAnalysis(nil), pool...)
	goal := strategy.Goal{AvailableCapital: 50_000, RequiredProfit: 20_000}

	for _, p := range allPolicies() {
		first, ok1 := newAllocator().Generate(p, pool, goal)
		second, ok2 := newAllocator().Generate(p, pool, goal)

		rq.Equal(ok1, ok2)
		rq.Equal(first, second)
	}

	rq.Equal(snapshot, pool)
}

func TestPolicies(t *testing.T) {
	tests := []struct {
		tolerance value.RiskTolerance
		want      []value.StrategyType
	}{
		{
			tolerance: value.RiskToleranceConservative,
			want: []value.StrategyType{
				value.StrategyMaxProfit, value.StrategyTimeOptimal, value.StrategyBalanced,
				value.StrategyConservative, value.StrategyPortfolio,
			},
		},
		{
			tolerance: value.RiskToleranceModerate,
			want: []value.StrategyType{
				value.StrategyMaxProfit, value.StrategyTimeOptimal, value.StrategyBalanced,
				value.StrategyConservative, value.StrategyPortfolio,
			},
		},
		{
			tolerance: value.RiskToleranceAggressive,
			want: []value.StrategyType{
				value.StrategyMaxProfit, value.StrategyTimeOptimal, value.StrategyBalanced,
				value.StrategyPortfolio,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.tolerance), func(t *testing.T) {
			rq := require.New(t)

			policies := newAllocator().Policies(tt.tolerance)

			got := make([]value.StrategyType, 0, len(policies))
			for _, p := range policies {
				got = append(got, p.Type)
			}

			rq.Equal(tt.want, got)
		})
	}
}
