package strategy

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/value"
)

const (
	conservativeMaxRisk   = 0.4
	conservativeMinVolume = 0.2

	portfolioLowRisk      = 0.35
	portfolioMediumRisk   = 0.6
	portfolioHighVolume   = 0.5
	portfolioLowRiskTop   = 3
	portfolioMediumTop    = 3
	portfolioHighVolTop   = 2
	portfolioMinPositions = 2
)

// MaxProfit ranks items by return on invested capital.
func MaxProfit() Policy {
	return Policy{
		Type:  value.StrategyMaxProfit,
		Score: profitEfficiency,
	}
}

// TimeOptimal ranks items by profit per day of processing.
func TimeOptimal() Policy {
	return Policy{
		Type:  value.StrategyTimeOptimal,
		Score: timeEfficiency,
	}
}

func Balanced() Policy {
	return Policy{
		Type: value.StrategyBalanced,
		Score: func(a entity.ItemAnalysis) float64 {
			return (profitEfficiency(a) + timeEfficiency(a)) / (1 + a.Risk.OverallRisk)
		},
	}
}

// Conservative keeps only low-risk liquid items with at least minMarginPct margin.
func Conservative(minMarginPct float64) Policy {
	return Policy{
		Type: value.StrategyConservative,
		Filter: func(a entity.ItemAnalysis) bool {
			return a.Risk.OverallRisk <= conservativeMaxRisk &&
				a.VolumeScore >= conservativeMinVolume &&
				a.ProfitMarginPct >= minMarginPct
		},
		Score: func(a entity.ItemAnalysis) float64 {
			return a.VolumeScore - a.Risk.OverallRisk
		},
	}
}

// Portfolio spreads the budget evenly over the best members of three risk buckets.
func Portfolio() Policy {
	return Policy{
		Type:          value.StrategyPortfolio,
		Select:        selectPortfolio,
		Mode:          EvenSplit,
		MinCandidates: portfolioMinPositions,
	}
}

func selectPortfolio(pool []entity.ItemAnalysis) []entity.ItemAnalysis {
	lowRisk := topBy(pool, func(a entity.ItemAnalysis) bool {
		return a.Risk.OverallRisk <= portfolioLowRisk
	}, byProfitPotential, portfolioLowRiskTop)

	mediumRisk := topBy(pool, func(a entity.ItemAnalysis) bool {
		return a.Risk.OverallRisk > portfolioLowRisk && a.Risk.OverallRisk <= portfolioMediumRisk
	}, byProfitPotential, portfolioMediumTop)

	highVolume := topBy(pool, func(a entity.ItemAnalysis) bool {
		return a.VolumeScore >= portfolioHighVolume
	}, func(a entity.ItemAnalysis) float64 { return a.VolumeScore }, portfolioHighVolTop)

	selected := slices.Concat(lowRisk, mediumRisk, highVolume)

	return lo.UniqBy(selected, func(a entity.ItemAnalysis) int64 { return a.ItemID })
}

func topBy(
	pool []entity.ItemAnalysis,
	keep func(entity.ItemAnalysis) bool,
	score func(entity.ItemAnalysis) float64,
	n int,
) []entity.ItemAnalysis {
	bucket := lo.Filter(pool, func(a entity.ItemAnalysis, _ int) bool { return keep(a) })

	slices.SortStableFunc(bucket, func(x, y entity.ItemAnalysis) int {
		if c := cmp.Compare(score(y), score(x)); c != 0 {
			return c
		}
		return cmp.Compare(x.ItemID, y.ItemID)
	})

	return bucket[:min(n, len(bucket))]
}

func byProfitPotential(a entity.ItemAnalysis) float64 {
	return float64(a.TotalProfitPotential)
}

func profitEfficiency(a entity.ItemAnalysis) float64 {
	return ratio(float64(a.TotalProfitPotential), float64(a.CapitalRequired()))
}

func timeEfficiency(a entity.ItemAnalysis) float64 {
	return ratio(float64(a.TotalProfitPotential), a.DaysToComplete)
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
