package risk

import (
	"gonum.org/v1/gonum/stat"

	"gp_planner/internal/domain/entity"
)

func newResult(category entity.RiskCategory, names []string, scores []float64) categoryResult {
	factors := make(map[string]float64, len(names))
	for i, name := range names {
		factors[name] = scores[i]
	}

	return categoryResult{
		category: category,
		factors:  factors,
		order:    names,
		score:    stat.Mean(scores, nil),
	}
}

func (a *Analyzer) market(in Input, weights []float64) categoryResult {
	var impact float64
	for i, p := range in.Positions {
		if p.DailyVolume == nil || *p.DailyVolume <= 0 || float64(p.UnitsToBuy)/float64(*p.DailyVolume) > 1 {
			impact += weights[i]
		}
	}

	var correlation float64
	if len(in.Positions) >= 2 {
		prices := make([]float64, len(in.Positions))
		for i, p := range in.Positions {
			prices[i] = float64(p.BuyPrice)
		}

		mean, variance := stat.MeanVariance(prices, nil)
		if mean > 0 {
			correlation = 1 - min(1, variance/(mean*mean))
		}
	}

	return newResult(entity.RiskMarket,
		[]string{factorPriceVolatility, factorMarketImpact, factorCorrelation},
		[]float64{meanVolatility(in.Positions), clamp01(impact), correlation},
	)
}

func (a *Analyzer) timing(in Input) categoryResult {
	var pressure float64
	if in.PreferredTimeframeDays != nil && *in.PreferredTimeframeDays > 0 {
		pressure = clamp01(in.EstimatedDays/float64(*in.PreferredTimeframeDays) - 1)
	}

	var long int
	for _, p := range in.Positions {
		if p.EstimatedHours >= a.cfg.LongAcquisitionHours {
			long++
		}
	}

	return newResult(entity.RiskTime,
		[]string{factorTimelinePressure, factorTradeLimit, factorMarketTiming},
		[]float64{
			pressure,
			float64(long) / float64(len(in.Positions)),
			a.cfg.TimingTiers.Lookup(in.EstimatedDays),
		},
	)
}

func (a *Analyzer) liquidity(in Input, weights []float64) categoryResult {
	days := max(1, in.EstimatedDays)

	var adequacy, spread float64
	for i, p := range in.Positions {
		itemRisk := 1.0
		if p.DailyVolume != nil && *p.DailyVolume > 0 {
			itemRisk = min(1, float64(p.UnitsToBuy)/days/float64(*p.DailyVolume))
		}

		adequacy += weights[i] * itemRisk
		spread += weights[i] * a.cfg.SpreadTiers.Lookup(float64(p.BuyPrice))
	}

	return newResult(entity.RiskLiquidity,
		[]string{factorVolumeAdequacy, factorBidAskSpread},
		[]float64{clamp01(adequacy), clamp01(spread)},
	)
}

func (a *Analyzer) concentration(in Input) categoryResult {
	var hhi float64
	for _, p := range in.Positions {
		share := p.AllocationPct / 100
		hhi += share * share
	}

	return newResult(entity.RiskConcentration,
		[]string{factorHHI},
		[]float64{clamp01(hhi)},
	)
}

// capitalUtilization is investment/capital. Spending without capital counts as 2.
func capitalUtilization(in Input) float64 {
	switch {
	case in.AvailableCapital > 0:
		return float64(in.TotalInvestment) / float64(in.AvailableCapital)
	case in.TotalInvestment > 0:
		return 2
	default:
		return 0
	}
}

func (a *Analyzer) capital(in Input) categoryResult {
	utilization := capitalUtilization(in)

	var score float64
	switch {
	case utilization > 1.0:
		score = 1.0
	case utilization > 0.9:
		score = 0.8
	case utilization > 0.7:
		score = 0.5
	default:
		score = utilization * 0.5
	}

	return newResult(entity.RiskCapital, []string{factorUtilization}, []float64{score})
}

func (a *Analyzer) execution(in Input) categoryResult {
	n := float64(len(in.Positions))

	return newResult(entity.RiskExecution,
		[]string{factorItemCount, factorSlotContention, factorExecVolatility},
		[]float64{
			a.cfg.ItemCountTiers.Lookup(n),
			a.cfg.SlotTiers.Lookup(n),
			meanVolatility(in.Positions),
		},
	)
}

func meanVolatility(positions []Position) float64 {
	vols := make([]float64, len(positions))
	for i, p := range positions {
		vols[i] = p.PriceVolatility
	}
	return stat.Mean(vols, nil)
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
