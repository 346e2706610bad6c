package risk

import (
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/value"
)

// Analyzer scores strategies across six risk categories.
type Analyzer struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Analyzer {
	return &Analyzer{
		cfg: cfg,
		now: time.Now,
	}
}

func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// AnalyzeStrategy scores a persisted strategy of the plan.
func (a *Analyzer) AnalyzeStrategy(plan *entity.GoalPlan, s entity.Strategy) entity.RiskProfile {
	return a.Analyze(FromStrategy(plan, s))
}

// AnalyzeCandidate scores a strategy that has not been saved yet.
func (a *Analyzer) AnalyzeCandidate(plan *entity.GoalPlan, c entity.StrategyCandidate) entity.RiskProfile {
	return a.Analyze(FromCandidate(plan, c))
}

type categoryResult struct {
	category entity.RiskCategory
	factors  map[string]float64
	// order fixes factor reporting order.
	order []string
	score float64
}

func (a *Analyzer) Analyze(in Input) entity.RiskProfile {
	now := a.now()

	profile := entity.RiskProfile{
		StrategyID:         in.StrategyID,
		RiskLevel:          value.RiskLevelLow,
		CategoryScores:     make(map[entity.RiskCategory]float64, len(entity.RiskCategories)),
		RiskFactors:        []entity.RiskFactor{},
		MarketRisks:        map[string]float64{},
		TimeRisks:          map[string]float64{},
		LiquidityRisks:     map[string]float64{},
		ConcentrationRisks: map[string]float64{},
		CapitalRisks:       map[string]float64{},
		ExecutionRisks:     map[string]float64{},
		Recommendations:    []string{},
		AnalyzedAt:         now,
	}

	for _, c := range entity.RiskCategories {
		profile.CategoryScores[c] = 0
	}

	if len(in.Positions) == 0 {
		return profile
	}

	weights := allocationWeights(in.Positions)

	results := []categoryResult{
		a.market(in, weights),
		a.liquidity(in, weights),
		a.timing(in),
		a.concentration(in),
		a.capital(in),
		a.execution(in),
	}

	var overall float64

	for _, r := range results {
		profile.CategoryScores[r.category] = r.score
		overall += r.score * a.cfg.Weights[r.category]

		for _, name := range r.order {
			profile.RiskFactors = append(profile.RiskFactors, a.factor(r.category, name, r.factors[name]))
		}
	}

	profile.MarketRisks = results[0].factors
	profile.LiquidityRisks = results[1].factors
	profile.TimeRisks = results[2].factors
	profile.ConcentrationRisks = results[3].factors
	profile.CapitalRisks = results[4].factors
	profile.ExecutionRisks = results[5].factors
	profile.CapitalUtilization = capitalUtilization(in)

	profile.OverallRiskScore = min(1, overall)
	profile.RiskLevel = value.RiskLevelFromScore(profile.OverallRiskScore)
	profile.ConfidenceScore = a.confidence(in.Positions, now)
	profile.Recommendations = a.recommendations(profile)

	return profile
}

func (a *Analyzer) factor(category entity.RiskCategory, name string, score float64) entity.RiskFactor {
	f := entity.RiskFactor{
		Category:    category,
		Name:        name,
		Score:       score,
		Severity:    entity.SeverityLow,
		Description: descriptions[name],
	}

	switch {
	case score > a.cfg.HighThresholds[category]:
		f.Severity = entity.SeverityHigh
		f.Mitigation = mitigations[name]
	case score > a.cfg.MediumThreshold:
		f.Severity = entity.SeverityMedium
	}

	return f
}

func (a *Analyzer) recommendations(p entity.RiskProfile) []string {
	recs := make([]string, 0, len(p.RiskFactors)+1)

	for _, f := range p.RiskFactors {
		if f.Severity == entity.SeverityHigh && f.Mitigation != "" {
			recs = append(recs, f.Mitigation)
		}
	}

	if p.OverallRiskScore > a.cfg.HighOverall {
		recs = append(recs, recommendHighOverall)
	} else if p.OverallRiskScore > a.cfg.ModerateOverall {
		recs = append(recs, recommendModerateOverall)
	}

	return lo.Uniq(recs)
}

func (a *Analyzer) confidence(positions []Position, now time.Time) float64 {
	n := float64(len(positions))

	known := float64(lo.CountBy(positions, func(p Position) bool { return p.DailyVolume != nil })) / n

	fresh := float64(lo.CountBy(positions, func(p Position) bool {
		return !p.DataUpdatedAt.IsZero() && now.Sub(p.DataUpdatedAt) < a.cfg.FreshnessWindow
	})) / n

	complexity := max(1-n/a.cfg.ConfidenceItemScale, a.cfg.ConfidenceFloor)

	return stat.Mean([]float64{known, fresh, complexity}, nil)
}

// allocationWeights returns allocation shares summing to one. Equal shares are
// used when percentages are missing.
func allocationWeights(positions []Position) []float64 {
	weights := make([]float64, len(positions))

	total := lo.SumBy(positions, func(p Position) float64 { return p.AllocationPct })
	if total <= 0 {
		for i := range weights {
			weights[i] = 1 / float64(len(positions))
		}
		return weights
	}

	for i, p := range positions {
		weights[i] = p.AllocationPct / total
	}

	return weights
}
