package analyzer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/value"
	"gp_planner/pkg/contextx"
	"gp_planner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var (
	ErrNonPositivePrice  = errors.New("buy price must be positive")
	ErrNonPositiveProfit = errors.New("profit per unit must be positive")
	ErrOverflow          = errors.New("profit potential overflows int64")
)

// Config holds the constants of the profitability model.
type Config struct {
	// CandidatePoolSize bounds the number of analyses handed to generators.
	CandidatePoolSize int
	// SecondsPerUnit is the processing time of a single unit.
	SecondsPerUnit float64
	// DailyActiveHours is the assumed playing time per day.
	DailyActiveHours float64
	// VolumeReference is the daily volume treated as fully liquid.
	VolumeReference float64
	// TrendRisk maps a price trend to its risk; unknown trends use DefaultTrendRisk.
	TrendRisk        map[value.PriceTrend]float64
	DefaultTrendRisk float64
}

func DefaultConfig() Config {
	return Config{
		CandidatePoolSize: 100,
		SecondsPerUnit:    1.2,
		DailyActiveHours:  4,
		VolumeReference:   1000,
		TrendRisk: map[value.PriceTrend]float64{
			value.TrendRising:   0.2,
			value.TrendStable:   0.5,
			value.TrendFalling:  0.8,
			value.TrendVolatile: 0.9,
		},
		DefaultTrendRisk: 0.5,
	}
}

// Analyzer turns market records into ranked item analyses.
type Analyzer struct {
	cfg Config
}

func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze builds an ItemAnalysis for every record that can be bought at least
// once with availableCapital. Bad records are logged and skipped.
func (a *Analyzer) Analyze(ctx context.Context, availableCapital int64, items []entity.MarketItem) []entity.ItemAnalysis {
	result := make([]entity.ItemAnalysis, 0, len(items))

	var skipped int

	for _, item := range items {
		analysis, err := a.analyzeSafe(availableCapital, item)
		if err != nil {
			skipped++

			logger(ctx).Warn("item analysis skipped",
				slog.Int64(logx.FieldItemID, item.ItemID),
				logx.Error(err),
			)

			continue
		}

		if analysis.UnitsAffordable <= 0 {
			continue
		}

		result = append(result, analysis)
	}

	slices.SortStableFunc(result, func(x, y entity.ItemAnalysis) int {
		if c := cmp.Compare(y.TotalProfitPotential, x.TotalProfitPotential); c != 0 {
			return c
		}
		return cmp.Compare(x.ItemID, y.ItemID)
	})

	if a.cfg.CandidatePoolSize > 0 && len(result) > a.cfg.CandidatePoolSize {
		result = result[:a.cfg.CandidatePoolSize]
	}

	logger(ctx).Debug("items analyzed",
		slog.Int("input", len(items)),
		slog.Int("analyzed", len(result)),
		slog.Int("skipped", skipped),
	)

	return result
}

func (a *Analyzer) analyzeSafe(capital int64, item entity.MarketItem) (analysis entity.ItemAnalysis, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return a.analyzeItem(capital, item)
}

func (a *Analyzer) analyzeItem(capital int64, item entity.MarketItem) (entity.ItemAnalysis, error) {
	if item.BuyPrice <= 0 {
		return entity.ItemAnalysis{}, ErrNonPositivePrice
	}
	if item.ProfitPerUnit <= 0 {
		return entity.ItemAnalysis{}, ErrNonPositiveProfit
	}

	units := item.TradeLimit.Cap(max(0, capital) / item.BuyPrice)

	if units > 0 && item.ProfitPerUnit > math.MaxInt64/units {
		return entity.ItemAnalysis{}, ErrOverflow
	}

	risk := a.itemRisk(item)

	return entity.ItemAnalysis{
		ItemID:               item.ItemID,
		Name:                 item.Name,
		BuyPrice:             item.BuyPrice,
		ProfitPerUnit:        item.ProfitPerUnit,
		ProfitMarginPct:      item.ProfitMarginPct,
		DailyVolume:          item.DailyVolume,
		PriceTrend:           item.PriceTrend,
		TradeLimit:           item.TradeLimit,
		LastUpdated:          item.LastUpdated,
		UnitsAffordable:      units,
		TotalProfitPotential: units * item.ProfitPerUnit,
		DaysToComplete:       a.days(a.Hours(units)),
		Risk:                 risk,
		VolumeScore:          a.volumeScore(item.DailyVolume),
	}, nil
}

// Hours is the processing time of the given number of units.
func (a *Analyzer) Hours(units int64) float64 {
	return float64(units) * a.cfg.SecondsPerUnit / 3600
}

func (a *Analyzer) DailyActiveHours() float64 {
	return a.cfg.DailyActiveHours
}

func (a *Analyzer) days(hours float64) float64 {
	if a.cfg.DailyActiveHours <= 0 {
		return 0
	}
	return hours / a.cfg.DailyActiveHours
}

func (a *Analyzer) volumeScore(volume *int64) float64 {
	if volume == nil || a.cfg.VolumeReference <= 0 {
		return 0
	}
	return clamp01(float64(*volume) / a.cfg.VolumeReference)
}

func (a *Analyzer) itemRisk(item entity.MarketItem) entity.ItemRisk {
	r := entity.ItemRisk{
		PriceVolatility: min(1, math.Abs(item.ProfitMarginPct)/50),
		VolumeRisk:      1 - a.volumeScore(item.DailyVolume),
		MarginRisk:      1 - min(1, max(0, item.ProfitMarginPct/20)),
		TrendRisk:       a.trendRisk(item.PriceTrend),
	}

	r.OverallRisk = stat.Mean([]float64{r.PriceVolatility, r.VolumeRisk, r.MarginRisk, r.TrendRisk}, nil)

	return r
}

func (a *Analyzer) trendRisk(trend value.PriceTrend) float64 {
	if risk, ok := a.cfg.TrendRisk[trend]; ok {
		return risk
	}
	return a.cfg.DefaultTrendRisk
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
