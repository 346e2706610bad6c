package risk

import (
	"time"

	"gp_planner/internal/domain/entity"
)

// Tier maps values up to Limit to Risk.
type Tier struct {
	Limit float64
	Risk  float64
}

// Tiers is an ascending step function; values past the last tier get Above.
// Limits are exclusive unless Inclusive is set.
type Tiers struct {
	Steps     []Tier
	Above     float64
	Inclusive bool
}

func (t Tiers) Lookup(v float64) float64 {
	for _, s := range t.Steps {
		if v < s.Limit || (t.Inclusive && v == s.Limit) {
			return s.Risk
		}
	}
	return t.Above
}

// Config is the immutable weighting scheme of the risk model.
type Config struct {
	Weights map[entity.RiskCategory]float64
	// HighThresholds marks a factor as high severity when its score is above it.
	HighThresholds  map[entity.RiskCategory]float64
	MediumThreshold float64

	// SpreadTiers is keyed by buy price.
	SpreadTiers Tiers
	// TimingTiers is keyed by estimated days.
	TimingTiers Tiers
	// ItemCountTiers and SlotTiers are keyed by position count.
	ItemCountTiers Tiers
	SlotTiers      Tiers

	// LongAcquisitionHours marks an item as trade-limit constrained.
	LongAcquisitionHours float64
	FreshnessWindow      time.Duration
	ConfidenceItemScale  float64
	ConfidenceFloor      float64

	HighOverall     float64
	ModerateOverall float64
}

func DefaultConfig() Config {
	return Config{
		Weights: map[entity.RiskCategory]float64{
			entity.RiskMarket:        0.25,
			entity.RiskLiquidity:     0.20,
			entity.RiskTime:          0.20,
			entity.RiskConcentration: 0.15,
			entity.RiskCapital:       0.10,
			entity.RiskExecution:     0.10,
		},
		HighThresholds: map[entity.RiskCategory]float64{
			entity.RiskMarket:        0.7,
			entity.RiskLiquidity:     0.7,
			entity.RiskTime:          0.7,
			entity.RiskConcentration: 0.7,
			entity.RiskCapital:       0.8,
			entity.RiskExecution:     0.7,
		},
		MediumThreshold: 0.4,
		SpreadTiers: Tiers{
			Steps: []Tier{{Limit: 1_000, Risk: 0.1}, {Limit: 100_000, Risk: 0.3}, {Limit: 10_000_000, Risk: 0.5}},
			Above: 0.8,
		},
		TimingTiers: Tiers{
			Steps:     []Tier{{Limit: 7, Risk: 0.1}, {Limit: 30, Risk: 0.4}},
			Above:     0.8,
			Inclusive: true,
		},
		ItemCountTiers: Tiers{
			Steps:     []Tier{{Limit: 2, Risk: 0.1}, {Limit: 5, Risk: 0.3}, {Limit: 10, Risk: 0.6}},
			Above:     0.9,
			Inclusive: true,
		},
		// Eight concurrent trade slots.
		SlotTiers: Tiers{
			Steps:     []Tier{{Limit: 4, Risk: 0.2}, {Limit: 8, Risk: 0.5}},
			Above:     1.0,
			Inclusive: true,
		},
		LongAcquisitionHours: 24,
		FreshnessWindow:      2 * time.Hour,
		ConfidenceItemScale:  10,
		ConfidenceFloor:      0.3,
		HighOverall:          0.7,
		ModerateOverall:      0.4,
	}
}
