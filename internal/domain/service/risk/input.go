package risk

import (
	"time"

	"gp_planner/internal/domain/entity"
)

// Position is one frozen allocation as seen by the risk model.
type Position struct {
	ItemID          int64
	UnitsToBuy      int64
	BuyPrice        int64
	TotalCost       int64
	EstimatedHours  float64
	PriceVolatility float64
	DailyVolume     *int64
	DataUpdatedAt   time.Time
	// AllocationPct is the share of the strategy investment in percent.
	AllocationPct float64
}

// Input is a strategy together with the constraints of its goal plan.
type Input struct {
	StrategyID             int64
	AvailableCapital       int64
	PreferredTimeframeDays *int
	TotalInvestment        int64
	EstimatedDays          float64
	Positions              []Position
}

// FromStrategy builds an input from a persisted strategy.
func FromStrategy(plan *entity.GoalPlan, s entity.Strategy) Input {
	in := Input{
		StrategyID:             s.ID,
		AvailableCapital:       plan.CurrentGP,
		PreferredTimeframeDays: plan.PreferredTimeframeDays,
		TotalInvestment:        s.TotalInvestment,
		EstimatedDays:          s.EstimatedDays,
		Positions:              make([]Position, 0, len(s.Items)),
	}

	for _, it := range s.Items {
		in.Positions = append(in.Positions, Position{
			ItemID:          it.ItemID,
			UnitsToBuy:      it.UnitsToBuy,
			BuyPrice:        it.BuyPrice,
			TotalCost:       it.TotalCost,
			EstimatedHours:  it.EstimatedHours,
			PriceVolatility: it.PriceVolatility,
			DailyVolume:     it.DailyVolume,
			DataUpdatedAt:   it.DataUpdatedAt,
			AllocationPct:   it.AllocationPercentage,
		})
	}

	return in
}

// FromCandidate builds an input from an in-memory candidate.
func FromCandidate(plan *entity.GoalPlan, c entity.StrategyCandidate) Input {
	return FromStrategy(plan, entity.NewStrategy(plan.ID, c))
}
