package value

type StrategyType string

const (
	StrategyMaxProfit    StrategyType = "max_profit"
	StrategyTimeOptimal  StrategyType = "time_optimal"
	StrategyBalanced     StrategyType = "balanced"
	StrategyConservative StrategyType = "conservative"
	StrategyPortfolio    StrategyType = "portfolio"
)

// DisplayName is the human-readable strategy name stored with the strategy.
func (t StrategyType) DisplayName() string {
	switch t {
	case StrategyMaxProfit:
		return "Maximum Profit"
	case StrategyTimeOptimal:
		return "Time Optimal"
	case StrategyBalanced:
		return "Balanced"
	case StrategyConservative:
		return "Conservative"
	case StrategyPortfolio:
		return "Diversified Portfolio"
	default:
		return string(t)
	}
}

func (t StrategyType) String() string {
	return string(t)
}
