package value

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskLevelFromScore classifies an overall risk score in [0,1].
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score < 0.3:
		return RiskLevelLow
	case score < 0.6:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

func (l RiskLevel) String() string {
	return string(l)
}
