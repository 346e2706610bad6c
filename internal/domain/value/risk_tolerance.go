package value

import (
	"fmt"
	"strings"
)

type RiskTolerance string

const (
	RiskToleranceConservative RiskTolerance = "conservative"
	RiskToleranceModerate     RiskTolerance = "moderate"
	RiskToleranceAggressive   RiskTolerance = "aggressive"
)

func ParseRiskTolerance(s string) (RiskTolerance, error) {
	t := RiskTolerance(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown risk tolerance %q", s)
	}

	return t, nil
}

func (t RiskTolerance) Valid() bool {
	switch t {
	case RiskToleranceConservative, RiskToleranceModerate, RiskToleranceAggressive:
		return true
	default:
		return false
	}
}

// AllowsConservative reports whether the conservative generator runs for
// plans with this tolerance.
func (t RiskTolerance) AllowsConservative() bool {
	return t == RiskToleranceConservative || t == RiskToleranceModerate
}

func (t RiskTolerance) String() string {
	return string(t)
}
