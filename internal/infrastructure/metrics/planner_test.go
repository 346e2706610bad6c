package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"gp_planner/internal/domain/service/goalplan"
	"gp_planner/internal/domain/value"
	"gp_planner/internal/infrastructure/metrics"
)

var _ goalplan.Observer = (*metrics.Planner)(nil)

func TestPlanner(t *testing.T) {
	rq := require.New(t)

	reg := prometheus.NewRegistry()
	p := metrics.NewPlanner(reg)

	p.PlanFinished(value.PlanStatusReady, 120*time.Millisecond)
	p.PlanFinished(value.PlanStatusReady, 80*time.Millisecond)
	p.PlanFinished(value.PlanStatusFailed, time.Millisecond)

	p.GeneratorFinished(value.StrategyMaxProfit, goalplan.OutcomeCandidate)
	p.GeneratorFinished(value.StrategyPortfolio, goalplan.OutcomeEmpty)
	p.GeneratorFinished(value.StrategyPortfolio, goalplan.OutcomeEmpty)

	count, err := testutil.GatherAndCount(reg, "gp_planner_goal_plans_total")
	rq.NoError(err)
	rq.Equal(2, count)

	count, err = testutil.GatherAndCount(reg, "gp_planner_goal_plan_duration_seconds")
	rq.NoError(err)
	rq.Equal(2, count)

	count, err = testutil.GatherAndCount(reg, "gp_planner_strategy_generators_total")
	rq.NoError(err)
	rq.Equal(2, count)
}

func TestPlanner_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewPlanner(reg)

	require.Panics(t, func() { metrics.NewPlanner(reg) })
}
