package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gp_planner/internal/domain/value"
)

const namespace = "gp_planner"

// Planner reports goal plan pipeline outcomes to prometheus.
type Planner struct {
	plans      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	generators *prometheus.CounterVec
}

func NewPlanner(reg prometheus.Registerer) *Planner {
	p := &Planner{
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goal_plans_total",
			Help:      "Finished goal plan computations by final status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "goal_plan_duration_seconds",
			Help:      "Goal plan pipeline duration.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"status"}),
		generators: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_generators_total",
			Help:      "Strategy generator runs by strategy type and outcome.",
		}, []string{"strategy_type", "outcome"}),
	}

	reg.MustRegister(p.plans, p.duration, p.generators)

	return p
}

func (p *Planner) PlanFinished(status value.PlanStatus, elapsed time.Duration) {
	p.plans.WithLabelValues(status.String()).Inc()
	p.duration.WithLabelValues(status.String()).Observe(elapsed.Seconds())
}

func (p *Planner) GeneratorFinished(strategyType value.StrategyType, outcome string) {
	p.generators.WithLabelValues(strategyType.String(), outcome).Inc()
}
