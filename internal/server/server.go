package server

import (
	"context"

	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/service/goalplan"
)

type planService interface {
	CreatePlan(ctx context.Context, req entity.GoalRequest) (goalplan.PlanResult, error)
	GetPlan(ctx context.Context, planID int64) (goalplan.PlanResult, error)
	GetStrategy(ctx context.Context, strategyID int64) (entity.Strategy, error)
	StrategyRisk(ctx context.Context, strategyID int64) (entity.RiskProfile, error)
}

type regenerationQueue interface {
	EnqueueRegenerate(ctx context.Context, planID int64) (string, error)
}

// Server is the HTTP adapter over the goal plan service.
type Server struct {
	plans planService
	queue regenerationQueue
}

func NewServer(plans planService, queue regenerationQueue) Server {
	return Server{
		plans: plans,
		queue: queue,
	}
}
