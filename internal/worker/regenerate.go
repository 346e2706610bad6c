package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"gp_planner/internal/domain"
	"gp_planner/internal/domain/service/goalplan"
	"gp_planner/internal/domain/value"
	"gp_planner/internal/infrastructure/queue"
	"gp_planner/pkg/application/modules"
	"gp_planner/pkg/contextx"
	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type PlanRegenerator interface {
	RegeneratePlan(ctx context.Context, planID int64) (goalplan.PlanResult, error)
}

// Regenerate handles queue.TypeRegeneratePlan tasks.
type Regenerate struct {
	plans PlanRegenerator
}

func NewRegenerate(plans PlanRegenerator) *Regenerate {
	return &Regenerate{plans: plans}
}

func (w *Regenerate) Handler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: queue.TypeRegeneratePlan,
		Handle:  w.Handle,
	}
}

func (w *Regenerate) Handle(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParseRegeneratePayload(task)
	if err != nil {
		return fmt.Errorf("queue.ParseRegeneratePayload: %w: %w", err, asynq.SkipRetry)
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldTaskType, task.Type()),
		slog.Int64(logx.FieldGoalPlanID, payload.PlanID),
	))

	res, err := w.plans.RegeneratePlan(ctx, payload.PlanID)
	switch {
	case err == nil:
	case domain.HasCode(err, errcodes.GoalPlanNotFound):
		logger(ctx).Warn("regeneration skipped: plan not found")
		return fmt.Errorf("plans.RegeneratePlan: %w: %w", err, asynq.SkipRetry)
	case domain.HasCode(err, errcodes.PlanComputationInProgress):
		logger(ctx).Info("regeneration skipped: plan is being computed")
		return nil
	case res.Plan != nil && res.Plan.Status == value.PlanStatusFailed:
		// Stored on the plan. Completing the task releases its uniqueness lock.
		logger(ctx).Warn("goal plan regeneration failed",
			slog.String("reason", res.Plan.FailureReason),
			logx.Error(err),
		)
		return nil
	default:
		return fmt.Errorf("plans.RegeneratePlan: %w", err)
	}

	logger(ctx).Info("goal plan regenerated",
		slog.String("status", res.Plan.Status.String()),
		slog.Int("strategies", len(res.Strategies)),
	)

	return nil
}
