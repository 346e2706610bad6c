package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/httpx/reply"
	"gp_planner/pkg/httpx/req"
	"gp_planner/pkg/logx"
	"gp_planner/pkg/rest"
)

func (s Server) postV1GoalPlan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateGoalPlanRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	goal, err := newDomainGoalRequest(request)
	if err != nil {
		return err
	}

	res, err := s.plans.CreatePlan(ctx, goal)
	if err != nil {
		return fmt.Errorf("plans.CreatePlan: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTGoalPlanResponse(res))

	return nil
}

func (s Server) getV1GoalPlan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseID(r.PathValue("id"), errcodes.InvalidGoalPlanID)
	if err != nil {
		return err
	}

	res, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return fmt.Errorf("plans.GetPlan: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTGoalPlanResponse(res))

	return nil
}

func (s Server) postV1RegenerateGoalPlan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseID(r.PathValue("id"), errcodes.InvalidGoalPlanID)
	if err != nil {
		return err
	}

	if _, err = s.plans.GetPlan(ctx, id); err != nil {
		return fmt.Errorf("plans.GetPlan: %w", err)
	}

	taskID, err := s.queue.EnqueueRegenerate(ctx, id)
	if err != nil {
		return fmt.Errorf("queue.EnqueueRegenerate: %w", err)
	}

	logger(ctx).Info("goal plan regeneration queued",
		slog.Int64(logx.FieldGoalPlanID, id),
		slog.String("task-id", taskID),
	)

	reply.JSON(ctx, w, http.StatusAccepted, rest.RegenerateResponse{PlanID: id, TaskID: taskID})

	return nil
}
