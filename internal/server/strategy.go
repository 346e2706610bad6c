package server

import (
	"fmt"
	"net/http"

	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/httpx/reply"
)

func (s Server) getV1Strategy(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseID(r.PathValue("id"), errcodes.InvalidStrategyID)
	if err != nil {
		return err
	}

	st, err := s.plans.GetStrategy(ctx, id)
	if err != nil {
		return fmt.Errorf("plans.GetStrategy: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTStrategy(st))

	return nil
}

func (s Server) getV1StrategyRisk(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseID(r.PathValue("id"), errcodes.InvalidStrategyID)
	if err != nil {
		return err
	}

	profile, err := s.plans.StrategyRisk(ctx, id)
	if err != nil {
		return fmt.Errorf("plans.StrategyRisk: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRiskProfile(profile))

	return nil
}
