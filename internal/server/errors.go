package server

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"gp_planner/internal/domain"
	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/httpx/reply"
)

//nolint:gochecknoglobals
var codeStatus = map[failure.ErrorCode]int{
	errcodes.GoalPlanNotFound:          http.StatusNotFound,
	errcodes.StrategyNotFound:          http.StatusNotFound,
	errcodes.PlanComputationInProgress: http.StatusConflict,
	errcodes.MarketDataUnavailable:     http.StatusServiceUnavailable,
}

// replyError answers domain errors by their code and everything else through
// the failure mapping. Only the domain message reaches the client.
func replyError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		reply.Error(ctx, w, err)
		return
	}

	status, ok := codeStatus[appErr.Code]
	if !ok {
		reply.Error(ctx, w, err)
		return
	}

	reply.Coded(ctx, w, status, appErr.Code, appErr.Message)
}
