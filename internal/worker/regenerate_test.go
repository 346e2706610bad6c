package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"gp_planner/internal/domain"
	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/service/goalplan"
	"gp_planner/internal/domain/value"
	"gp_planner/internal/infrastructure/queue"
	"gp_planner/internal/worker"
	"gp_planner/pkg/errcodes"
)

type fakeRegenerator struct {
	calls  []int64
	err    error
	failed bool
}

func (f *fakeRegenerator) RegeneratePlan(_ context.Context, planID int64) (goalplan.PlanResult, error) {
	f.calls = append(f.calls, planID)
	if f.err != nil {
		if f.failed {
			plan := &entity.GoalPlan{ID: planID}
			plan.MarkFailed(goalplan.ReasonMarketData)
			return goalplan.PlanResult{Plan: plan}, f.err
		}
		return goalplan.PlanResult{}, f.err
	}

	return goalplan.PlanResult{Plan: &entity.GoalPlan{ID: planID, Status: value.PlanStatusReady}}, nil
}

func TestRegenerate_Handle(t *testing.T) {
	tests := []struct {
		name      string
		payload   []byte
		err       error
		failed    bool
		wantErr   bool
		skipRetry bool
		wantCalls int
	}{
		{name: "ok", payload: []byte(`{"plan_id":7}`), wantCalls: 1},
		{name: "bad payload", payload: []byte(`{`), wantErr: true, skipRetry: true},
		{
			name:      "plan not found",
			payload:   []byte(`{"plan_id":7}`),
			err:       domain.NewError(errcodes.GoalPlanNotFound, "goal plan not found"),
			wantErr:   true,
			skipRetry: true,
			wantCalls: 1,
		},
		{
			name:      "computation in progress",
			payload:   []byte(`{"plan_id":7}`),
			err:       domain.NewError(errcodes.PlanComputationInProgress, "goal plan is being computed"),
			wantCalls: 1,
		},
		{
			name:      "failure stored on plan",
			payload:   []byte(`{"plan_id":7}`),
			err:       domain.NewError(errcodes.MarketDataUnavailable, "failed to load market data"),
			failed:    true,
			wantCalls: 1,
		},
		{
			name:      "service error",
			payload:   []byte(`{"plan_id":7}`),
			err:       errors.New("boom"),
			wantErr:   true,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)
			svc := &fakeRegenerator{err: tt.err, failed: tt.failed}

			h := worker.NewRegenerate(svc).Handler()
			rq.Equal(queue.TypeRegeneratePlan, h.Pattern)

			err := h.Handle(context.Background(), asynq.NewTask(queue.TypeRegeneratePlan, tt.payload))
			rq.Len(svc.calls, tt.wantCalls)

			if !tt.wantErr {
				rq.NoError(err)
				return
			}

			rq.Error(err)
			rq.Equal(tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}
