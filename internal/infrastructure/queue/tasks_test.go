package queue_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"gp_planner/internal/domain"
	"gp_planner/internal/infrastructure/queue"
	"gp_planner/pkg/errcodes"
)

func TestRegenerateTask(t *testing.T) {
	rq := require.New(t)

	task, err := queue.NewRegenerateTask(42)
	rq.NoError(err)
	rq.Equal(queue.TypeRegeneratePlan, task.Type())
	rq.JSONEq(`{"plan_id":42}`, string(task.Payload()))

	p, err := queue.ParseRegeneratePayload(task)
	rq.NoError(err)
	rq.Equal(int64(42), p.PlanID)
}

func TestParseRegeneratePayload_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `plan=1`},
		{name: "missing id", payload: `{}`},
		{name: "negative id", payload: `{"plan_id":-3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queue.ParseRegeneratePayload(asynq.NewTask(queue.TypeRegeneratePlan, []byte(tt.payload)))
			require.Error(t, err)
		})
	}
}

func TestClient_EnqueueRegenerateUniqueness(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	opt := asynq.RedisClientOpt{Addr: addr}
	name := "test_" + xid.New().String()

	client := queue.NewClient(opt, name, time.Second)
	inspector := asynq.NewInspector(opt)
	t.Cleanup(func() {
		_ = inspector.DeleteQueue(name, true)
		_ = inspector.Close()
		_ = client.Close()
	})

	id, err := client.EnqueueRegenerate(ctx, 7)
	rq.NoError(err)
	rq.NotEmpty(id)

	_, err = client.EnqueueRegenerate(ctx, 7)
	rq.True(domain.HasCode(err, errcodes.PlanComputationInProgress))

	_, err = client.EnqueueRegenerate(ctx, 8)
	rq.NoError(err)

	// The first task is never processed, as after a failed run; the lock still expires.
	time.Sleep(1500 * time.Millisecond)

	_, err = client.EnqueueRegenerate(ctx, 7)
	rq.NoError(err)

	pending, err := inspector.ListPendingTasks(name)
	rq.NoError(err)
	rq.Len(pending, 3)
}
