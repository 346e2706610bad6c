package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"gp_planner/internal/domain"
	"gp_planner/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const TypeRegeneratePlan = "goal_plan:regenerate"

type RegeneratePayload struct {
	PlanID int64 `json:"plan_id"`
}

func NewRegenerateTask(planID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(RegeneratePayload{PlanID: planID})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	// Regeneration is re-triggered explicitly, never retried.
	return asynq.NewTask(TypeRegeneratePlan, payload, asynq.MaxRetry(0)), nil
}

func ParseRegeneratePayload(task *asynq.Task) (RegeneratePayload, error) {
	var p RegeneratePayload

	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return RegeneratePayload{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if p.PlanID <= 0 {
		return RegeneratePayload{}, fmt.Errorf("invalid plan id %d", p.PlanID)
	}

	return p, nil
}

// Client enqueues plan tasks.
type Client struct {
	client    *asynq.Client
	queue     string
	uniqueTTL time.Duration
}

// NewClient builds a client whose regeneration tasks stay unique per plan until
// they are processed or uniqueTTL passes, whichever comes first.
func NewClient(opt asynq.RedisConnOpt, queue string, uniqueTTL time.Duration) *Client {
	return &Client{
		client:    asynq.NewClient(opt),
		queue:     queue,
		uniqueTTL: uniqueTTL,
	}
}

// EnqueueRegenerate schedules a regeneration. A pending task for the same plan
// is reported as a computation in progress.
func (c *Client) EnqueueRegenerate(ctx context.Context, planID int64) (string, error) {
	task, err := NewRegenerateTask(planID)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.Unique(c.uniqueTTL),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return "", domain.NewError(errcodes.PlanComputationInProgress, "regeneration already queued")
		}
		return "", domain.WrapError(err, errcodes.InternalServerError, "failed to enqueue regeneration")
	}

	return info.ID, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
