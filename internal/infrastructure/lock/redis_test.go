package lock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"gp_planner/internal/infrastructure/lock"
)

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr}) //nolint:exhaustruct
	t.Cleanup(func() { _ = client.Close() })

	key := "test:" + xid.New().String()

	first := lock.NewRedisLocker(client, time.Minute)
	second := lock.NewRedisLocker(client, time.Minute)

	ok, err := first.TryLock(ctx, key)
	rq.NoError(err)
	rq.True(ok)

	ok, err = second.TryLock(ctx, key)
	rq.NoError(err)
	rq.False(ok)

	// A locker that does not hold the key must not release it.
	rq.NoError(second.Unlock(ctx, key))

	ok, err = second.TryLock(ctx, key)
	rq.NoError(err)
	rq.False(ok)

	rq.NoError(first.Unlock(ctx, key))

	ok, err = second.TryLock(ctx, key)
	rq.NoError(err)
	rq.True(ok)
	rq.NoError(second.Unlock(ctx, key))
}
