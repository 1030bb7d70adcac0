package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()

	var (
		ctr *tcredis.RedisContainer
		err error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = errors.New("docker unavailable")
			}
		}()
		ctr, err = tcredis.Run(ctx, "redis:7-alpine")
	}()
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate redis: %v", err)
		}
	})

	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	opts, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestStateTrackerExec(t *testing.T) {
	client := newRedisClient(t)
	tr := New(client)
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	if err := tr.Exec(ctx, "update:42", fn, WithStateTTL(time.Minute)); err != nil {
		t.Fatalf("first Exec: %v", err)
	}
	if err := tr.Exec(ctx, "update:42", fn); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second Exec = %v, want ErrAlreadyCompleted", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	if err := client.Set(ctx, "idempotency:bad", "???", time.Minute).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := tr.Acquire(ctx, "bad", time.Minute); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Acquire(bad) = %v, want ErrInvalidState", err)
	}
}
