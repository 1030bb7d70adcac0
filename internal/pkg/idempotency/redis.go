package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateTracker is an Idempotency backed by Redis SETNX, shared across
// processes.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New returns a Redis tracker using keys prefixed with "idempotency:".
func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{
		client: client,
		prefix: "idempotency:",
	}
}

// Acquire tries to start an operation.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
	if err != nil {
		return StateError, err
	}
	if acquired {
		return StateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		acquired, err = s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
		if err != nil {
			return StateError, err
		}
		if acquired {
			return StateNone, nil
		}
		return StateError, ErrInvalidState
	}
	if err != nil {
		return StateError, err
	}

	return parseState(result)
}

// MarkCompleted records a successful run for ttl.
func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

// MarkFailed records a failed run for ttl.
func (s *StateTracker) MarkFailed(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateFailed.String(), ttl).Err()
}

// Exec runs fn once per key.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	return exec(ctx, s, key, fn, opts)
}
