// Package session keeps each user's conversation state in memory.
package session

import (
	"context"
	"sync"

	"github.com/shandysiswandi/otpbot/internal/otpbot/entity"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
)

// DefaultShards is used when New receives a non-positive shard count.
const DefaultShards = 32

type shard struct {
	mu     sync.Mutex
	states map[int64]entity.SessionState
}

// Store is a sharded in-memory session store. Transitions for one user run
// under that user's shard lock, so they are serialized while other users
// proceed in parallel.
type Store struct {
	shards []*shard
	active *atomic.Int64
}

// New returns a Store with n shards.
func New(n int) *Store {
	if n < 1 {
		n = DefaultShards
	}

	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{states: make(map[int64]entity.SessionState)}
	}

	return &Store{shards: shards, active: atomic.NewInt64(0)}
}

func (s *Store) shardFor(userID int64) *shard {
	return s.shards[uint64(userID)%uint64(len(s.shards))]
}

// Update applies fn to the user's current state and stores the result.
// Returning StateIdle removes the session.
func (s *Store) Update(ctx context.Context, userID int64, fn func(entity.SessionState) entity.SessionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	current, existed := sh.states[userID]
	next := fn(current)

	switch {
	case next == entity.StateIdle && existed:
		delete(sh.states, userID)
		s.active.Dec()
	case next != entity.StateIdle:
		sh.states[userID] = next
		if !existed {
			s.active.Inc()
		}
	}

	return nil
}

// Active returns the number of open sessions.
func (s *Store) Active() int64 {
	return s.active.Load()
}

// RegisterMetrics reports Active as the otpbot.sessions.active gauge.
func (s *Store) RegisterMetrics(meter metric.Meter) error {
	_, err := meter.Int64ObservableGauge(
		"otpbot.sessions.active",
		metric.WithDescription("Number of users currently asked for an email"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(s.Active())
			return nil
		}),
	)
	return err
}
