package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/otpbot/internal/pkg/clock"
)

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryTracker is a process-local Idempotency used when no Redis is
// configured. Expired keys are ignored on lookup and swept once the earliest
// expiry is due.
type MemoryTracker struct {
	clock clock.Clocker

	mu        sync.Mutex
	entries   map[string]memoryEntry
	nextSweep time.Time
}

// NewMemory returns an in-memory tracker. A nil clock uses wall time.
func NewMemory(clk clock.Clocker) *MemoryTracker {
	if clk == nil {
		clk = clock.New()
	}

	return &MemoryTracker{clock: clk, entries: make(map[string]memoryEntry)}
}

// Acquire tries to start an operation.
func (m *MemoryTracker) Acquire(_ context.Context, key string, lockDuration time.Duration) (State, error) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.nextSweep.IsZero() && !now.Before(m.nextSweep) {
		m.purge(now)
	}

	if e, ok := m.entries[key]; ok && now.Before(e.expiresAt) {
		return e.state, nil
	}

	m.put(key, memoryEntry{state: StateInProgress, expiresAt: now.Add(lockDuration)})
	return StateNone, nil
}

// MarkCompleted records a successful run for ttl.
func (m *MemoryTracker) MarkCompleted(_ context.Context, key string, ttl time.Duration) error {
	m.set(key, StateCompleted, ttl)
	return nil
}

// MarkFailed records a failed run for ttl.
func (m *MemoryTracker) MarkFailed(_ context.Context, key string, ttl time.Duration) error {
	m.set(key, StateFailed, ttl)
	return nil
}

// Exec runs fn once per key.
func (m *MemoryTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	return exec(ctx, m, key, fn, opts)
}

// Len returns the number of live keys.
func (m *MemoryTracker) Len() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.purge(now)
	return len(m.entries)
}

func (m *MemoryTracker) set(key string, state State, ttl time.Duration) {
	expiresAt := m.clock.Now().Add(ttl)

	m.mu.Lock()
	m.put(key, memoryEntry{state: state, expiresAt: expiresAt})
	m.mu.Unlock()
}

// put stores e and pulls the next sweep forward when e expires first.
// m.mu must be held.
func (m *MemoryTracker) put(key string, e memoryEntry) {
	m.entries[key] = e
	if m.nextSweep.IsZero() || e.expiresAt.Before(m.nextSweep) {
		m.nextSweep = e.expiresAt
	}
}

// purge drops expired keys and schedules the next sweep at the earliest
// remaining expiry. m.mu must be held.
func (m *MemoryTracker) purge(now time.Time) {
	m.nextSweep = time.Time{}
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			continue
		}
		if m.nextSweep.IsZero() || e.expiresAt.Before(m.nextSweep) {
			m.nextSweep = e.expiresAt
		}
	}
}
