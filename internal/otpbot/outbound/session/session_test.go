package session

import (
	"context"
	"sync"
	"testing"

	"github.com/shandysiswandi/otpbot/internal/otpbot/entity"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// stateOf reads a user's state through an Update that keeps it unchanged.
func stateOf(t *testing.T, s *Store, userID int64) entity.SessionState {
	t.Helper()

	var got entity.SessionState
	if err := s.Update(context.Background(), userID, func(st entity.SessionState) entity.SessionState {
		got = st
		return st
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	return got
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New(4)

	if got := stateOf(t, s, 7); got != entity.StateIdle {
		t.Fatalf("unknown user state = %s, want idle", got)
	}

	set := func(next entity.SessionState) {
		t.Helper()
		if err := s.Update(ctx, 7, func(entity.SessionState) entity.SessionState { return next }); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	set(entity.StateAwaitingEmail)
	set(entity.StateAwaitingEmail)
	if got := stateOf(t, s, 7); got != entity.StateAwaitingEmail {
		t.Fatalf("state = %s, want awaiting_email", got)
	}
	if s.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", s.Active())
	}

	set(entity.StateIdle)
	if got := stateOf(t, s, 7); got != entity.StateIdle {
		t.Fatalf("state after cancel = %s, want idle", got)
	}
	if s.Active() != 0 {
		t.Fatalf("Active() = %d, want 0", s.Active())
	}

	set(entity.StateIdle)
	if s.Active() != 0 {
		t.Fatalf("Active() after idle on missing = %d, want 0", s.Active())
	}
}

func TestStoreNegativeIDs(t *testing.T) {
	ctx := context.Background()
	s := New(3)

	if err := s.Update(ctx, -100123, func(entity.SessionState) entity.SessionState { return entity.StateAwaitingEmail }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := stateOf(t, s, -100123); got != entity.StateAwaitingEmail {
		t.Fatalf("state = %s", got)
	}
}

func TestStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(0)
	called := false
	err := s.Update(ctx, 1, func(st entity.SessionState) entity.SessionState {
		called = true
		return st
	})
	if err == nil || called {
		t.Fatalf("Update on canceled ctx: err=%v called=%v", err, called)
	}
}

func TestStoreSerializesPerUser(t *testing.T) {
	ctx := context.Background()
	s := New(8)

	const users, rounds = 16, 200
	counts := make([]int, users)

	var wg sync.WaitGroup
	for u := range users {
		for range rounds {
			wg.Go(func() {
				_ = s.Update(ctx, int64(u), func(st entity.SessionState) entity.SessionState {
					counts[u]++
					return entity.StateAwaitingEmail
				})
			})
		}
	}
	wg.Wait()

	for u, c := range counts {
		if c != rounds {
			t.Errorf("user %d: %d transitions, want %d", u, c, rounds)
		}
	}
	if s.Active() != users {
		t.Errorf("Active() = %d, want %d", s.Active(), users)
	}
}

func TestStoreActiveGauge(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	s := New(2)
	if err := s.RegisterMetrics(provider.Meter("test")); err != nil {
		t.Fatalf("RegisterMetrics: %v", err)
	}

	for _, id := range []int64{1, 2, 3} {
		if err := s.Update(ctx, id, func(entity.SessionState) entity.SessionState { return entity.StateAwaitingEmail }); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if err := s.Update(ctx, 2, func(entity.SessionState) entity.SessionState { return entity.StateIdle }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "otpbot.sessions.active" {
				continue
			}
			g, ok := m.Data.(metricdata.Gauge[int64])
			if !ok || len(g.DataPoints) != 1 {
				t.Fatalf("data = %#v", m.Data)
			}
			if got := g.DataPoints[0].Value; got != 2 {
				t.Fatalf("gauge = %d, want 2", got)
			}
			return
		}
	}
	t.Fatal("otpbot.sessions.active not collected")
}
