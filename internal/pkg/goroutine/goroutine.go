// Package goroutine runs background work on a bounded pool with panic
// recovery, so request handlers can hand off side effects without blocking.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/otpbot/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by the CPU count when NewManager
// receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrClosed is returned by Go once Wait has been called.
var ErrClosed = errors.New("goroutine: manager is closed")

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// Go blocks until a slot is free or the scheduling context is done. Errors
// returned by tasks are collected and reported by Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f on the pool. The task receives ctx unchanged, so callers
// that outlive a request should detach it with context.WithoutCancel.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) error {
	if g == nil {
		return ErrClosed
	}

	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, skipping task")
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}:
	case <-ctx.Done():
		slog.WarnContext(ctx, "goroutine slot not acquired", "because", ctx.Err())
		return ctx.Err()
	}

	g.wg.Go(func() {
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", paths)
				} else {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", string(stack))
				}
			}
		}()

		if err := f(ctx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})

	return nil
}

// Wait stops accepting tasks, blocks until running ones finish and returns
// the collected errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}

// Close implements io.Closer. It drains the pool like Wait and is registered
// as the first application closer.
func (g *Manager) Close() error {
	return g.Wait()
}
