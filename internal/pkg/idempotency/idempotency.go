// Package idempotency guards an operation so that a repeated key runs it at
// most once within a time window. It is used to drop redelivered webhook
// updates.
package idempotency

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyInProgress is returned when another caller holds the key.
	ErrAlreadyInProgress = errors.New("operation already in progress")
	// ErrAlreadyCompleted is returned when the key already finished successfully.
	ErrAlreadyCompleted = errors.New("operation already completed")
	// ErrAlreadyFailed is returned when the key already finished with an error.
	ErrAlreadyFailed = errors.New("operation already failed")
	// ErrInvalidState is returned when the stored state cannot be interpreted.
	ErrInvalidState = errors.New("invalid state")
)

// State is the recorded outcome of an operation key.
type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // operation already in progress
	StateCompleted  State = "completed"   // operation already completed
	StateFailed     State = "failed"      // previously operation failed
	StateError      State = "error"       // this operation error
)

func (s State) String() string {
	return string(s)
}

func parseState(v string) (State, error) {
	switch v {
	case StateInProgress.String():
		return StateInProgress, nil
	case StateCompleted.String():
		return StateCompleted, nil
	case StateFailed.String():
		return StateFailed, nil
	default:
		return StateError, ErrInvalidState
	}
}

// Idempotency tracks operation keys.
type Idempotency interface {
	Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key string, ttl time.Duration) error
	MarkFailed(ctx context.Context, key string, ttl time.Duration) error
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

// Option configures Exec.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration sets how long an in-progress key blocks other callers.
func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

// WithStateTTL sets how long the final state of a key is remembered.
func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

func newExecOptions(opts []Option) execOptions {
	eo := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&eo)
	}
	if eo.lockDuration <= 0 {
		eo.lockDuration = defaultLockDuration
	}
	if eo.stateTTL <= 0 {
		eo.stateTTL = defaultStateTTL
	}
	return eo
}

// exec runs fn through tracker t. It is shared by every tracker so the
// state machine lives in one place.
func exec(ctx context.Context, t Idempotency, key string, fn func(context.Context) error, opts []Option) error {
	eo := newExecOptions(opts)

	state, err := t.Acquire(ctx, key, eo.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		if markErr := t.MarkFailed(ctx, key, eo.stateTTL); markErr != nil {
			return errors.Join(err, markErr)
		}
		return err
	}

	return t.MarkCompleted(ctx, key, eo.stateTTL)
}

// IsDuplicate reports whether err means the key was already seen.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrAlreadyInProgress) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadyFailed)
}
