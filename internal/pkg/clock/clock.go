package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// FrozenClocker always reports the same instant until it is moved.
type FrozenClocker struct {
	at time.Time
}

// NewFrozen returns a clock stopped at the given time.
func NewFrozen(at time.Time) *FrozenClocker {
	return &FrozenClocker{at: at}
}

// NewFrozenUnix returns a clock stopped at the given unix second.
func NewFrozenUnix(sec int64) *FrozenClocker {
	return NewFrozen(time.Unix(sec, 0).UTC())
}

// Now returns the frozen instant.
func (c *FrozenClocker) Now() time.Time {
	return c.at
}

// Set moves the frozen instant. Not safe for concurrent use.
func (c *FrozenClocker) Set(at time.Time) {
	c.at = at
}
