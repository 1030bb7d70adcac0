package clock

import (
	"testing"
	"time"
)

func TestFrozenClocker(t *testing.T) {
	c := NewFrozenUnix(1700000010)
	if got := c.Now().Unix(); got != 1700000010 {
		t.Fatalf("Now() = %d, want 1700000010", got)
	}

	c.Set(time.Unix(59, 0))
	if got := c.Now().Unix(); got != 59 {
		t.Fatalf("Now() after Set = %d, want 59", got)
	}
}

func TestTimeClocker(t *testing.T) {
	before := time.Now()
	got := New().Now()
	if got.Before(before) {
		t.Fatalf("Now() = %v is before %v", got, before)
	}
}
