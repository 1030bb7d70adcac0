// Package uid generates string identifiers used for correlation ids and
// audit event ids.
package uid

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

// UUID produces time-ordered version 7 UUIDs.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a v7 UUID, or a random v4 when the clock cannot be read.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Sequence yields prefix-1, prefix-2, ... and is meant for tests that assert
// on ids.
type Sequence struct {
	prefix string

	mu sync.Mutex
	n  uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.n++
	return s.prefix + "-" + strconv.FormatUint(s.n, 10)
}
