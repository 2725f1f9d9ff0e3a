// Package clock abstracts the wall clock so event and session timestamps
// can be pinned in tests.
package clock

import "time"

// Clock is the source of ledger event and game session timestamps
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
