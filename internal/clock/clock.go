// Package clock provides an abstraction for time to enable deterministic testing.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock implements Clock with a fixed time for testing.
type FixedClock struct {
	current time.Time
}

// NewFixedClock creates a FixedClock pinned to the given time.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

// Now returns the pinned time.
func (c *FixedClock) Now() time.Time {
	return c.current
}

// Set updates the pinned time.
func (c *FixedClock) Set(t time.Time) {
	c.current = t
}
