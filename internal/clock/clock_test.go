package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	c := &RealClock{}
	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", got, before, after)
	}
}

func TestFixedClock(t *testing.T) {
	fixed := time.Date(2026, 1, 23, 10, 0, 0, 0, time.UTC)
	c := NewFixedClock(fixed)

	if got := c.Now(); !got.Equal(fixed) {
		t.Errorf("Now() = %v, want %v", got, fixed)
	}

	later := fixed.Add(time.Hour)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", got, later)
	}
}
