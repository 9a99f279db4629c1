// Package testutil holds shared helpers for tests.
package testutil

import (
	"sync"
	"time"
)

// Clock is a thread-safe deterministic wall clock for tests.
//
// Each call to Now advances the clock by a fixed step, so consecutive
// document epochs always carry distinct, reproducible timestamps and
// serialized output stays byte-stable across runs.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock creates a clock starting at the given instant, advancing one
// second per Now call.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start, step: time.Second}
}

// Now advances the clock and returns the new instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// Current returns the clock's instant without advancing it.
func (c *Clock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
