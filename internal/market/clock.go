package market

import (
	"sync"
	"time"
)

// SimClock is the simulated game clock. The engines never read wall time;
// the server session owns one SimClock and passes its value into every
// pricing call, so a whole scenario replays deterministically.
type SimClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewSimClock creates a clock starting at the given simulated instant.
func NewSimClock(start time.Time) *SimClock {
	return &SimClock{now: start}
}

// Now returns the current simulated time.
func (c *SimClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set moves the clock to an absolute simulated instant. The clock may move
// backwards; the engines are pure over the supplied timestamp.
func (c *SimClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *SimClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// AdvanceDays moves the clock forward by whole calendar days.
func (c *SimClock) AdvanceDays(days int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, days)
	return c.now
}
