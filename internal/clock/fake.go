package clock

import "time"

// FakeClock is a Clock pinned to a fixed instant for tests. Timestamps on
// clubs, requests and posts stay deterministic; Advance moves the instant
// when a test needs ordering by time.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance shifts the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
