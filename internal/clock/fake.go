package clock

import "time"

// FakeClock is a manually advanced Clock for tests. Sync reports and
// revenue snapshots are stamped from it so assertions on months and
// checkpoints stay deterministic.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock at t, normalized to UTC to match what the
// services store.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
