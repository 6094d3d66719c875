package timeutils

import "time"

// Clock supplies the current instant. Production code uses SystemClock;
// tests pin time with FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

// ManualClock can be moved forward by tests exercising TTL expiry.
type ManualClock struct {
	At time.Time
}

// Now returns the current manual instant.
func (c *ManualClock) Now() time.Time {
	return c.At
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}

// OrSystem returns c, or SystemClock when c is nil.
func OrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}

// UnixToTime converts epoch seconds to a UTC time.Time.
func UnixToTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
