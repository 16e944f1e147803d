package engine

import "time"

// clock provides the engine's "now" with per-breath latching, plus timeout
// and throttle predicate factories (spec.md §4.1). The monotonic source is
// time.Now(), which on every supported platform reads a monotonic clock
// reading attached to the wall-clock value and is immune to wall-clock
// adjustments for the purpose of Sub/After comparisons.
type clock struct {
	latched *time.Time
}

// now returns the latched per-breath instant if a breath is in progress;
// otherwise the current monotonic time.
func (c *clock) now() time.Time {
	if c.latched != nil {
		return *c.latched
	}
	return time.Now()
}

// latch fixes now() to t for the remainder of a breath.
func (c *clock) latch(t time.Time) {
	c.latched = &t
}

// unlatch clears the per-breath instant, so now() resumes reading true
// monotonic time between runs.
func (c *clock) unlatch() {
	c.latched = nil
}

// timeout returns a one-shot, level-triggered predicate that reports true
// once real monotonic time has passed now()+d.
func (c *clock) timeout(d time.Duration) func() bool {
	deadline := c.now().Add(d)
	return func() bool {
		return time.Now().After(deadline)
	}
}

// throttle returns a predicate that reports true at most once per interval
// d, advancing its deadline by d from the moment it last reported true.
func (c *clock) throttle(d time.Duration) func() bool {
	deadline := c.now()
	return func() bool {
		if time.Now().After(deadline) {
			deadline = time.Now().Add(d)
			return true
		}
		return false
	}
}
