package counter

import (
	"math"
	"sync"
	"time"
)

// Counter is a manual stitch tally for one session. While a start time is
// set it derives a live stitches-per-minute rate from the elapsed time.
// Methods are safe for concurrent use since a session may issue overlapping
// requests.
type Counter struct {
	mu        sync.Mutex
	now       func() time.Time
	count     int
	target    int
	active    bool
	startedAt time.Time
	rate      float64
}

// State is a point-in-time snapshot of a counter.
type State struct {
	CurrentCount      int     `json:"current_count"`
	TargetCount       int     `json:"target_count"`
	IsActive          bool    `json:"is_active"`
	StitchesPerMinute float64 `json:"stitches_per_minute"`
}

// New returns a counter driven by the wall clock.
func New() *Counter {
	return NewWithClock(time.Now)
}

// NewWithClock returns a counter reading time from now, for tests.
func NewWithClock(now func() time.Time) *Counter {
	return &Counter{now: now}
}

// Start activates the counter and restarts the tally, timer and rate.
func (c *Counter) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	c.count = 0
	c.rate = 0
	c.startedAt = c.now()
}

// Stop deactivates the counter. The tally and start time are kept so a
// session can pause and resume.
func (c *Counter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}

// Reset clears the tally, start time and derived rate. Activity and target
// are left untouched.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.startedAt = time.Time{}
	c.rate = 0
}

// Increment adds n stitches (n must be positive) and, while a start time is
// set, recomputes the derived rate from the elapsed minutes.
func (c *Counter) Increment(n int) {
	if n <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.count += n

	if c.startedAt.IsZero() {
		return
	}
	elapsed := c.now().Sub(c.startedAt).Minutes()
	if elapsed <= 0 {
		c.rate = 0
		return
	}
	c.rate = math.Round(float64(c.count)/elapsed*10) / 10
}

// Decrement removes one stitch, flooring at zero. Unlike Increment it leaves
// the derived rate untouched.
func (c *Counter) Decrement() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count > 0 {
		c.count--
	}
}

// SetTarget sets the stitch goal; zero means no goal. Negative values are
// ignored.
func (c *Counter) SetTarget(n int) {
	if n < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = n
}

// Rate returns the derived stitches-per-minute rate, rounded to one decimal.
func (c *Counter) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Snapshot returns the current counter state.
func (c *Counter) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		CurrentCount:      c.count,
		TargetCount:       c.target,
		IsActive:          c.active,
		StitchesPerMinute: c.rate,
	}
}
