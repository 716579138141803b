package auth

import (
	"fmt"
	"sync"
	"time"
)

const (
	// FailureThreshold is the number of consecutive failed logins after
	// which a cooldown is imposed.
	FailureThreshold = 5
	// CooldownWindow is how long attempts are rejected client-side once the
	// threshold is crossed.
	CooldownWindow = 30 * time.Second
)

// RateLimitedError rejects a login attempt during an active cooldown, before
// any request is sent.
type RateLimitedError struct {
	Remaining time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many failed attempts, try again in %s", e.Remaining.Round(time.Second))
}

// AttemptCounter tracks consecutive login failures and the cooldown they
// impose. It is per-process state; the backend applies its own limits
// independently.
type AttemptCounter struct {
	mu          sync.Mutex
	failures    int
	lockedUntil time.Time
	now         func() time.Time
}

// NewAttemptCounter creates a counter using the wall clock.
func NewAttemptCounter() *AttemptCounter {
	return &AttemptCounter{now: time.Now}
}

// NewAttemptCounterWithNow creates a counter with an injected clock.
func NewAttemptCounterWithNow(now func() time.Time) *AttemptCounter {
	return &AttemptCounter{now: now}
}

// Remaining returns the time left in the active cooldown, or zero. Once the
// cooldown has elapsed attempts are permitted again even though the failure
// count is not reset.
func (c *AttemptCounter) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked()
}

func (c *AttemptCounter) remainingLocked() time.Duration {
	if c.failures < FailureThreshold {
		return 0
	}
	if rem := c.lockedUntil.Sub(c.now()); rem > 0 {
		return rem
	}
	return 0
}

// RecordFailure increments the failure count. When the post-increment count
// is at or past the threshold a fresh cooldown window starts; the return
// value reports whether this failure triggered one.
func (c *AttemptCounter) RecordFailure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
	if c.failures >= FailureThreshold {
		c.lockedUntil = c.now().Add(CooldownWindow)
		return true
	}
	return false
}

// Reset clears the counter after a successful login.
func (c *AttemptCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = 0
	c.lockedUntil = time.Time{}
}

// Failures returns the current consecutive failure count.
func (c *AttemptCounter) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}
