package limiter

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations (useful for testing)
type Clock interface {
	Now() time.Time
}

// SystemClock uses the system time
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock returns a fixed time until moved with Set or Advance. Safe for
// concurrent use.
type FixedClock struct {
	mu   sync.RWMutex
	time time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{time: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.time
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.time = t
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.time = c.time.Add(d)
}

// timestamp converts t to sliding window ticks, truncated.
func timestamp(t time.Time) int64 {
	return t.Unix()*ticksPerSecond + int64(t.Nanosecond())/(int64(time.Second)/ticksPerSecond)
}
