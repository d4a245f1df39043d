package limiter

import (
	"context"
	"fmt"
)

// SlidingWindow allows Limit requests per key in the trailing TTL relative to
// now. Every accepted request is logged in a sorted set scored by its
// timestamp in 10µs ticks; entries older than the window are pruned before
// counting. The set expires one TTL after its newest entry.
type SlidingWindow struct {
	store    Store
	mutex    *Mutex
	clock    Clock
	newToken func() string
}

// NewSlidingWindow builds a sliding window strategy. WithClock and
// WithTokenGenerator apply; other options are ignored.
func NewSlidingWindow(store Store, mutex *Mutex, opts ...Option) *SlidingWindow {
	return newSlidingWindow(store, mutex, buildOptions(opts))
}

func newSlidingWindow(store Store, mutex *Mutex, o options) *SlidingWindow {
	return &SlidingWindow{
		store:    store,
		mutex:    mutex,
		clock:    o.clock,
		newToken: o.newToken,
	}
}

func (s *SlidingWindow) WithinRateLimit(ctx context.Context, d Descriptor) (bool, error) {
	var accepted bool
	err := s.mutex.WithLock(ctx, d.LockKey(), func(ctx context.Context) error {
		now := timestamp(s.clock.Now())
		windowStart := now - d.ttl*ticksPerSecond

		if err := s.store.ZRemRangeByScore(ctx, d.CounterKey(), windowStart); err != nil {
			return fmt.Errorf("prune stale entries: %w", err)
		}
		current, err := s.store.ZCount(ctx, d.CounterKey())
		if err != nil {
			return fmt.Errorf("count entries: %w", err)
		}
		if current >= d.Limit() {
			return nil
		}

		if err := s.store.ZAdd(ctx, d.CounterKey(), now, s.newToken()); err != nil {
			return fmt.Errorf("record entry: %w", err)
		}
		// Every insert pushes the expiry out to a full window.
		if err := s.store.Expire(ctx, d.CounterKey(), d.TTL()); err != nil {
			return fmt.Errorf("refresh expiration window: %w", err)
		}
		accepted = true
		return nil
	})
	return accepted, err
}
