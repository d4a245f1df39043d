package limiter

import (
	"context"
	"fmt"
)

// FixedWindow allows Limit requests per key in a window that starts with the
// first request after a reset and lasts TTL. Once the counter expires the
// count restarts at zero.
//
// A burst straddling the end of one window and the start of the next can let
// up to 2×Limit requests through in a short span. That is inherent to fixed
// windows; use SlidingWindow for an exact trailing count.
type FixedWindow struct {
	store Store
	mutex *Mutex
}

func NewFixedWindow(store Store, mutex *Mutex) *FixedWindow {
	return &FixedWindow{store: store, mutex: mutex}
}

func (s *FixedWindow) WithinRateLimit(ctx context.Context, d Descriptor) (bool, error) {
	var accepted bool
	err := s.mutex.WithLock(ctx, d.LockKey(), func(ctx context.Context) error {
		current, err := s.store.GetInt(ctx, d.CounterKey())
		if err != nil {
			return fmt.Errorf("read counter: %w", err)
		}
		if current >= d.Limit() {
			return nil
		}

		if _, err := s.store.Incr(ctx, d.CounterKey()); err != nil {
			return fmt.Errorf("bump counter: %w", err)
		}
		// Only the first request of a window arms the expiry.
		if current == 0 {
			if err := s.store.Expire(ctx, d.CounterKey(), d.TTL()); err != nil {
				return fmt.Errorf("start expiration window: %w", err)
			}
		}
		accepted = true
		return nil
	})
	return accepted, err
}
