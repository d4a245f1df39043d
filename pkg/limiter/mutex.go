package limiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Mutex is a distributed exclusive lock held in a Store.
//
// Acquisition spins on an atomic set-if-absent with a fixed pause between
// attempts; there is no backoff and no FIFO ordering among waiters. The lock
// expires on its own after the lock TTL, which bounds how long a crashed
// holder can block others.
type Mutex struct {
	store    Store
	ttl      time.Duration
	spin     time.Duration
	logger   *slog.Logger
	recorder MetricsRecorder
}

// NewMutex returns a Mutex over store. WithLockTTL, WithSpinInterval,
// WithLogger and WithRecorder apply; other options are ignored.
func NewMutex(store Store, opts ...Option) *Mutex {
	o := buildOptions(opts)
	return newMutex(store, o)
}

func newMutex(store Store, o options) *Mutex {
	return &Mutex{
		store:    store,
		ttl:      o.lockTTL,
		spin:     o.spinInterval,
		logger:   o.logger,
		recorder: o.recorder,
	}
}

// WithLock runs fn while holding the lock at lockKey and returns its error.
// The lock is released on every exit path of fn, panics included. Waiting
// for the lock stops early only if ctx is done.
func (m *Mutex) WithLock(ctx context.Context, lockKey string, fn func(ctx context.Context) error) (err error) {
	if err := m.acquire(ctx, lockKey); err != nil {
		return err
	}
	defer func() {
		// Release even when the caller's context is already cancelled.
		rerr := m.store.Expire(context.WithoutCancel(ctx), lockKey, 0)
		if rerr != nil {
			m.logger.Warn("could not release lock", "lock_key", lockKey, "error", rerr)
			if err == nil {
				err = fmt.Errorf("release lock %s: %w", lockKey, rerr)
			}
			return
		}
		m.logger.Debug("lock released", "lock_key", lockKey)
	}()

	return fn(ctx)
}

func (m *Mutex) acquire(ctx context.Context, lockKey string) error {
	start := time.Now()
	timer := time.NewTimer(m.spin)
	timer.Stop()
	defer timer.Stop()

	for attempts := 1; ; attempts++ {
		ok, err := m.store.SetNX(ctx, lockKey, m.ttl)
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", lockKey, err)
		}
		if ok {
			waited := time.Since(start)
			m.recorder.Observe(MetricLockWait, waited.Seconds(), nil)
			m.logger.Debug("lock acquired", "lock_key", lockKey, "attempts", attempts, "waited", waited)
			return nil
		}

		timer.Reset(m.spin)
		select {
		case <-ctx.Done():
			return fmt.Errorf("acquire lock %s: %w", lockKey, ctx.Err())
		case <-timer.C:
		}
	}
}
