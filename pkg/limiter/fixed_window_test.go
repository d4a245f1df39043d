package limiter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryFixedWindow(clock Clock) (*FixedWindow, *MemoryStore) {
	store := NewMemoryStore(clock)
	return NewFixedWindow(store, NewMutex(store)), store
}

func decideN(t *testing.T, s Strategy, d Descriptor, n int) []bool {
	t.Helper()
	out := make([]bool, 0, n)
	for range n {
		ok, err := s.WithinRateLimit(context.Background(), d)
		require.NoError(t, err)
		out = append(out, ok)
	}
	return out
}

func TestFixedWindow_UnderLimit(t *testing.T) {
	s, _ := newMemoryFixedWindow(nil)
	d := mustDescriptor(t, Args{Key: "foo", Limit: 2, TTL: 10})

	ok, err := s.WithinRateLimit(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFixedWindow_OverLimit(t *testing.T) {
	s, store := newMemoryFixedWindow(nil)
	d := mustDescriptor(t, Args{Key: "foo", Limit: 2, TTL: 10})

	assert.Equal(t, []bool{true, true, false}, decideN(t, s, d, 3))

	// A rejection does not touch the counter.
	n, err := store.GetInt(context.Background(), d.CounterKey())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestFixedWindow_SetsExpirationOnFirstRequest(t *testing.T) {
	s, store := newMemoryFixedWindow(nil)
	d := mustDescriptor(t, Args{Key: "foo", Limit: 2, TTL: 10})

	decideN(t, s, d, 1)

	ttl, ok := store.TTL(d.CounterKey())
	require.True(t, ok)
	assert.GreaterOrEqual(t, ttl, time.Second)
	assert.LessOrEqual(t, ttl, 10*time.Second)
}

func TestFixedWindow_WindowAnchoredToFirstRequest(t *testing.T) {
	clock := NewFixedClock(epoch)
	s, store := newMemoryFixedWindow(clock)
	d := mustDescriptor(t, Args{Key: "foo", Limit: 3, TTL: 10})

	decideN(t, s, d, 1)
	clock.Advance(4 * time.Second)
	decideN(t, s, d, 1)

	ttl, ok := store.TTL(d.CounterKey())
	require.True(t, ok)
	assert.Equal(t, 6*time.Second, ttl, "later requests must not extend the window")
}

func TestFixedWindow_ResetsAfterTTL(t *testing.T) {
	clock := NewFixedClock(epoch)
	s, _ := newMemoryFixedWindow(clock)
	d := mustDescriptor(t, Args{Key: "foo", Limit: 2, TTL: 10})

	assert.Equal(t, []bool{true, true, false}, decideN(t, s, d, 3))

	clock.Advance(9 * time.Second)
	assert.Equal(t, []bool{false}, decideN(t, s, d, 1))

	clock.Advance(time.Second)
	assert.Equal(t, []bool{true, true, false}, decideN(t, s, d, 3))
}

func TestFixedWindow_BoundaryBurst(t *testing.T) {
	clock := NewFixedClock(epoch)
	s, _ := newMemoryFixedWindow(clock)
	d := mustDescriptor(t, Args{Key: "foo", Limit: 2, TTL: 10})

	decideN(t, s, d, 1)
	clock.Advance(9900 * time.Millisecond)
	late := decideN(t, s, d, 1)
	clock.Advance(100 * time.Millisecond)
	early := decideN(t, s, d, 2)

	// Four requests inside 200ms across the window edge: 2×Limit.
	assert.Equal(t, []bool{true}, late)
	assert.Equal(t, []bool{true, true}, early)
}

func TestFixedWindow_KeysAreIndependent(t *testing.T) {
	s, _ := newMemoryFixedWindow(nil)
	foo := mustDescriptor(t, Args{Key: "foo", Limit: 1, TTL: 10})
	bar := mustDescriptor(t, Args{Key: "bar", Limit: 1, TTL: 10})

	assert.Equal(t, []bool{true, false}, decideN(t, s, foo, 2))
	assert.Equal(t, []bool{true, false}, decideN(t, s, bar, 2))
}

// Race Test
func TestFixedWindow_ConcurrentCallers(t *testing.T) {
	s, _ := newMemoryFixedWindow(nil)
	d := mustDescriptor(t, Args{Key: "foo", Limit: 50, TTL: 60})

	var (
		accepted atomic.Int64
		wg       sync.WaitGroup
	)
	wg.Add(100)
	for range 100 {
		go func() {
			defer wg.Done()
			ok, err := s.WithinRateLimit(context.Background(), d)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), accepted.Load())
}

func TestFixedWindow_StoreErrorReleasesLock(t *testing.T) {
	down := errors.New("connection reset")
	inner := NewMemoryStore(nil)
	store := newFaultyStore(inner, map[string]error{"GetInt": down})
	s := NewFixedWindow(store, NewMutex(store))
	d := mustDescriptor(t, Args{Key: "foo", Limit: 1, TTL: 10})

	ok, err := s.WithinRateLimit(context.Background(), d)
	assert.False(t, ok)
	assert.ErrorIs(t, err, down)

	_, held := inner.TTL(d.LockKey())
	assert.False(t, held)
}

func TestFixedWindow_OnRedis(t *testing.T) {
	store, mr, _ := newMiniredisStore(t)
	s := NewFixedWindow(store, NewMutex(store))
	d := mustDescriptor(t, Args{Key: "foo", Limit: 2, TTL: 10})

	assert.Equal(t, []bool{true, true, false}, decideN(t, s, d, 3))

	ttl := mr.TTL(d.CounterKey())
	assert.GreaterOrEqual(t, ttl, time.Second)
	assert.LessOrEqual(t, ttl, 10*time.Second)
	assert.False(t, mr.Exists(d.LockKey()))

	mr.FastForward(10 * time.Second)
	assert.Equal(t, []bool{true}, decideN(t, s, d, 1))
}

func BenchmarkFixedWindow_WithinRateLimit(b *testing.B) {
	store := NewMemoryStore(nil)
	s := NewFixedWindow(store, NewMutex(store))
	d, _ := NewDescriptor(Args{Key: "foo", Limit: 1 << 40, TTL: 60})
	ctx := context.Background()

	for b.Loop() {
		_, _ = s.WithinRateLimit(ctx, d)
	}
}
